package model

// MedicationStatus enumerates the FHIR medication statement statuses.
type MedicationStatus string

const (
	MedicationStatusActive         MedicationStatus = "active"
	MedicationStatusCompleted      MedicationStatus = "completed"
	MedicationStatusEnteredInError MedicationStatus = "entered-in-error"
	MedicationStatusIntended       MedicationStatus = "intended"
	MedicationStatusStopped        MedicationStatus = "stopped"
	MedicationStatusOnHold         MedicationStatus = "on-hold"
	MedicationStatusUnknown        MedicationStatus = "unknown"
)

// MedicationStatement is the simplified medication record.
type MedicationStatement struct {
	ID            string `json:"id"`
	Medication    string `json:"medication"`
	Status        string `json:"status"`
	PatientID     string `json:"patientId"`
	EffectiveDate string `json:"effectiveDate"`
	Dosage        string `json:"dosage"`
}

type CreateMedicationRequest struct {
	PatientID      string `json:"patientId" binding:"required"`
	Medication     string `json:"medication" binding:"required"`
	MedicationCode string `json:"medicationCode" binding:"required,snomed"`
	Status         string `json:"status" binding:"required,oneof=active completed entered-in-error intended stopped on-hold unknown"`
	// The dashboard sends the effective timestamp under either name.
	EffectiveDate     string  `json:"effectiveDate" binding:"omitempty,rfc3339strict"`
	EffectiveDateTime string  `json:"effectiveDateTime" binding:"omitempty,rfc3339strict"`
	Dosage            string  `json:"dosage"`
	DoseValue         float64 `json:"doseValue"`
	DoseUnit          string  `json:"doseUnit"`
}

// Effective returns whichever effective timestamp field the client sent.
func (r CreateMedicationRequest) Effective() string {
	if r.EffectiveDate != "" {
		return r.EffectiveDate
	}
	return r.EffectiveDateTime
}

type UpdateMedicationRequest struct {
	ID string `json:"id" binding:"required"`
	CreateMedicationRequest
}
