package model

// AllergyStatus enumerates the allergy clinical status codes.
type AllergyStatus string

const (
	AllergyStatusActive   AllergyStatus = "active"
	AllergyStatusInactive AllergyStatus = "inactive"
	AllergyStatusResolved AllergyStatus = "resolved"
)

// AllergyIntolerance is the simplified allergy record.
type AllergyIntolerance struct {
	ID           string `json:"id"`
	Allergen     string `json:"allergen"`
	Status       string `json:"status"`
	PatientID    string `json:"patientId"`
	RecordedDate string `json:"recordedDate"`
}

type CreateAllergyRequest struct {
	PatientID    string `json:"patientId" binding:"required"`
	Allergen     string `json:"allergen" binding:"required"`
	AllergenCode string `json:"allergenCode" binding:"omitempty,snomed"`
	Status       string `json:"status" binding:"omitempty,oneof=active inactive resolved"`
	RecordedDate string `json:"recordedDate" binding:"omitempty,datetime=2006-01-02"`
}

type UpdateAllergyRequest struct {
	ID string `json:"id" binding:"required"`
	CreateAllergyRequest
}
