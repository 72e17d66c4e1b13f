package fhir

// Patient is the demographic resource held by the provider.
type Patient struct {
	ResourceType string         `json:"resourceType"`
	ID           string         `json:"id,omitempty"`
	Name         []HumanName    `json:"name,omitempty"`
	Gender       string         `json:"gender,omitempty"`
	BirthDate    string         `json:"birthDate,omitempty"`
	Telecom      []ContactPoint `json:"telecom,omitempty"`
}

// Dosage is a single dosage instruction on a medication statement.
type Dosage struct {
	Text         string    `json:"text,omitempty"`
	DoseQuantity *Quantity `json:"doseQuantity,omitempty"`
}

// MedicationStatement records a medication the patient is taking.
type MedicationStatement struct {
	ResourceType              string           `json:"resourceType"`
	ID                        string           `json:"id,omitempty"`
	Status                    string           `json:"status,omitempty"`
	MedicationCodeableConcept *CodeableConcept `json:"medicationCodeableConcept,omitempty"`
	Subject                   Reference        `json:"subject"`
	EffectiveDateTime         string           `json:"effectiveDateTime,omitempty"`
	Dosage                    []Dosage         `json:"dosage,omitempty"`
}

// AllergyIntolerance records a patient allergy.
type AllergyIntolerance struct {
	ResourceType   string           `json:"resourceType"`
	ID             string           `json:"id,omitempty"`
	ClinicalStatus *CodeableConcept `json:"clinicalStatus,omitempty"`
	Code           *CodeableConcept `json:"code,omitempty"`
	Patient        Reference        `json:"patient"`
	RecordedDate   string           `json:"recordedDate,omitempty"`
}

// Condition records a diagnosed condition.
type Condition struct {
	ResourceType   string           `json:"resourceType"`
	ID             string           `json:"id,omitempty"`
	ClinicalStatus *CodeableConcept `json:"clinicalStatus,omitempty"`
	Code           *CodeableConcept `json:"code,omitempty"`
	Subject        Reference        `json:"subject"`
	OnsetDateTime  string           `json:"onsetDateTime,omitempty"`
}

// ObservationComponent is a component reading, e.g. systolic within blood pressure.
type ObservationComponent struct {
	Code          CodeableConcept `json:"code"`
	ValueQuantity *Quantity       `json:"valueQuantity,omitempty"`
}

// Observation records a vital-signs measurement.
type Observation struct {
	ResourceType      string                 `json:"resourceType"`
	ID                string                 `json:"id,omitempty"`
	Status            string                 `json:"status,omitempty"`
	Category          []CodeableConcept      `json:"category,omitempty"`
	Code              CodeableConcept        `json:"code"`
	Subject           Reference              `json:"subject"`
	EffectiveDateTime string                 `json:"effectiveDateTime,omitempty"`
	ValueQuantity     *Quantity              `json:"valueQuantity,omitempty"`
	Component         []ObservationComponent `json:"component,omitempty"`
}
