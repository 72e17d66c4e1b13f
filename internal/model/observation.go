package model

// VitalComponent is a component reading within a vital, e.g. systolic pressure.
type VitalComponent struct {
	Code  string  `json:"code" binding:"required"`
	Value float64 `json:"value" binding:"required"`
	Unit  string  `json:"unit" binding:"required"`
}

// Vital is the simplified vital-signs observation.
type Vital struct {
	ID            string           `json:"id"`
	Code          string           `json:"code"`
	Value         float64          `json:"value"`
	Unit          string           `json:"unit"`
	PatientID     string           `json:"patientId"`
	EffectiveDate string           `json:"effectiveDate"`
	Components    []VitalComponent `json:"components,omitempty"`
}

type CreateVitalRequest struct {
	Code       string           `json:"code" binding:"required"`
	Value      float64          `json:"value"`
	Unit       string           `json:"unit"`
	Components []VitalComponent `json:"components" binding:"omitempty,dive"`
}
