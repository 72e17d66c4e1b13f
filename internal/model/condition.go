package model

// Condition is the simplified condition/diagnosis record.
type Condition struct {
	ID        string `json:"id"`
	Condition string `json:"condition"`
	Status    string `json:"status"`
	PatientID string `json:"patientId"`
	OnsetDate string `json:"onsetDate"`
}

type CreateConditionRequest struct {
	PatientID      string `json:"patientId" binding:"required"`
	Condition      string `json:"condition" binding:"required"`
	ConditionCode  string `json:"conditionCode" binding:"required,icd10"`
	CodeSystem     string `json:"codeSystem"`
	ClinicalStatus string `json:"clinicalStatus" binding:"omitempty,oneof=active inactive resolved"`
	OnsetDate      string `json:"onsetDate" binding:"omitempty,datetime=2006-01-02"`
}

type UpdateConditionRequest struct {
	ID string `json:"id" binding:"required"`
	CreateConditionRequest
}
