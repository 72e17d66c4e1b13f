package mapper

import (
	"github.com/medfront/ehr-admin-api/internal/fhir"
	"github.com/medfront/ehr-admin-api/internal/model"
)

// ConditionToDomain flattens a FHIR Condition.
func ConditionToDomain(res *fhir.Condition) model.Condition {
	return model.Condition{
		ID:        orDefault(res.ID, "id"),
		Condition: codingDisplay(res.Code),
		Status:    codingCode(res.ClinicalStatus),
		PatientID: patientIDFromRef(res.Subject),
		OnsetDate: res.OnsetDateTime,
	}
}

// ConditionToFHIR builds the outbound Condition. The code system is
// configurable per request and defaults to ICD-10; clinical status defaults
// to active and onset to today (date-only).
func ConditionToFHIR(id string, req model.CreateConditionRequest, today string) *fhir.Condition {
	system := req.CodeSystem
	if system == "" {
		system = fhir.SystemICD10
	}
	status := req.ClinicalStatus
	if status == "" {
		status = "active"
	}
	onset := req.OnsetDate
	if onset == "" {
		onset = today
	}

	return &fhir.Condition{
		ResourceType: "Condition",
		ID:           id,
		ClinicalStatus: &fhir.CodeableConcept{
			Coding: []fhir.Coding{{System: fhir.SystemConditionClinical, Code: status}},
		},
		Code: &fhir.CodeableConcept{
			Coding: []fhir.Coding{{
				System:  system,
				Code:    req.ConditionCode,
				Display: req.Condition,
			}},
		},
		Subject:       patientRef(req.PatientID),
		OnsetDateTime: onset,
	}
}
