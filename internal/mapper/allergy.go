package mapper

import (
	"github.com/medfront/ehr-admin-api/internal/fhir"
	"github.com/medfront/ehr-admin-api/internal/model"
)

// AllergyToDomain flattens a FHIR AllergyIntolerance.
func AllergyToDomain(res *fhir.AllergyIntolerance) model.AllergyIntolerance {
	return model.AllergyIntolerance{
		ID:           orDefault(res.ID, "id"),
		Allergen:     codingDisplay(res.Code),
		Status:       codingCode(res.ClinicalStatus),
		PatientID:    patientIDFromRef(res.Patient),
		RecordedDate: res.RecordedDate,
	}
}

// AllergyToFHIR builds the outbound AllergyIntolerance. Status defaults to
// active, recordedDate to today (date-only).
func AllergyToFHIR(id string, req model.CreateAllergyRequest, today string) *fhir.AllergyIntolerance {
	status := req.Status
	if status == "" {
		status = string(model.AllergyStatusActive)
	}
	recorded := req.RecordedDate
	if recorded == "" {
		recorded = today
	}

	a := &fhir.AllergyIntolerance{
		ResourceType: "AllergyIntolerance",
		ID:           id,
		ClinicalStatus: &fhir.CodeableConcept{
			Coding: []fhir.Coding{{System: fhir.SystemAllergyClinical, Code: status}},
		},
		Code: &fhir.CodeableConcept{
			Coding: []fhir.Coding{{
				System:  fhir.SystemSNOMED,
				Code:    req.AllergenCode,
				Display: req.Allergen,
			}},
		},
		Patient:      patientRef(req.PatientID),
		RecordedDate: recorded,
	}
	return a
}
