package mapper

import (
	"github.com/medfront/ehr-admin-api/internal/fhir"
	"github.com/medfront/ehr-admin-api/internal/model"
)

// MedicationToDomain flattens a FHIR MedicationStatement.
func MedicationToDomain(res *fhir.MedicationStatement) model.MedicationStatement {
	dosage := defaultFor("dosage")
	if len(res.Dosage) > 0 && res.Dosage[0].Text != "" {
		dosage = res.Dosage[0].Text
	}
	return model.MedicationStatement{
		ID:            orDefault(res.ID, "id"),
		Medication:    codingDisplay(res.MedicationCodeableConcept),
		Status:        orDefault(res.Status, "status"),
		PatientID:     patientIDFromRef(res.Subject),
		EffectiveDate: res.EffectiveDateTime,
		Dosage:        dosage,
	}
}

// MedicationToFHIR builds the outbound MedicationStatement. effectiveDate
// falls back to today (date-only) when the request omits it.
func MedicationToFHIR(id string, req model.CreateMedicationRequest, today string) *fhir.MedicationStatement {
	effective := req.Effective()
	if effective == "" {
		effective = today
	}

	m := &fhir.MedicationStatement{
		ResourceType: "MedicationStatement",
		ID:           id,
		Status:       req.Status,
		MedicationCodeableConcept: &fhir.CodeableConcept{
			Coding: []fhir.Coding{{
				System:  fhir.SystemSNOMED,
				Code:    req.MedicationCode,
				Display: req.Medication,
			}},
		},
		Subject:           patientRef(req.PatientID),
		EffectiveDateTime: effective,
	}
	if req.Dosage != "" {
		dose := &fhir.Quantity{Value: req.DoseValue, Unit: req.DoseUnit}
		if dose.Value == 0 {
			dose.Value = 1
		}
		if dose.Unit == "" {
			dose.Unit = "tablet"
		}
		m.Dosage = []fhir.Dosage{{Text: req.Dosage, DoseQuantity: dose}}
	}
	return m
}
