package mapper

import (
	"github.com/medfront/ehr-admin-api/internal/fhir"
	"github.com/medfront/ehr-admin-api/internal/model"
)

// VitalToDomain flattens a vital-signs Observation.
func VitalToDomain(res *fhir.Observation) model.Vital {
	v := model.Vital{
		ID:            orDefault(res.ID, "id"),
		Code:          codingDisplay(&res.Code),
		PatientID:     patientIDFromRef(res.Subject),
		EffectiveDate: res.EffectiveDateTime,
	}
	if res.ValueQuantity != nil {
		v.Value = res.ValueQuantity.Value
		v.Unit = res.ValueQuantity.Unit
	}
	for _, comp := range res.Component {
		c := model.VitalComponent{Code: codingDisplay(&comp.Code)}
		if comp.ValueQuantity != nil {
			c.Value = comp.ValueQuantity.Value
			c.Unit = comp.ValueQuantity.Unit
		}
		v.Components = append(v.Components, c)
	}
	return v
}

// VitalToFHIR builds the outbound vital-signs Observation. LOINC codes carry
// the measurement names; UCUM codes the units.
func VitalToFHIR(patientID string, req model.CreateVitalRequest, effective string) *fhir.Observation {
	obs := &fhir.Observation{
		ResourceType: "Observation",
		Status:       "final",
		Category: []fhir.CodeableConcept{{
			Coding: []fhir.Coding{{System: fhir.SystemObservationCategory, Code: "vital-signs"}},
		}},
		Code: fhir.CodeableConcept{
			Coding: []fhir.Coding{{System: fhir.SystemLOINC, Code: req.Code, Display: req.Code}},
		},
		Subject:           patientRef(patientID),
		EffectiveDateTime: effective,
	}
	if req.Value != 0 {
		obs.ValueQuantity = &fhir.Quantity{
			Value:  req.Value,
			Unit:   req.Unit,
			System: fhir.SystemUCUM,
			Code:   req.Unit,
		}
	}
	for _, comp := range req.Components {
		obs.Component = append(obs.Component, fhir.ObservationComponent{
			Code: fhir.CodeableConcept{
				Coding: []fhir.Coding{{System: fhir.SystemLOINC, Display: comp.Code}},
			},
			ValueQuantity: &fhir.Quantity{
				Value:  comp.Value,
				Unit:   comp.Unit,
				System: fhir.SystemUCUM,
				Code:   comp.Unit,
			},
		})
	}
	return obs
}
