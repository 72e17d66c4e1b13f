package mapper

import (
	"strings"
	"time"

	"github.com/medfront/ehr-admin-api/internal/fhir"
	"github.com/medfront/ehr-admin-api/internal/model"
)

// PatientToDomain flattens a FHIR Patient into the dashboard record. The
// clinical sub-resource lists stay empty; callers fetch medications, allergies
// and conditions with separate queries keyed by patient id.
func PatientToDomain(res *fhir.Patient, now time.Time) model.Patient {
	var name fhir.HumanName
	if len(res.Name) > 0 {
		name = res.Name[0]
	}
	first := ""
	if len(name.Given) > 0 {
		first = name.Given[0]
	}

	phone, email := "", ""
	for _, t := range res.Telecom {
		switch t.System {
		case "phone":
			if phone == "" {
				phone = t.Value
			}
		case "email":
			if email == "" {
				email = t.Value
			}
		}
	}

	contact := phone
	if contact == "" {
		contact = email
	}

	age := 0
	if res.BirthDate != "" {
		age = AgeAt(res.BirthDate, now)
	}

	return model.Patient{
		ID:         orDefault(res.ID, "id"),
		Name:       strings.TrimSpace(first + " " + name.Family),
		FirstName:  first,
		LastName:   name.Family,
		Age:        age,
		BirthDate:  res.BirthDate,
		Gender:     orDefault(res.Gender, "gender"),
		Contact:    contact,
		Phone:      phone,
		Email:      email,
		Conditions: []string{},
		Allergies:  []string{},
		Status:     string(model.PatientStatusActive),
	}
}

// PatientToFHIR builds the outbound Patient resource. Telecom entries are
// omitted entirely for empty fields rather than sent as empty objects. Pass an
// empty id for creates; the provider assigns one.
func PatientToFHIR(id string, firstName, lastName, gender, birthDate, phone, email string) *fhir.Patient {
	p := &fhir.Patient{
		ResourceType: "Patient",
		ID:           id,
		Name: []fhir.HumanName{{
			Given:  []string{firstName},
			Family: lastName,
		}},
		Gender:    orDefault(gender, "gender"),
		BirthDate: birthDate,
	}
	if phone != "" {
		p.Telecom = append(p.Telecom, fhir.ContactPoint{System: "phone", Value: phone, Use: "mobile"})
	}
	if email != "" {
		p.Telecom = append(p.Telecom, fhir.ContactPoint{System: "email", Value: email, Use: "home"})
	}
	return p
}
