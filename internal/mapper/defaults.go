// Package mapper converts between the simplified domain records served to the
// dashboard and the FHIR resources exchanged with the upstream provider. All
// functions are pure; round trips are lossy by design because patient clinical
// sub-resources live in separate queries.
package mapper

import (
	"strings"
	"time"

	"github.com/medfront/ehr-admin-api/internal/fhir"
)

// Defaults applied when the provider omits an optional field. Kept in one
// table so every mapper resolves absent data the same way.
var fieldDefaults = map[string]string{
	"id":        "N/A",
	"display":   "Unknown",
	"code":      "",
	"status":    "unknown",
	"patientId": "N/A",
	"dosage":    "N/A",
	"date":      "",
	"gender":    "unknown",
	"name":      "",
}

func defaultFor(field string) string {
	return fieldDefaults[field]
}

func orDefault(value, field string) string {
	if value == "" {
		return defaultFor(field)
	}
	return value
}

// firstCoding returns coding[0] or a zero Coding when the concept or its
// coding array is absent.
func firstCoding(cc *fhir.CodeableConcept) fhir.Coding {
	if cc == nil || len(cc.Coding) == 0 {
		return fhir.Coding{}
	}
	return cc.Coding[0]
}

func codingDisplay(cc *fhir.CodeableConcept) string {
	return orDefault(firstCoding(cc).Display, "display")
}

func codingCode(cc *fhir.CodeableConcept) string {
	return orDefault(firstCoding(cc).Code, "status")
}

// patientIDFromRef strips the "Patient/" prefix from a reference string.
func patientIDFromRef(ref fhir.Reference) string {
	if ref.Reference == "" {
		return defaultFor("patientId")
	}
	return strings.TrimPrefix(ref.Reference, "Patient/")
}

func patientRef(patientID string) fhir.Reference {
	return fhir.Reference{Reference: "Patient/" + patientID}
}

// AgeAt computes whole years between birthDate (2006-01-02) and now using
// calendar year/month/day comparison. Dividing elapsed days by 365.25 drifts
// at year boundaries, so it is deliberately not used here.
func AgeAt(birthDate string, now time.Time) int {
	birth, err := time.Parse("2006-01-02", birthDate)
	if err != nil {
		return 0
	}
	age := now.Year() - birth.Year()
	if now.Month() < birth.Month() ||
		(now.Month() == birth.Month() && now.Day() < birth.Day()) {
		age--
	}
	if age < 0 {
		return 0
	}
	return age
}
