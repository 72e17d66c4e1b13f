// Package fhir provides the FHIR data structures exchanged with the upstream
// clinical data provider.
package fhir

// Coding represents a code from a terminology system.
type Coding struct {
	System  string `json:"system,omitempty"`
	Code    string `json:"code,omitempty"`
	Display string `json:"display,omitempty"`
}

// CodeableConcept represents a concept with text and codings.
type CodeableConcept struct {
	Coding []Coding `json:"coding,omitempty"`
	Text   string   `json:"text,omitempty"`
}

// Reference represents a reference to another resource, e.g. "Patient/123".
type Reference struct {
	Reference string `json:"reference,omitempty"`
	Display   string `json:"display,omitempty"`
}

// HumanName represents a human name.
type HumanName struct {
	Use    string   `json:"use,omitempty"`
	Text   string   `json:"text,omitempty"`
	Family string   `json:"family,omitempty"`
	Given  []string `json:"given,omitempty"`
}

// ContactPoint represents a phone or email contact detail.
type ContactPoint struct {
	System string `json:"system,omitempty"` // phone | email
	Value  string `json:"value,omitempty"`
	Use    string `json:"use,omitempty"` // home | work | mobile
}

// Quantity represents a measured amount.
type Quantity struct {
	Value  float64 `json:"value,omitempty"`
	Unit   string  `json:"unit,omitempty"`
	System string  `json:"system,omitempty"`
	Code   string  `json:"code,omitempty"`
}

// BundleEntry is a single entry in a search result bundle.
type BundleEntry struct {
	Resource interface{} `json:"resource,omitempty"`
}

// Bundle is the envelope returned from a search/list query.
type Bundle struct {
	ResourceType string        `json:"resourceType"`
	Type         string        `json:"type,omitempty"`
	Total        int           `json:"total,omitempty"`
	Entry        []BundleEntry `json:"entry,omitempty"`
}

// OperationOutcomeIssue is a single issue reported by the provider.
type OperationOutcomeIssue struct {
	Severity    string           `json:"severity,omitempty"`
	Code        string           `json:"code,omitempty"`
	Details     *CodeableConcept `json:"details,omitempty"`
	Diagnostics string           `json:"diagnostics,omitempty"`
}

// OperationOutcome carries error detail returned by the provider.
type OperationOutcome struct {
	ResourceType string                  `json:"resourceType"`
	Issue        []OperationOutcomeIssue `json:"issue,omitempty"`
}

// Terminology systems used when building outbound resources.
const (
	SystemSNOMED              = "http://snomed.info/sct"
	SystemICD10               = "http://hl7.org/fhir/sid/icd-10"
	SystemLOINC               = "http://loinc.org"
	SystemUCUM                = "http://unitsofmeasure.org"
	SystemAllergyClinical     = "http://terminology.hl7.org/CodeSystem/allergyintolerance-clinical"
	SystemConditionClinical   = "http://terminology.hl7.org/CodeSystem/condition-clinical"
	SystemObservationCategory = "http://terminology.hl7.org/CodeSystem/observation-category"
)
