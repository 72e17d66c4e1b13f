package ehr

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// mockTransport serves canned FHIR responses when no provider credentials are
// configured. Created resources are kept in memory so they show up in later
// list queries within the same process.
type mockTransport struct {
	mu    sync.Mutex
	store map[string][]json.RawMessage // resource type -> resources
}

func newMockTransport() *mockTransport {
	t := &mockTransport{store: make(map[string][]json.RawMessage)}
	for typ, seed := range mockSeeds {
		t.store[typ] = append(t.store[typ], seed...)
	}
	return t
}

var mockResourceTypes = []string{
	"Patient", "MedicationStatement", "AllergyIntolerance", "Condition", "Observation",
}

func (t *mockTransport) roundTrip(_ context.Context, method, rawURL string, body []byte, _ string) (int, string, []byte, error) {
	resourceType, resourceID, query := parseFHIRURL(rawURL)
	if resourceType == "" {
		return http.StatusNotFound, "application/fhir+json", []byte(`{"resourceType":"OperationOutcome"}`), nil
	}

	switch method {
	case http.MethodGet:
		if resourceID != "" {
			return t.getOne(resourceType, resourceID)
		}
		return t.list(resourceType, query)
	case http.MethodPost:
		return t.save(resourceType, body, true)
	case http.MethodPut:
		return t.save(resourceType, body, false)
	default:
		return http.StatusMethodNotAllowed, "application/fhir+json", nil, nil
	}
}

func (t *mockTransport) getOne(resourceType, id string) (int, string, []byte, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, raw := range t.store[resourceType] {
		if mockField(raw, "id") == id {
			return http.StatusOK, "application/fhir+json", raw, nil
		}
	}
	return http.StatusNotFound, "application/fhir+json", []byte(`{"resourceType":"OperationOutcome"}`), nil
}

func (t *mockTransport) list(resourceType string, query url.Values) (int, string, []byte, error) {
	patient := query.Get("patient")
	if patient == "" && query.Get("subject") != "" {
		patient = strings.TrimPrefix(query.Get("subject"), "Patient/")
	}

	t.mu.Lock()
	entries := make([]map[string]json.RawMessage, 0)
	for _, raw := range t.store[resourceType] {
		if patient != "" && mockPatientRef(raw) != patient {
			continue
		}
		entries = append(entries, map[string]json.RawMessage{"resource": raw})
	}
	t.mu.Unlock()

	bundle := map[string]interface{}{
		"resourceType": "Bundle",
		"type":         "searchset",
		"total":        len(entries),
		"entry":        entries,
	}
	payload, err := json.Marshal(bundle)
	if err != nil {
		return 0, "", nil, err
	}
	return http.StatusOK, "application/fhir+json", payload, nil
}

func (t *mockTransport) save(resourceType string, body []byte, create bool) (int, string, []byte, error) {
	var resource map[string]interface{}
	if err := json.Unmarshal(body, &resource); err != nil {
		return http.StatusBadRequest, "application/fhir+json", []byte(`{"resourceType":"OperationOutcome"}`), nil
	}

	id, _ := resource["id"].(string)
	if id == "" {
		id = fmt.Sprintf("mock-%s-%s", strings.ToLower(resourceType), uuid.NewString()[:8])
		resource["id"] = id
	}

	raw, err := json.Marshal(resource)
	if err != nil {
		return 0, "", nil, err
	}

	t.mu.Lock()
	replaced := false
	for i, existing := range t.store[resourceType] {
		if mockField(existing, "id") == id {
			t.store[resourceType][i] = raw
			replaced = true
			break
		}
	}
	if !replaced {
		t.store[resourceType] = append(t.store[resourceType], raw)
	}
	t.mu.Unlock()

	status := http.StatusOK
	if create {
		status = http.StatusCreated
	}
	return status, "application/fhir+json", raw, nil
}

// parseFHIRURL extracts the resource type, optional id and query from an
// upstream FHIR URL like .../fhir/v2/MedicationStatement/abc?patient=123.
func parseFHIRURL(rawURL string) (resourceType, resourceID string, query url.Values) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", "", nil
	}
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i, seg := range segments {
		for _, typ := range mockResourceTypes {
			if seg == typ {
				resourceType = typ
				if i+1 < len(segments) {
					resourceID = segments[i+1]
				}
				return resourceType, resourceID, u.Query()
			}
		}
	}
	return "", "", u.Query()
}

func mockField(raw json.RawMessage, field string) string {
	var m map[string]interface{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return ""
	}
	s, _ := m[field].(string)
	return s
}

// mockPatientRef extracts the referenced patient id from subject.reference or
// patient.reference. Patient resources match on their own id.
func mockPatientRef(raw json.RawMessage) string {
	var m struct {
		ID      string `json:"id"`
		Subject struct {
			Reference string `json:"reference"`
		} `json:"subject"`
		Patient struct {
			Reference string `json:"reference"`
		} `json:"patient"`
		ResourceType string `json:"resourceType"`
	}
	if err := json.Unmarshal(raw, &m); err != nil {
		return ""
	}
	if m.ResourceType == "Patient" {
		return m.ID
	}
	if m.Subject.Reference != "" {
		return strings.TrimPrefix(m.Subject.Reference, "Patient/")
	}
	return strings.TrimPrefix(m.Patient.Reference, "Patient/")
}

// Seed data mirrors what the provider sandbox returns for a demo patient.
var mockSeeds = map[string][]json.RawMessage{
	"Patient": {
		json.RawMessage(`{
			"resourceType": "Patient",
			"id": "mock-123",
			"name": [{"given": ["John"], "family": "Doe"}],
			"gender": "male",
			"birthDate": "1980-03-15",
			"telecom": [
				{"system": "phone", "value": "+12025550123", "use": "mobile"},
				{"system": "email", "value": "john.doe@example.com", "use": "home"}
			]
		}`),
	},
	"MedicationStatement": {
		json.RawMessage(`{
			"resourceType": "MedicationStatement",
			"id": "mock-med-123",
			"status": "active",
			"medicationCodeableConcept": {"coding": [{"system": "http://snomed.info/sct", "code": "314076", "display": "Lisinopril"}]},
			"subject": {"reference": "Patient/mock-123"},
			"effectiveDateTime": "2025-01-01",
			"dosage": [{"text": "1 tablet daily", "doseQuantity": {"value": 1, "unit": "tablet"}}]
		}`),
	},
	"AllergyIntolerance": {
		json.RawMessage(`{
			"resourceType": "AllergyIntolerance",
			"id": "mock-allergy-123",
			"clinicalStatus": {"coding": [{"system": "http://terminology.hl7.org/CodeSystem/allergyintolerance-clinical", "code": "active"}]},
			"code": {"coding": [{"system": "http://snomed.info/sct", "code": "373270004", "display": "Penicillin"}]},
			"patient": {"reference": "Patient/mock-123"},
			"recordedDate": "2025-01-01"
		}`),
	},
	"Condition": {
		json.RawMessage(`{
			"resourceType": "Condition",
			"id": "mock-cond-123",
			"clinicalStatus": {"coding": [{"system": "http://terminology.hl7.org/CodeSystem/condition-clinical", "code": "active"}]},
			"code": {"coding": [{"system": "http://hl7.org/fhir/sid/icd-10", "code": "I10", "display": "Hypertension"}]},
			"subject": {"reference": "Patient/mock-123"},
			"onsetDateTime": "2025-01-01"
		}`),
	},
	"Observation": {
		json.RawMessage(`{
			"resourceType": "Observation",
			"id": "mock-vital-123",
			"status": "final",
			"category": [{"coding": [{"system": "http://terminology.hl7.org/CodeSystem/observation-category", "code": "vital-signs"}]}],
			"code": {"coding": [{"system": "http://loinc.org", "code": "85354-9", "display": "Blood pressure"}]},
			"subject": {"reference": "Patient/mock-123"},
			"effectiveDateTime": "2025-01-01T10:00:00Z",
			"valueQuantity": {"value": 120, "unit": "mmHg", "system": "http://unitsofmeasure.org", "code": "mmHg"}
		}`),
	},
}
