// Package vital serves vital-signs Observations backed by the upstream FHIR
// provider.
package vital

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/medfront/ehr-admin-api/internal/ehr"
	"github.com/medfront/ehr-admin-api/internal/fhir"
	"github.com/medfront/ehr-admin-api/internal/mapper"
	"github.com/medfront/ehr-admin-api/internal/model"
)

type Service struct {
	client  *ehr.Client
	baseURL string
	now     func() time.Time
}

func NewService(client *ehr.Client, fhirBaseURL string) *Service {
	return &Service{
		client:  client,
		baseURL: fhirBaseURL + "/Observation",
		now:     time.Now,
	}
}

// List returns the vital-signs observations for one patient.
func (s *Service) List(ctx context.Context, patientID string) ([]model.Vital, error) {
	q := url.Values{
		"subject":  {"Patient/" + patientID},
		"category": {"vital-signs"},
	}
	resp, err := s.client.Request(ctx, http.MethodGet, s.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	var bundle struct {
		Entry []struct {
			Resource fhir.Observation `json:"resource"`
		} `json:"entry"`
	}
	if resp.Data != nil {
		if err := json.Unmarshal(resp.Data, &bundle); err != nil {
			return nil, fmt.Errorf("failed to decode observation bundle: %w", err)
		}
	}

	vitals := make([]model.Vital, 0, len(bundle.Entry))
	for _, entry := range bundle.Entry {
		res := entry.Resource
		vitals = append(vitals, mapper.VitalToDomain(&res))
	}
	return vitals, nil
}

func (s *Service) Create(ctx context.Context, patientID string, req model.CreateVitalRequest) (*model.Vital, error) {
	payload := mapper.VitalToFHIR(patientID, req, s.now().UTC().Format(time.RFC3339))
	resp, err := s.client.Request(ctx, http.MethodPost, s.baseURL, payload)
	if err != nil {
		return nil, err
	}

	res := *payload
	if resp.Data != nil {
		if err := json.Unmarshal(resp.Data, &res); err != nil {
			return nil, fmt.Errorf("failed to decode observation response: %w", err)
		}
	}
	created := mapper.VitalToDomain(&res)
	return &created, nil
}

// Update performs a full-resource replace with the raw FHIR Observation the
// caller supplies; vitals editing in the dashboard round-trips the resource
// it previously fetched.
func (s *Service) Update(ctx context.Context, id string, resource json.RawMessage) (json.RawMessage, error) {
	resp, err := s.client.Request(ctx, http.MethodPut, s.baseURL+"/"+url.PathEscape(id), resource)
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}
