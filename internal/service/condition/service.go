// Package condition serves the Condition resource backed by the upstream
// FHIR provider.
package condition

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
		baseURL: fhirBaseURL + "/Condition",
		now:     time.Now,
	}
}

func (s *Service) List(ctx context.Context, patientID string) ([]model.Condition, error) {
	endpoint := s.baseURL
	if patientID != "" {
		endpoint += "?patient=" + url.QueryEscape(patientID)
	}

	resp, err := s.client.Request(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var bundle struct {
		Entry []struct {
			Resource fhir.Condition `json:"resource"`
		} `json:"entry"`
	}
	if resp.Data != nil {
		if err := json.Unmarshal(resp.Data, &bundle); err != nil {
			return nil, fmt.Errorf("failed to decode condition bundle: %w", err)
		}
	}

	conditions := make([]model.Condition, 0, len(bundle.Entry))
	for _, entry := range bundle.Entry {
		res := entry.Resource
		conditions = append(conditions, mapper.ConditionToDomain(&res))
	}
	return conditions, nil
}

func (s *Service) Get(ctx context.Context, id string) (*model.Condition, error) {
	resp, err := s.client.Request(ctx, http.MethodGet, s.baseURL+"/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}

	var res fhir.Condition
	if err := json.Unmarshal(resp.Data, &res); err != nil {
		return nil, fmt.Errorf("failed to decode condition: %w", err)
	}
	condition := mapper.ConditionToDomain(&res)
	return &condition, nil
}

func (s *Service) Create(ctx context.Context, req model.CreateConditionRequest) (*model.Condition, error) {
	payload := mapper.ConditionToFHIR("", req, s.today())
	resp, err := s.client.Request(ctx, http.MethodPost, s.baseURL, payload)
	if err != nil {
		return nil, err
	}
	return s.decodeMutation(resp, payload)
}

func (s *Service) Update(ctx context.Context, req model.UpdateConditionRequest) (*model.Condition, error) {
	payload := mapper.ConditionToFHIR(req.ID, req.CreateConditionRequest, s.today())
	resp, err := s.client.Request(ctx, http.MethodPut, s.baseURL+"/"+url.PathEscape(req.ID), payload)
	if err != nil {
		return nil, err
	}
	return s.decodeMutation(resp, payload)
}

func (s *Service) decodeMutation(resp *ehr.Response, sent *fhir.Condition) (*model.Condition, error) {
	res := *sent
	if resp.Data != nil {
		if err := json.Unmarshal(resp.Data, &res); err != nil {
			return nil, fmt.Errorf("failed to decode condition response: %w", err)
		}
	}
	condition := mapper.ConditionToDomain(&res)
	return &condition, nil
}

func (s *Service) today() string {
	return s.now().UTC().Format("2006-01-02")
}
