// Package allergy serves the AllergyIntolerance resource backed by the
// upstream FHIR provider.
package allergy

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
		baseURL: fhirBaseURL + "/AllergyIntolerance",
		now:     time.Now,
	}
}

func (s *Service) List(ctx context.Context, patientID string) ([]model.AllergyIntolerance, error) {
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
			Resource fhir.AllergyIntolerance `json:"resource"`
		} `json:"entry"`
	}
	if resp.Data != nil {
		if err := json.Unmarshal(resp.Data, &bundle); err != nil {
			return nil, fmt.Errorf("failed to decode allergy bundle: %w", err)
		}
	}

	allergies := make([]model.AllergyIntolerance, 0, len(bundle.Entry))
	for _, entry := range bundle.Entry {
		res := entry.Resource
		allergies = append(allergies, mapper.AllergyToDomain(&res))
	}
	return allergies, nil
}

func (s *Service) Get(ctx context.Context, id string) (*model.AllergyIntolerance, error) {
	resp, err := s.client.Request(ctx, http.MethodGet, s.baseURL+"/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}

	var res fhir.AllergyIntolerance
	if err := json.Unmarshal(resp.Data, &res); err != nil {
		return nil, fmt.Errorf("failed to decode allergy intolerance: %w", err)
	}
	allergy := mapper.AllergyToDomain(&res)
	return &allergy, nil
}

func (s *Service) Create(ctx context.Context, req model.CreateAllergyRequest) (*model.AllergyIntolerance, error) {
	payload := mapper.AllergyToFHIR("", req, s.today())
	resp, err := s.client.Request(ctx, http.MethodPost, s.baseURL, payload)
	if err != nil {
		return nil, err
	}
	return s.decodeMutation(resp, payload)
}

func (s *Service) Update(ctx context.Context, req model.UpdateAllergyRequest) (*model.AllergyIntolerance, error) {
	payload := mapper.AllergyToFHIR(req.ID, req.CreateAllergyRequest, s.today())
	resp, err := s.client.Request(ctx, http.MethodPut, s.baseURL+"/"+url.PathEscape(req.ID), payload)
	if err != nil {
		return nil, err
	}
	return s.decodeMutation(resp, payload)
}

func (s *Service) decodeMutation(resp *ehr.Response, sent *fhir.AllergyIntolerance) (*model.AllergyIntolerance, error) {
	res := *sent
	if resp.Data != nil {
		if err := json.Unmarshal(resp.Data, &res); err != nil {
			return nil, fmt.Errorf("failed to decode allergy response: %w", err)
		}
	}
	allergy := mapper.AllergyToDomain(&res)
	return &allergy, nil
}

func (s *Service) today() string {
	return s.now().UTC().Format("2006-01-02")
}
