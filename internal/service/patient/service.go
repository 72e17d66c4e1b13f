// Package patient serves the Patient resource. Unlike the clinical services,
// calls are authenticated with the caller's own cookie-held token pair rather
// than the service account, so every method takes the access token.
package patient

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
		baseURL: fhirBaseURL + "/Patient",
		now:     time.Now,
	}
}

// List searches patients, optionally by name.
func (s *Service) List(ctx context.Context, token, name string) ([]model.Patient, error) {
	endpoint := s.baseURL
	if name != "" {
		endpoint += "?name=" + url.QueryEscape(name)
	}

	resp, err := s.client.RequestWithToken(ctx, http.MethodGet, endpoint, nil, token)
	if err != nil {
		return nil, err
	}

	var bundle struct {
		Entry []struct {
			Resource fhir.Patient `json:"resource"`
		} `json:"entry"`
	}
	if resp.Data != nil {
		if err := json.Unmarshal(resp.Data, &bundle); err != nil {
			return nil, fmt.Errorf("failed to decode patient bundle: %w", err)
		}
	}

	patients := make([]model.Patient, 0, len(bundle.Entry))
	for _, entry := range bundle.Entry {
		res := entry.Resource
		patients = append(patients, mapper.PatientToDomain(&res, s.now()))
	}
	return patients, nil
}

func (s *Service) Get(ctx context.Context, token, id string) (*model.Patient, error) {
	resp, err := s.client.RequestWithToken(ctx, http.MethodGet, s.baseURL+"/"+url.PathEscape(id), nil, token)
	if err != nil {
		return nil, err
	}

	var res fhir.Patient
	if err := json.Unmarshal(resp.Data, &res); err != nil {
		return nil, fmt.Errorf("failed to decode patient: %w", err)
	}
	patient := mapper.PatientToDomain(&res, s.now())
	return &patient, nil
}

func (s *Service) Create(ctx context.Context, token string, req model.CreatePatientRequest) (*model.Patient, error) {
	payload := mapper.PatientToFHIR("", req.FirstName, req.LastName, req.Gender, req.BirthDate, req.Phone, req.Email)
	resp, err := s.client.RequestWithToken(ctx, http.MethodPost, s.baseURL, payload, token)
	if err != nil {
		return nil, err
	}
	return s.decodeMutation(resp, payload)
}

// Update replaces the whole patient resource; the provider does not support
// partial patches on this endpoint.
func (s *Service) Update(ctx context.Context, token, id string, req model.UpdatePatientRequest) (*model.Patient, error) {
	payload := mapper.PatientToFHIR(id, req.FirstName, req.LastName, req.Gender, req.BirthDate, req.Phone, req.Email)
	resp, err := s.client.RequestWithToken(ctx, http.MethodPut, s.baseURL+"/"+url.PathEscape(id), payload, token)
	if err != nil {
		return nil, err
	}
	return s.decodeMutation(resp, payload)
}

// Count returns the provider's total for the patient search, used by the
// dashboard stats card.
func (s *Service) Count(ctx context.Context, token string) (int, error) {
	resp, err := s.client.RequestWithToken(ctx, http.MethodGet, s.baseURL+"?_count=1", nil, token)
	if err != nil {
		return 0, err
	}
	var bundle struct {
		Total int `json:"total"`
	}
	if resp.Data != nil {
		if err := json.Unmarshal(resp.Data, &bundle); err != nil {
			return 0, fmt.Errorf("failed to decode patient bundle: %w", err)
		}
	}
	return bundle.Total, nil
}

func (s *Service) decodeMutation(resp *ehr.Response, sent *fhir.Patient) (*model.Patient, error) {
	res := *sent
	if resp.Data != nil {
		if err := json.Unmarshal(resp.Data, &res); err != nil {
			return nil, fmt.Errorf("failed to decode patient response: %w", err)
		}
	}
	patient := mapper.PatientToDomain(&res, s.now())
	return &patient, nil
}
