// Package medication serves the MedicationStatement resource backed by the
// upstream FHIR provider with service-account authentication.
package medication

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
		baseURL: fhirBaseURL + "/MedicationStatement",
		now:     time.Now,
	}
}

// ListFilters narrows medication listings. Count and Page map onto the
// provider's _count/page search parameters.
type ListFilters struct {
	PatientID string
	Count     int
	Page      int
}

func (s *Service) List(ctx context.Context, filters ListFilters) ([]model.MedicationStatement, int, error) {
	if filters.Count <= 0 {
		filters.Count = 100
	}
	if filters.Page <= 0 {
		filters.Page = 1
	}
	q := url.Values{
		"_count": {fmt.Sprint(filters.Count)},
		"page":   {fmt.Sprint(filters.Page)},
	}
	if filters.PatientID != "" {
		q.Set("patient", filters.PatientID)
	}

	resp, err := s.client.Request(ctx, http.MethodGet, s.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, 0, err
	}

	var bundle struct {
		Total int `json:"total"`
		Entry []struct {
			Resource fhir.MedicationStatement `json:"resource"`
		} `json:"entry"`
	}
	if resp.Data != nil {
		if err := json.Unmarshal(resp.Data, &bundle); err != nil {
			return nil, 0, fmt.Errorf("failed to decode medication bundle: %w", err)
		}
	}

	medications := make([]model.MedicationStatement, 0, len(bundle.Entry))
	for _, entry := range bundle.Entry {
		res := entry.Resource
		medications = append(medications, mapper.MedicationToDomain(&res))
	}
	return medications, bundle.Total, nil
}

func (s *Service) Get(ctx context.Context, id string) (*model.MedicationStatement, error) {
	resp, err := s.client.Request(ctx, http.MethodGet, s.baseURL+"/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}

	var res fhir.MedicationStatement
	if err := json.Unmarshal(resp.Data, &res); err != nil {
		return nil, fmt.Errorf("failed to decode medication statement: %w", err)
	}
	medication := mapper.MedicationToDomain(&res)
	return &medication, nil
}

func (s *Service) Create(ctx context.Context, req model.CreateMedicationRequest) (*model.MedicationStatement, error) {
	payload := mapper.MedicationToFHIR("", req, s.today())
	resp, err := s.client.Request(ctx, http.MethodPost, s.baseURL, payload)
	if err != nil {
		return nil, err
	}
	return s.decodeMutation(resp, payload)
}

func (s *Service) Update(ctx context.Context, req model.UpdateMedicationRequest) (*model.MedicationStatement, error) {
	payload := mapper.MedicationToFHIR(req.ID, req.CreateMedicationRequest, s.today())
	resp, err := s.client.Request(ctx, http.MethodPut, s.baseURL+"/"+url.PathEscape(req.ID), payload)
	if err != nil {
		return nil, err
	}
	return s.decodeMutation(resp, payload)
}

// decodeMutation maps the provider's echo of a created/replaced resource.
// Some deployments answer 204 with an empty body; the sent payload stands in
// for the echo then.
func (s *Service) decodeMutation(resp *ehr.Response, sent *fhir.MedicationStatement) (*model.MedicationStatement, error) {
	res := *sent
	if resp.Data != nil {
		if err := json.Unmarshal(resp.Data, &res); err != nil {
			return nil, fmt.Errorf("failed to decode medication response: %w", err)
		}
	}
	medication := mapper.MedicationToDomain(&res)
	return &medication, nil
}

func (s *Service) today() string {
	return s.now().UTC().Format("2006-01-02")
}
