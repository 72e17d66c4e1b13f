package medication

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medfront/ehr-admin-api/internal/config"
	"github.com/medfront/ehr-admin-api/internal/ehr"
	"github.com/medfront/ehr-admin-api/internal/model"
	medicationservice "github.com/medfront/ehr-admin-api/internal/service/medication"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, model.RegisterValidations())

	cfg := config.EHRConfig{Environment: "development"}
	client := ehr.NewClient(cfg, nil, config.BreakerConfig{}, nil, zerolog.Nop())
	svc := medicationservice.NewService(client, cfg.FHIRBaseURL())

	engine := gin.New()
	NewHandler(svc).RegisterRoutes(engine.Group("/api/v1"))
	return engine
}

func postJSON(t *testing.T, engine *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestCreateMedication(t *testing.T) {
	engine := newTestRouter(t)

	w := postJSON(t, engine, "/api/v1/medications", model.CreateMedicationRequest{
		PatientID:      "p-1",
		Medication:     "Lisinopril",
		MedicationCode: "314076",
		Status:         "active",
		Dosage:         "1 tablet daily",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created model.MedicationStatement
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Lisinopril", created.Medication)
	assert.Equal(t, "p-1", created.PatientID)
}

func TestCreateMedicationRejectsBadCode(t *testing.T) {
	engine := newTestRouter(t)

	w := postJSON(t, engine, "/api/v1/medications", model.CreateMedicationRequest{
		PatientID:      "p-1",
		Medication:     "Lisinopril",
		MedicationCode: "12ab",
		Status:         "active",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "error")
}

func TestCreateMedicationRejectsBadStatus(t *testing.T) {
	engine := newTestRouter(t)

	w := postJSON(t, engine, "/api/v1/medications", model.CreateMedicationRequest{
		PatientID:      "p-1",
		Medication:     "Lisinopril",
		MedicationCode: "314076",
		Status:         "paused",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreatedMedicationVisibleInList(t *testing.T) {
	engine := newTestRouter(t)

	w := postJSON(t, engine, "/api/v1/medications", model.CreateMedicationRequest{
		PatientID:      "p-42",
		Medication:     "Metformin",
		MedicationCode: "109081006",
		Status:         "active",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/medications?patient=p-42", nil)
	list := httptest.NewRecorder()
	engine.ServeHTTP(list, req)
	require.Equal(t, http.StatusOK, list.Code)

	var page struct {
		Items []model.MedicationStatement `json:"items"`
		Total int                         `json:"total"`
	}
	require.NoError(t, json.Unmarshal(list.Body.Bytes(), &page))
	require.Equal(t, 1, page.Total)
	assert.Equal(t, "Metformin", page.Items[0].Medication)
}

func TestListSeededMedication(t *testing.T) {
	engine := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/medications?patient=mock-123", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var page struct {
		Items []model.MedicationStatement `json:"items"`
		Page  int                         `json:"page"`
		Count int                         `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	require.NotEmpty(t, page.Items)
	assert.Equal(t, "Lisinopril", page.Items[0].Medication)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 100, page.Count)
}

func TestGetMedicationByID(t *testing.T) {
	engine := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/medications?id=mock-med-123", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var med model.MedicationStatement
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &med))
	assert.Equal(t, "mock-med-123", med.ID)
}

func TestGetMedicationNotFoundMirrorsUpstream(t *testing.T) {
	engine := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/medications?id=missing", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)

	var envelope struct {
		Error   string                 `json:"error"`
		Details map[string]interface{} `json:"details"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.NotEmpty(t, envelope.Error)
	assert.EqualValues(t, 404, envelope.Details["status"])
}

func TestUpdateMedicationWithQueryID(t *testing.T) {
	engine := newTestRouter(t)

	payload, err := json.Marshal(model.CreateMedicationRequest{
		PatientID:      "mock-123",
		Medication:     "Lisinopril",
		MedicationCode: "314076",
		Status:         "stopped",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/medications?id=mock-med-123", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var med model.MedicationStatement
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &med))
	assert.Equal(t, "mock-med-123", med.ID)
	assert.Equal(t, "stopped", med.Status)
}
