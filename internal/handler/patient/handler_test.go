package patient

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medfront/ehr-admin-api/internal/config"
	"github.com/medfront/ehr-admin-api/internal/ehr"
	authhandler "github.com/medfront/ehr-admin-api/internal/handler/auth"
	patientservice "github.com/medfront/ehr-admin-api/internal/service/patient"
)

const patientBundle = `{
	"resourceType": "Bundle",
	"type": "searchset",
	"total": 1,
	"entry": [{"resource": {
		"resourceType": "Patient",
		"id": "p-1",
		"name": [{"given": ["Jane"], "family": "Smith"}],
		"gender": "female",
		"birthDate": "1990-06-01"
	}}]
}`

// upstreamStub accepts only "good-token" on the FHIR surface and answers the
// grant endpoint with a fresh pair.
func upstreamStub(t *testing.T, refreshes *int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/ws/oauth2/grant") {
			require.NoError(t, r.ParseForm())
			if r.PostForm.Get("grant_type") == "refresh_token" && r.PostForm.Get("refresh_token") == "refresh-1" {
				*refreshes++
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(`{"access_token":"good-token","refresh_token":"refresh-2","expires_in":3600}`))
				return
			}
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		if r.Header.Get("Authorization") != "Bearer good-token" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"issue":"expired token"}`))
			return
		}
		w.Header().Set("Content-Type", "application/fhir+json")
		w.Write([]byte(patientBundle))
	}))
}

func newPatientRouter(t *testing.T, baseURL string, mock bool) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.EHRConfig{
		BaseURL:     baseURL,
		FirmPrefix:  "firm1",
		APIKey:      "test-key",
		Environment: "production",
	}
	if mock {
		cfg = config.EHRConfig{Environment: "development"}
	}

	client := ehr.NewClient(cfg, nil, config.BreakerConfig{}, nil, zerolog.Nop())
	svc := patientservice.NewService(client, cfg.FHIRBaseURL())
	auth := ehr.NewAuthenticator(cfg, zerolog.Nop())

	engine := gin.New()
	NewHandler(svc, auth, mock, false).RegisterRoutes(engine.Group("/api/v1"))
	return engine
}

func listPatients(engine *gin.Engine, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/patients", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestListPatientsWithValidToken(t *testing.T) {
	refreshes := 0
	ts := upstreamStub(t, &refreshes)
	defer ts.Close()

	engine := newPatientRouter(t, ts.URL, false)
	w := listPatients(engine, &http.Cookie{Name: authhandler.AccessCookie, Value: "good-token"})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Jane Smith")
	assert.Equal(t, 0, refreshes)
}

func TestListPatientsRefreshesOnUnauthorized(t *testing.T) {
	refreshes := 0
	ts := upstreamStub(t, &refreshes)
	defer ts.Close()

	engine := newPatientRouter(t, ts.URL, false)
	w := listPatients(engine,
		&http.Cookie{Name: authhandler.AccessCookie, Value: "stale-token"},
		&http.Cookie{Name: authhandler.RefreshCookie, Value: "refresh-1"},
	)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, refreshes)
	assert.Contains(t, w.Body.String(), "Jane Smith")

	// The rotated pair is re-issued to the browser.
	cookies := w.Result().Cookies()
	byName := map[string]string{}
	for _, c := range cookies {
		byName[c.Name] = c.Value
	}
	assert.Equal(t, "good-token", byName[authhandler.AccessCookie])
	assert.Equal(t, "refresh-2", byName[authhandler.RefreshCookie])
}

func TestListPatientsFailsWhenRefreshRejected(t *testing.T) {
	refreshes := 0
	ts := upstreamStub(t, &refreshes)
	defer ts.Close()

	engine := newPatientRouter(t, ts.URL, false)
	w := listPatients(engine,
		&http.Cookie{Name: authhandler.AccessCookie, Value: "stale-token"},
		&http.Cookie{Name: authhandler.RefreshCookie, Value: "bad-refresh"},
	)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Authentication failed")
}

func TestListPatientsRequiresCookie(t *testing.T) {
	refreshes := 0
	ts := upstreamStub(t, &refreshes)
	defer ts.Close()

	engine := newPatientRouter(t, ts.URL, false)
	w := listPatients(engine)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Authentication required")
}

func TestListPatientsMockModeWithoutCookie(t *testing.T) {
	engine := newPatientRouter(t, "", true)
	w := listPatients(engine)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "John Doe")
}
