package auth

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/medfront/ehr-admin-api/internal/config"
	"github.com/medfront/ehr-admin-api/internal/ehr"
	authservice "github.com/medfront/ehr-admin-api/internal/service/auth"
)

func grantStub(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		switch r.PostForm.Get("grant_type") {
		case "password":
			if r.PostForm.Get("username") == "clinic-user" && r.PostForm.Get("password") == "clinic-pass" {
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(`{"access_token":"access-1","refresh_token":"refresh-1","expires_in":900}`))
				return
			}
		case "refresh_token":
			if r.PostForm.Get("refresh_token") == "refresh-1" {
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(`{"access_token":"access-2","refresh_token":"refresh-2","expires_in":900}`))
				return
			}
		}
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"invalid_grant"}`))
	}))
}

func newAuthRouter(t *testing.T, baseURL string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.EHRConfig{
		BaseURL:     baseURL,
		FirmPrefix:  "firm1",
		APIKey:      "test-key",
		Environment: "production",
	}
	hash, err := bcrypt.GenerateFromPassword([]byte("op-pass"), bcrypt.MinCost)
	require.NoError(t, err)
	session := authservice.NewService(config.SessionConfig{
		Secret:           "test-secret",
		Expiry:           time.Hour,
		OperatorEmail:    "admin@example.com",
		OperatorPassword: string(hash),
		OperatorName:     "Admin",
	})

	engine := gin.New()
	NewHandler(ehr.NewAuthenticator(cfg, zerolog.Nop()), session, false).RegisterRoutes(engine.Group("/api/v1"))
	return engine
}

func postBody(engine *gin.Engine, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestEHRGrantSetsCookies(t *testing.T) {
	ts := grantStub(t)
	defer ts.Close()
	engine := newAuthRouter(t, ts.URL)

	w := postBody(engine, "/api/v1/auth/ehr", `{"username":"clinic-user","password":"clinic-pass"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"expiresIn":900`)

	byName := map[string]*http.Cookie{}
	for _, c := range w.Result().Cookies() {
		byName[c.Name] = c
	}
	require.Contains(t, byName, AccessCookie)
	require.Contains(t, byName, RefreshCookie)
	assert.Equal(t, "access-1", byName[AccessCookie].Value)
	assert.Equal(t, 900, byName[AccessCookie].MaxAge)
	assert.True(t, byName[AccessCookie].HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, byName[AccessCookie].SameSite)
	assert.Equal(t, "refresh-1", byName[RefreshCookie].Value)
}

func TestEHRGrantRefreshAction(t *testing.T) {
	ts := grantStub(t)
	defer ts.Close()
	engine := newAuthRouter(t, ts.URL)

	w := postBody(engine, "/api/v1/auth/ehr", `{"action":"refresh"}`,
		&http.Cookie{Name: RefreshCookie, Value: "refresh-1"})
	require.Equal(t, http.StatusOK, w.Code)

	var access string
	for _, c := range w.Result().Cookies() {
		if c.Name == AccessCookie {
			access = c.Value
		}
	}
	assert.Equal(t, "access-2", access)
}

func TestEHRGrantRejectsBadCredentials(t *testing.T) {
	ts := grantStub(t)
	defer ts.Close()
	engine := newAuthRouter(t, ts.URL)

	w := postBody(engine, "/api/v1/auth/ehr", `{"username":"clinic-user","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Authentication failed")
}

func TestEHRGrantRefreshWithoutCookie(t *testing.T) {
	ts := grantStub(t)
	defer ts.Close()
	engine := newAuthRouter(t, ts.URL)

	w := postBody(engine, "/api/v1/auth/ehr", `{"action":"refresh"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOperatorLogin(t *testing.T) {
	engine := newAuthRouter(t, "http://unused")

	w := postBody(engine, "/api/v1/auth/login", `{"email":"admin@example.com","password":"op-pass"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "token")
	assert.Contains(t, w.Body.String(), "Admin")

	w = postBody(engine, "/api/v1/auth/login", `{"email":"admin@example.com","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogoutClearsCookies(t *testing.T) {
	engine := newAuthRouter(t, "http://unused")

	w := postBody(engine, "/api/v1/auth/logout", `{}`)
	require.Equal(t, http.StatusOK, w.Code)

	cleared := 0
	for _, c := range w.Result().Cookies() {
		if (c.Name == AccessCookie || c.Name == RefreshCookie) && c.MaxAge < 0 && c.Value == "" {
			cleared++
		}
	}
	assert.Equal(t, 2, cleared)
}
