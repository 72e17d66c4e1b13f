package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/medfront/ehr-admin-api/internal/config"
)

func testSessionConfig(t *testing.T) config.SessionConfig {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	require.NoError(t, err)
	return config.SessionConfig{
		Secret:           "test-secret",
		Expiry:           time.Hour,
		OperatorEmail:    "admin@example.com",
		OperatorPassword: string(hash),
		OperatorName:     "Admin",
	}
}

func TestLoginAndValidate(t *testing.T) {
	s := NewService(testSessionConfig(t))

	token, session, err := s.Login("admin@example.com", "correct-horse")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "admin@example.com", session.Email)
	assert.Equal(t, "Admin", session.Name)

	parsed, err := s.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", parsed.Email)
	assert.Equal(t, "Admin", parsed.Name)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	s := NewService(testSessionConfig(t))
	_, _, err := s.Login("admin@example.com", "wrong")
	require.Error(t, err)
}

func TestLoginRejectsUnknownEmail(t *testing.T) {
	s := NewService(testSessionConfig(t))
	_, _, err := s.Login("other@example.com", "correct-horse")
	require.Error(t, err)
}

func TestLoginRejectsUnconfiguredAccount(t *testing.T) {
	s := NewService(config.SessionConfig{Secret: "x"})
	_, _, err := s.Login("admin@example.com", "anything")
	require.Error(t, err)
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	cfg := testSessionConfig(t)
	s := NewService(cfg)
	s.now = func() time.Time { return time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC) }

	token, _, err := s.Login("admin@example.com", "correct-horse")
	require.NoError(t, err)

	s.now = func() time.Time { return time.Date(2026, 1, 1, 14, 0, 0, 0, time.UTC) }
	_, err = s.Validate(token)
	require.Error(t, err)
}

func TestValidateRejectsTamperedToken(t *testing.T) {
	s := NewService(testSessionConfig(t))
	other := NewService(config.SessionConfig{
		Secret:           "different-secret",
		OperatorEmail:    "admin@example.com",
		OperatorPassword: testSessionConfig(t).OperatorPassword,
		OperatorName:     "Admin",
	})

	token, _, err := other.Login("admin@example.com", "correct-horse")
	require.NoError(t, err)

	_, err = s.Validate(token)
	require.Error(t, err)
}
