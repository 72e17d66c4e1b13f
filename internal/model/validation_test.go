package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsSNOMEDCode(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{"314076", true},
		{"373270004", true},
		{"12345", false},  // too short
		{"31407a", false}, // non-numeric
		{"", false},
		{" 314076", false},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, IsSNOMEDCode(tt.code))
		})
	}
}

func TestIsICD10Code(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{"I10", true},
		{"J45", true},
		{"J45.909", true},
		{"A1", true},
		{"Z99.1234", true},
		{"j45.909", false}, // lowercase letter
		{"J45.", false},    // trailing dot
		{"J45.90900", false},
		{"JJ45", false},
		{"J456", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, IsICD10Code(tt.code))
		})
	}
}

func TestIsStrictRFC3339(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"2026-01-15T08:00:00Z", true},
		{"2026-01-15T08:00:00+05:30", true},
		{"2026-01-15", false},
		{"2026-01-15T08:00:00", false}, // missing zone
		{"not-a-date", false},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, IsStrictRFC3339(tt.value))
		})
	}
}
