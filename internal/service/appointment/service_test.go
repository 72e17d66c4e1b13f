package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medfront/ehr-admin-api/internal/model"
)

func strPtr(s string) *string { return &s }

func newAppointment(t *testing.T, s *Service, patientID, date, hhmm string) *model.Appointment {
	t.Helper()
	appointment, err := s.Create(context.Background(), &model.CreateAppointmentRequest{
		PatientID:    patientID,
		PatientName:  "John Doe",
		ProviderID:   "prov-1",
		ProviderName: "Dr. Smith",
		Date:         date,
		Time:         hhmm,
		Type:         "Consultation",
	})
	require.NoError(t, err)
	return appointment
}

func TestCreateAndGet(t *testing.T) {
	s := NewService()
	created := newAppointment(t, s, "p-1", "2026-09-01", "10:00")

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, model.AppointmentStatusScheduled, created.Status)

	got, err := s.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
}

func TestGetMissing(t *testing.T) {
	s := NewService()
	_, err := s.Get(context.Background(), "nope")
	require.Error(t, err)
}

func TestListFiltersAndSorts(t *testing.T) {
	s := NewService()
	newAppointment(t, s, "p-1", "2026-09-02", "09:00")
	newAppointment(t, s, "p-1", "2026-09-01", "14:00")
	newAppointment(t, s, "p-2", "2026-09-01", "08:00")

	all, err := s.List(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "2026-09-01", all[0].Date)
	assert.Equal(t, "08:00", all[0].Time)
	assert.Equal(t, "2026-09-02", all[2].Date)

	forPatient, err := s.List(context.Background(), &model.AppointmentFilters{PatientID: "p-1"})
	require.NoError(t, err)
	assert.Len(t, forPatient, 2)

	forDate, err := s.List(context.Background(), &model.AppointmentFilters{Date: "2026-09-02"})
	require.NoError(t, err)
	assert.Len(t, forDate, 1)
}

func TestUpdateMergesFields(t *testing.T) {
	s := NewService()
	created := newAppointment(t, s, "p-1", "2026-09-01", "10:00")

	updated, err := s.Update(context.Background(), created.ID, &model.UpdateAppointmentRequest{
		Time:   strPtr("11:30"),
		Status: strPtr("Completed"),
	})
	require.NoError(t, err)
	assert.Equal(t, "11:30", updated.Time)
	assert.Equal(t, model.AppointmentStatusCompleted, updated.Status)
	// Untouched fields survive the merge.
	assert.Equal(t, "2026-09-01", updated.Date)
	assert.Equal(t, "p-1", updated.PatientID)
}

func TestCancelKeepsHistory(t *testing.T) {
	s := NewService()
	created := newAppointment(t, s, "p-1", "2026-09-01", "10:00")

	cancelled, err := s.Cancel(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusCancelled, cancelled.Status)

	// The record stays listed after cancellation.
	all, err := s.List(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestCancelRejectsCompleted(t *testing.T) {
	s := NewService()
	created := newAppointment(t, s, "p-1", "2026-09-01", "10:00")

	_, err := s.Update(context.Background(), created.ID, &model.UpdateAppointmentRequest{Status: strPtr("Completed")})
	require.NoError(t, err)

	_, err = s.Cancel(context.Background(), created.ID)
	require.Error(t, err)
}

func TestStats(t *testing.T) {
	s := NewService()
	s.now = func() time.Time { return time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC) }

	newAppointment(t, s, "p-1", "2026-09-01", "10:00")
	newAppointment(t, s, "p-2", "2026-09-01", "11:00")
	newAppointment(t, s, "p-3", "2026-09-02", "10:00")

	cancelled := newAppointment(t, s, "p-4", "2026-09-01", "12:00")
	_, err := s.Cancel(context.Background(), cancelled.ID)
	require.NoError(t, err)

	today, scheduled, err := s.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, today)
	assert.Equal(t, 3, scheduled)
}

func TestSeed(t *testing.T) {
	s := NewService()
	s.Seed(5)

	all, err := s.List(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, all, 5)
}
