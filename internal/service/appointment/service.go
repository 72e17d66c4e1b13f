// Package appointment manages the scheduling records. Appointments are not
// wired to the upstream provider; they live in an in-process store for the
// lifetime of the service.
package appointment

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/medfront/ehr-admin-api/internal/model"
	apperrors "github.com/medfront/ehr-admin-api/pkg/errors"
)

type Service struct {
	store *gocache.Cache
	now   func() time.Time
}

func NewService() *Service {
	return &Service{
		// Appointments never expire; the cache is used as a concurrent map
		// with the process lifetime of the rest of the mock layer.
		store: gocache.New(gocache.NoExpiration, gocache.NoExpiration),
		now:   time.Now,
	}
}

func (s *Service) Create(_ context.Context, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	now := s.now()
	appointment := &model.Appointment{
		ID:           uuid.NewString(),
		PatientID:    req.PatientID,
		PatientName:  req.PatientName,
		ProviderID:   req.ProviderID,
		ProviderName: req.ProviderName,
		Date:         req.Date,
		Time:         req.Time,
		Type:         model.AppointmentType(req.Type),
		Status:       model.AppointmentStatusScheduled,
		Notes:        req.Notes,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.store.Set(appointment.ID, appointment, gocache.NoExpiration)
	return appointment, nil
}

func (s *Service) Get(_ context.Context, id string) (*model.Appointment, error) {
	item, ok := s.store.Get(id)
	if !ok {
		return nil, apperrors.NewNotFound("appointment", nil)
	}
	return item.(*model.Appointment), nil
}

func (s *Service) List(_ context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	appointments := make([]*model.Appointment, 0)
	for _, item := range s.store.Items() {
		appointment := item.Object.(*model.Appointment)
		if filters != nil {
			if filters.PatientID != "" && appointment.PatientID != filters.PatientID {
				continue
			}
			if filters.Date != "" && appointment.Date != filters.Date {
				continue
			}
			if filters.Status != "" && appointment.Status != filters.Status {
				continue
			}
		}
		appointments = append(appointments, appointment)
	}
	sort.Slice(appointments, func(i, j int) bool {
		if appointments[i].Date != appointments[j].Date {
			return appointments[i].Date < appointments[j].Date
		}
		return appointments[i].Time < appointments[j].Time
	})
	return appointments, nil
}

func (s *Service) Update(ctx context.Context, id string, req *model.UpdateAppointmentRequest) (*model.Appointment, error) {
	appointment, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := *appointment
	if req.Date != nil {
		updated.Date = *req.Date
	}
	if req.Time != nil {
		updated.Time = *req.Time
	}
	if req.Type != nil {
		updated.Type = model.AppointmentType(*req.Type)
	}
	if req.Status != nil {
		updated.Status = model.AppointmentStatus(*req.Status)
	}
	if req.Notes != nil {
		updated.Notes = *req.Notes
	}
	updated.UpdatedAt = s.now()

	s.store.Set(id, &updated, gocache.NoExpiration)
	return &updated, nil
}

// Cancel marks the appointment cancelled rather than deleting it, so the
// schedule keeps its history.
func (s *Service) Cancel(ctx context.Context, id string) (*model.Appointment, error) {
	appointment, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if appointment.Status == model.AppointmentStatusCompleted {
		return nil, apperrors.NewBadRequest("completed appointments cannot be cancelled", nil)
	}

	cancelled := *appointment
	cancelled.Status = model.AppointmentStatusCancelled
	cancelled.UpdatedAt = s.now()
	s.store.Set(id, &cancelled, gocache.NoExpiration)
	return &cancelled, nil
}

// Stats summarizes the schedule for the dashboard cards.
func (s *Service) Stats(ctx context.Context) (today, scheduled int, err error) {
	appointments, err := s.List(ctx, nil)
	if err != nil {
		return 0, 0, err
	}
	date := s.now().Format("2006-01-02")
	for _, appointment := range appointments {
		if appointment.Date == date && appointment.Status != model.AppointmentStatusCancelled {
			today++
		}
		if appointment.Status == model.AppointmentStatusScheduled {
			scheduled++
		}
	}
	return today, scheduled, nil
}

// Seed loads demo appointments for development mode. Existing entries keep
// their ids so repeated seeding is harmless.
func (s *Service) Seed(count int) {
	for i := 0; i < count; i++ {
		date := s.now().AddDate(0, 0, i%7).Format("2006-01-02")
		appointment := &model.Appointment{
			ID:           uuid.NewString(),
			PatientID:    "mock-123",
			PatientName:  "John Doe",
			ProviderID:   fmt.Sprintf("prov-%d", i%3+1),
			ProviderName: "Dr. Smith",
			Date:         date,
			Time:         fmt.Sprintf("%02d:00", 9+i%8),
			Type:         model.AppointmentTypeConsultation,
			Status:       model.AppointmentStatusScheduled,
			CreatedAt:    s.now(),
			UpdatedAt:    s.now(),
		}
		s.store.Set(appointment.ID, appointment, gocache.NoExpiration)
	}
}
