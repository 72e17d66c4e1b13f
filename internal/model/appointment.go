package model

import "time"

type AppointmentType string

const (
	AppointmentTypeConsultation AppointmentType = "Consultation"
	AppointmentTypeFollowUp     AppointmentType = "Follow-up"
	AppointmentTypeProcedure    AppointmentType = "Procedure"
	AppointmentTypeOther        AppointmentType = "Other"
)

type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "Scheduled"
	AppointmentStatusCompleted AppointmentStatus = "Completed"
	AppointmentStatusCancelled AppointmentStatus = "Cancelled"
)

// Appointment is scheduled locally and never synced to the upstream provider.
type Appointment struct {
	ID           string            `json:"id"`
	PatientID    string            `json:"patientId"`
	PatientName  string            `json:"patientName"`
	ProviderID   string            `json:"providerId"`
	ProviderName string            `json:"providerName"`
	Date         string            `json:"date"` // 2006-01-02
	Time         string            `json:"time"` // 15:04
	Type         AppointmentType   `json:"type"`
	Status       AppointmentStatus `json:"status"`
	Notes        string            `json:"notes,omitempty"`
	CreatedAt    time.Time         `json:"createdAt"`
	UpdatedAt    time.Time         `json:"updatedAt"`
}

type CreateAppointmentRequest struct {
	PatientID    string `json:"patientId" binding:"required"`
	PatientName  string `json:"patientName" binding:"required"`
	ProviderID   string `json:"providerId" binding:"required"`
	ProviderName string `json:"providerName" binding:"required"`
	Date         string `json:"date" binding:"required,datetime=2006-01-02"`
	Time         string `json:"time" binding:"required,datetime=15:04"`
	Type         string `json:"type" binding:"required,oneof=Consultation Follow-up Procedure Other"`
	Notes        string `json:"notes" binding:"max=1000"`
}

type UpdateAppointmentRequest struct {
	Date   *string `json:"date" binding:"omitempty,datetime=2006-01-02"`
	Time   *string `json:"time" binding:"omitempty,datetime=15:04"`
	Type   *string `json:"type" binding:"omitempty,oneof=Consultation Follow-up Procedure Other"`
	Status *string `json:"status" binding:"omitempty,oneof=Scheduled Completed Cancelled"`
	Notes  *string `json:"notes" binding:"omitempty,max=1000"`
}

// AppointmentFilters narrows appointment listings.
type AppointmentFilters struct {
	PatientID string
	Date      string
	Status    AppointmentStatus
}
