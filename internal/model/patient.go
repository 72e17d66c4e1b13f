package model

// PatientStatus is the free-text lifecycle status shown on the dashboard.
type PatientStatus string

const (
	PatientStatusActive    PatientStatus = "Active"
	PatientStatusPending   PatientStatus = "Pending"
	PatientStatusCritical  PatientStatus = "Critical"
	PatientStatusRecovered PatientStatus = "Recovered"
	PatientStatusInactive  PatientStatus = "Inactive"
)

// Patient is the simplified demographic record served to the dashboard.
// Identifiers are strings assigned by the upstream provider.
//
// The clinical sub-resource lists are never populated by patient reads;
// callers query medications, allergies and conditions separately by
// patient id.
type Patient struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	FirstName  string   `json:"firstName"`
	LastName   string   `json:"lastName"`
	Age        int      `json:"age"`
	BirthDate  string   `json:"birthDate"`
	Gender     string   `json:"gender"`
	Contact    string   `json:"contact"`
	Phone      string   `json:"phone"`
	Email      string   `json:"email"`
	Conditions []string `json:"conditions"`
	Allergies  []string `json:"allergies"`
	LastVisit  string   `json:"lastVisit"`
	Status     string   `json:"status"`
}

type CreatePatientRequest struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Gender    string `json:"gender" binding:"required,oneof=male female other unknown"`
	BirthDate string `json:"birthDate" binding:"required,datetime=2006-01-02"`
	Phone     string `json:"phone"`
	Email     string `json:"email" binding:"omitempty,email"`
}

type UpdatePatientRequest struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Gender    string `json:"gender" binding:"required,oneof=male female other unknown"`
	BirthDate string `json:"birthDate" binding:"required,datetime=2006-01-02"`
	Phone     string `json:"phone"`
	Email     string `json:"email" binding:"omitempty,email"`
}
