// internal/domain/models/registration.go
package models

// Institute registration statuses.
const (
	RegistrationPending  = "pending"
	RegistrationApproved = "approved"
	RegistrationRejected = "rejected"
)

// RegistrationStatuses is the full set of allowed registration statuses.
var RegistrationStatuses = []string{
	RegistrationPending,
	RegistrationApproved,
	RegistrationRejected,
}

// InstituteRegistration is a request from a school to join the platform.
// Approving one creates the Institute record (InstituteID is set then).
type InstituteRegistration struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Admin       string `json:"admin"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	Status      string `json:"status"`
	Date        string `json:"date"` // YYYY-MM-DD
	InstituteID string `json:"instituteId,omitempty"`
}

// RecordID implements records.Record.
func (r InstituteRegistration) RecordID() string { return r.ID }
