// internal/domain/models/user.go
package models

// User represents admins, teachers, and students.
//
// NOTE:
//   - ClassName is a denormalized class label, not a Class id. Promotion
//     rewrites it in place.
//   - Password holds a bcrypt hash. Records imported from older stores may
//     still carry plain text; session.Login accepts both.
type User struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Email         string         `json:"email"`
	Password      string         `json:"password,omitempty"`
	Role          string         `json:"role"`
	InstituteID   string         `json:"instituteId"`
	ClassName     string         `json:"className"`
	IsApproved    bool           `json:"isApproved"`
	ProgressCount int            `json:"progressCount"`
	Marks         map[string]int `json:"marks,omitempty"` // assessment id -> score (0-100)
}

// RecordID implements records.Record.
func (u User) RecordID() string { return u.ID }

// IsStudent reports whether the user carries the student role.
func (u User) IsStudent() bool { return u.Role == RoleStudent }

// Public returns a copy safe to hand to clients (no password).
func (u User) Public() User {
	u.Password = ""
	return u
}
