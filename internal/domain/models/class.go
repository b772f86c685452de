// internal/domain/models/class.go
package models

// Class is a named cohort of students within an institute.
// Classes are never deleted; promotion archives them.
type Class struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	InstituteID  string `json:"instituteId"`
	AcademicYear string `json:"academicYear"`
	IsArchived   bool   `json:"isArchived"`
}

// RecordID implements records.Record.
func (c Class) RecordID() string { return c.ID }
