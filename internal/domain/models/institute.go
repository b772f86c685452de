// internal/domain/models/institute.go
package models

// Institute is a tenant organization (school) owning classes and users.
type Institute struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
}

// RecordID implements records.Record.
func (i Institute) RecordID() string { return i.ID }
