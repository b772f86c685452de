// internal/domain/models/content.go
package models

// Content is one unit of sequential learning material.
//
// Priority defines display and unlock order among items that share a
// ClassName. It is not guaranteed unique.
type Content struct {
	ID          string `json:"id"`
	InstituteID string `json:"instituteId"`
	ClassName   string `json:"className"`
	Title       string `json:"title"`
	Type        string `json:"type"`
	URL         string `json:"url"`
	Priority    int    `json:"priority"`
}

// RecordID implements records.Record.
func (c Content) RecordID() string { return c.ID }
