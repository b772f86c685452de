// internal/domain/models/notification.go
package models

// Notification is an append-only outbox entry created on approval events.
// SentAt is formatted with NotificationTimeLayout.
type Notification struct {
	ID        string `json:"id"`
	UserID    string `json:"userId"`
	UserEmail string `json:"userEmail"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
	SentAt    string `json:"sentAt"`
}

// RecordID implements records.Record.
func (n Notification) RecordID() string { return n.ID }

// NotificationTimeLayout is the layout used for Notification.SentAt.
const NotificationTimeLayout = "2006-01-02 15:04:05"
