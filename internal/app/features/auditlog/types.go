// internal/app/features/auditlog/types.go
package auditlog

import "github.com/dalemusser/thinkedge/internal/app/store/audit"

// listResponse is the JSON body for GET /admin/audit.
type listResponse struct {
	Items      []audit.Event `json:"items"`
	Category   string        `json:"category,omitempty"`
	EventType  string        `json:"eventType,omitempty"`
	Categories []string      `json:"categories"`
	EventTypes []string      `json:"eventTypes"`
}

// eventTypesForCategory returns the event types for a given category.
// If category is empty, returns all event types.
func eventTypesForCategory(category string) []string {
	authEvents := []string{
		audit.EventLoginSuccess,
		audit.EventLoginFailed,
		audit.EventLogout,
		audit.EventRegistered,
		audit.EventPasswordSet,
	}

	adminEvents := []string{
		audit.EventUserApproved,
		audit.EventClassPromoted,
		audit.EventRegistrationStatusChanged,
		audit.EventStudentsImported,
		audit.EventContentAdded,
	}

	switch category {
	case audit.CategoryAuth:
		return authEvents
	case audit.CategoryAdmin:
		return adminEvents
	case "":
		all := make([]string, 0, len(authEvents)+len(adminEvents))
		all = append(all, authEvents...)
		all = append(all, adminEvents...)
		return all
	default:
		return nil
	}
}
