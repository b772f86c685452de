// internal/app/features/dashboard/common.go
package dashboard

import "time"

const dashboardTimeout = 5 * time.Second

// baseDashboardData contains fields common to all dashboard views.
type baseDashboardData struct {
	Title    string `json:"title"`
	Role     string `json:"role"`
	UserName string `json:"userName"`
}
