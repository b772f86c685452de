// internal/app/bootstrap/routes.go
package bootstrap

import (
	"context"
	"net/http"

	adminfeature "github.com/dalemusser/thinkedge/internal/app/features/admin"
	assessmentfeature "github.com/dalemusser/thinkedge/internal/app/features/assessment"
	auditlogfeature "github.com/dalemusser/thinkedge/internal/app/features/auditlog"
	dashboardfeature "github.com/dalemusser/thinkedge/internal/app/features/dashboard"
	errorsfeature "github.com/dalemusser/thinkedge/internal/app/features/errors"
	healthfeature "github.com/dalemusser/thinkedge/internal/app/features/health"
	loginfeature "github.com/dalemusser/thinkedge/internal/app/features/login"
	logoutfeature "github.com/dalemusser/thinkedge/internal/app/features/logout"
	profilefeature "github.com/dalemusser/thinkedge/internal/app/features/profile"
	registerfeature "github.com/dalemusser/thinkedge/internal/app/features/register"
	studentfeature "github.com/dalemusser/thinkedge/internal/app/features/student"
	teacherfeature "github.com/dalemusser/thinkedge/internal/app/features/teacher"
	userinfofeature "github.com/dalemusser/thinkedge/internal/app/features/userinfo"
	metricsstore "github.com/dalemusser/thinkedge/internal/app/store/metrics"
	"github.com/dalemusser/thinkedge/internal/app/system/auditlog"
	"github.com/dalemusser/thinkedge/internal/app/system/auth"
	"github.com/dalemusser/thinkedge/internal/app/system/mailer"
	"github.com/dalemusser/thinkedge/internal/app/system/metrics"
	"github.com/dalemusser/thinkedge/internal/app/system/ratelimit"
	"github.com/dalemusser/thinkedge/internal/app/system/session"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, store connection, seeding and the
// Startup hook have completed. Every feature is JSON over HTTP; the session
// cookie carries only the signed-in user's id and LoadSessionUser re-reads
// the user on each request.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}
	sessionMgr.SetUserFetcher(session.NewFetcher(deps.Records))

	rs := deps.Records
	auditLogger := auditlog.New(deps.Audit, logger, auditlog.Config{
		Auth:  appCfg.AuditLogAuth,
		Admin: appCfg.AuditLogAdmin,
	})
	mx := metrics.New(func(ctx context.Context) metricsstore.Counts {
		return metricsstore.FetchDashboardCounts(ctx, rs, "")
	})
	sender := mailer.NewLogSender(logger)

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if logged in.
	r.Use(sessionMgr.LoadSessionUser)

	// Health check and scrape endpoints
	r.Mount("/health", healthfeature.Routes(healthfeature.NewHandler(rs, deps.Backend, logger)))
	r.Handle("/metrics", mx.Handler())

	// Authentication
	loginLimiter := ratelimit.NewLoginLimiter()
	loginLimiter.TrustProxy = appCfg.TrustProxyHeaders
	r.Mount("/login", loginfeature.Routes(loginfeature.NewHandler(rs, sessionMgr, auditLogger, mx, loginLimiter, logger)))
	r.Mount("/logout", logoutfeature.Routes(logoutfeature.NewHandler(rs, sessionMgr, auditLogger, logger)))
	r.Mount("/register", registerfeature.Routes(registerfeature.NewHandler(rs, auditLogger, mx, logger)))
	userinfofeature.MountRoutes(r, userinfofeature.NewHandler(rs, logger))

	// Error endpoints used by RequireSignedIn/RequireRole redirects
	errorsHandler := errorsfeature.NewHandler()
	r.Get("/forbidden", errorsHandler.Forbidden)
	r.Get("/unauthorized", errorsHandler.Unauthorized)

	// Role-based dashboards
	r.Mount("/dashboard", dashboardfeature.Routes(dashboardfeature.NewHandler(rs, logger), sessionMgr))

	// Admin workflows; the audit log lives under the same prefix.
	adminRouter := adminfeature.Routes(adminfeature.NewHandler(rs, sender, auditLogger, mx, appCfg.BaseURL, logger), sessionMgr)
	adminRouter.Mount("/audit", auditlogfeature.Routes(auditlogfeature.NewHandler(deps.Audit, logger), sessionMgr))
	r.Mount("/admin", adminRouter)

	r.Mount("/teacher", teacherfeature.Routes(teacherfeature.NewHandler(rs, auditLogger, mx, appCfg.BaseURL, logger), sessionMgr))
	r.Mount("/student", studentfeature.Routes(studentfeature.NewHandler(rs, mx, logger), sessionMgr))

	// Deep-link assessment flow (no session required)
	r.Mount("/assessment", assessmentfeature.Routes(assessmentfeature.NewHandler(rs, mx, logger)))

	r.Mount("/profile", profilefeature.Routes(profilefeature.NewHandler(rs, auditLogger, logger), sessionMgr))

	return r, nil
}
