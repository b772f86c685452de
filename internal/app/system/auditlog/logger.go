// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/dalemusser/thinkedge/internal/app/store/audit"
	"github.com/dalemusser/thinkedge/internal/domain/models"
	"go.uber.org/zap"
)

// Destination modes for Config fields.
const (
	ModeAll = "all" // store + zap
	ModeDB  = "db"  // store only
	ModeLog = "log" // zap only
	ModeOff = "off"
)

// Modes lists the accepted values.
var Modes = []string{ModeAll, ModeDB, ModeLog, ModeOff}

// Config holds audit logging configuration.
type Config struct {
	// Auth controls logging for authentication events (login, logout, registration).
	Auth string
	// Admin controls logging for admin actions (approval, promotion, imports).
	Admin string
}

// Logger records audit events to the audit store and/or zap.
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger. store may be nil when no mode uses it.
func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	if zapLog == nil {
		zapLog = zap.NewNop()
	}
	return &Logger{
		store:  store,
		zapLog: zapLog,
		config: config,
	}
}

// getClientIP returns the first proxy-reported address, else RemoteAddr
// without its port.
func getClientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

func userAgent(r *http.Request) string {
	if r == nil {
		return ""
	}
	return r.UserAgent()
}

func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
		zap.String("ip", event.IP),
	}
	if event.UserID != "" {
		fields = append(fields, zap.String("user_id", event.UserID))
	}
	if event.ActorID != "" {
		fields = append(fields, zap.String("actor_id", event.ActorID))
	}
	if event.InstituteID != "" {
		fields = append(fields, zap.String("institute_id", event.InstituteID))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records an audit event based on configuration.
// A nil Logger is a no-op so handlers and tests can omit auditing.
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	var setting string
	switch event.Category {
	case audit.CategoryAuth:
		setting = l.config.Auth
	case audit.CategoryAdmin:
		setting = l.config.Admin
	default:
		setting = ModeAll
	}
	if setting == "" || setting == ModeOff {
		return
	}

	if setting == ModeAll || setting == ModeLog {
		l.logToZap(event)
	}
	if (setting == ModeAll || setting == ModeDB) && l.store != nil {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType),
			)
		}
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| Authentication events                                                        |
*─────────────────────────────────────────────────────────────────────────────*/

// LoginSuccess logs a successful login.
func (l *Logger) LoginSuccess(ctx context.Context, r *http.Request, u models.User) {
	l.Log(ctx, audit.Event{
		Category:    audit.CategoryAuth,
		EventType:   audit.EventLoginSuccess,
		UserID:      u.ID,
		InstituteID: u.InstituteID,
		IP:          getClientIP(r),
		UserAgent:   userAgent(r),
		Success:     true,
		Details:     map[string]string{"email": u.Email, "role": u.Role},
	})
}

// LoginFailed logs a rejected login. The reason is deliberately generic;
// unknown email, wrong password and pending approval look the same.
func (l *Logger) LoginFailed(ctx context.Context, r *http.Request, attemptedEmail string) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     audit.EventLoginFailed,
		IP:            getClientIP(r),
		UserAgent:     userAgent(r),
		FailureReason: "invalid credentials or pending approval",
		Details:       map[string]string{"attempted_email": attemptedEmail},
	})
}

// Logout logs a logout.
func (l *Logger) Logout(ctx context.Context, r *http.Request, userID string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventLogout,
		UserID:    userID,
		IP:        getClientIP(r),
		UserAgent: userAgent(r),
		Success:   true,
	})
}

// UserRegistered logs a self-service registration.
func (l *Logger) UserRegistered(ctx context.Context, r *http.Request, u models.User) {
	l.Log(ctx, audit.Event{
		Category:    audit.CategoryAuth,
		EventType:   audit.EventRegistered,
		UserID:      u.ID,
		InstituteID: u.InstituteID,
		IP:          getClientIP(r),
		UserAgent:   userAgent(r),
		Success:     true,
		Details:     map[string]string{"role": u.Role},
	})
}

// PasswordSet logs an operator password reset (CLI, no request).
func (l *Logger) PasswordSet(ctx context.Context, userID string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventPasswordSet,
		UserID:    userID,
		Success:   true,
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| Admin events                                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

// UserApproved logs an account approval.
func (l *Logger) UserApproved(ctx context.Context, r *http.Request, actorID string, u models.User) {
	l.Log(ctx, audit.Event{
		Category:    audit.CategoryAdmin,
		EventType:   audit.EventUserApproved,
		UserID:      u.ID,
		ActorID:     actorID,
		InstituteID: u.InstituteID,
		IP:          getClientIP(r),
		UserAgent:   userAgent(r),
		Success:     true,
	})
}

// ClassPromoted logs an archive-and-promote.
func (l *Logger) ClassPromoted(ctx context.Context, r *http.Request, actorID, classID, from, to string, promoted int) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: audit.EventClassPromoted,
		ActorID:   actorID,
		IP:        getClientIP(r),
		UserAgent: userAgent(r),
		Success:   true,
		Details: map[string]string{
			"class_id": classID,
			"from":     from,
			"to":       to,
			"promoted": strconv.Itoa(promoted),
		},
	})
}

// RegistrationStatusChanged logs an institute registration review.
func (l *Logger) RegistrationStatusChanged(ctx context.Context, r *http.Request, actorID string, reg models.InstituteRegistration) {
	l.Log(ctx, audit.Event{
		Category:    audit.CategoryAdmin,
		EventType:   audit.EventRegistrationStatusChanged,
		ActorID:     actorID,
		InstituteID: reg.InstituteID,
		IP:          getClientIP(r),
		UserAgent:   userAgent(r),
		Success:     true,
		Details:     map[string]string{"registration_id": reg.ID, "status": reg.Status},
	})
}

// StudentsImported logs a roster import.
func (l *Logger) StudentsImported(ctx context.Context, r *http.Request, teacher models.User, created, skipped int) {
	l.Log(ctx, audit.Event{
		Category:    audit.CategoryAdmin,
		EventType:   audit.EventStudentsImported,
		ActorID:     teacher.ID,
		InstituteID: teacher.InstituteID,
		IP:          getClientIP(r),
		UserAgent:   userAgent(r),
		Success:     true,
		Details: map[string]string{
			"class":   teacher.ClassName,
			"created": strconv.Itoa(created),
			"skipped": strconv.Itoa(skipped),
		},
	})
}

// ContentAdded logs a new content item.
func (l *Logger) ContentAdded(ctx context.Context, r *http.Request, teacher models.User, c models.Content) {
	l.Log(ctx, audit.Event{
		Category:    audit.CategoryAdmin,
		EventType:   audit.EventContentAdded,
		ActorID:     teacher.ID,
		InstituteID: c.InstituteID,
		IP:          getClientIP(r),
		UserAgent:   userAgent(r),
		Success:     true,
		Details:     map[string]string{"content_id": c.ID, "class": c.ClassName},
	})
}
