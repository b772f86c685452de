// Package enrollment covers how people get into the system: self
// registration, admin approval, teacher roster imports and institute
// registration review. Approval events leave a Notification behind.
package enrollment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/thinkedge/internal/app/store/records"
	"github.com/dalemusser/thinkedge/internal/app/system/csvutil"
	"github.com/dalemusser/thinkedge/internal/app/system/htmlsanitize"
	"github.com/dalemusser/thinkedge/internal/app/system/inputval"
	"github.com/dalemusser/thinkedge/internal/app/system/normalize"
	"github.com/dalemusser/thinkedge/internal/app/system/passwords"
	"github.com/dalemusser/thinkedge/internal/domain/models"
	"github.com/google/uuid"
)

// Notification text for account approval.
const (
	ApprovalSubject    = "Account Approved - ThinkEdge"
	approvalBodyFormat = "Hello %s, your account has been approved by the Admin."

	CredentialsSubject    = "Institute Approved - ThinkEdge Credentials"
	credentialsBodyFormat = "Hello %s, %s has been approved. Your administrator credentials have been sent to this address."
)

var (
	ErrEmailTaken      = errors.New("an account with this email already exists")
	ErrAlreadyApproved = errors.New("user is already approved")
	ErrNotTeacher      = errors.New("user is not a teacher")
	ErrInvalidStatus   = errors.New("invalid registration status")
	ErrWeakPassword    = errors.New("password must be at least 6 characters")
)

// MinPasswordLength matches the registration rule.
const MinPasswordLength = 6

// now is replaced in tests.
var now = time.Now

// ValidationError carries field-level input problems.
type ValidationError struct {
	Result *inputval.Result
}

func (e *ValidationError) Error() string { return e.Result.All() }

// RegisterInput is a self-service signup.
type RegisterInput struct {
	Name        string `json:"name" validate:"required,max=100" label:"Name"`
	Email       string `json:"email" validate:"required,emailaddr" label:"Email"`
	Password    string `json:"password" validate:"required,min=6,max=128" label:"Password"`
	Role        string `json:"role" validate:"required,registerrole" label:"Role"`
	InstituteID string `json:"instituteId" validate:"max=64" label:"Institute"`
	ClassName   string `json:"className" validate:"max=64" label:"Class"`
}

// Register creates an unapproved account. The user cannot log in until an
// admin approves it.
func Register(ctx context.Context, rs *records.Store, in RegisterInput) (models.User, error) {
	in.Name = htmlsanitize.StripTags(normalize.Name(in.Name))
	in.Email = normalize.Email(in.Email)
	in.Role = normalize.Role(in.Role)
	in.InstituteID = normalize.QueryParam(in.InstituteID)
	in.ClassName = htmlsanitize.StripTags(normalize.Name(in.ClassName))
	if res := inputval.Validate(in); res.HasErrors() {
		return models.User{}, &ValidationError{Result: res}
	}

	hash, err := passwords.Hash(in.Password)
	if err != nil {
		return models.User{}, err
	}
	u := models.User{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Email:       in.Email,
		Password:    hash,
		Role:        in.Role,
		InstituteID: in.InstituteID,
		ClassName:   in.ClassName,
	}

	err = rs.Users().Update(ctx, func(users []models.User) ([]models.User, error) {
		for _, existing := range users {
			if normalize.SameEmail(existing.Email, u.Email) {
				return nil, ErrEmailTaken
			}
		}
		return append(users, u), nil
	})
	if err != nil {
		return models.User{}, err
	}
	return u, nil
}

// Pending lists unapproved users, restricted to instituteID unless it is
// empty.
func Pending(ctx context.Context, rs *records.Store, instituteID string) ([]models.User, error) {
	return rs.Users().Filter(ctx, func(u models.User) bool {
		return !u.IsApproved && (instituteID == "" || u.InstituteID == instituteID)
	})
}

// Approve marks userID approved and records the approval notification.
func Approve(ctx context.Context, rs *records.Store, userID string) (models.User, models.Notification, error) {
	var approved models.User
	err := rs.Users().Update(ctx, func(users []models.User) ([]models.User, error) {
		for i := range users {
			if users[i].ID != userID {
				continue
			}
			if users[i].IsApproved {
				return nil, ErrAlreadyApproved
			}
			users[i].IsApproved = true
			approved = users[i]
			return users, nil
		}
		return nil, fmt.Errorf("users %q: %w", userID, records.ErrNotFound)
	})
	if err != nil {
		return models.User{}, models.Notification{}, err
	}

	n := models.Notification{
		ID:        uuid.NewString(),
		UserID:    approved.ID,
		UserEmail: approved.Email,
		Subject:   ApprovalSubject,
		Body:      fmt.Sprintf(approvalBodyFormat, approved.Name),
		SentAt:    now().Format(models.NotificationTimeLayout),
	}
	if err := rs.Notifications().Prepend(ctx, n); err != nil {
		return approved, models.Notification{}, fmt.Errorf("record notification: %w", err)
	}
	return approved, n, nil
}

// ImportResult reports what ImportStudents did.
type ImportResult struct {
	Created []models.User `json:"created"`
	Skipped []string      `json:"skipped"` // emails that already had an account
}

// ImportStudents creates approved students in the teacher's institute and
// class with no progress. Rows whose email is already registered are
// skipped. Imported accounts have no password until one is set.
func ImportStudents(ctx context.Context, rs *records.Store, teacher models.User, rows []csvutil.StudentRow) (ImportResult, error) {
	if teacher.Role != models.RoleTeacher {
		return ImportResult{}, ErrNotTeacher
	}
	res := ImportResult{Created: []models.User{}, Skipped: []string{}}
	err := rs.Users().Update(ctx, func(users []models.User) ([]models.User, error) {
		taken := make(map[string]bool, len(users))
		for _, u := range users {
			taken[normalize.EmailKey(u.Email)] = true
		}
		for _, row := range rows {
			key := normalize.EmailKey(row.Email)
			if taken[key] {
				res.Skipped = append(res.Skipped, row.Email)
				continue
			}
			taken[key] = true
			s := models.User{
				ID:          uuid.NewString(),
				Name:        row.Name,
				Email:       row.Email,
				Role:        models.RoleStudent,
				InstituteID: teacher.InstituteID,
				ClassName:   teacher.ClassName,
				IsApproved:  true,
			}
			users = append(users, s)
			res.Created = append(res.Created, s)
		}
		return users, nil
	})
	if err != nil {
		return ImportResult{}, err
	}
	return res, nil
}

// SetRegistrationStatus moves an institute registration to status. The
// first transition to approved creates the Institute and notifies the
// registration's contact address; that notification is returned, and is
// nil for every other transition.
func SetRegistrationStatus(ctx context.Context, rs *records.Store, id, status string) (models.InstituteRegistration, *models.Notification, error) {
	status = normalize.Status(status)
	if !inputval.IsValidRegistrationStatus(status) {
		return models.InstituteRegistration{}, nil, ErrInvalidStatus
	}

	var (
		reg     models.InstituteRegistration
		newInst *models.Institute
	)
	err := rs.Registrations().Update(ctx, func(regs []models.InstituteRegistration) ([]models.InstituteRegistration, error) {
		for i := range regs {
			if regs[i].ID != id {
				continue
			}
			regs[i].Status = status
			if status == models.RegistrationApproved && regs[i].InstituteID == "" {
				inst := models.Institute{
					ID:      uuid.NewString(),
					Name:    regs[i].Name,
					Address: regs[i].Address,
				}
				regs[i].InstituteID = inst.ID
				newInst = &inst
			}
			reg = regs[i]
			return regs, nil
		}
		return nil, fmt.Errorf("registrations %q: %w", id, records.ErrNotFound)
	})
	if err != nil {
		return models.InstituteRegistration{}, nil, err
	}
	if newInst == nil {
		return reg, nil, nil
	}

	if err := rs.Institutes().Upsert(ctx, *newInst); err != nil {
		return reg, nil, fmt.Errorf("create institute: %w", err)
	}
	n := models.Notification{
		ID:        uuid.NewString(),
		UserEmail: reg.Email,
		Subject:   CredentialsSubject,
		Body:      fmt.Sprintf(credentialsBodyFormat, reg.Admin, reg.Name),
		SentAt:    now().Format(models.NotificationTimeLayout),
	}
	if err := rs.Notifications().Prepend(ctx, n); err != nil {
		return reg, nil, fmt.Errorf("record notification: %w", err)
	}
	return reg, &n, nil
}

// SetPassword replaces userID's password with a hash of plain.
func SetPassword(ctx context.Context, rs *records.Store, userID, plain string) error {
	if len(plain) < MinPasswordLength {
		return ErrWeakPassword
	}
	hash, err := passwords.Hash(plain)
	if err != nil {
		return err
	}
	return rs.Users().Update(ctx, func(users []models.User) ([]models.User, error) {
		for i := range users {
			if users[i].ID == userID {
				users[i].Password = hash
				return users, nil
			}
		}
		return nil, fmt.Errorf("users %q: %w", userID, records.ErrNotFound)
	})
}
