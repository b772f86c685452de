// Package inputval validates request input: single-value checks plus
// struct validation through go-playground/validator with readable messages.
package inputval

import (
	"net/mail"
	"net/url"
	"strings"

	"github.com/dalemusser/thinkedge/internal/domain/models"
)

// IsValidEmail reports whether s is a bare address (no display name) with
// a well-formed local part and domain. Single-label domains are allowed.
func IsValidEmail(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s, " \t<>") {
		return false
	}
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s || addr.Name != "" {
		return false
	}
	local, domain, ok := strings.Cut(s, "@")
	if !ok || !dotsOK(local) || !dotsOK(domain) {
		return false
	}
	return true
}

func dotsOK(part string) bool {
	return part != "" &&
		!strings.HasPrefix(part, ".") &&
		!strings.HasSuffix(part, ".") &&
		!strings.Contains(part, "..")
}

// IsValidHTTPURL reports whether s is an absolute http(s) URL with a host.
func IsValidHTTPURL(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// IsValidRole reports whether s names a known role (case-insensitive).
func IsValidRole(s string) bool {
	return models.IsValidRole(strings.ToLower(strings.TrimSpace(s)))
}

// IsValidRegisterableRole reports whether s may be chosen at self-registration.
func IsValidRegisterableRole(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, r := range models.RegisterableRoles {
		if r == s {
			return true
		}
	}
	return false
}

// IsValidContentType reports whether s is a known content type.
func IsValidContentType(s string) bool {
	return models.IsValidContentType(strings.ToLower(strings.TrimSpace(s)))
}

// IsValidRegistrationStatus reports whether s is a registration status.
func IsValidRegistrationStatus(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, st := range models.RegistrationStatuses {
		if st == s {
			return true
		}
	}
	return false
}
