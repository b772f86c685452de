// Package normalize canonicalizes user-supplied strings before they are
// compared or stored.
package normalize

import "strings"

// Email trims surrounding space and lower-cases the address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// EmailKey is the comparison form of a stored or submitted address:
// lower-cased and nothing else, so "a@x.com" and "A@X.COM" collide but
// accented or padded variants do not.
func EmailKey(s string) string {
	return strings.ToLower(s)
}

// SameEmail reports whether a and b name the same account.
func SameEmail(a, b string) bool {
	return EmailKey(a) == EmailKey(b)
}

// Name trims surrounding space and collapses inner runs of whitespace.
// Case is preserved.
func Name(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Role trims and lower-cases a role name.
func Role(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Status trims and lower-cases a registration status.
func Status(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// QueryParam trims a query string value.
func QueryParam(s string) string {
	return strings.TrimSpace(s)
}

// InstituteID trims an institute filter; "all" means no filter and
// becomes empty.
func InstituteID(s string) string {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "all") {
		return ""
	}
	return s
}
