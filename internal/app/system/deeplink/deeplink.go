// Package deeplink parses and builds the fragment links that open the
// assessment flow without a session, e.g.
//
//	https://lms.example.com/#assessment?id=a1&inst=1&std=3
package deeplink

import (
	"errors"
	"net/url"
	"strings"

	"github.com/dalemusser/thinkedge/internal/domain/models"
)

// Page names reachable through a fragment.
const (
	PageLogin      = "login"
	PageRegister   = "register"
	PageAssessment = "assessment"
)

// Unknown fills a missing institute or student parameter.
const Unknown = "Unknown"

// ErrNoAssessments is returned by Resolve when there is nothing to fall back to.
var ErrNoAssessments = errors.New("no assessments available")

// Params are the assessment link parameters.
type Params struct {
	AssessmentID string `json:"id"`
	InstituteID  string `json:"inst"`
	StudentID    string `json:"std"`
}

// Parse splits a fragment ("#page?k=v&...", leading '#' optional) into its
// page name and assessment parameters. Missing inst/std become Unknown; a
// missing id stays empty for Resolve to default. Malformed query text is
// parsed as far as possible rather than rejected.
func Parse(fragment string) (page string, p Params) {
	fragment = strings.TrimPrefix(strings.TrimSpace(fragment), "#")
	page, rawQuery, _ := strings.Cut(fragment, "?")

	q, _ := url.ParseQuery(rawQuery)
	return page, FromValues(q)
}

// FromValues reads Params from query values (id, inst, std).
func FromValues(q url.Values) Params {
	p := Params{
		AssessmentID: strings.TrimSpace(q.Get("id")),
		InstituteID:  strings.TrimSpace(q.Get("inst")),
		StudentID:    strings.TrimSpace(q.Get("std")),
	}
	if p.InstituteID == "" {
		p.InstituteID = Unknown
	}
	if p.StudentID == "" {
		p.StudentID = Unknown
	}
	return p
}

// Resolve picks the assessment with the given id, falling back to the
// first one when the id is empty or unknown.
func Resolve(all []models.Assessment, id string) (models.Assessment, error) {
	if len(all) == 0 {
		return models.Assessment{}, ErrNoAssessments
	}
	for _, a := range all {
		if a.ID == id {
			return a, nil
		}
	}
	return all[0], nil
}

// Build returns the shareable link for an assessment. studentID is optional.
func Build(baseURL, assessmentID, instituteID, studentID string) string {
	// Parameter order is fixed (id, inst, std); url.Values.Encode would sort.
	link := strings.TrimRight(baseURL, "/") + "/#" + PageAssessment + "?" +
		"id=" + url.QueryEscape(assessmentID) +
		"&inst=" + url.QueryEscape(instituteID)
	if studentID != "" {
		link += "&std=" + url.QueryEscape(studentID)
	}
	return link
}

// IsPublic reports whether page may be shown without a signed-in user.
func IsPublic(page string) bool {
	page, _, _ = strings.Cut(strings.TrimPrefix(page, "#"), "?")
	switch page {
	case PageLogin, PageRegister, PageAssessment:
		return true
	}
	return false
}
