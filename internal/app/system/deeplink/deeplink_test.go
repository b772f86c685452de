package deeplink

import (
	"errors"
	"strings"
	"testing"

	"github.com/dalemusser/thinkedge/internal/domain/models"
)

func TestParse(t *testing.T) {
	tests := []struct {
		fragment string
		page     string
		want     Params
	}{
		{"#assessment?id=a1&inst=1&std=3", "assessment", Params{"a1", "1", "3"}},
		{"assessment?id=a1&inst=1", "assessment", Params{"a1", "1", Unknown}},
		{"#assessment", "assessment", Params{"", Unknown, Unknown}},
		{"#assessment?std=3", "assessment", Params{"", Unknown, "3"}},
		{"#login", "login", Params{"", Unknown, Unknown}},
		{"", "", Params{"", Unknown, Unknown}},
		{"#assessment?id=a%201&inst=", "assessment", Params{"a 1", Unknown, Unknown}},
	}
	for _, tt := range tests {
		t.Run(tt.fragment, func(t *testing.T) {
			page, p := Parse(tt.fragment)
			if page != tt.page {
				t.Errorf("page = %q, want %q", page, tt.page)
			}
			if p != tt.want {
				t.Errorf("params = %+v, want %+v", p, tt.want)
			}
		})
	}
}

func TestBuild_RoundTrip(t *testing.T) {
	link := Build("https://lms.example.com/", "a1", "1", "3")
	if link != "https://lms.example.com/#assessment?id=a1&inst=1&std=3" {
		t.Fatalf("Build = %q", link)
	}

	noStd := Build("https://lms.example.com", "a1", "1", "")
	if noStd != "https://lms.example.com/#assessment?id=a1&inst=1" {
		t.Fatalf("Build without student = %q", noStd)
	}

	_, frag, _ := strings.Cut(link, "#")
	page, p := Parse(frag)
	if page != PageAssessment || p != (Params{"a1", "1", "3"}) {
		t.Errorf("round trip: page=%q params=%+v", page, p)
	}
}

func TestResolve(t *testing.T) {
	all := []models.Assessment{{ID: "a1"}, {ID: "a2"}}

	if a, _ := Resolve(all, "a2"); a.ID != "a2" {
		t.Errorf("known id: got %q", a.ID)
	}
	if a, _ := Resolve(all, "nope"); a.ID != "a1" {
		t.Errorf("unknown id should fall back to first, got %q", a.ID)
	}
	if a, _ := Resolve(all, ""); a.ID != "a1" {
		t.Errorf("empty id should fall back to first, got %q", a.ID)
	}
	if _, err := Resolve(nil, "a1"); !errors.Is(err, ErrNoAssessments) {
		t.Errorf("empty list: got %v", err)
	}
}

func TestIsPublic(t *testing.T) {
	for page, want := range map[string]bool{
		"login":            true,
		"#register":        true,
		"assessment?id=a1": true,
		"dashboard":        false,
		"admin":            false,
		"":                 false,
	} {
		if got := IsPublic(page); got != want {
			t.Errorf("IsPublic(%q) = %v, want %v", page, got, want)
		}
	}
}
