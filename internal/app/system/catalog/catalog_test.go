package catalog

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/thinkedge/internal/domain/models"
	"github.com/dalemusser/thinkedge/internal/testutil"
)

func TestAddContent(t *testing.T) {
	prev := now
	now = func() time.Time { return time.UnixMilli(1700000000000) }
	t.Cleanup(func() { now = prev })

	rs := testutil.NewStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	teacher, _ := rs.Users().Find(ctx, "2")

	c, err := AddContent(ctx, rs, teacher, ContentInput{
		Title: " <i>Newton's</i> Laws ",
		Type:  "PDF",
		URL:   "https://example.com/newton.pdf",
	})
	if err != nil {
		t.Fatalf("AddContent: %v", err)
	}
	if c.ID != "c1700000000000" {
		t.Errorf("id = %q", c.ID)
	}
	if c.Title != "Newton's Laws" || c.Type != models.ContentTypePDF {
		t.Errorf("content = %+v", c)
	}
	if c.InstituteID != teacher.InstituteID || c.ClassName != teacher.ClassName {
		t.Errorf("content not placed in teacher's class: %+v", c)
	}
	// Two seeded items in 10th A, so the default priority goes after them.
	if c.Priority != 3 {
		t.Errorf("priority = %d, want 3", c.Priority)
	}

	// Same millisecond: id must still be unique.
	c2, err := AddContent(ctx, rs, teacher, ContentInput{
		Title: "Intro", Type: "video", URL: "https://example.com/v", Priority: 1,
	})
	if err != nil {
		t.Fatalf("AddContent second: %v", err)
	}
	if c2.ID == c.ID || !strings.HasPrefix(c2.ID, "c1700000000000-") {
		t.Errorf("collision id = %q", c2.ID)
	}

	items, err := ForClass(ctx, rs, teacher.InstituteID, teacher.ClassName)
	if err != nil {
		t.Fatalf("ForClass: %v", err)
	}
	if len(items) != 4 {
		t.Fatalf("items = %d, want 4", len(items))
	}
	for i := 1; i < len(items); i++ {
		if items[i-1].Priority > items[i].Priority {
			t.Errorf("not sorted by priority: %+v", items)
		}
	}
	// Stable among equal priorities: seeded c1 (priority 1) stays ahead of c2.
	if items[0].ID != "c1" || items[1].ID != c2.ID {
		t.Errorf("order = %s, %s", items[0].ID, items[1].ID)
	}
}

func TestAddContent_Rejects(t *testing.T) {
	rs := testutil.NewStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	teacher, _ := rs.Users().Find(ctx, "2")
	student, _ := rs.Users().Find(ctx, "3")

	if _, err := AddContent(ctx, rs, student, ContentInput{Title: "x", Type: "video", URL: "https://e.com"}); !errors.Is(err, ErrNotTeacher) {
		t.Errorf("student: got %v", err)
	}

	tests := []struct {
		name string
		in   ContentInput
	}{
		{"missing title", ContentInput{Type: "video", URL: "https://e.com"}},
		{"markup only title", ContentInput{Title: "<b></b>", Type: "video", URL: "https://e.com"}},
		{"bad type", ContentInput{Title: "x", Type: "doc", URL: "https://e.com"}},
		{"bad url", ContentInput{Title: "x", Type: "video", URL: "javascript:alert(1)"}},
		{"negative priority", ContentInput{Title: "x", Type: "video", URL: "https://e.com", Priority: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ve *ValidationError
			if _, err := AddContent(ctx, rs, teacher, tt.in); !errors.As(err, &ve) {
				t.Errorf("got %v, want ValidationError", err)
			}
		})
	}

	items, _ := rs.Contents().All(ctx)
	if len(items) != 2 {
		t.Errorf("rejected input was stored: %d items", len(items))
	}
}
