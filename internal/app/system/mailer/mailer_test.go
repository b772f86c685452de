package mailer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dalemusser/thinkedge/internal/domain/models"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func approvalNotification() models.Notification {
	return models.Notification{
		ID:        "n1",
		UserID:    "3",
		UserEmail: "alice@student.com",
		Subject:   "Account Approved - ThinkEdge",
		Body:      "Hello Alice & Co, your account has been approved by the Admin.",
		SentAt:    "2024-05-10 09:30:00",
	}
}

func TestBuildNotificationEmail(t *testing.T) {
	e := BuildNotificationEmail("ThinkEdge", "https://lms.example.com/#login", approvalNotification())

	if e.To != "alice@student.com" || e.Subject != "Account Approved - ThinkEdge" {
		t.Errorf("headers = %q / %q", e.To, e.Subject)
	}
	if !strings.Contains(e.TextBody, "your account has been approved") {
		t.Errorf("text body = %q", e.TextBody)
	}
	if !strings.Contains(e.TextBody, "https://lms.example.com/#login") {
		t.Error("text body missing login link")
	}
	if !strings.Contains(e.HTMLBody, "<p>Hello Alice &amp; Co,") {
		t.Error("plain body should be escaped into a paragraph")
	}
	if !strings.Contains(e.HTMLBody, `href="https://lms.example.com/#login"`) {
		t.Error("html body missing sign-in button")
	}
}

func TestBuildNotificationEmail_SanitizesMarkupBody(t *testing.T) {
	n := approvalNotification()
	n.Body = `<p>Welcome <b>Alice</b></p><script>steal()</script>`
	e := BuildNotificationEmail("ThinkEdge", "", n)
	if strings.Contains(e.HTMLBody, "steal()") {
		t.Error("script survived sanitizing")
	}
	if !strings.Contains(e.HTMLBody, "<b>Alice</b>") {
		t.Error("safe formatting should be kept")
	}
}

func TestBuildNotificationEmail_NoLoginURL(t *testing.T) {
	e := BuildNotificationEmail("ThinkEdge", "", approvalNotification())
	if strings.Contains(e.HTMLBody, "Sign In") || strings.Contains(e.TextBody, "Sign in") {
		t.Error("sign-in link rendered without a URL")
	}
}

func TestLogSender(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	s := NewLogSender(zap.New(core))

	if err := s.Send(context.Background(), Email{To: "a@b.com", Subject: "hi"}); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if logs.FilterMessage("email queued").Len() != 1 {
		t.Error("expected one log entry")
	}
	if err := s.Send(context.Background(), Email{Subject: "no one"}); !errors.Is(err, ErrNoRecipient) {
		t.Errorf("got %v, want ErrNoRecipient", err)
	}
}
