// internal/app/system/mailer/templates.go
package mailer

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/dalemusser/thinkedge/internal/app/system/htmlsanitize"
	"github.com/dalemusser/thinkedge/internal/domain/models"
)

// NotificationEmailData holds data for the notification email template.
type NotificationEmailData struct {
	SiteName string
	Subject  string
	Body     string // plain text as stored on the notification
	LoginURL string // optional
	SentAt   string
}

// BuildNotificationEmail renders a stored notification as an email with
// both text and HTML bodies.
func BuildNotificationEmail(siteName, loginURL string, n models.Notification) Email {
	data := NotificationEmailData{
		SiteName: siteName,
		Subject:  n.Subject,
		Body:     n.Body,
		LoginURL: loginURL,
		SentAt:   n.SentAt,
	}
	return Email{
		To:       n.UserEmail,
		Subject:  n.Subject,
		TextBody: buildNotificationText(data),
		HTMLBody: buildNotificationHTML(data),
	}
}

func buildNotificationText(data NotificationEmailData) string {
	var buf bytes.Buffer
	buf.WriteString(data.Body + "\n\n")
	if data.LoginURL != "" {
		buf.WriteString(fmt.Sprintf("Sign in to %s: %s\n\n", data.SiteName, data.LoginURL))
	}
	buf.WriteString(fmt.Sprintf("Sent %s by %s.\n", data.SentAt, data.SiteName))
	return buf.String()
}

var notificationTmpl = template.Must(template.New("notification").Parse(notificationHTMLTemplate))

func buildNotificationHTML(data NotificationEmailData) string {
	var buf bytes.Buffer
	_ = notificationTmpl.Execute(&buf, struct {
		NotificationEmailData
		BodyHTML template.HTML
	}{data, htmlsanitize.PrepareForDisplay(data.Body)})
	return buf.String()
}

const notificationHTMLTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.Subject}}</title>
</head>
<body style="margin: 0; padding: 0; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Arial, sans-serif; background-color: #f8fafc;">
  <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="background-color: #f8fafc;">
    <tr>
      <td align="center" style="padding: 40px 20px;">
        <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="max-width: 520px; background-color: #ffffff; border-radius: 16px;">
          <tr>
            <td style="padding: 28px 32px 20px; border-bottom: 1px solid #e2e8f0;">
              <h1 style="margin: 0; font-size: 22px; font-weight: 700; color: #4338ca;">{{.SiteName}}</h1>
              <p style="margin: 6px 0 0; font-size: 14px; color: #64748b;">{{.Subject}}</p>
            </td>
          </tr>
          <tr>
            <td style="padding: 28px 32px; font-size: 16px; color: #334155; line-height: 1.5;">
              {{.BodyHTML}}
              {{if .LoginURL}}
              <p style="margin: 24px 0 0; text-align: center;">
                <a href="{{.LoginURL}}" style="display: inline-block; padding: 12px 28px; background-color: #4f46e5; color: #ffffff; text-decoration: none; border-radius: 8px;">Sign In</a>
              </p>
              {{end}}
            </td>
          </tr>
          <tr>
            <td style="padding: 20px 32px; background-color: #f1f5f9; border-radius: 0 0 16px 16px;">
              <p style="margin: 0; font-size: 12px; color: #94a3b8; text-align: center;">Sent {{.SentAt}}</p>
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>`
