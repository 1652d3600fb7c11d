package notification

import (
	"bytes"
	htmltemplate "html/template"
	"strconv"
	texttemplate "text/template"
	"time"

	"prolits/internal/domain/service"

	"github.com/pkg/errors"
)

const resetEmailSubject = "Reset Your Prolits Password"

var resetEmailHTML = htmltemplate.Must(htmltemplate.New("reset_html").Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #2563eb;">Password Reset Request</h2>
  {{if .FirstName}}<p>Hi {{.FirstName}},</p>{{else}}<p>Hello,</p>{{end}}
  <p>You requested to reset your password for your Prolits account. Click the button below to set a new password:</p>
  <div style="text-align: center; margin: 30px 0;">
    <a href="{{.ResetURL}}" style="background-color: #2563eb; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; display: inline-block;">Reset Password</a>
  </div>
  <p>Or copy and paste this link into your browser:</p>
  <p style="word-break: break-all; color: #6b7280;">{{.ResetURL}}</p>
  <p><strong>This link will expire in {{.ValidFor}}.</strong></p>
  <p>If you didn't request this password reset, you can safely ignore this email.</p>
  <hr style="margin: 30px 0; border: none; border-top: 1px solid #e5e7eb;">
  <p style="color: #6b7280; font-size: 14px;">This email was sent from Prolits Property Management System.</p>
</div>
`))

var resetEmailText = texttemplate.Must(texttemplate.New("reset_text").Parse(`Password Reset Request

{{if .FirstName}}Hi {{.FirstName}},{{else}}Hello,{{end}}

You requested to reset your password for your Prolits account.

Please visit the following link to set a new password:
{{.ResetURL}}

This link will expire in {{.ValidFor}}.

If you didn't request this password reset, you can safely ignore this email.
`))

type resetEmailData struct {
	FirstName string
	ResetURL  string
	ValidFor  string
}

// renderResetEmail returns the plain text and HTML bodies for msg as of now.
func renderResetEmail(msg *service.PasswordResetMessage, now time.Time) (text, html string, err error) {
	data := resetEmailData{
		FirstName: msg.FirstName,
		ResetURL:  msg.ResetURL,
		ValidFor:  humanizeValidity(msg.ExpiresAt.Sub(now)),
	}

	var textBuf, htmlBuf bytes.Buffer
	if err := resetEmailText.Execute(&textBuf, data); err != nil {
		return "", "", errors.Wrap(err, "render reset email text")
	}
	if err := resetEmailHTML.Execute(&htmlBuf, data); err != nil {
		return "", "", errors.Wrap(err, "render reset email html")
	}

	return textBuf.String(), htmlBuf.String(), nil
}

func humanizeValidity(d time.Duration) string {
	hours := int(d.Round(time.Hour).Hours())
	switch {
	case hours >= 2:
		return strconv.Itoa(hours) + " hours"
	case hours == 1:
		return "1 hour"
	default:
		minutes := int(d.Round(time.Minute).Minutes())
		if minutes <= 1 {
			return "1 minute"
		}

		return strconv.Itoa(minutes) + " minutes"
	}
}
