package service

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/barracks/account-service/internal/core/domain"
	"github.com/barracks/account-service/internal/core/ports"
)

// Mail bodies are rendered from fixed templates compiled at init. User data
// only ever flows in as template values, never as template text, so
// recipients cannot inject template directives.

var welcomeTmpl = template.Must(template.New("welcome").Parse(`<html><body>
<p>Hi {{.Name}},</p>
<p>Welcome to the Barracks Merch Store. Your account is ready.</p>
</body></html>`))

var passwordChangedTmpl = template.Must(template.New("password_changed").Parse(`<html><body>
<p>Hi {{.Name}},</p>
<p>Your password was just changed and all other sessions were signed out.
If this wasn't you, reset your password immediately.</p>
</body></html>`))

// WelcomeMail renders the registration confirmation for a new identity.
func WelcomeMail(user *domain.User) (ports.MailMessage, error) {
	body, err := render(welcomeTmpl, user)
	if err != nil {
		return ports.MailMessage{}, err
	}
	return ports.MailMessage{
		To:       user.Email,
		Subject:  "Welcome to Barracks Merch Store",
		HTMLBody: body,
		TextBody: fmt.Sprintf("Hi %s, welcome to the Barracks Merch Store. Your account is ready.", user.Name),
	}, nil
}

// PasswordChangedMail renders the notice sent after a password rotation.
func PasswordChangedMail(user *domain.User) (ports.MailMessage, error) {
	body, err := render(passwordChangedTmpl, user)
	if err != nil {
		return ports.MailMessage{}, err
	}
	return ports.MailMessage{
		To:       user.Email,
		Subject:  "Your password was changed",
		HTMLBody: body,
		TextBody: fmt.Sprintf("Hi %s, your password was just changed and all other sessions were signed out.", user.Name),
	}, nil
}

func render(tmpl *template.Template, user *domain.User) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, user); err != nil {
		return "", fmt.Errorf("render mail template %q: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}
