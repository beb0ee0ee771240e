// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 AirAuth Contributors

// Package mail renders the email notifications the authentication engine
// sends during email-based flows. It is a stateless templating layer: each
// renderer returns a subject plus HTML and plain-text bodies, and delivery
// is the caller's concern.
package mail

import (
	"fmt"
	"html/template"
	"strings"
)

// Message is a rendered email: subject line, HTML body, and a plain-text
// fallback body.
type Message struct {
	Subject string
	HTML    string
	Text    string
}

// EscapeHost prepares a display host for interpolation into HTML by joining
// a zero-width space onto every period, so that a lookalike domain cannot
// render as a clickable-looking hostname in the email client. HTML escaping
// of the result happens at template execution.
func EscapeHost(host string) string {
	return strings.ReplaceAll(host, ".", "​.")
}

var (
	linkTmpl = template.Must(template.New("link").Parse(`<body style="background: #f9f9f9;">
  <table width="100%" border="0" cellspacing="20" cellpadding="0"
    style="background: #fff; max-width: 600px; margin: auto; border-radius: 10px;">
    <tr>
      <td align="center"
        style="padding: 10px 0px; font-size: 22px; font-family: Helvetica, Arial, sans-serif; color: #444;">
        {{.Heading}} <strong>{{.Host}}</strong>
      </td>
    </tr>
    <tr>
      <td align="center" style="padding: 20px 0;">
        <table border="0" cellspacing="0" cellpadding="0">
          <tr>
            <td align="center" style="border-radius: 5px;" bgcolor="#346df1">
              <a href="{{.URL}}" target="_blank"
                style="font-size: 18px; font-family: Helvetica, Arial, sans-serif; color: #fff; text-decoration: none; border-radius: 5px; padding: 10px 20px; border: 1px solid #346df1; display: inline-block; font-weight: bold;">
                {{.Action}}</a>
            </td>
          </tr>
        </table>
      </td>
    </tr>
    <tr>
      <td align="center"
        style="padding: 0px 0px 10px 0px; font-size: 16px; line-height: 22px; font-family: Helvetica, Arial, sans-serif; color: #444;">
        If you did not request this email you can safely ignore it.
      </td>
    </tr>
  </table>
</body>`))

	welcomeTmpl = template.Must(template.New("welcome").Parse(`<body style="background: #f9f9f9;">
  <table width="100%" border="0" cellspacing="20" cellpadding="0"
    style="background: #fff; max-width: 600px; margin: auto; border-radius: 10px;">
    <tr>
      <td align="center"
        style="padding: 10px 0px; font-size: 22px; font-family: Helvetica, Arial, sans-serif; color: #444;">
        Welcome to <strong>{{.Host}}</strong>{{if .Name}}, {{.Name}}{{end}}
      </td>
    </tr>
    <tr>
      <td align="center"
        style="padding: 0px 0px 10px 0px; font-size: 16px; line-height: 22px; font-family: Helvetica, Arial, sans-serif; color: #444;">
        Your account is ready. If you did not sign up you can safely ignore
        this email.
      </td>
    </tr>
  </table>
</body>`))
)

type linkParams struct {
	Heading string
	Action  string
	Host    string
	URL     string
}

func renderLink(heading, action, subject, url, host string) Message {
	var b strings.Builder
	// Templates are static and the parameters are strings, so Execute
	// cannot fail here.
	_ = linkTmpl.Execute(&b, linkParams{
		Heading: heading,
		Action:  action,
		Host:    EscapeHost(host),
		URL:     url,
	})
	return Message{
		Subject: subject,
		HTML:    b.String(),
		Text:    fmt.Sprintf("%s %s\n%s\n\n", heading, host, url),
	}
}

// VerificationRequest renders the sign-in verification email pointing at the
// callback URL the engine generated for the token.
func VerificationRequest(url, host string) Message {
	return renderLink("Sign in to", "Sign in",
		fmt.Sprintf("Sign in to %s", host), url, host)
}

// MagicLink renders a passwordless sign-in email.
func MagicLink(url, host string) Message {
	return renderLink("Your sign-in link for", "Sign in",
		fmt.Sprintf("Your sign-in link for %s", host), url, host)
}

// PasswordReset renders a password reset email.
func PasswordReset(url, host string) Message {
	return renderLink("Reset your password on", "Reset password",
		fmt.Sprintf("Reset your password on %s", host), url, host)
}

// Welcome renders the post-registration welcome email. name is optional and
// omitted from the greeting when empty.
func Welcome(name, host string) Message {
	var b strings.Builder
	_ = welcomeTmpl.Execute(&b, struct {
		Host string
		Name string
	}{Host: EscapeHost(host), Name: name})

	greeting := fmt.Sprintf("Welcome to %s", host)
	if name != "" {
		greeting = fmt.Sprintf("Welcome to %s, %s", host, name)
	}
	return Message{
		Subject: fmt.Sprintf("Welcome to %s", host),
		HTML:    b.String(),
		Text:    greeting + "\n\n",
	}
}
