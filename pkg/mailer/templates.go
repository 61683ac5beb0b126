package mailer

import (
	"bufio"
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/renderer/html"
)

//go:embed templates/*.md
var templateFS embed.FS

const (
	TemplateAttendeeCredentials = "attendee_credentials"
	TemplatePasswordReset       = "password_reset"
)

// CredentialsData fills the attendee_credentials template
type CredentialsData struct {
	Name           string
	Email          string
	Password       string
	ConferenceName string
	URLCode        string
	LoginURL       string
}

// PasswordResetData fills the password_reset template
type PasswordResetData struct {
	Name     string
	ResetURL string
	ValidFor string
}

// Templates renders Markdown email templates into text and HTML bodies.
// The first line of each template is "Subject: ...".
type Templates struct {
	tmpl *template.Template
	md   goldmark.Markdown
}

func NewTemplates() (*Templates, error) {
	tmpl, err := template.New("mail").Option("missingkey=error").ParseFS(templateFS, "templates/*.md")
	if err != nil {
		return nil, fmt.Errorf("failed to parse mail templates: %w", err)
	}
	return &Templates{
		tmpl: tmpl,
		md:   goldmark.New(goldmark.WithRendererOptions(html.WithHardWraps())),
	}, nil
}

// Render executes template name and returns a message addressed to to
func (t *Templates) Render(name, to string, data interface{}) (Message, error) {
	var src bytes.Buffer
	if err := t.tmpl.ExecuteTemplate(&src, name+".md", data); err != nil {
		return Message{}, fmt.Errorf("failed to render %s: %w", name, err)
	}

	subject, body, err := splitSubject(src.String())
	if err != nil {
		return Message{}, fmt.Errorf("template %s: %w", name, err)
	}

	var htmlBody bytes.Buffer
	if err := t.md.Convert([]byte(body), &htmlBody); err != nil {
		return Message{}, fmt.Errorf("failed to convert %s to html: %w", name, err)
	}

	return Message{
		To:      to,
		Subject: subject,
		Text:    body,
		HTML:    htmlBody.String(),
	}, nil
}

func (t *Templates) Credentials(to string, data CredentialsData) (Message, error) {
	return t.Render(TemplateAttendeeCredentials, to, data)
}

func (t *Templates) PasswordReset(to string, data PasswordResetData) (Message, error) {
	return t.Render(TemplatePasswordReset, to, data)
}

func splitSubject(src string) (string, string, error) {
	reader := bufio.NewReader(strings.NewReader(src))
	first, err := reader.ReadString('\n')
	if err != nil {
		return "", "", fmt.Errorf("missing body")
	}
	subject, ok := strings.CutPrefix(strings.TrimSpace(first), "Subject:")
	if !ok {
		return "", "", fmt.Errorf("first line must start with Subject:")
	}
	rest := src[len(first):]
	return strings.TrimSpace(subject), strings.TrimLeft(rest, "\n"), nil
}
