package notify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"text/template"

	"github.com/rs/zerolog"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/brightpath/institute-api/internal/model"
	"github.com/brightpath/institute-api/internal/repository"
)

// TemplateSource looks up admin-edited templates.
type TemplateSource interface {
	FindActiveByKey(ctx context.Context, key string) (*model.EmailTemplate, error)
}

type defaultTemplate struct {
	subject string
	body    string
}

var defaultTemplates = map[Kind]defaultTemplate{
	KindRegistrationConfirmation: {
		subject: "Registration received: {{.examTitle}}",
		body: `Dear {{.name}},

Thank you for registering for **{{.examTitle}}**.

- Registration number: **{{.registrationNumber}}**
- Payment status: {{.paymentStatus}}

Keep your registration number safe. You will need it to download your hall ticket.`,
	},
	KindPaymentConfirmation: {
		subject: "Payment received for {{.examTitle}}",
		body: `Dear {{.name}},

We have received your payment for **{{.examTitle}}**.

- Registration number: **{{.registrationNumber}}**
- Payment id: {{.paymentId}}

Your hall ticket can be downloaded from the website close to the exam date.`,
	},
	KindPaymentAdminAlert: {
		subject: "Payment completed: {{.registrationNumber}}",
		body: `A payment was verified.

- Applicant: {{.name}} ({{.email}})
- Exam: {{.examTitle}}
- Registration number: {{.registrationNumber}}
- Payment id: {{.paymentId}}`,
	},
	KindGrievanceConfirmation: {
		subject: "Grievance received ({{.grievanceId}})",
		body: `Dear {{.name}},

Your grievance has been recorded with reference **{{.grievanceId}}**.
Our team will review it and get back to you.`,
	},
	KindGrievanceStatusUpdate: {
		subject: "Grievance {{.grievanceId}} is now {{.status}}",
		body: `Dear {{.name}},

The status of your grievance **{{.grievanceId}}** changed to **{{.status}}**.
{{if .adminReply}}
Response from our team:

> {{.adminReply}}
{{end}}`,
	},
	KindContactAdminAlert: {
		subject: "New enquiry from {{.name}}",
		body: `A new enquiry arrived from the website.

- Name: {{.name}}
- Email: {{.email}}
- Mobile: {{.mobile}}
- Subject: {{.subject}}

{{.message}}`,
	},
}

// ErrUnknownKind is returned for a kind with neither a stored nor a built-in template.
var ErrUnknownKind = errors.New("unknown notification kind")

// Renderer turns a notification into a subject and an HTML body.
type Renderer struct {
	templates TemplateSource
	md        goldmark.Markdown
	log       zerolog.Logger
}

// NewRenderer creates a new Renderer. templates may be nil.
func NewRenderer(templates TemplateSource, log zerolog.Logger) *Renderer {
	return &Renderer{
		templates: templates,
		md: goldmark.New(
			goldmark.WithExtensions(extension.Linkify),
			goldmark.WithRendererOptions(html.WithHardWraps()),
		),
		log: log.With().Str("component", "email_renderer").Logger(),
	}
}

// Render prefers an active stored template keyed by the kind, else the built-in one.
func (r *Renderer) Render(ctx context.Context, n Notification) (string, string, error) {
	subjectSrc, bodySrc, err := r.lookup(ctx, n.Kind)
	if err != nil {
		return "", "", err
	}

	subject, err := execute("subject", subjectSrc, n.Data)
	if err != nil {
		return "", "", err
	}
	body, err := execute("body", bodySrc, n.Data)
	if err != nil {
		return "", "", err
	}

	var out bytes.Buffer
	if err := r.md.Convert([]byte(body), &out); err != nil {
		return "", "", fmt.Errorf("render markdown: %w", err)
	}
	return subject, out.String(), nil
}

func (r *Renderer) lookup(ctx context.Context, kind Kind) (string, string, error) {
	if r.templates != nil {
		tpl, err := r.templates.FindActiveByKey(ctx, string(kind))
		switch {
		case err == nil:
			return tpl.Subject, tpl.Body, nil
		case !errors.Is(err, repository.ErrNotFound):
			r.log.Warn().Err(err).Str("kind", string(kind)).Msg("Template lookup failed, using built-in")
		}
	}

	def, ok := defaultTemplates[kind]
	if !ok {
		return "", "", fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
	return def.subject, def.body, nil
}

func execute(name, src string, data map[string]string) (string, error) {
	tpl, err := template.New(name).Option("missingkey=zero").Parse(src)
	if err != nil {
		return "", fmt.Errorf("parse %s template: %w", name, err)
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("execute %s template: %w", name, err)
	}
	return buf.String(), nil
}
