// Package email wraps the plain-text notification body in a minimal
// direction-aware HTML document and hands it to a mail driver.
package email

import (
	"bytes"
	"context"
	"html/template"
	"strings"

	"github.com/shandysiswandi/shepherd/internal/notification/entity"
	"github.com/shandysiswandi/shepherd/internal/pkg/instrument"
	"github.com/shandysiswandi/shepherd/internal/pkg/mail"
	"go.opentelemetry.io/otel/codes"
)

var layout = template.Must(template.New("email").Parse(`<!DOCTYPE html>
<html lang="{{.Lang}}" dir="{{.Dir}}">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
</head>
<body style="margin:0;padding:24px;background:#f6f7f9;font-family:Tahoma,Arial,sans-serif;">
<div dir="{{.Dir}}" style="max-width:560px;margin:0 auto;padding:24px;background:#ffffff;border-radius:8px;text-align:{{.Align}};">
<h2 style="margin:0 0 16px;">{{.Title}}</h2>
{{range .Paragraphs}}<p style="margin:0 0 12px;line-height:1.6;">{{.}}</p>
{{end}}</div>
</body>
</html>`))

type Mail struct {
	client mail.Mail
	ins    instrument.Instrumentation
}

// New accepts a nil client; the provider then reports itself unconfigured.
func New(client mail.Mail, ins instrument.Instrumentation) *Mail {
	return &Mail{client: client, ins: ins}
}

func (m *Mail) IsConfigured() bool {
	return m.client != nil
}

func (m *Mail) Send(ctx context.Context, msg entity.Message) entity.Result {
	ctx, span := m.ins.Tracer("notification.outbound.email").Start(ctx, "Send")
	defer span.End()

	if !m.IsConfigured() {
		return entity.Result{Error: "not configured"}
	}

	html, err := Render(msg.Locale, msg.Title, msg.Body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return entity.Result{Error: err.Error()}
	}

	id, err := m.client.Send(ctx, mail.Message{
		To:       []string{msg.To},
		Subject:  msg.Subject,
		TextBody: msg.Body,
		HTMLBody: html,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return entity.Result{Error: err.Error()}
	}

	return entity.Result{Success: true, MessageID: id}
}

// Render escapes title and body; blank lines in body start new paragraphs.
func Render(l entity.Locale, title, body string) (string, error) {
	align := "left"
	if l.Dir() == "rtl" {
		align = "right"
	}

	var buf bytes.Buffer
	err := layout.Execute(&buf, struct {
		Lang       string
		Dir        string
		Align      string
		Title      string
		Paragraphs []string
	}{
		Lang:       l.String(),
		Dir:        l.Dir(),
		Align:      align,
		Title:      title,
		Paragraphs: paragraphs(body),
	})
	if err != nil {
		return "", err
	}

	return buf.String(), nil
}

func paragraphs(body string) []string {
	var out []string
	for _, p := range strings.Split(strings.ReplaceAll(body, "\r\n", "\n"), "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
