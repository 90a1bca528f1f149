// Package catalog holds the built-in notification templates and the
// placeholder substitution used to render them.
package catalog

import (
	"strings"

	"github.com/shandysiswandi/shepherd/internal/notification/entity"
)

// Template is the bilingual content for one notification type. ChatParams is
// the positional parameter order of the business-messaging template.
type Template struct {
	Type         entity.Type
	ChatTemplate string
	ChatParams   []string
	Title        entity.Text
	Body         entity.Text
	Subject      entity.Text
}

// Content is a template rendered for one locale.
type Content struct {
	Title   string
	Body    string
	Subject string
}

func Lookup(t entity.Type) (Template, bool) {
	tpl, ok := templates[t]
	return tpl, ok
}

// Types lists every registered notification type.
func Types() []entity.Type {
	out := make([]entity.Type, 0, len(templates))
	for t := range templates {
		out = append(out, t)
	}
	return out
}

// Interpolate replaces each {key} with params[key]. Unknown keys and
// unterminated braces are kept as written.
func Interpolate(text string, params map[string]string) string {
	if !strings.Contains(text, "{") {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))

	for {
		open := strings.IndexByte(text, '{')
		if open < 0 {
			break
		}
		end := strings.IndexByte(text[open:], '}')
		if end < 0 {
			break
		}
		end += open

		b.WriteString(text[:open])
		key := text[open+1 : end]
		if val, ok := params[key]; ok && !strings.ContainsRune(key, '{') {
			b.WriteString(val)
			text = text[end+1:]
			continue
		}

		// keep the brace and rescan after it so "{{name}" still resolves the inner token
		b.WriteByte('{')
		text = text[open+1:]
	}

	b.WriteString(text)
	return b.String()
}

// ChatValues returns params in ChatParams order. A missing key yields the
// literal {key} token, the same policy as Interpolate.
func (t Template) ChatValues(params map[string]string) []string {
	out := make([]string, 0, len(t.ChatParams))
	for _, key := range t.ChatParams {
		if val, ok := params[key]; ok {
			out = append(out, val)
			continue
		}
		out = append(out, "{"+key+"}")
	}
	return out
}

func (t Template) Render(l entity.Locale, params map[string]string) Content {
	return Content{
		Title:   Interpolate(t.Title.Pick(l), params),
		Body:    Interpolate(t.Body.Pick(l), params),
		Subject: Interpolate(t.Subject.Pick(l), params),
	}
}
