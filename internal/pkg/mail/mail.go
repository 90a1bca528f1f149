package mail

import (
	"context"
	"errors"
	"io"
)

var (
	ErrNoRecipients = errors.New("no recipients provided")
	ErrNoSender     = errors.New("no sender provided")
)

// Message is a provider-agnostic email.
type Message struct {
	// From overrides the configured default sender.
	From     string
	To       []string
	Cc       []string
	Bcc      []string
	Subject  string
	TextBody string
	HTMLBody string
}

func (m Message) recipients() []string {
	out := make([]string, 0, len(m.To)+len(m.Cc)+len(m.Bcc))
	out = append(out, m.To...)
	out = append(out, m.Cc...)
	return append(out, m.Bcc...)
}

func (m Message) sender(fallback string) (string, error) {
	if m.From != "" {
		return m.From, nil
	}
	if fallback != "" {
		return fallback, nil
	}
	return "", ErrNoSender
}

// Mail delivers a message and returns the provider's message id.
type Mail interface {
	io.Closer
	Send(ctx context.Context, msg Message) (string, error)
}
