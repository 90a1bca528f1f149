// Package chat is the business-messaging provider: a templated message
// API reached over HTTPS with an API key.
package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shandysiswandi/shepherd/internal/notification/entity"
	"github.com/shandysiswandi/shepherd/internal/pkg/instrument"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	templatePath    = "/v1/messages/template"
	headerAPIKey    = "X-API-Key"
	maxErrorBody    = 64 * 1024
	defaultTimeout  = 10 * time.Second
	errNotConfigure = "not configured"
)

type Config struct {
	BaseURL string
	APIKey  string
	// Sender is the business number messages are sent from, if the API needs it.
	Sender  string
	Timeout time.Duration
}

type Chat struct {
	cfg    Config
	client *http.Client
	ins    instrument.Instrumentation
}

type sendRequest struct {
	Phone    string   `json:"phone"`
	Template string   `json:"template"`
	Language string   `json:"language"`
	Params   []string `json:"params"`
	Sender   string   `json:"sender,omitempty"`
}

type sendResponse struct {
	MessageID string `json:"message_id"`
	ID        string `json:"id"`
	Message   string `json:"message"`
	Error     string `json:"error"`
}

// New uses client when given, else an http.Client with cfg.Timeout.
func New(cfg Config, client *http.Client, ins instrument.Instrumentation) *Chat {
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}
	return &Chat{cfg: cfg, client: client, ins: ins}
}

func (c *Chat) IsConfigured() bool {
	return c.cfg.BaseURL != "" && c.cfg.APIKey != ""
}

func (c *Chat) Send(ctx context.Context, msg entity.Message) entity.Result {
	ctx, span := c.ins.Tracer("notification.outbound.chat").Start(ctx, "Send")
	defer span.End()
	span.SetAttributes(attribute.String("chat.template", msg.Template))

	res := c.send(ctx, msg)
	if !res.Success {
		span.SetStatus(codes.Error, res.Error)
	}
	return res
}

func (c *Chat) send(ctx context.Context, msg entity.Message) entity.Result {
	if !c.IsConfigured() {
		return entity.Result{Error: errNotConfigure}
	}

	phone := entity.NormalizePhone(msg.To)
	if phone == "" {
		return entity.Result{Error: "invalid phone number"}
	}

	params := msg.Params
	if params == nil {
		params = []string{}
	}

	body, err := json.Marshal(sendRequest{
		Phone:    phone,
		Template: msg.Template,
		Language: msg.Locale.String(),
		Params:   params,
		Sender:   c.cfg.Sender,
	})
	if err != nil {
		return entity.Result{Error: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+templatePath, bytes.NewReader(body))
	if err != nil {
		return entity.Result{Error: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(headerAPIKey, c.cfg.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return entity.Result{Error: err.Error()}
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody)) //nolint:errcheck // partial bodies are fine
	var out sendResponse
	_ = json.Unmarshal(raw, &out) //nolint:errcheck // body may not be JSON

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return entity.Result{Error: errorText(resp.StatusCode, out)}
	}

	id := out.MessageID
	if id == "" {
		id = out.ID
	}
	return entity.Result{Success: true, MessageID: id}
}

func errorText(status int, out sendResponse) string {
	switch {
	case out.Message != "":
		return out.Message
	case out.Error != "":
		return out.Error
	default:
		return fmt.Sprintf("%d %s", status, http.StatusText(status))
	}
}
