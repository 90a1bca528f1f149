package messaging

import (
	"context"
	"errors"
	"io"
	"time"
)

var (
	ErrUnsupported         = errors.New("messaging: unsupported operation")
	ErrDestinationRequired = errors.New("messaging: destination is required")
	ErrHandlerRequired     = errors.New("messaging: handler is required")
)

// Messaging publishes and consumes.
type Messaging interface {
	io.Closer
	Publisher
	Consumer
}

type Publisher interface {
	Publish(ctx context.Context, destination string, msg OutgoingMessage) (PublishResult, error)
}

// Consumer blocks in Consume until ctx is canceled or the broker fails.
type Consumer interface {
	Consume(ctx context.Context, source string, handler Handler, opts ...ConsumeOption) error
}

type Handler func(ctx context.Context, msg Message) error

type OutgoingMessage struct {
	Body []byte
	// Key partitions Kafka messages.
	Key     []byte
	Headers []Header
	// Attributes are sent as Pub/Sub attributes; other drivers fold them into headers.
	Attributes  map[string]string
	OrderingKey string
	// Delay is honored by NSQ only.
	Delay time.Duration
}

type Header struct {
	Key   string
	Value []byte
}

type PublishResult struct {
	MessageID string
	Topic     string
	Partition int32
	Offset    int64
	Timestamp time.Time
}

// Message is a received message.
type Message interface {
	Body() []byte
	Key() []byte
	Headers() []Header
	ID() string
	Topic() string
	Timestamp() time.Time
	Ack(ctx context.Context) error
	Nack(ctx context.Context) error
}

// HeaderValue returns the first value of key, "" when absent.
func HeaderValue(msg Message, key string) string {
	for _, h := range msg.Headers() {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func (m OutgoingMessage) allHeaders() []Header {
	out := make([]Header, 0, len(m.Headers)+len(m.Attributes))
	for _, h := range m.Headers {
		if h.Key != "" {
			out = append(out, h)
		}
	}
	for k, v := range m.Attributes {
		out = append(out, Header{Key: k, Value: []byte(v)})
	}
	return out
}
