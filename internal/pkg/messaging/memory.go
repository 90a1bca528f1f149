package messaging

import (
	"context"
	"strconv"
	"sync"
	"time"

	"go.uber.org/atomic"
)

// Memory is an in-process broker for local runs and tests. Each consumer
// name gets its own queue per topic; consumers sharing a name compete.
// Nacked messages are requeued once.
type Memory struct {
	mu     sync.Mutex
	queues map[string]map[string]chan *memoryMessage
	seq    atomic.Int64
	closed atomic.Bool
}

type memoryMessage struct {
	OutgoingMessage
	id       string
	topic    string
	at       time.Time
	requeued bool
}

func NewMemory() *Memory {
	return &Memory{queues: make(map[string]map[string]chan *memoryMessage)}
}

func (m *Memory) Close() error {
	m.closed.Store(true)
	return nil
}

func (m *Memory) queue(topic, name string) chan *memoryMessage {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.queues[topic] == nil {
		m.queues[topic] = make(map[string]chan *memoryMessage)
	}
	q, ok := m.queues[topic][name]
	if !ok {
		q = make(chan *memoryMessage, 256)
		m.queues[topic][name] = q
	}
	return q
}

// Publish delivers to every consumer name currently registered for the topic.
func (m *Memory) Publish(ctx context.Context, destination string, msg OutgoingMessage) (PublishResult, error) {
	if destination == "" {
		return PublishResult{}, ErrDestinationRequired
	}
	if m.closed.Load() {
		return PublishResult{}, context.Canceled
	}

	mm := &memoryMessage{
		OutgoingMessage: msg,
		id:              strconv.FormatInt(m.seq.Inc(), 10),
		topic:           destination,
		at:              time.Now(),
	}

	m.mu.Lock()
	targets := make([]chan *memoryMessage, 0, len(m.queues[destination]))
	for _, q := range m.queues[destination] {
		targets = append(targets, q)
	}
	m.mu.Unlock()

	for _, q := range targets {
		select {
		case q <- mm:
		case <-ctx.Done():
			return PublishResult{}, ctx.Err()
		}
	}

	return PublishResult{MessageID: mm.id, Topic: destination, Timestamp: mm.at}, nil
}

func (m *Memory) Consume(ctx context.Context, source string, handler Handler, opts ...ConsumeOption) error {
	if source == "" {
		return ErrDestinationRequired
	}
	if handler == nil {
		return ErrHandlerRequired
	}

	co := newConsumeOptions(opts...)
	q := m.queue(source, co.consumerName())

	var wg sync.WaitGroup
	for range co.concurrency {
		wg.Go(func() {
			for {
				select {
				case <-ctx.Done():
					return
				case mm := <-q:
					//nolint:errcheck // handler errors are logged by the handler
					_ = dispatch(ctx, DriverMemory, m.delivery(q, mm), handler, co.autoAck)
				}
			}
		})
	}

	wg.Wait()
	return ctx.Err()
}

func (m *Memory) delivery(q chan *memoryMessage, mm *memoryMessage) *delivery {
	return &delivery{
		id:        mm.id,
		topic:     mm.topic,
		key:       mm.Key,
		body:      mm.Body,
		headers:   mm.allHeaders(),
		timestamp: mm.at,
		ack:       func() error { return nil },
		nack: func() error {
			if mm.requeued {
				return nil
			}
			mm.requeued = true
			select {
			case q <- mm:
			default:
			}
			return nil
		},
	}
}
