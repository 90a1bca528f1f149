package messaging

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	nsq "github.com/nsqio/go-nsq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatch_AutoAck(t *testing.T) {
	tests := []struct {
		name      string
		handler   Handler
		autoAck   bool
		wantAck   int
		wantNack  int
		wantError bool
	}{
		{name: "ack on success", handler: func(context.Context, Message) error { return nil }, autoAck: true, wantAck: 1},
		{name: "nack on error", handler: func(context.Context, Message) error { return errors.New("x") }, autoAck: true, wantNack: 1, wantError: true},
		{name: "manual mode", handler: func(context.Context, Message) error { return nil }},
		{name: "panic becomes error", handler: func(context.Context, Message) error { panic("boom") }, autoAck: true, wantNack: 1, wantError: true},
		{name: "handler settled itself", handler: func(ctx context.Context, m Message) error { return m.Ack(ctx) }, autoAck: true, wantAck: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var acks, nacks int
			d := &delivery{
				ack:  func() error { acks++; return nil },
				nack: func() error { nacks++; return nil },
			}

			err := dispatch(context.Background(), "test", d, tt.handler, tt.autoAck)

			assert.Equal(t, tt.wantError, err != nil)
			assert.Equal(t, tt.wantAck, acks)
			assert.Equal(t, tt.wantNack, nacks)
		})
	}
}

func TestOutgoingMessage_AllHeaders(t *testing.T) {
	msg := OutgoingMessage{
		Headers:    []Header{{Key: "cID", Value: []byte("c-1")}, {Key: "", Value: []byte("dropped")}},
		Attributes: map[string]string{"event": "visitor_assigned"},
	}

	d := &delivery{headers: msg.allHeaders()}
	assert.Equal(t, "c-1", HeaderValue(d, "cID"))
	assert.Equal(t, "visitor_assigned", HeaderValue(d, "event"))
	assert.Empty(t, HeaderValue(d, "missing"))
	assert.Len(t, d.Headers(), 2)
}

func TestNSQEnvelope(t *testing.T) {
	raw, err := encodeNSQ(OutgoingMessage{Body: []byte(`{"a":1}`), Headers: []Header{{Key: "cID", Value: []byte("c-9")}}})
	require.NoError(t, err)

	body, headers := decodeNSQ(raw)
	assert.JSONEq(t, `{"a":1}`, string(body))
	assert.Equal(t, []Header{{Key: "cID", Value: []byte("c-9")}}, headers)

	plain, err := encodeNSQ(OutgoingMessage{Body: []byte("plain")})
	require.NoError(t, err)
	body, headers = decodeNSQ(plain)
	assert.Equal(t, []byte("plain"), body)
	assert.Nil(t, headers)
}

func TestNSQ_ConsumerConfig(t *testing.T) {
	supplied := nsq.NewConfig()
	supplied.MaxAttempts = 7
	supplied.MaxInFlight = 16
	supplied.DefaultRequeueDelay = 3 * time.Second

	n, err := NewNSQ(NSQConfig{ConsumerNSQDAddrs: []string{"127.0.0.1:4150"}, ConsumerConfig: supplied})
	require.NoError(t, err)

	got := n.consumerConfig(newConsumeOptions(WithConcurrency(4)))
	assert.Equal(t, uint16(7), got.MaxAttempts)
	assert.Equal(t, 16, got.MaxInFlight)
	assert.Equal(t, 3*time.Second, got.DefaultRequeueDelay)
	assert.NotSame(t, supplied, got)

	got = n.consumerConfig(newConsumeOptions(WithConcurrency(32)))
	assert.Equal(t, 32, got.MaxInFlight)
	assert.Equal(t, 16, supplied.MaxInFlight)

	n, err = NewNSQ(NSQConfig{})
	require.NoError(t, err)
	got = n.consumerConfig(newConsumeOptions(WithMaxInFlight(5)))
	assert.Equal(t, nsq.NewConfig().MaxAttempts, got.MaxAttempts)
	assert.Equal(t, 5, got.MaxInFlight)
}

func TestMemory_PublishConsume(t *testing.T) {
	broker := NewMemory()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		mu   sync.Mutex
		got  []string
		done = make(chan struct{}, 2)
	)
	handler := func(_ context.Context, msg Message) error {
		mu.Lock()
		got = append(got, string(msg.Body())+"|"+HeaderValue(msg, "cID"))
		mu.Unlock()
		done <- struct{}{}
		return nil
	}

	consumeErr := make(chan error, 1)
	// register the queue before publishing
	broker.queue("member_joined", "member_joined_notification")
	go func() {
		consumeErr <- broker.Consume(ctx, "member_joined", handler,
			WithGroup("member_joined_notification"), WithAutoAck(true))
	}()

	_, err := broker.Publish(ctx, "member_joined", OutgoingMessage{
		Body:    []byte(`{"account_id":"1"}`),
		Headers: []Header{{Key: "cID", Value: []byte("cid-1")}},
	})
	require.NoError(t, err)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("message not consumed")
	}

	cancel()
	assert.ErrorIs(t, <-consumeErr, context.Canceled)
	assert.Equal(t, []string{`{"account_id":"1"}|cid-1`}, got)
}

func TestMemory_NackRequeuesOnce(t *testing.T) {
	broker := NewMemory()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	broker.queue("t", "g")
	attempts := make(chan struct{}, 4)
	go func() {
		_ = broker.Consume(ctx, "t", func(context.Context, Message) error {
			attempts <- struct{}{}
			return errors.New("fail")
		}, WithGroup("g"), WithAutoAck(true))
	}()

	_, err := broker.Publish(ctx, "t", OutgoingMessage{Body: []byte("x")})
	require.NoError(t, err)

	for range 2 {
		select {
		case <-attempts:
		case <-time.After(2 * time.Second):
			t.Fatal("expected redelivery")
		}
	}

	select {
	case <-attempts:
		t.Fatal("requeued more than once")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestNewFromDriver(t *testing.T) {
	m, err := NewFromDriver(context.Background(), DriverMemory, FactoryOptions{})
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, m)

	_, err = NewFromDriver(context.Background(), "rabbit", FactoryOptions{})
	assert.ErrorIs(t, err, ErrUnknownDriver)

	_, err = NewFromDriver(context.Background(), DriverKafka, FactoryOptions{})
	assert.ErrorIs(t, err, ErrKafkaBrokersRequired)
}
