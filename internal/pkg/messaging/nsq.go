package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	nsq "github.com/nsqio/go-nsq"
)

var (
	ErrNSQProducerRequired = errors.New("messaging: nsq producer address is required")
	ErrNSQConsumerRequired = errors.New("messaging: nsq nsqd or lookupd addresses are required")
	ErrNSQChannelRequired  = errors.New("messaging: nsq channel is required")
)

type NSQConfig struct {
	ProducerAddr         string
	ConsumerNSQDAddrs    []string
	ConsumerLookupdAddrs []string

	// nil means nsq.NewConfig()
	ProducerConfig *nsq.Config
	ConsumerConfig *nsq.Config
}

// NSQ has no native headers, so messages are wrapped in an envelope when
// headers are present.
type NSQ struct {
	producer *nsq.Producer
	cfg      NSQConfig
}

type nsqEnvelope struct {
	Headers map[string]string `json:"headers"`
	Body    []byte            `json:"body"`
}

func NewNSQ(cfg NSQConfig) (*NSQ, error) {
	n := &NSQ{cfg: cfg}
	if cfg.ProducerAddr == "" {
		return n, nil
	}

	pcfg := cfg.ProducerConfig
	if pcfg == nil {
		pcfg = nsq.NewConfig()
	}

	p, err := nsq.NewProducer(cfg.ProducerAddr, pcfg)
	if err != nil {
		return nil, fmt.Errorf("messaging: nsq new producer: %w", err)
	}
	p.SetLoggerLevel(nsq.LogLevelError)
	n.producer = p

	return n, nil
}

func (n *NSQ) Close() error {
	if n.producer != nil {
		n.producer.Stop()
	}
	return nil
}

func (n *NSQ) Publish(ctx context.Context, destination string, msg OutgoingMessage) (PublishResult, error) {
	if err := ctx.Err(); err != nil {
		return PublishResult{}, err
	}
	if destination == "" {
		return PublishResult{}, ErrDestinationRequired
	}
	if n.producer == nil {
		return PublishResult{}, ErrNSQProducerRequired
	}

	body, err := encodeNSQ(msg)
	if err != nil {
		return PublishResult{}, err
	}

	if msg.Delay > 0 {
		err = n.producer.DeferredPublish(destination, msg.Delay, body)
	} else {
		err = n.producer.Publish(destination, body)
	}
	if err != nil {
		return PublishResult{}, fmt.Errorf("messaging: nsq publish: %w", err)
	}

	return PublishResult{Topic: destination, Timestamp: time.Now()}, nil
}

func (n *NSQ) Consume(ctx context.Context, source string, handler Handler, opts ...ConsumeOption) error {
	co := newConsumeOptions(opts...)
	switch {
	case source == "":
		return ErrDestinationRequired
	case handler == nil:
		return ErrHandlerRequired
	case co.channel == "":
		return ErrNSQChannelRequired
	case len(n.cfg.ConsumerNSQDAddrs) == 0 && len(n.cfg.ConsumerLookupdAddrs) == 0:
		return ErrNSQConsumerRequired
	}

	consumer, err := nsq.NewConsumer(source, co.channel, n.consumerConfig(co))
	if err != nil {
		return fmt.Errorf("messaging: nsq new consumer: %w", err)
	}
	consumer.SetLoggerLevel(nsq.LogLevelError)

	consumer.AddConcurrentHandlers(nsq.HandlerFunc(func(m *nsq.Message) error {
		m.DisableAutoResponse()
		return dispatch(ctx, DriverNSQ, nsqDelivery(source, m), handler, co.autoAck)
	}), co.concurrency)

	if len(n.cfg.ConsumerLookupdAddrs) > 0 {
		err = consumer.ConnectToNSQLookupds(n.cfg.ConsumerLookupdAddrs)
	} else {
		err = consumer.ConnectToNSQDs(n.cfg.ConsumerNSQDAddrs)
	}
	if err != nil {
		consumer.Stop()
		<-consumer.StopChan
		return fmt.Errorf("messaging: nsq connect: %w", err)
	}

	select {
	case <-ctx.Done():
		consumer.Stop()
		<-consumer.StopChan
		return ctx.Err()
	case <-consumer.StopChan:
		return nil
	}
}

// consumerConfig copies the configured consumer settings so concurrent
// Consume calls never share one *nsq.Config.
func (n *NSQ) consumerConfig(co consumeOptions) *nsq.Config {
	ccfg := nsq.NewConfig()
	if n.cfg.ConsumerConfig != nil {
		c := *n.cfg.ConsumerConfig
		ccfg = &c
	}
	ccfg.MaxInFlight = max(ccfg.MaxInFlight, co.maxInFlight, co.concurrency)
	return ccfg
}

func encodeNSQ(msg OutgoingMessage) ([]byte, error) {
	headers := msg.allHeaders()
	if len(headers) == 0 {
		return msg.Body, nil
	}

	env := nsqEnvelope{Headers: make(map[string]string, len(headers)), Body: msg.Body}
	for _, h := range headers {
		env.Headers[h.Key] = string(h.Value)
	}
	return json.Marshal(env)
}

func decodeNSQ(raw []byte) ([]byte, []Header) {
	var env nsqEnvelope
	if err := json.Unmarshal(raw, &env); err != nil || env.Headers == nil {
		return raw, nil
	}

	headers := make([]Header, 0, len(env.Headers))
	for k, v := range env.Headers {
		headers = append(headers, Header{Key: k, Value: []byte(v)})
	}
	return env.Body, headers
}

func nsqDelivery(topic string, m *nsq.Message) *delivery {
	body, headers := decodeNSQ(m.Body)

	return &delivery{
		id:        string(m.ID[:]),
		topic:     topic,
		body:      body,
		headers:   headers,
		timestamp: time.Unix(0, m.Timestamp),
		ack:       func() error { m.Finish(); return nil },
		nack:      func() error { m.Requeue(0); return nil },
	}
}
