// Package pgnotify fans PostgreSQL LISTEN/NOTIFY messages out to in-process
// subscribers so that every API replica sees rows written by any other.
package pgnotify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/lo"
	"github.com/sethvargo/go-retry"
	"go.uber.org/atomic"
)

var (
	ErrChannelRequired  = errors.New("pgnotify: channel is required")
	ErrPingPool         = errors.New("pgnotify: failed to ping pool")
	ErrAcquireConn      = errors.New("pgnotify: failed to acquire connection")
	ErrListenChannel    = errors.New("pgnotify: failed to listen channel")
	ErrWaitNotification = errors.New("pgnotify: failed to wait for notification")
	ErrMarshalPayload   = errors.New("pgnotify: failed to marshal payload")
	ErrNotify           = errors.New("pgnotify: failed to notify")
)

// Execer is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx. Notifying
// inside a transaction delays delivery until commit.
type Execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// Notify publishes payload as JSON on channel.
func Notify(ctx context.Context, db Execer, channel string, payload any) error {
	if channel == "" {
		return ErrChannelRequired
	}

	b, err := json.Marshal(payload)
	if err != nil {
		return errors.Join(ErrMarshalPayload, err)
	}

	if _, err := db.Exec(ctx, "select pg_notify($1, $2)", channel, string(b)); err != nil {
		return fmt.Errorf("%w: %s", errors.Join(ErrNotify, err), channel)
	}

	return nil
}

type Handler func(payload string)

type Options struct {
	Channel string
	Verbose bool
	// MinBackoff and MaxBackoff bound the reconnect delay.
	MinBackoff time.Duration
	MaxBackoff time.Duration
}

// Listener holds one pooled connection in LISTEN mode and reconnects with a
// capped Fibonacci backoff when it drops.
type Listener struct {
	pool *pgxpool.Pool
	opt  Options

	mu       sync.RWMutex
	handlers map[int]Handler
	nextID   int

	listening atomic.Bool
	cancel    context.CancelFunc
	done      chan struct{}
}

func NewListener(ctx context.Context, pool *pgxpool.Pool, opt Options) (*Listener, error) {
	if opt.Channel == "" {
		return nil, ErrChannelRequired
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, errors.Join(ErrPingPool, err)
	}

	opt.MinBackoff = lo.Ternary(opt.MinBackoff > 0, opt.MinBackoff, 200*time.Millisecond)
	opt.MaxBackoff = lo.Ternary(opt.MaxBackoff > 0, opt.MaxBackoff, 5*time.Second)

	listenCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	l := &Listener{
		pool:     pool,
		opt:      opt,
		handlers: make(map[int]Handler),
		cancel:   cancel,
		done:     make(chan struct{}),
	}

	go l.run(listenCtx)

	return l, nil
}

func (l *Listener) Channel() string {
	return l.opt.Channel
}

// Listening reports whether the LISTEN connection is currently established.
func (l *Listener) Listening() bool {
	return l.listening.Load()
}

// Subscribe registers h and returns a func that removes it.
func (l *Listener) Subscribe(h Handler) (unsubscribe func()) {
	l.mu.Lock()
	id := l.nextID
	l.nextID++
	l.handlers[id] = h
	l.mu.Unlock()

	return func() {
		l.mu.Lock()
		delete(l.handlers, id)
		l.mu.Unlock()
	}
}

// Close stops listening and waits for the connection to be released.
func (l *Listener) Close() error {
	l.cancel()
	<-l.done
	return nil
}

func (l *Listener) run(ctx context.Context) {
	defer close(l.done)

	b := retry.NewFibonacci(l.opt.MinBackoff)
	b = retry.WithCappedDuration(l.opt.MaxBackoff, b)

	if err := retry.Do(ctx, b, func(ctx context.Context) error {
		err := l.listen(ctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}

		slog.Error("pgnotify failed to listen", "channel", l.opt.Channel, "error", err)
		return retry.RetryableError(err)
	}); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("pgnotify listener stopped with error", "channel", l.opt.Channel, "error", err)
	}

	slog.Info("pgnotify listener exited", "channel", l.opt.Channel)
}

func (l *Listener) listen(ctx context.Context) error {
	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return errors.Join(ErrAcquireConn, err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "listen "+pgx.Identifier{l.opt.Channel}.Sanitize()); err != nil {
		return fmt.Errorf("%w: %s", errors.Join(ErrListenChannel, err), l.opt.Channel)
	}

	l.listening.Store(true)
	defer l.listening.Store(false)

	for {
		n, err := conn.Conn().WaitForNotification(ctx)
		if errors.Is(err, context.Canceled) {
			return err
		} else if err != nil {
			return errors.Join(ErrWaitNotification, err)
		}

		if l.opt.Verbose {
			slog.Info("pgnotify received", "channel", n.Channel, "payload", n.Payload)
		}

		l.fanout(n.Payload)
	}
}

func (l *Listener) fanout(payload string) {
	l.mu.RLock()
	handlers := lo.Values(l.handlers)
	l.mu.RUnlock()

	for _, h := range handlers {
		h(payload)
	}
}
