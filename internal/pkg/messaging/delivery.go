package messaging

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/shandysiswandi/shepherd/internal/pkg/stacktrace"
	"go.uber.org/atomic"
)

// delivery adapts any broker message to Message. ack and nack are called at
// most once in total.
type delivery struct {
	id        string
	topic     string
	key       []byte
	body      []byte
	headers   []Header
	timestamp time.Time

	ack  func() error
	nack func() error

	responded atomic.Bool
}

func (d *delivery) Body() []byte         { return d.body }
func (d *delivery) Key() []byte          { return d.key }
func (d *delivery) Headers() []Header    { return d.headers }
func (d *delivery) ID() string           { return d.id }
func (d *delivery) Topic() string        { return d.topic }
func (d *delivery) Timestamp() time.Time { return d.timestamp }

func (d *delivery) Ack(ctx context.Context) error {
	return d.respond(ctx, d.ack)
}

func (d *delivery) Nack(ctx context.Context) error {
	return d.respond(ctx, d.nack)
}

func (d *delivery) respond(ctx context.Context, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d.responded.Swap(true) || fn == nil {
		return nil
	}
	return fn()
}

// dispatch runs handler with panic recovery and settles the delivery when
// autoAck is set and the handler did not settle it itself.
func dispatch(ctx context.Context, driver string, d *delivery, handler Handler, autoAck bool) error {
	herr := callHandler(ctx, driver, func() error { return handler(ctx, d) })

	if !autoAck || d.responded.Load() {
		return herr
	}

	if herr == nil {
		return d.Ack(ctx)
	}

	if err := d.Nack(ctx); err != nil {
		slog.WarnContext(ctx, "messaging: nack failed", "driver", driver, "topic", d.topic, "error", err)
	}
	return herr
}

func callHandler(ctx context.Context, driver string, fn func() error) (err error) {
	defer func() {
		rvr := recover()
		if rvr == nil {
			return
		}

		stack := debug.Stack()
		if paths := stacktrace.InternalPaths(stack); len(paths) > 0 {
			slog.ErrorContext(ctx, "panic in messaging handler", "driver", driver, "panic", rvr, "stack", paths)
		} else {
			slog.ErrorContext(ctx, "panic in messaging handler", "driver", driver, "panic", rvr, "stack", string(stack))
		}
		err = fmt.Errorf("messaging: panic in %s handler: %v", driver, rvr)
	}()

	return fn()
}
