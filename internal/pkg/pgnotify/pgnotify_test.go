package pgnotify

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type execRecorder struct {
	sql  string
	args []any
	err  error
}

func (e *execRecorder) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	e.sql = sql
	e.args = args
	return pgconn.CommandTag{}, e.err
}

func TestNotify(t *testing.T) {
	t.Run("marshals payload", func(t *testing.T) {
		rec := &execRecorder{}
		err := Notify(context.Background(), rec, "notification_feed", map[string]any{"id": 7})

		require.NoError(t, err)
		assert.Equal(t, "select pg_notify($1, $2)", rec.sql)
		assert.Equal(t, []any{"notification_feed", `{"id":7}`}, rec.args)
	})

	t.Run("channel required", func(t *testing.T) {
		err := Notify(context.Background(), &execRecorder{}, "", nil)
		assert.ErrorIs(t, err, ErrChannelRequired)
	})

	t.Run("marshal error", func(t *testing.T) {
		err := Notify(context.Background(), &execRecorder{}, "c", make(chan int))
		assert.ErrorIs(t, err, ErrMarshalPayload)
	})

	t.Run("exec error", func(t *testing.T) {
		err := Notify(context.Background(), &execRecorder{err: errors.New("down")}, "c", 1)
		assert.ErrorIs(t, err, ErrNotify)
	})
}

func TestListener_Fanout(t *testing.T) {
	l := &Listener{handlers: make(map[int]Handler)}

	var a, b []string
	unsubA := l.Subscribe(func(p string) { a = append(a, p) })
	l.Subscribe(func(p string) { b = append(b, p) })

	l.fanout("one")
	unsubA()
	l.fanout("two")

	assert.Equal(t, []string{"one"}, a)
	assert.Equal(t, []string{"one", "two"}, b)
}
