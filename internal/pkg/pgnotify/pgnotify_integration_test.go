//go:build integration

package pgnotify

import (
	"context"
	"testing"
	"time"

	"github.com/shandysiswandi/shepherd/internal/pkg/testkit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListener_Postgres(t *testing.T) {
	ctx := context.Background()
	pool := testkit.Postgres(t)

	l, err := NewListener(ctx, pool, Options{Channel: "notification_feed", MinBackoff: 50 * time.Millisecond})
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })

	got := make(chan string, 1)
	l.Subscribe(func(p string) { got <- p })

	require.Eventually(t, l.Listening, 10*time.Second, 50*time.Millisecond)
	require.NoError(t, Notify(ctx, pool, "notification_feed", map[string]int64{"id": 42}))

	select {
	case p := <-got:
		assert.JSONEq(t, `{"id":42}`, p)
	case <-time.After(5 * time.Second):
		t.Fatal("notification not received")
	}
}
