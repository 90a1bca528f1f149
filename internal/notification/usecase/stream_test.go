package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/shandysiswandi/shepherd/internal/notification/entity"
	"github.com/stretchr/testify/assert"
)

func TestStreamNotifications(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())

	mine := f.uc.StreamNotifications(ctx, 10)
	other := f.uc.StreamNotifications(ctx, 11)

	f.uc.HandleFeedEvent(`{"id":"99","org_id":"1","recipient_id":"10","type":"broadcast","title":"hello","created_at":"2026-03-01T09:00:00Z"}`)
	f.uc.HandleFeedEvent(`not json`)

	select {
	case evt := <-mine:
		assert.Equal(t, int64(99), evt.ID)
		assert.Equal(t, entity.TypeBroadcast, evt.Type)
		assert.Equal(t, "hello", evt.Title)
	case <-time.After(time.Second):
		t.Fatal("event not delivered")
	}

	select {
	case <-other:
		t.Fatal("event leaked to another recipient")
	default:
	}

	cancel()
	for range mine {
	}
	for range other {
	}

	f.uc.streamMu.RLock()
	defer f.uc.streamMu.RUnlock()
	assert.Empty(t, f.uc.streams)
}

func TestPublishFeedEvent_DropsWhenFull(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := f.uc.StreamNotifications(ctx, 10)
	for i := range 15 {
		f.uc.publishFeedEvent(entity.FeedEvent{ID: int64(i), RecipientID: 10})
	}

	assert.Len(t, ch, 10)
}
