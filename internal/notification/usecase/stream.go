package usecase

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/shandysiswandi/shepherd/internal/notification/entity"
	"go.uber.org/atomic"
)

type subscriber struct {
	ch     chan entity.FeedEvent
	closed atomic.Bool
}

// StreamNotifications registers a live feed for userID and closes it when ctx
// is done.
func (s *Usecase) StreamNotifications(ctx context.Context, userID int64) <-chan entity.FeedEvent {
	sub := &subscriber{ch: make(chan entity.FeedEvent, 10)}

	s.streamMu.Lock()
	if s.streams[userID] == nil {
		s.streams[userID] = make(map[*subscriber]struct{})
	}
	s.streams[userID][sub] = struct{}{}
	s.streamMu.Unlock()

	go func() {
		<-ctx.Done()
		s.streamMu.Lock()
		sub.closed.Store(true)
		if subs := s.streams[userID]; subs != nil {
			delete(subs, sub)
			if len(subs) == 0 {
				delete(s.streams, userID)
			}
		}
		s.streamMu.Unlock()
		close(sub.ch)
	}()

	return sub.ch
}

// HandleFeedEvent receives a pg_notify payload and forwards it to the
// recipient's live subscribers.
func (s *Usecase) HandleFeedEvent(payload string) {
	var evt entity.FeedEvent
	if err := json.Unmarshal([]byte(payload), &evt); err != nil {
		slog.Error("failed to parse feed event", "payload", payload, "error", err)
		return
	}

	s.publishFeedEvent(evt)
}

// publishFeedEvent never blocks; a full subscriber misses the event and
// catches up on its next refetch.
func (s *Usecase) publishFeedEvent(evt entity.FeedEvent) {
	s.streamMu.RLock()
	defer s.streamMu.RUnlock()

	for sub := range s.streams[evt.RecipientID] {
		if sub.closed.Load() {
			continue
		}

		select {
		case sub.ch <- evt:
		default:
		}
	}
}
