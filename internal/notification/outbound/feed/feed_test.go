package feed

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shandysiswandi/shepherd/internal/notification/entity"
	"github.com/shandysiswandi/shepherd/internal/pkg/clock"
	"github.com/shandysiswandi/shepherd/internal/pkg/instrument"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	got     []entity.CreateLog
	channel string
	err     error
}

func (f *fakeStore) CreateFeedLog(_ context.Context, in entity.CreateLog, channel string) error {
	f.got = append(f.got, in)
	f.channel = channel
	return f.err
}

type seqID struct{ n int64 }

func (s *seqID) Generate() int64 { s.n++; return s.n }

func TestFeed_Send(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	st := &fakeStore{}
	f := New(st, &seqID{n: 41}, clock.Fixed(now), "notification_feed", instrument.NewNoop())

	res := f.Send(context.Background(), entity.Message{
		OrgID:       1,
		RecipientID: 10,
		Type:        entity.TypeVisitorAssigned,
		Title:       "title",
		Body:        "body",
		Reference:   &entity.Reference{ID: 500, Type: entity.ReferenceVisitor},
	})

	assert.True(t, f.IsConfigured())
	assert.Equal(t, entity.Result{Success: true, MessageID: "42"}, res)
	assert.Equal(t, "notification_feed", st.channel)
	require.Len(t, st.got, 1)
	row := st.got[0]
	assert.Equal(t, int64(42), row.ID)
	assert.Equal(t, entity.ChannelInternalFeed, row.Channel)
	assert.Equal(t, entity.DeliveryStatusSent, row.Status)
	assert.Equal(t, now, *row.SentAt)
}

func TestFeed_SendStoreFailure(t *testing.T) {
	st := &fakeStore{err: errors.New("db down")}
	f := New(st, &seqID{}, clock.New(), "", instrument.NewNoop())

	res := f.Send(context.Background(), entity.Message{OrgID: 1, RecipientID: 10})

	assert.False(t, res.Success)
	assert.Equal(t, "db down", res.Error)
}
