// Package feed writes internal_feed rows. It is the mandatory baseline
// channel and is always configured.
package feed

import (
	"context"
	"strconv"

	"github.com/shandysiswandi/shepherd/internal/notification/entity"
	"github.com/shandysiswandi/shepherd/internal/pkg/clock"
	"github.com/shandysiswandi/shepherd/internal/pkg/instrument"
	"github.com/shandysiswandi/shepherd/internal/pkg/uid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type store interface {
	CreateFeedLog(ctx context.Context, in entity.CreateLog, channel string) error
}

type Feed struct {
	store   store
	uid     uid.NumberID
	clock   clock.Clocker
	channel string
	ins     instrument.Instrumentation
}

// New returns a provider that announces each row on the Postgres channel
// notifyChannel; an empty channel disables the announcement.
func New(st store, gen uid.NumberID, clk clock.Clocker, notifyChannel string, ins instrument.Instrumentation) *Feed {
	return &Feed{store: st, uid: gen, clock: clk, channel: notifyChannel, ins: ins}
}

func (*Feed) IsConfigured() bool {
	return true
}

func (f *Feed) Send(ctx context.Context, msg entity.Message) entity.Result {
	ctx, span := f.ins.Tracer("notification.outbound.feed").Start(ctx, "Send")
	defer span.End()

	id := f.uid.Generate()
	now := f.clock.Now()
	span.SetAttributes(attribute.Int64("notification.id", id))

	err := f.store.CreateFeedLog(ctx, entity.CreateLog{
		ID:          id,
		OrgID:       msg.OrgID,
		RecipientID: msg.RecipientID,
		Type:        msg.Type,
		Channel:     entity.ChannelInternalFeed,
		Title:       msg.Title,
		Body:        msg.Body,
		Payload:     msg.Payload,
		Status:      entity.DeliveryStatusSent,
		Reference:   msg.Reference,
		SentAt:      &now,
	}, f.channel)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return entity.Result{Error: err.Error()}
	}

	return entity.Result{Success: true, MessageID: strconv.FormatInt(id, 10)}
}
