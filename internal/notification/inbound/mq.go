package inbound

import (
	"context"
	"log/slog"
	"slices"

	"github.com/shandysiswandi/shepherd/internal/pkg/config"
	"github.com/shandysiswandi/shepherd/internal/pkg/goroutine"
	"github.com/shandysiswandi/shepherd/internal/pkg/instrument"
	"github.com/shandysiswandi/shepherd/internal/pkg/messaging"
	"github.com/shandysiswandi/shepherd/internal/pkg/uid"
	"github.com/shandysiswandi/shepherd/internal/shared/event"
)

type consumer struct {
	name    string // also the nsq channel, nats queue group, kafka group and pubsub subscription
	topic   string // destination the publisher sends to
	handler messaging.Handler
}

func consumers(h *MQHandler) []consumer {
	return []consumer{
		{
			name:    event.VisitorAssignedConsumerNotification,
			topic:   event.VisitorAssignedDestination,
			handler: h.VisitorAssignedNotification,
		},
		{
			name:    event.VisitorSLABreachedConsumerNotification,
			topic:   event.VisitorSLABreachedDestination,
			handler: h.VisitorSLABreachedNotification,
		},
		{
			name:    event.MemberAtRiskConsumerNotification,
			topic:   event.MemberAtRiskDestination,
			handler: h.MemberAtRiskNotification,
		},
		{
			name:    event.GatheringReminderConsumerNotification,
			topic:   event.GatheringReminderDestination,
			handler: h.GatheringReminderNotification,
		},
		{
			name:    event.MemberJoinedConsumerNotification,
			topic:   event.MemberJoinedDestination,
			handler: h.MemberJoinedNotification,
		},
	}
}

// RegisterMQConsumer starts the consumers listed in
// modules.notification.consumer_names.
func RegisterMQConsumer(
	ctx context.Context,
	cfg config.Config,
	routine *goroutine.Manager,
	messenger messaging.Messaging,
	uuid uid.StringID,
	uc ucConsumer,
	ins instrument.Instrumentation,
) {
	mqHandler := &MQHandler{uc: uc, uuid: uuid, ins: ins}

	enableConsumerNames := cfg.GetArray("modules.notification.consumer_names")

	for _, c := range consumers(mqHandler) {
		if !slices.Contains(enableConsumerNames, c.name) {
			continue
		}

		routine.Go(ctx, func(pCtx context.Context) error {
			slog.InfoContext(ctx, "Running job for handling consumer", "consumer", c.name)
			return messenger.Consume(pCtx,
				c.topic,
				c.handler,
				messaging.WithChannel(c.name),
				messaging.WithQueueGroup(c.name),
				messaging.WithGroup(c.name),
				messaging.WithSubscription(c.name),
				messaging.WithAutoAck(true),
				messaging.WithConcurrency(10),
				messaging.WithMaxInFlight(10),
			)
		})
	}
}
