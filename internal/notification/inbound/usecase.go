package inbound

import (
	"context"

	"github.com/shandysiswandi/shepherd/internal/notification/entity"
	"github.com/shandysiswandi/shepherd/internal/notification/usecase"
)

type ucConsumer interface {
	ConsumeVisitorAssigned(ctx context.Context, in usecase.ConsumeVisitorAssignedInput) error
	ConsumeVisitorSLABreached(ctx context.Context, in usecase.ConsumeVisitorSLABreachedInput) error
	ConsumeMemberAtRisk(ctx context.Context, in usecase.ConsumeMemberAtRiskInput) error
	ConsumeGatheringReminder(ctx context.Context, in usecase.ConsumeGatheringReminderInput) error
	ConsumeMemberJoined(ctx context.Context, in usecase.ConsumeMemberJoinedInput) error
}

type ucStream interface {
	StreamNotifications(ctx context.Context, userID int64) <-chan entity.FeedEvent
}

type uc interface {
	ucConsumer
	ucStream

	ListInbox(ctx context.Context, in usecase.ListInboxInput) ([]entity.InboxItem, error)
	UnreadCount(ctx context.Context) (int64, error)
	MarkInboxRead(ctx context.Context, in usecase.MarkInboxReadInput) error
	MarkAllInboxRead(ctx context.Context) error
	Broadcast(ctx context.Context, in usecase.BroadcastInput) (*usecase.BroadcastOutput, error)
	PreviewBroadcast(ctx context.Context, in usecase.PreviewBroadcastInput) (*entity.AudienceCount, error)
}
