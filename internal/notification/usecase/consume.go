package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shandysiswandi/shepherd/internal/pkg/idempotency"
)

const eventStateTTL = 24 * time.Hour

type (
	ConsumeVisitorAssignedInput struct {
		EventID   string `validate:"required"`
		OrgID     int64  `validate:"required,gt=0"`
		VisitorID int64  `validate:"required,gt=0"`
		LeaderID  int64  `validate:"required,gt=0"`
	}

	ConsumeVisitorSLABreachedInput struct {
		EventID   string `validate:"required"`
		OrgID     int64  `validate:"required,gt=0"`
		VisitorID int64  `validate:"required,gt=0"`
		Hours     int    `validate:"gte=0"`
	}

	ConsumeMemberAtRiskInput struct {
		EventID     string `validate:"required"`
		OrgID       int64  `validate:"required,gt=0"`
		MemberID    int64  `validate:"required,gt=0"`
		MissedCount int    `validate:"gte=0"`
	}

	ConsumeGatheringReminderInput struct {
		EventID     string `validate:"required"`
		OrgID       int64  `validate:"required,gt=0"`
		GatheringID int64  `validate:"required,gt=0"`
	}

	ConsumeMemberJoinedInput struct {
		EventID   string `validate:"required"`
		OrgID     int64  `validate:"required,gt=0"`
		AccountID int64  `validate:"required,gt=0"`
	}
)

func (s *Usecase) ConsumeVisitorAssigned(ctx context.Context, in ConsumeVisitorAssignedInput) error {
	ctx, span := s.startSpan(ctx, "ConsumeVisitorAssigned")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		slog.ErrorContext(ctx, "Validation failed", "error", err)
		return nil
	}

	return s.consumeOnce(ctx, "visitor_assigned", in.EventID, func(ctx context.Context) {
		s.NotifyVisitorAssigned(ctx, VisitorAssignedInput{OrgID: in.OrgID, VisitorID: in.VisitorID, LeaderID: in.LeaderID})
	})
}

func (s *Usecase) ConsumeVisitorSLABreached(ctx context.Context, in ConsumeVisitorSLABreachedInput) error {
	ctx, span := s.startSpan(ctx, "ConsumeVisitorSLABreached")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		slog.ErrorContext(ctx, "Validation failed", "error", err)
		return nil
	}

	return s.consumeOnce(ctx, "visitor_sla_breached", in.EventID, func(ctx context.Context) {
		s.NotifyVisitorSLABreach(ctx, VisitorSLABreachInput{OrgID: in.OrgID, VisitorID: in.VisitorID, Hours: in.Hours})
	})
}

func (s *Usecase) ConsumeMemberAtRisk(ctx context.Context, in ConsumeMemberAtRiskInput) error {
	ctx, span := s.startSpan(ctx, "ConsumeMemberAtRisk")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		slog.ErrorContext(ctx, "Validation failed", "error", err)
		return nil
	}

	return s.consumeOnce(ctx, "member_at_risk", in.EventID, func(ctx context.Context) {
		s.NotifyMemberAtRisk(ctx, MemberAtRiskInput{OrgID: in.OrgID, MemberID: in.MemberID, MissedCount: in.MissedCount})
	})
}

func (s *Usecase) ConsumeGatheringReminder(ctx context.Context, in ConsumeGatheringReminderInput) error {
	ctx, span := s.startSpan(ctx, "ConsumeGatheringReminder")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		slog.ErrorContext(ctx, "Validation failed", "error", err)
		return nil
	}

	return s.consumeOnce(ctx, "gathering_reminder", in.EventID, func(ctx context.Context) {
		s.NotifyGatheringReminder(ctx, GatheringReminderInput{OrgID: in.OrgID, GatheringID: in.GatheringID})
	})
}

func (s *Usecase) ConsumeMemberJoined(ctx context.Context, in ConsumeMemberJoinedInput) error {
	ctx, span := s.startSpan(ctx, "ConsumeMemberJoined")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		slog.ErrorContext(ctx, "Validation failed", "error", err)
		return nil
	}

	return s.consumeOnce(ctx, "member_joined", in.EventID, func(ctx context.Context) {
		s.NotifyMemberWelcome(ctx, MemberWelcomeInput{OrgID: in.OrgID, AccountID: in.AccountID})
	})
}

// consumeOnce runs fn at most once per event id. Redelivered events are
// acked without side effects; a tracker failure is returned so the broker
// redelivers.
func (s *Usecase) consumeOnce(ctx context.Context, topic, eventID string, fn func(ctx context.Context)) error {
	if s.idem == nil {
		fn(ctx)
		return nil
	}

	key := "notification:event:" + topic + ":" + eventID
	run := func(ctx context.Context) error {
		fn(ctx)
		return nil
	}
	err := s.idem.Exec(ctx, key, run,
		idempotency.WithLockDuration(s.lockDuration("modules.notification.event_lock_seconds")),
		idempotency.WithStateTTL(eventStateTTL),
	)

	switch {
	case err == nil:
		return nil
	case errors.Is(err, idempotency.ErrAlreadyCompleted),
		errors.Is(err, idempotency.ErrAlreadyInProgress),
		errors.Is(err, idempotency.ErrAlreadyFailed):
		slog.InfoContext(ctx, "event already processed", "topic", topic, "event_id", eventID, "reason", err.Error())
		return nil
	default:
		slog.ErrorContext(ctx, "failed to track event idempotency", "topic", topic, "event_id", eventID, "error", err)
		return err
	}
}
