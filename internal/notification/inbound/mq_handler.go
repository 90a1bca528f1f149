package inbound

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/shandysiswandi/shepherd/internal/notification/usecase"
	"github.com/shandysiswandi/shepherd/internal/pkg/instrument"
	"github.com/shandysiswandi/shepherd/internal/pkg/messaging"
	"github.com/shandysiswandi/shepherd/internal/pkg/uid"
	"github.com/shandysiswandi/shepherd/internal/shared/event"
	"go.opentelemetry.io/otel/trace"
)

const keyOfCorrelationID string = "cID"

type MQHandler struct {
	uc   ucConsumer
	uuid uid.StringID
	ins  instrument.Instrumentation
}

func (h *MQHandler) ensureCorrelationID(ctx context.Context, msg messaging.Message) context.Context {
	if cID := messaging.HeaderValue(msg, keyOfCorrelationID); cID != "" {
		return instrument.SetCorrelationID(ctx, cID)
	}
	return instrument.SetCorrelationID(ctx, h.uuid.Generate())
}

// begin prepares the context and logs the received body. The returned span
// must be ended by the caller.
func (h *MQHandler) begin(ctx context.Context, msg messaging.Message, name, what string) (context.Context, trace.Span) {
	ctx = h.ensureCorrelationID(ctx, msg)
	ctx, span := h.ins.Tracer("notification.inbound.mq").Start(ctx, name)

	slog.InfoContext(ctx, "consume: "+what, "msg_body", string(msg.Body()))
	return ctx, span
}

// decode reports false for a body that can never be processed; such a
// message is logged and acked.
func decode(ctx context.Context, msg messaging.Message, what string, dst any) bool {
	if err := json.Unmarshal(msg.Body(), dst); err != nil {
		slog.ErrorContext(ctx, "failed to parse message body of "+what, "msg_body", string(msg.Body()), "error", err)
		return false
	}
	return true
}

func (h *MQHandler) VisitorAssignedNotification(ctx context.Context, msg messaging.Message) error {
	const what = "visitor assigned notification"
	ctx, span := h.begin(ctx, msg, "VisitorAssignedNotification", what)
	defer span.End()

	var payload event.VisitorAssignedMessage
	if !decode(ctx, msg, what, &payload) {
		return nil
	}

	if err := h.uc.ConsumeVisitorAssigned(ctx, usecase.ConsumeVisitorAssignedInput{
		EventID:   payload.EventID,
		OrgID:     payload.OrgID,
		VisitorID: payload.VisitorID,
		LeaderID:  payload.LeaderID,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to consume visitor assigned", "msg_body", string(msg.Body()), "error", err)
		return err
	}

	return nil
}

func (h *MQHandler) VisitorSLABreachedNotification(ctx context.Context, msg messaging.Message) error {
	const what = "visitor sla breached notification"
	ctx, span := h.begin(ctx, msg, "VisitorSLABreachedNotification", what)
	defer span.End()

	var payload event.VisitorSLABreachedMessage
	if !decode(ctx, msg, what, &payload) {
		return nil
	}

	if err := h.uc.ConsumeVisitorSLABreached(ctx, usecase.ConsumeVisitorSLABreachedInput{
		EventID:   payload.EventID,
		OrgID:     payload.OrgID,
		VisitorID: payload.VisitorID,
		Hours:     payload.Hours,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to consume visitor sla breached", "msg_body", string(msg.Body()), "error", err)
		return err
	}

	return nil
}

func (h *MQHandler) MemberAtRiskNotification(ctx context.Context, msg messaging.Message) error {
	const what = "member at risk notification"
	ctx, span := h.begin(ctx, msg, "MemberAtRiskNotification", what)
	defer span.End()

	var payload event.MemberAtRiskMessage
	if !decode(ctx, msg, what, &payload) {
		return nil
	}

	if err := h.uc.ConsumeMemberAtRisk(ctx, usecase.ConsumeMemberAtRiskInput{
		EventID:     payload.EventID,
		OrgID:       payload.OrgID,
		MemberID:    payload.MemberID,
		MissedCount: payload.MissedCount,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to consume member at risk", "msg_body", string(msg.Body()), "error", err)
		return err
	}

	return nil
}

func (h *MQHandler) GatheringReminderNotification(ctx context.Context, msg messaging.Message) error {
	const what = "gathering reminder notification"
	ctx, span := h.begin(ctx, msg, "GatheringReminderNotification", what)
	defer span.End()

	var payload event.GatheringReminderMessage
	if !decode(ctx, msg, what, &payload) {
		return nil
	}

	if err := h.uc.ConsumeGatheringReminder(ctx, usecase.ConsumeGatheringReminderInput{
		EventID:     payload.EventID,
		OrgID:       payload.OrgID,
		GatheringID: payload.GatheringID,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to consume gathering reminder", "msg_body", string(msg.Body()), "error", err)
		return err
	}

	return nil
}

func (h *MQHandler) MemberJoinedNotification(ctx context.Context, msg messaging.Message) error {
	const what = "member joined notification"
	ctx, span := h.begin(ctx, msg, "MemberJoinedNotification", what)
	defer span.End()

	var payload event.MemberJoinedMessage
	if !decode(ctx, msg, what, &payload) {
		return nil
	}

	if err := h.uc.ConsumeMemberJoined(ctx, usecase.ConsumeMemberJoinedInput{
		EventID:   payload.EventID,
		OrgID:     payload.OrgID,
		AccountID: payload.AccountID,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to consume member joined", "msg_body", string(msg.Body()), "error", err)
		return err
	}

	return nil
}
