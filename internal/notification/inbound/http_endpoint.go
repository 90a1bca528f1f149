package inbound

import (
	"github.com/shandysiswandi/shepherd/internal/notification/usecase"
	"github.com/shandysiswandi/shepherd/internal/pkg/router"
)

type HTTPEndpoint struct {
	uc uc
}

// ListInbox returns the caller's internal feed.
// @Summary List inbox
// @Description Returns internal feed notifications for the authenticated user, newest first.
// @Tags Inbox
// @Security BearerAuth
// @Produce json
// @Param status query string false "Filter by status (all|read|unread)"
// @Param limit query int false "Pagination limit"
// @Param offset query int false "Pagination offset"
// @Success 200 {object} router.successResponse{data=InboxResponse} "Notification list"
// @Failure 400 {object} router.errorResponse "Invalid query parameters"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/notification/inbox [get]
func (h *HTTPEndpoint) ListInbox(r *router.Request) (any, error) {
	limit, err := r.GetQueryInt32("limit")
	if err != nil {
		return nil, err
	}
	offset, err := r.GetQueryInt32("offset")
	if err != nil {
		return nil, err
	}

	items, err := h.uc.ListInbox(r.Context(), usecase.ListInboxInput{
		Status: r.GetQuery("status"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, err
	}

	resp := make([]InboxItemResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, InboxItemResponse{
			ID:            item.ID,
			Type:          item.Type.String(),
			Title:         item.Title,
			Body:          item.Body,
			Payload:       item.Payload,
			ReferenceID:   item.ReferenceID,
			ReferenceType: item.ReferenceType,
			ReadAt:        item.ReadAt,
			CreatedAt:     item.CreatedAt,
		})
	}

	return InboxResponse{Notifications: resp}, nil
}

// UnreadCount returns how many feed notifications the caller has not read.
// @Summary Unread count
// @Tags Inbox
// @Security BearerAuth
// @Produce json
// @Success 200 {object} router.successResponse{data=UnreadCountResponse} "Unread count"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/notification/inbox/unread-count [get]
func (h *HTTPEndpoint) UnreadCount(r *router.Request) (any, error) {
	count, err := h.uc.UnreadCount(r.Context())
	if err != nil {
		return nil, err
	}

	return UnreadCountResponse{Count: count}, nil
}

// MarkInboxRead marks a notification as read.
// @Summary Mark inbox read
// @Description Marks an inbox notification as read. Marking a read notification again succeeds.
// @Tags Inbox
// @Security BearerAuth
// @Param id path int true "Notification ID"
// @Success 204 "No Content"
// @Failure 400 {object} router.errorResponse "Invalid notification id"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 404 {object} router.errorResponse "Notification not found"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/notification/inbox/{id}/read [patch]
func (h *HTTPEndpoint) MarkInboxRead(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	return nil, h.uc.MarkInboxRead(r.Context(), usecase.MarkInboxReadInput{ID: id})
}

// MarkAllInboxRead marks all notifications as read.
// @Summary Mark all inbox read
// @Tags Inbox
// @Security BearerAuth
// @Success 204 "No Content"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/notification/inbox/read-all [put]
func (h *HTTPEndpoint) MarkAllInboxRead(r *router.Request) (any, error) {
	return nil, h.uc.MarkAllInboxRead(r.Context())
}

// Broadcast sends an announcement to a targeted audience.
// @Summary Broadcast
// @Description Sends a bilingual announcement to every resolved account and external contact. Admin only.
// @Tags Broadcast
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param Idempotency-Key header string false "Rejects a repeated submission with 409"
// @Param request body BroadcastRequest true "Broadcast payload"
// @Success 200 {object} router.successResponse{data=BroadcastResponse} "Delivered count"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 403 {object} router.errorResponse "Forbidden"
// @Failure 409 {object} router.errorResponse "Already submitted"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/notification/broadcast [post]
func (h *HTTPEndpoint) Broadcast(r *router.Request) (any, error) {
	var req BroadcastRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	out, err := h.uc.Broadcast(r.Context(), usecase.BroadcastInput{
		IdempotencyKey: r.GetHeader("Idempotency-Key"),
		TitleAR:        req.TitleAR,
		TitleEN:        req.TitleEN,
		BodyAR:         req.BodyAR,
		BodyEN:         req.BodyEN,
		Targets:        toTargets(req.Targets),
	})
	if err != nil {
		return nil, err
	}

	return BroadcastResponse{Sent: out.Sent}, nil
}

// PreviewBroadcast counts the audience a broadcast would reach.
// @Summary Preview broadcast
// @Tags Broadcast
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body PreviewBroadcastRequest true "Targets"
// @Success 200 {object} router.successResponse{data=PreviewBroadcastResponse} "Audience count"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 403 {object} router.errorResponse "Forbidden"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/notification/broadcast/preview [post]
func (h *HTTPEndpoint) PreviewBroadcast(r *router.Request) (any, error) {
	var req PreviewBroadcastRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	count, err := h.uc.PreviewBroadcast(r.Context(), usecase.PreviewBroadcastInput{Targets: toTargets(req.Targets)})
	if err != nil {
		return nil, err
	}

	return PreviewBroadcastResponse{
		ProfileCount: count.AccountCount,
		VisitorCount: count.ExternalCount,
		Total:        count.Total,
	}, nil
}

func toTargets(in []BroadcastTargetRequest) []usecase.BroadcastTarget {
	out := make([]usecase.BroadcastTarget, 0, len(in))
	for _, t := range in {
		out = append(out, usecase.BroadcastTarget{Type: t.Type, Values: t.Values})
	}
	return out
}
