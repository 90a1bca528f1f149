package usecase

import (
	"context"
	"runtime/debug"

	"github.com/shandysiswandi/shepherd/internal/notification/catalog"
	"github.com/shandysiswandi/shepherd/internal/notification/entity"
	"github.com/shandysiswandi/shepherd/internal/pkg/stacktrace"
)

// Trigger functions never return an error. Lookup failures abort the trigger,
// per-recipient failures are logged and the fan-out continues, and panics are
// recovered. Everything goes to the injected logger.

type (
	VisitorAssignedInput struct {
		OrgID     int64
		VisitorID int64
		LeaderID  int64
	}

	VisitorSLABreachInput struct {
		OrgID     int64
		VisitorID int64
		Hours     int
	}

	MemberAtRiskInput struct {
		OrgID       int64
		MemberID    int64
		MissedCount int
	}

	GatheringReminderInput struct {
		OrgID       int64
		GatheringID int64
	}

	MemberWelcomeInput struct {
		OrgID     int64
		AccountID int64
	}
)

func (s *Usecase) recoverTrigger(ctx context.Context, trigger entity.Type) {
	rvr := recover()
	if rvr == nil {
		return
	}

	stack := debug.Stack()
	if paths := stacktrace.InternalPaths(stack); len(paths) > 0 {
		s.log.ErrorContext(ctx, "panic occurred in notification trigger", "trigger", trigger.String(), "because", rvr, "stack", paths)
		return
	}
	s.log.ErrorContext(ctx, "panic occurred in notification trigger", "trigger", trigger.String(), "because", rvr, "stack", string(stack))
}

// newRequest fills title and body from the catalog entry of t.
func newRequest(t entity.Type, orgID, recipientID int64, params map[string]string, ref *entity.Reference) entity.Request {
	tpl, _ := catalog.Lookup(t)
	return entity.Request{
		RecipientID: recipientID,
		OrgID:       orgID,
		Type:        t,
		Title:       tpl.Title,
		Body:        tpl.Body,
		Reference:   ref,
		Params:      params,
	}
}

// fanOut dispatches to each recipient in order and returns how many sends
// succeeded. A failing or panicking recipient does not stop the loop.
func (s *Usecase) fanOut(ctx context.Context, recipients []int64, build func(recipientID int64) entity.Request) int {
	sent := 0
	for _, id := range recipients {
		if s.dispatchIsolated(ctx, build(id)) {
			sent++
		}
	}
	return sent
}

func (s *Usecase) dispatchIsolated(ctx context.Context, req entity.Request) (ok bool) {
	defer s.recoverTrigger(ctx, req.Type)

	if _, err := s.Send(ctx, req); err != nil {
		s.log.ErrorContext(ctx, "failed to dispatch notification", "trigger", req.Type.String(),
			"org_id", req.OrgID, "recipient_id", req.RecipientID, "error", err)
		return false
	}

	return true
}
