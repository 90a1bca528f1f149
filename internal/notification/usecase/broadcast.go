package usecase

import (
	"context"
	"errors"
	"log/slog"
	"maps"
	"slices"
	"strconv"
	"time"

	"github.com/shandysiswandi/shepherd/internal/notification/entity"
	"github.com/shandysiswandi/shepherd/internal/pkg/goerror"
	"github.com/shandysiswandi/shepherd/internal/pkg/idempotency"
)

const broadcastStateTTL = 24 * time.Hour

type (
	BroadcastTarget struct {
		Type   string   `validate:"required,oneof=all_in_org by_role by_group by_ministry by_status by_external_status by_gender"`
		Values []string `validate:"omitempty,dive,max=100"`
	}

	BroadcastInput struct {
		IdempotencyKey string            `validate:"omitempty,max=128"`
		TitleAR        string            `validate:"required,max=200"`
		TitleEN        string            `validate:"omitempty,max=200"`
		BodyAR         string            `validate:"required,max=4000"`
		BodyEN         string            `validate:"omitempty,max=4000"`
		Targets        []BroadcastTarget `validate:"required,min=1,dive"`
	}

	BroadcastOutput struct {
		Sent int
	}

	PreviewBroadcastInput struct {
		Targets []BroadcastTarget `validate:"required,min=1,dive"`
	}
)

func (s *Usecase) Broadcast(ctx context.Context, in BroadcastInput) (*BroadcastOutput, error) {
	ctx, span := s.startSpan(ctx, "Broadcast")
	defer span.End()

	clm, err := s.requireAdmin(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	targets, err := parseTargets(in.Targets)
	if err != nil {
		return nil, goerror.NewInvalidInput(nil, "targets", err.Error())
	}

	var out *BroadcastOutput
	run := func(ctx context.Context) error {
		sent, err := s.broadcast(ctx, clm.OrgID, in, targets)
		if err != nil {
			return err
		}
		out = &BroadcastOutput{Sent: sent}
		return nil
	}

	if in.IdempotencyKey == "" || s.idem == nil {
		err = run(ctx)
	} else {
		key := "notification:broadcast:" + strconv.FormatInt(clm.OrgID, 10) + ":" + in.IdempotencyKey
		err = s.idem.Exec(ctx, key, run,
			idempotency.WithLockDuration(s.lockDuration("modules.notification.broadcast_lock_seconds")),
			idempotency.WithStateTTL(broadcastStateTTL),
			idempotency.WithReleaseOnError(),
		)
	}

	switch {
	case err == nil:
		return out, nil
	case errors.Is(err, idempotency.ErrAlreadyCompleted),
		errors.Is(err, idempotency.ErrAlreadyInProgress),
		errors.Is(err, idempotency.ErrAlreadyFailed):
		return nil, goerror.NewBusiness("broadcast already submitted", goerror.CodeConflict)
	default:
		slog.ErrorContext(ctx, "failed to broadcast", "org_id", clm.OrgID, "error", err)
		return nil, goerror.NewServer(err)
	}
}

// broadcast sends to every resolved account and external contact. It counts
// accounts dispatched without error and contacts whose business message
// succeeded.
func (s *Usecase) broadcast(ctx context.Context, orgID int64, in BroadcastInput, targets []entity.AudienceTarget) (int, error) {
	aud, err := s.ResolveAudience(ctx, orgID, targets)
	if err != nil {
		return 0, err
	}

	base := entity.Request{
		OrgID: orgID,
		Type:  entity.TypeBroadcast,
		Title: entity.Text{AR: in.TitleAR, EN: in.TitleEN},
		Body:  entity.Text{AR: in.BodyAR, EN: in.BodyEN},
	}

	sent := s.fanOut(ctx, aud.AccountIDs, func(id int64) entity.Request {
		req := base
		req.RecipientID = id
		return req
	})

	for _, phone := range slices.Sorted(maps.Keys(aud.Contacts)) {
		req := base
		req.Phone = phone
		req.Params = map[string]string{"name": aud.Contacts[phone]}
		if s.sendContact(ctx, req) {
			sent++
		}
	}

	slog.InfoContext(ctx, "broadcast finished", "org_id", orgID, "accounts", len(aud.AccountIDs),
		"contacts", len(aud.Contacts), "sent", sent)

	return sent, nil
}

func (s *Usecase) sendContact(ctx context.Context, req entity.Request) (ok bool) {
	defer s.recoverTrigger(ctx, req.Type)

	results, err := s.Send(ctx, req)
	if err != nil {
		s.log.ErrorContext(ctx, "failed to dispatch to contact", "org_id", req.OrgID, "error", err)
		return false
	}

	return results[entity.ChannelBusinessMessage].Success
}

func (s *Usecase) PreviewBroadcast(ctx context.Context, in PreviewBroadcastInput) (*entity.AudienceCount, error) {
	ctx, span := s.startSpan(ctx, "PreviewBroadcast")
	defer span.End()

	clm, err := s.requireAdmin(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	targets, err := parseTargets(in.Targets)
	if err != nil {
		return nil, goerror.NewInvalidInput(nil, "targets", err.Error())
	}

	count, err := s.CountAudience(ctx, clm.OrgID, targets)
	if err != nil {
		slog.ErrorContext(ctx, "failed to count audience", "org_id", clm.OrgID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &count, nil
}

func parseTargets(in []BroadcastTarget) ([]entity.AudienceTarget, error) {
	out := make([]entity.AudienceTarget, 0, len(in))
	for _, t := range in {
		target, err := entity.ParseTarget(t.Type, t.Values)
		if err != nil {
			return nil, err
		}
		out = append(out, target)
	}
	return out, nil
}
