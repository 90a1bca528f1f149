package db

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shandysiswandi/shepherd/internal/notification/entity"
	"github.com/shandysiswandi/shepherd/internal/pkg/pgnotify"
)

const insertLog = `
INSERT INTO notification_logs (
    id, org_id, recipient_id, contact_phone, type, channel, title, body, payload,
    status, error_message, reference_id, reference_type, sent_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
RETURNING created_at`

type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func insertLogRow(ctx context.Context, q rowQuerier, in entity.CreateLog) (pgtype.Timestamptz, error) {
	var (
		refID   pgtype.Int8
		refType pgtype.Text
		sentAt  pgtype.Timestamptz
	)
	if in.Reference != nil {
		refID = int8OrNull(in.Reference.ID)
		refType = textOrNull(in.Reference.Type)
	}
	if in.SentAt != nil {
		sentAt = pgtype.Timestamptz{Time: *in.SentAt, Valid: true}
	}

	var createdAt pgtype.Timestamptz
	err := q.QueryRow(ctx, insertLog,
		in.ID,
		in.OrgID,
		int8OrNull(in.RecipientID),
		textOrNull(in.ContactPhone),
		in.Type.String(),
		in.Channel.String(),
		in.Title,
		in.Body,
		in.Payload,
		in.Status.String(),
		textOrNull(in.ErrorMessage),
		refID,
		refType,
		sentAt,
	).Scan(&createdAt)

	return createdAt, err
}

// CreateLog records a business_message or email attempt.
func (s *DB) CreateLog(ctx context.Context, in entity.CreateLog) (err error) {
	ctx, span := s.startSpan(ctx, "CreateLog")
	defer func() { s.endSpan(span, err) }()

	_, err = insertLogRow(ctx, s.conn, in)
	return s.mapError(err)
}

// CreateFeedLog inserts an internal_feed row and announces it on channel in
// the same transaction, so listeners never see an id before it is queryable.
func (s *DB) CreateFeedLog(ctx context.Context, in entity.CreateLog, channel string) (err error) {
	ctx, span := s.startSpan(ctx, "CreateFeedLog")
	defer func() { s.endSpan(span, err) }()

	tx, err := s.conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if rErr := tx.Rollback(ctx); rErr != nil && !errors.Is(rErr, pgx.ErrTxClosed) {
			slog.ErrorContext(ctx, "failed to rollback", "error", rErr)
		}
	}()

	createdAt, err := insertLogRow(ctx, tx, in)
	if err != nil {
		return s.mapError(err)
	}

	if channel != "" {
		if err = pgnotify.Notify(ctx, tx, channel, entity.FeedEvent{
			ID:          in.ID,
			OrgID:       in.OrgID,
			RecipientID: in.RecipientID,
			Type:        in.Type,
			Title:       in.Title,
			CreatedAt:   createdAt.Time,
		}); err != nil {
			return err
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return err
	}

	return nil
}
