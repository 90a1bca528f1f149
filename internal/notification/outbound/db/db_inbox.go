package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shandysiswandi/shepherd/internal/notification/entity"
	"github.com/shandysiswandi/shepherd/internal/pkg/valueobject"
)

const listInbox = `
SELECT id, type, title, body, payload, reference_id, reference_type, read_at, created_at
FROM notification_logs
WHERE org_id = $1
  AND recipient_id = $2
  AND channel = 'internal_feed'
  AND ($3 = 'all' OR ($3 = 'unread' AND read_at IS NULL) OR ($3 = 'read' AND read_at IS NOT NULL))
ORDER BY created_at DESC, id DESC
LIMIT $4 OFFSET $5`

type inboxRow struct {
	ID            int64
	Type          string
	Title         string
	Body          string
	Payload       valueobject.JSONMap
	ReferenceID   pgtype.Int8
	ReferenceType pgtype.Text
	ReadAt        pgtype.Timestamptz
	CreatedAt     pgtype.Timestamptz
}

func (s *DB) ListInbox(ctx context.Context, orgID, recipientID int64, status entity.InboxStatus, limit, offset int32) (_ []entity.InboxItem, err error) {
	ctx, span := s.startSpan(ctx, "ListInbox")
	defer func() { s.endSpan(span, err) }()

	rows, err := s.conn.Query(ctx, listInbox, orgID, recipientID, string(status), limit, offset)
	if err != nil {
		return nil, s.mapError(err)
	}

	records, err := pgx.CollectRows(rows, pgx.RowToStructByPos[inboxRow])
	if err != nil {
		return nil, s.mapError(err)
	}

	items := make([]entity.InboxItem, 0, len(records))
	for _, row := range records {
		items = append(items, entity.InboxItem{
			ID:            row.ID,
			Type:          entity.Type(row.Type),
			Title:         row.Title,
			Body:          row.Body,
			Payload:       row.Payload,
			ReferenceID:   int64PtrFromPgInt8(row.ReferenceID),
			ReferenceType: row.ReferenceType.String,
			ReadAt:        timePtrFromPgTimestamptz(row.ReadAt),
			CreatedAt:     row.CreatedAt.Time,
		})
	}

	return items, nil
}

func (s *DB) CountUnread(ctx context.Context, orgID, recipientID int64) (_ int64, err error) {
	ctx, span := s.startSpan(ctx, "CountUnread")
	defer func() { s.endSpan(span, err) }()

	var count int64
	err = s.conn.QueryRow(ctx, `
SELECT count(*)
FROM notification_logs
WHERE org_id = $1
  AND recipient_id = $2
  AND channel = 'internal_feed'
  AND status = 'sent'
  AND read_at IS NULL`, orgID, recipientID).Scan(&count)

	return count, s.mapError(err)
}

// MarkInboxRead reports false when id is not the recipient's internal_feed
// row. An already read row keeps its original read_at.
func (s *DB) MarkInboxRead(ctx context.Context, orgID, recipientID, id int64) (_ bool, err error) {
	ctx, span := s.startSpan(ctx, "MarkInboxRead")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, `
UPDATE notification_logs
SET read_at = COALESCE(read_at, now())
WHERE id = $1
  AND org_id = $2
  AND recipient_id = $3
  AND channel = 'internal_feed'`, id, orgID, recipientID)
	if err != nil {
		return false, s.mapError(err)
	}

	return tag.RowsAffected() == 1, nil
}

func (s *DB) MarkAllInboxRead(ctx context.Context, orgID, recipientID int64) (_ int64, err error) {
	ctx, span := s.startSpan(ctx, "MarkAllInboxRead")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, `
UPDATE notification_logs
SET read_at = now()
WHERE org_id = $1
  AND recipient_id = $2
  AND channel = 'internal_feed'
  AND read_at IS NULL`, orgID, recipientID)
	if err != nil {
		return 0, s.mapError(err)
	}

	return tag.RowsAffected(), nil
}
