package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shandysiswandi/shepherd/internal/notification/entity"
)

func (s *DB) listIDs(ctx context.Context, name, sql string, args ...any) (_ []int64, err error) {
	ctx, span := s.startSpan(ctx, name)
	defer func() { s.endSpan(span, err) }()

	rows, err := s.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, s.mapError(err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	return ids, s.mapError(err)
}

func (s *DB) ListAccountIDsInOrg(ctx context.Context, orgID int64) ([]int64, error) {
	return s.listIDs(ctx, "ListAccountIDsInOrg",
		`SELECT id FROM accounts WHERE org_id = $1 ORDER BY id`, orgID)
}

func (s *DB) ListAccountIDsByRoles(ctx context.Context, orgID int64, roles []string) ([]int64, error) {
	return s.listIDs(ctx, "ListAccountIDsByRoles",
		`SELECT id FROM accounts WHERE org_id = $1 AND role = ANY($2) ORDER BY id`, orgID, roles)
}

func (s *DB) ListAccountIDsByGroups(ctx context.Context, orgID int64, groupIDs []int64) ([]int64, error) {
	return s.listIDs(ctx, "ListAccountIDsByGroups", `
SELECT DISTINCT a.id
FROM accounts a
JOIN group_memberships gm ON gm.account_id = a.id AND gm.is_active
JOIN groups g ON g.id = gm.group_id AND g.is_active
WHERE a.org_id = $1 AND g.org_id = $1 AND g.id = ANY($2)
ORDER BY a.id`, orgID, groupIDs)
}

func (s *DB) ListAccountIDsByMinistries(ctx context.Context, orgID int64, ministryIDs []int64) ([]int64, error) {
	return s.listIDs(ctx, "ListAccountIDsByMinistries", `
SELECT DISTINCT a.id
FROM accounts a
JOIN group_memberships gm ON gm.account_id = a.id AND gm.is_active
JOIN groups g ON g.id = gm.group_id AND g.is_active
WHERE a.org_id = $1 AND g.org_id = $1 AND g.ministry_id = ANY($2)
ORDER BY a.id`, orgID, ministryIDs)
}

func (s *DB) ListAccountIDsByStatuses(ctx context.Context, orgID int64, statuses []string) ([]int64, error) {
	return s.listIDs(ctx, "ListAccountIDsByStatuses",
		`SELECT id FROM accounts WHERE org_id = $1 AND status = ANY($2) ORDER BY id`, orgID, statuses)
}

func (s *DB) ListAccountIDsByGender(ctx context.Context, orgID int64, gender string) ([]int64, error) {
	return s.listIDs(ctx, "ListAccountIDsByGender",
		`SELECT id FROM accounts WHERE org_id = $1 AND gender = $2 ORDER BY id`, orgID, gender)
}

// ListVisitorContactsByStatuses returns visitors with a phone, oldest first,
// so a later row for the same phone overrides an earlier one.
func (s *DB) ListVisitorContactsByStatuses(ctx context.Context, orgID int64, statuses []string) (_ []entity.Visitor, err error) {
	ctx, span := s.startSpan(ctx, "ListVisitorContactsByStatuses")
	defer func() { s.endSpan(span, err) }()

	rows, err := s.conn.Query(ctx, `
SELECT id, full_name, phone
FROM visitors
WHERE org_id = $1 AND status = ANY($2) AND COALESCE(phone, '') <> ''
ORDER BY created_at, id`, orgID, statuses)
	if err != nil {
		return nil, s.mapError(err)
	}

	visitors, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.Visitor, error) {
		v := entity.Visitor{OrgID: orgID}
		err := row.Scan(&v.ID, &v.FullName, &v.Phone)
		return v, err
	})
	return visitors, s.mapError(err)
}

func (s *DB) ListAccountPhones(ctx context.Context, orgID int64, ids []int64) (_ []string, err error) {
	ctx, span := s.startSpan(ctx, "ListAccountPhones")
	defer func() { s.endSpan(span, err) }()

	rows, err := s.conn.Query(ctx, `
SELECT phone
FROM accounts
WHERE org_id = $1 AND id = ANY($2) AND COALESCE(phone, '') <> ''`, orgID, ids)
	if err != nil {
		return nil, s.mapError(err)
	}

	phones, err := pgx.CollectRows(rows, pgx.RowTo[pgtype.Text])
	if err != nil {
		return nil, s.mapError(err)
	}

	out := make([]string, 0, len(phones))
	for _, p := range phones {
		out = append(out, p.String)
	}
	return out, nil
}
