package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shandysiswandi/shepherd/internal/notification/entity"
)

func (s *DB) GetOrganization(ctx context.Context, orgID int64) (_ *entity.Organization, err error) {
	ctx, span := s.startSpan(ctx, "GetOrganization")
	defer func() { s.endSpan(span, err) }()

	var (
		org  entity.Organization
		lang pgtype.Text
	)
	err = s.conn.QueryRow(ctx,
		`SELECT id, name, primary_language FROM organizations WHERE id = $1`, orgID,
	).Scan(&org.ID, &org.Name, &lang)
	if err != nil {
		return nil, s.mapError(err)
	}

	org.Locale = entity.LocaleFromString(lang.String)
	return &org, nil
}

func (s *DB) GetAccount(ctx context.Context, orgID, accountID int64) (_ *entity.Account, err error) {
	ctx, span := s.startSpan(ctx, "GetAccount")
	defer func() { s.endSpan(span, err) }()

	var (
		acc          entity.Account
		phone, email pgtype.Text
		pref         string
	)
	err = s.conn.QueryRow(ctx, `
SELECT id, org_id, full_name, role, phone, email, channel_preference
FROM accounts
WHERE id = $1 AND org_id = $2`, accountID, orgID,
	).Scan(&acc.ID, &acc.OrgID, &acc.FullName, &acc.Role, &phone, &email, &pref)
	if err != nil {
		return nil, s.mapError(err)
	}

	acc.Phone = phone.String
	acc.Email = email.String
	acc.Preference = entity.Preference(pref)
	return &acc, nil
}

func (s *DB) GetVisitor(ctx context.Context, orgID, visitorID int64) (_ *entity.Visitor, err error) {
	ctx, span := s.startSpan(ctx, "GetVisitor")
	defer func() { s.endSpan(span, err) }()

	var (
		v      entity.Visitor
		phone  pgtype.Text
		leader pgtype.Int8
	)
	err = s.conn.QueryRow(ctx, `
SELECT id, org_id, full_name, phone, status, assigned_leader_id
FROM visitors
WHERE id = $1 AND org_id = $2`, visitorID, orgID,
	).Scan(&v.ID, &v.OrgID, &v.FullName, &phone, &v.Status, &leader)
	if err != nil {
		return nil, s.mapError(err)
	}

	v.Phone = phone.String
	v.AssignedLeaderID = int64PtrFromPgInt8(leader)
	return &v, nil
}

func (s *DB) GetGathering(ctx context.Context, orgID, gatheringID int64) (_ *entity.Gathering, err error) {
	ctx, span := s.startSpan(ctx, "GetGathering")
	defer func() { s.endSpan(span, err) }()

	var g entity.Gathering
	err = s.conn.QueryRow(ctx, `
SELECT id, org_id, group_id, title, starts_at
FROM gatherings
WHERE id = $1 AND org_id = $2`, gatheringID, orgID,
	).Scan(&g.ID, &g.OrgID, &g.GroupID, &g.Title, &g.StartsAt)
	if err != nil {
		return nil, s.mapError(err)
	}

	return &g, nil
}
