package usecase

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	"github.com/shandysiswandi/shepherd/internal/notification/entity"
	"go.opentelemetry.io/otel/attribute"
)

// ResolveAudience returns the union of every target. Account ids are unique,
// and external contacts sharing a phone with a resolved account are dropped.
func (s *Usecase) ResolveAudience(ctx context.Context, orgID int64, targets []entity.AudienceTarget) (entity.Audience, error) {
	ctx, span := s.startSpan(ctx, "ResolveAudience")
	defer span.End()

	c := &audienceCollector{ctx: ctx, repo: s.repoDB, orgID: orgID, contacts: make(map[string]string)}
	for _, t := range targets {
		if err := t.Accept(c); err != nil {
			return entity.Audience{}, fmt.Errorf("resolve audience target %T: %w", t, err)
		}
	}

	ids := lo.Uniq(c.ids)
	if len(ids) > 0 && len(c.contacts) > 0 {
		phones, err := s.repoDB.ListAccountPhones(ctx, orgID, ids)
		if err != nil {
			return entity.Audience{}, fmt.Errorf("list account phones: %w", err)
		}
		for _, p := range phones {
			delete(c.contacts, entity.NormalizePhone(p))
		}
	}

	span.SetAttributes(
		attribute.Int("audience.accounts", len(ids)),
		attribute.Int("audience.contacts", len(c.contacts)),
	)

	return entity.Audience{AccountIDs: ids, Contacts: c.contacts}, nil
}

func (s *Usecase) CountAudience(ctx context.Context, orgID int64, targets []entity.AudienceTarget) (entity.AudienceCount, error) {
	aud, err := s.ResolveAudience(ctx, orgID, targets)
	if err != nil {
		return entity.AudienceCount{}, err
	}

	return aud.Count(), nil
}

// audienceCollector runs one query per non-empty target and accumulates the
// results. Empty criteria add nothing.
type audienceCollector struct {
	ctx      context.Context
	repo     repoDB
	orgID    int64
	ids      []int64
	contacts map[string]string
}

func (c *audienceCollector) add(ids []int64, err error) error {
	if err != nil {
		return err
	}
	c.ids = append(c.ids, ids...)
	return nil
}

func (c *audienceCollector) VisitAllInOrg(entity.AllInOrg) error {
	return c.add(c.repo.ListAccountIDsInOrg(c.ctx, c.orgID))
}

func (c *audienceCollector) VisitByRole(t entity.ByRole) error {
	if len(t.Roles) == 0 {
		return nil
	}
	return c.add(c.repo.ListAccountIDsByRoles(c.ctx, c.orgID, t.Roles))
}

func (c *audienceCollector) VisitByGroup(t entity.ByGroup) error {
	if len(t.GroupIDs) == 0 {
		return nil
	}
	return c.add(c.repo.ListAccountIDsByGroups(c.ctx, c.orgID, t.GroupIDs))
}

func (c *audienceCollector) VisitByMinistry(t entity.ByMinistry) error {
	if len(t.MinistryIDs) == 0 {
		return nil
	}
	return c.add(c.repo.ListAccountIDsByMinistries(c.ctx, c.orgID, t.MinistryIDs))
}

func (c *audienceCollector) VisitByStatus(t entity.ByStatus) error {
	if len(t.Statuses) == 0 {
		return nil
	}
	return c.add(c.repo.ListAccountIDsByStatuses(c.ctx, c.orgID, t.Statuses))
}

func (c *audienceCollector) VisitByGender(t entity.ByGender) error {
	if t.Gender == "" {
		return nil
	}
	return c.add(c.repo.ListAccountIDsByGender(c.ctx, c.orgID, t.Gender))
}

func (c *audienceCollector) VisitByExternalStatus(t entity.ByExternalStatus) error {
	if len(t.Statuses) == 0 {
		return nil
	}

	visitors, err := c.repo.ListVisitorContactsByStatuses(c.ctx, c.orgID, t.Statuses)
	if err != nil {
		return err
	}
	for _, v := range visitors {
		if phone := entity.NormalizePhone(v.Phone); phone != "" {
			c.contacts[phone] = v.FullName
		}
	}
	return nil
}
