package usecase

import (
	"context"
	"strconv"

	"github.com/samber/lo"
	"github.com/shandysiswandi/shepherd/internal/notification/entity"
)

// NotifyMemberAtRisk alerts admins and leaders, except the member, that a
// member keeps missing gatherings.
func (s *Usecase) NotifyMemberAtRisk(ctx context.Context, in MemberAtRiskInput) {
	ctx, span := s.startSpan(ctx, "NotifyMemberAtRisk")
	defer span.End()
	defer s.recoverTrigger(ctx, entity.TypeMemberAtRisk)

	member, err := s.repoDB.GetAccount(ctx, in.OrgID, in.MemberID)
	if err != nil {
		s.log.ErrorContext(ctx, "failed to repo get member", "org_id", in.OrgID, "member_id", in.MemberID, "error", err)
		return
	}

	staff, err := s.repoDB.ListAccountIDsByRoles(ctx, in.OrgID, []string{entity.RoleAdmin, entity.RoleLeader})
	if err != nil {
		s.log.ErrorContext(ctx, "failed to repo list staff", "org_id", in.OrgID, "error", err)
		return
	}
	recipients := lo.Without(lo.Uniq(staff), member.ID)

	params := map[string]string{
		"memberName":  member.FullName,
		"missedCount": strconv.Itoa(in.MissedCount),
	}
	ref := &entity.Reference{ID: member.ID, Type: entity.ReferenceProfile}

	sent := s.fanOut(ctx, recipients, func(id int64) entity.Request {
		return newRequest(entity.TypeMemberAtRisk, in.OrgID, id, params, ref)
	})
	s.log.InfoContext(ctx, "member at risk notified", "member_id", member.ID, "recipients", len(recipients), "sent", sent)
}

func (s *Usecase) NotifyMemberWelcome(ctx context.Context, in MemberWelcomeInput) {
	ctx, span := s.startSpan(ctx, "NotifyMemberWelcome")
	defer span.End()
	defer s.recoverTrigger(ctx, entity.TypeMemberWelcome)

	org, err := s.repoDB.GetOrganization(ctx, in.OrgID)
	if err != nil {
		s.log.ErrorContext(ctx, "failed to repo get organization", "org_id", in.OrgID, "error", err)
		return
	}

	acc, err := s.repoDB.GetAccount(ctx, in.OrgID, in.AccountID)
	if err != nil {
		s.log.ErrorContext(ctx, "failed to repo get account", "org_id", in.OrgID, "account_id", in.AccountID, "error", err)
		return
	}

	s.dispatchIsolated(ctx, newRequest(entity.TypeMemberWelcome, in.OrgID, acc.ID,
		map[string]string{
			"memberName": acc.FullName,
			"orgName":    org.Name,
		},
		&entity.Reference{ID: acc.ID, Type: entity.ReferenceProfile},
	))
}
