package usecase

import (
	"context"
	"strconv"

	"github.com/samber/lo"
	"github.com/shandysiswandi/shepherd/internal/notification/entity"
)

// NotifyVisitorAssigned tells the leader which visitor they now follow up.
func (s *Usecase) NotifyVisitorAssigned(ctx context.Context, in VisitorAssignedInput) {
	ctx, span := s.startSpan(ctx, "NotifyVisitorAssigned")
	defer span.End()
	defer s.recoverTrigger(ctx, entity.TypeVisitorAssigned)

	visitor, err := s.repoDB.GetVisitor(ctx, in.OrgID, in.VisitorID)
	if err != nil {
		s.log.ErrorContext(ctx, "failed to repo get visitor", "org_id", in.OrgID, "visitor_id", in.VisitorID, "error", err)
		return
	}

	leader, err := s.repoDB.GetAccount(ctx, in.OrgID, in.LeaderID)
	if err != nil {
		s.log.ErrorContext(ctx, "failed to repo get leader", "org_id", in.OrgID, "leader_id", in.LeaderID, "error", err)
		return
	}

	s.dispatchIsolated(ctx, newRequest(entity.TypeVisitorAssigned, in.OrgID, leader.ID,
		map[string]string{
			"leaderName":  leader.FullName,
			"visitorName": visitor.FullName,
		},
		&entity.Reference{ID: visitor.ID, Type: entity.ReferenceVisitor},
	))
}

// NotifyVisitorSLABreach escalates an unattended visitor to the assigned
// leader and every admin of the org.
func (s *Usecase) NotifyVisitorSLABreach(ctx context.Context, in VisitorSLABreachInput) {
	ctx, span := s.startSpan(ctx, "NotifyVisitorSLABreach")
	defer span.End()
	defer s.recoverTrigger(ctx, entity.TypeVisitorSLABreach)

	visitor, err := s.repoDB.GetVisitor(ctx, in.OrgID, in.VisitorID)
	if err != nil {
		s.log.ErrorContext(ctx, "failed to repo get visitor", "org_id", in.OrgID, "visitor_id", in.VisitorID, "error", err)
		return
	}

	admins, err := s.repoDB.ListAccountIDsByRoles(ctx, in.OrgID, []string{entity.RoleAdmin})
	if err != nil {
		s.log.ErrorContext(ctx, "failed to repo list admins", "org_id", in.OrgID, "error", err)
		return
	}

	var recipients []int64
	if visitor.AssignedLeaderID != nil {
		recipients = append(recipients, *visitor.AssignedLeaderID)
	}
	recipients = lo.Uniq(append(recipients, admins...))

	params := map[string]string{
		"visitorName": visitor.FullName,
		"hours":       strconv.Itoa(in.Hours),
	}
	ref := &entity.Reference{ID: visitor.ID, Type: entity.ReferenceVisitor}

	sent := s.fanOut(ctx, recipients, func(id int64) entity.Request {
		return newRequest(entity.TypeVisitorSLABreach, in.OrgID, id, params, ref)
	})
	s.log.InfoContext(ctx, "visitor sla breach notified", "visitor_id", visitor.ID, "recipients", len(recipients), "sent", sent)
}
