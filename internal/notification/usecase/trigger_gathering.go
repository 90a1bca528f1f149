package usecase

import (
	"context"

	"github.com/shandysiswandi/shepherd/internal/notification/entity"
)

const startsAtLayout = "2006-01-02 15:04 MST"

// NotifyGatheringReminder reminds every active member of the gathering's group.
func (s *Usecase) NotifyGatheringReminder(ctx context.Context, in GatheringReminderInput) {
	ctx, span := s.startSpan(ctx, "NotifyGatheringReminder")
	defer span.End()
	defer s.recoverTrigger(ctx, entity.TypeGatheringReminder)

	g, err := s.repoDB.GetGathering(ctx, in.OrgID, in.GatheringID)
	if err != nil {
		s.log.ErrorContext(ctx, "failed to repo get gathering", "org_id", in.OrgID, "gathering_id", in.GatheringID, "error", err)
		return
	}

	members, err := s.repoDB.ListAccountIDsByGroups(ctx, in.OrgID, []int64{g.GroupID})
	if err != nil {
		s.log.ErrorContext(ctx, "failed to repo list group members", "org_id", in.OrgID, "group_id", g.GroupID, "error", err)
		return
	}

	params := map[string]string{
		"gatheringTitle": g.Title,
		"startsAt":       g.StartsAt.UTC().Format(startsAtLayout),
	}
	ref := &entity.Reference{ID: g.ID, Type: entity.ReferenceGathering}

	sent := s.fanOut(ctx, members, func(id int64) entity.Request {
		return newRequest(entity.TypeGatheringReminder, in.OrgID, id, params, ref)
	})
	s.log.InfoContext(ctx, "gathering reminder notified", "gathering_id", g.ID, "recipients", len(members), "sent", sent)
}
