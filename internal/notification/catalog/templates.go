package catalog

import "github.com/shandysiswandi/shepherd/internal/notification/entity"

var templates = map[entity.Type]Template{
	entity.TypeVisitorAssigned: {
		Type:         entity.TypeVisitorAssigned,
		ChatTemplate: "visitor_assigned_v1",
		ChatParams:   []string{"leaderName", "visitorName"},
		Title:        entity.Text{AR: "تم إسناد زائر جديد إليك", EN: "New visitor assigned to you"},
		Body: entity.Text{
			AR: "مرحباً {leaderName}، تم إسناد الزائر {visitorName} إليك. يرجى التواصل معه في أقرب وقت.",
			EN: "Hi {leaderName}, {visitorName} has been assigned to you. Please reach out soon.",
		},
		Subject: entity.Text{AR: "زائر جديد: {visitorName}", EN: "New visitor: {visitorName}"},
	},
	entity.TypeVisitorSLABreach: {
		Type:         entity.TypeVisitorSLABreach,
		ChatTemplate: "visitor_sla_breach_v1",
		ChatParams:   []string{"visitorName", "hours"},
		Title:        entity.Text{AR: "تأخرت متابعة زائر", EN: "Visitor follow-up overdue"},
		Body: entity.Text{
			AR: "لم تتم متابعة الزائر {visitorName} منذ {hours} ساعة.",
			EN: "{visitorName} has not been followed up for {hours} hours.",
		},
		Subject: entity.Text{AR: "متابعة متأخرة: {visitorName}", EN: "Overdue follow-up: {visitorName}"},
	},
	entity.TypeMemberAtRisk: {
		Type:         entity.TypeMemberAtRisk,
		ChatTemplate: "member_at_risk_v1",
		ChatParams:   []string{"memberName", "missedCount"},
		Title:        entity.Text{AR: "عضو بحاجة إلى اهتمام", EN: "Member needs attention"},
		Body: entity.Text{
			AR: "غاب {memberName} عن {missedCount} لقاءات متتالية.",
			EN: "{memberName} has missed {missedCount} gatherings in a row.",
		},
		Subject: entity.Text{AR: "عضو بحاجة إلى اهتمام: {memberName}", EN: "Member needs attention: {memberName}"},
	},
	entity.TypeGatheringReminder: {
		Type:         entity.TypeGatheringReminder,
		ChatTemplate: "gathering_reminder_v1",
		ChatParams:   []string{"gatheringTitle", "startsAt"},
		Title:        entity.Text{AR: "تذكير بموعد اللقاء", EN: "Gathering reminder"},
		Body: entity.Text{
			AR: "يبدأ {gatheringTitle} في {startsAt}. نراك هناك!",
			EN: "{gatheringTitle} starts at {startsAt}. See you there!",
		},
		Subject: entity.Text{AR: "تذكير: {gatheringTitle}", EN: "Reminder: {gatheringTitle}"},
	},
	entity.TypeMemberWelcome: {
		Type:         entity.TypeMemberWelcome,
		ChatTemplate: "member_welcome_v1",
		ChatParams:   []string{"memberName", "orgName"},
		Title:        entity.Text{AR: "أهلاً بك في {orgName}", EN: "Welcome to {orgName}"},
		Body: entity.Text{
			AR: "مرحباً {memberName}، يسعدنا انضمامك إلى {orgName}.",
			EN: "Hi {memberName}, we are glad you joined {orgName}.",
		},
		Subject: entity.Text{AR: "أهلاً بك في {orgName}", EN: "Welcome to {orgName}"},
	},
	entity.TypeBroadcast: {
		Type:         entity.TypeBroadcast,
		ChatTemplate: "broadcast_v1",
		ChatParams:   []string{"title", "body"},
		Title:        entity.Text{AR: "{title}", EN: "{title}"},
		Body:         entity.Text{AR: "{body}", EN: "{body}"},
		Subject:      entity.Text{AR: "{title}", EN: "{title}"},
	},
}
