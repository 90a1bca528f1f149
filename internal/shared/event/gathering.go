package event

const GatheringReminderDestination string = "gathering_reminder"
const GatheringReminderConsumerNotification string = "gathering_reminder_notification"

type GatheringReminderMessage struct {
	EventID     string `json:"event_id"`
	OrgID       int64  `json:"org_id"`
	GatheringID int64  `json:"gathering_id"`
}
