package event

const VisitorAssignedDestination string = "visitor_assigned"
const VisitorAssignedConsumerNotification string = "visitor_assigned_notification"

type VisitorAssignedMessage struct {
	EventID   string `json:"event_id"`
	OrgID     int64  `json:"org_id"`
	VisitorID int64  `json:"visitor_id"`
	LeaderID  int64  `json:"leader_id"`
}

const VisitorSLABreachedDestination string = "visitor_sla_breached"
const VisitorSLABreachedConsumerNotification string = "visitor_sla_breached_notification"

type VisitorSLABreachedMessage struct {
	EventID   string `json:"event_id"`
	OrgID     int64  `json:"org_id"`
	VisitorID int64  `json:"visitor_id"`
	Hours     int    `json:"hours"`
}
