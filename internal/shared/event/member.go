package event

const MemberAtRiskDestination string = "member_at_risk"
const MemberAtRiskConsumerNotification string = "member_at_risk_notification"

type MemberAtRiskMessage struct {
	EventID     string `json:"event_id"`
	OrgID       int64  `json:"org_id"`
	MemberID    int64  `json:"member_id"`
	MissedCount int    `json:"missed_count"`
}

const MemberJoinedDestination string = "member_joined"
const MemberJoinedConsumerNotification string = "member_joined_notification"

type MemberJoinedMessage struct {
	EventID   string `json:"event_id"`
	OrgID     int64  `json:"org_id"`
	AccountID int64  `json:"account_id"`
}
