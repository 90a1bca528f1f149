package entity

import (
	"time"

	"github.com/shandysiswandi/shepherd/internal/pkg/valueobject"
)

// Type identifies a notification kind in the catalog.
type Type string

const (
	TypeVisitorAssigned   Type = "visitor_assigned"
	TypeVisitorSLABreach  Type = "visitor_sla_breach"
	TypeMemberAtRisk      Type = "member_at_risk"
	TypeGatheringReminder Type = "gathering_reminder"
	TypeMemberWelcome     Type = "member_welcome"
	TypeBroadcast         Type = "broadcast"
)

func (t Type) String() string {
	return string(t)
}

const (
	ReferenceVisitor   = "visitor"
	ReferenceGathering = "gathering"
	ReferenceProfile   = "profile"
	ReferenceEvent     = "event"
)

// Text is a bilingual string.
type Text struct {
	AR string
	EN string
}

// Pick returns the text for locale; English falls back to Arabic when empty.
func (t Text) Pick(l Locale) string {
	if l == LocaleEN && t.EN != "" {
		return t.EN
	}
	return t.AR
}

type Reference struct {
	ID   int64
	Type string
}

// Request is one logical notification for one recipient. RecipientID is 0
// for an external contact, in which case Phone must be set.
type Request struct {
	RecipientID int64
	OrgID       int64
	Type        Type
	Title       Text
	Body        Text
	Reference   *Reference
	Params      map[string]string
	// Channels overrides the recipient's preference.
	Channels []Channel
	Phone    string
	Email    string
}

type Result struct {
	Success   bool
	MessageID string
	Error     string
}

// Message is what a provider sends.
type Message struct {
	OrgID        int64
	RecipientID  int64
	ContactPhone string
	Type         Type
	Channel      Channel
	Locale       Locale
	To           string
	Template     string
	Params       []string
	Subject      string
	Title        string
	Body         string
	Payload      valueobject.JSONMap
	Reference    *Reference
}

// CreateLog is one notification_logs row.
type CreateLog struct {
	ID           int64
	OrgID        int64
	RecipientID  int64
	ContactPhone string
	Type         Type
	Channel      Channel
	Title        string
	Body         string
	Payload      valueobject.JSONMap
	Status       DeliveryStatus
	ErrorMessage string
	Reference    *Reference
	SentAt       *time.Time
}

type InboxItem struct {
	ID            int64
	Type          Type
	Title         string
	Body          string
	Payload       valueobject.JSONMap
	ReferenceID   *int64
	ReferenceType string
	ReadAt        *time.Time
	CreatedAt     time.Time
}

type Organization struct {
	ID     int64
	Name   string
	Locale Locale
}

const (
	RoleAdmin  = "admin"
	RoleLeader = "leader"
	RoleMember = "member"
)

type Account struct {
	ID         int64
	OrgID      int64
	FullName   string
	Role       string
	Phone      string
	Email      string
	Preference Preference
}

type Visitor struct {
	ID               int64
	OrgID            int64
	FullName         string
	Phone            string
	Status           string
	AssignedLeaderID *int64
}

type Gathering struct {
	ID       int64
	OrgID    int64
	GroupID  int64
	Title    string
	StartsAt time.Time
}

// FeedEvent is broadcast to live feed subscribers after an internal_feed row
// is committed.
type FeedEvent struct {
	ID          int64     `json:"id,string"`
	OrgID       int64     `json:"org_id,string"`
	RecipientID int64     `json:"recipient_id,string"`
	Type        Type      `json:"type"`
	Title       string    `json:"title"`
	CreatedAt   time.Time `json:"created_at"`
}
