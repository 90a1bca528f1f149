package inbound

import (
	"time"

	"github.com/shandysiswandi/shepherd/internal/pkg/valueobject"
)

type InboxItemResponse struct {
	ID            int64               `json:"id,string"`
	Type          string              `json:"type"`
	Title         string              `json:"title"`
	Body          string              `json:"body"`
	Payload       valueobject.JSONMap `json:"payload" swaggertype:"object"`
	ReferenceID   *int64              `json:"reference_id,omitempty,string"`
	ReferenceType string              `json:"reference_type,omitempty"`
	ReadAt        *time.Time          `json:"read_at,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
}

type InboxResponse struct {
	Notifications []InboxItemResponse `json:"notifications"`
}

type UnreadCountResponse struct {
	Count int64 `json:"count"`
}

type BroadcastTargetRequest struct {
	Type   string   `json:"type"`
	Values []string `json:"values"`
}

type BroadcastRequest struct {
	TitleAR string                   `json:"title_ar"`
	TitleEN string                   `json:"title_en"`
	BodyAR  string                   `json:"body_ar"`
	BodyEN  string                   `json:"body_en"`
	Targets []BroadcastTargetRequest `json:"targets"`
}

type BroadcastResponse struct {
	Sent int `json:"sent"`
}

type PreviewBroadcastRequest struct {
	Targets []BroadcastTargetRequest `json:"targets"`
}

type PreviewBroadcastResponse struct {
	ProfileCount int `json:"profile_count"`
	VisitorCount int `json:"visitor_count"`
	Total        int `json:"total"`
}
