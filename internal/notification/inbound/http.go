package inbound

import (
	"net/http"

	"github.com/shandysiswandi/shepherd/internal/pkg/router"
)

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.GET("/api/v1/notification/inbox", end.ListInbox)
	r.GET("/api/v1/notification/inbox/unread-count", end.UnreadCount)
	r.PATCH("/api/v1/notification/inbox/:id/read", end.MarkInboxRead)
	r.PUT("/api/v1/notification/inbox/read-all", end.MarkAllInboxRead)

	r.POST("/api/v1/notification/broadcast", end.Broadcast)
	r.POST("/api/v1/notification/broadcast/preview", end.PreviewBroadcast)

	r.GETRaw("/api/v1/notification/stream", http.HandlerFunc(end.StreamNotifications))
}
