package notification

import (
	"context"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shandysiswandi/shepherd/internal/notification/inbound"
	"github.com/shandysiswandi/shepherd/internal/notification/outbound/chat"
	"github.com/shandysiswandi/shepherd/internal/notification/outbound/db"
	"github.com/shandysiswandi/shepherd/internal/notification/outbound/email"
	"github.com/shandysiswandi/shepherd/internal/notification/outbound/feed"
	"github.com/shandysiswandi/shepherd/internal/notification/usecase"
	"github.com/shandysiswandi/shepherd/internal/pkg/clock"
	"github.com/shandysiswandi/shepherd/internal/pkg/config"
	"github.com/shandysiswandi/shepherd/internal/pkg/goroutine"
	"github.com/shandysiswandi/shepherd/internal/pkg/idempotency"
	"github.com/shandysiswandi/shepherd/internal/pkg/instrument"
	"github.com/shandysiswandi/shepherd/internal/pkg/mail"
	"github.com/shandysiswandi/shepherd/internal/pkg/messaging"
	"github.com/shandysiswandi/shepherd/internal/pkg/pgnotify"
	"github.com/shandysiswandi/shepherd/internal/pkg/router"
	"github.com/shandysiswandi/shepherd/internal/pkg/uid"
	"github.com/shandysiswandi/shepherd/internal/pkg/validator"
)

const defaultFeedChannel = "notification_feed"

type Dependency struct {
	Ctx         context.Context
	DBConn      *pgxpool.Pool
	Idempotency idempotency.Idempotency
	Messaging   messaging.Messaging
	Config      config.Config
	Instrument  instrument.Instrumentation
	UID         uid.NumberID
	UUID        uid.StringID
	Clock       clock.Clocker
	Goroutine   *goroutine.Manager
	Validator   validator.Validator
	Router      *router.Router
	// Mail is nil when the mail driver is disabled.
	Mail       mail.Mail
	HTTPClient *http.Client
	// AddCloser registers a resource the app releases on shutdown.
	AddCloser func(name string, fn func(context.Context) error)
}

func New(dep Dependency) error {
	feedChannel := dep.Config.GetString("modules.notification.feed_channel")
	if feedChannel == "" {
		feedChannel = defaultFeedChannel
	}

	dbNotif := db.NewDB(dep.DBConn, dep.Instrument)

	uc := usecase.NewNotification(usecase.Dependency{
		RepoDB: dbNotif,
		Feed:   feed.New(dbNotif, dep.UID, dep.Clock, feedChannel, dep.Instrument),
		Chat: chat.New(chat.Config{
			BaseURL: dep.Config.GetString("chat.base_url"),
			APIKey:  dep.Config.GetString("chat.api_key"),
			Sender:  dep.Config.GetString("chat.sender"),
			Timeout: dep.Config.GetSecond("chat.timeout_seconds"),
		}, dep.HTTPClient, dep.Instrument),
		Email:       email.New(dep.Mail, dep.Instrument),
		Idempotency: dep.Idempotency,
		Config:      dep.Config,
		UID:         dep.UID,
		Clock:       dep.Clock,
		Validator:   dep.Validator,
		Instrument:  dep.Instrument,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	if dep.Ctx == nil {
		return nil
	}

	listener, err := pgnotify.NewListener(dep.Ctx, dep.DBConn, pgnotify.Options{Channel: feedChannel})
	if err != nil {
		return err
	}
	unsubscribe := listener.Subscribe(uc.HandleFeedEvent)
	if dep.AddCloser != nil {
		dep.AddCloser("NotificationFeedListener", func(context.Context) error {
			unsubscribe()
			return listener.Close()
		})
	}

	inbound.RegisterMQConsumer(dep.Ctx, dep.Config, dep.Goroutine, dep.Messaging, dep.UUID, uc, dep.Instrument)

	return nil
}
