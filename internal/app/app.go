package app

import (
	"context"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/shepherd/internal/pkg/clock"
	"github.com/shandysiswandi/shepherd/internal/pkg/config"
	"github.com/shandysiswandi/shepherd/internal/pkg/goroutine"
	"github.com/shandysiswandi/shepherd/internal/pkg/idempotency"
	"github.com/shandysiswandi/shepherd/internal/pkg/instrument"
	"github.com/shandysiswandi/shepherd/internal/pkg/jwt"
	"github.com/shandysiswandi/shepherd/internal/pkg/mail"
	"github.com/shandysiswandi/shepherd/internal/pkg/messaging"
	"github.com/shandysiswandi/shepherd/internal/pkg/router"
	"github.com/shandysiswandi/shepherd/internal/pkg/uid"
	"github.com/shandysiswandi/shepherd/internal/pkg/validator"
)

type closer struct {
	name string
	fn   func(context.Context) error
}

// App wires dependencies and manages service lifecycle.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// configuration
	config config.Config
	ins    instrument.Instrumentation

	// libraries
	goroutine  *goroutine.Manager
	validator  validator.Validator
	clock      clock.Clocker
	uid        uid.NumberID
	uuid       uid.StringID
	jwt        jwt.JWT
	httpClient *http.Client

	// resources
	dbConn    *pgxpool.Pool
	cacheConn *redis.Client
	idemp     idempotency.Idempotency
	mail      mail.Mail
	messaging messaging.Messaging

	// server
	router     *router.Router
	httpServer *http.Server
	sseServer  *http.Server

	// released in reverse registration order
	closers []closer
}

// New initializes the application with default wiring and returns an App instance.
func New() *App {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:    ctx,
		cancel: cancel,
	}

	app.initConfig()
	app.initInstrument()
	app.initLibraries()
	app.initJWT()
	app.initDatabase()
	app.initCache()
	app.initMail()
	app.initMessaging()
	app.initHTTPServer()
	app.initClosers()
	app.initModules()

	return app
}

func (a *App) addCloser(name string, fn func(context.Context) error) {
	a.closers = append(a.closers, closer{name: name, fn: fn})
}
