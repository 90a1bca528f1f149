package usecase

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/shandysiswandi/shepherd/internal/notification/entity"
	"github.com/shandysiswandi/shepherd/internal/pkg/clock"
	"github.com/shandysiswandi/shepherd/internal/pkg/config"
	"github.com/shandysiswandi/shepherd/internal/pkg/idempotency"
	"github.com/shandysiswandi/shepherd/internal/pkg/instrument"
	"github.com/shandysiswandi/shepherd/internal/pkg/uid"
	"github.com/shandysiswandi/shepherd/internal/pkg/validator"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

type repoDB interface {
	GetOrganization(ctx context.Context, orgID int64) (*entity.Organization, error)
	GetAccount(ctx context.Context, orgID, accountID int64) (*entity.Account, error)
	GetVisitor(ctx context.Context, orgID, visitorID int64) (*entity.Visitor, error)
	GetGathering(ctx context.Context, orgID, gatheringID int64) (*entity.Gathering, error)

	ListAccountIDsInOrg(ctx context.Context, orgID int64) ([]int64, error)
	ListAccountIDsByRoles(ctx context.Context, orgID int64, roles []string) ([]int64, error)
	ListAccountIDsByGroups(ctx context.Context, orgID int64, groupIDs []int64) ([]int64, error)
	ListAccountIDsByMinistries(ctx context.Context, orgID int64, ministryIDs []int64) ([]int64, error)
	ListAccountIDsByStatuses(ctx context.Context, orgID int64, statuses []string) ([]int64, error)
	ListAccountIDsByGender(ctx context.Context, orgID int64, gender string) ([]int64, error)
	ListVisitorContactsByStatuses(ctx context.Context, orgID int64, statuses []string) ([]entity.Visitor, error)
	ListAccountPhones(ctx context.Context, orgID int64, ids []int64) ([]string, error)

	CreateLog(ctx context.Context, in entity.CreateLog) error

	ListInbox(ctx context.Context, orgID, recipientID int64, status entity.InboxStatus, limit, offset int32) ([]entity.InboxItem, error)
	CountUnread(ctx context.Context, orgID, recipientID int64) (int64, error)
	MarkInboxRead(ctx context.Context, orgID, recipientID, id int64) (bool, error)
	MarkAllInboxRead(ctx context.Context, orgID, recipientID int64) (int64, error)
}

// provider delivers one message on one channel. Failures are reported in the
// Result, never as an error.
type provider interface {
	Send(ctx context.Context, msg entity.Message) entity.Result
	IsConfigured() bool
}

type Usecase struct {
	repoDB    repoDB
	feed      provider
	chat      provider
	email     provider
	idem      idempotency.Idempotency
	cfg       config.Config
	uid       uid.NumberID
	clock     clock.Clocker
	validator validator.Validator
	ins       instrument.Instrumentation
	log       *slog.Logger
	attempts  metric.Int64Counter
	streamMu  sync.RWMutex
	streams   map[int64]map[*subscriber]struct{}
}

type Dependency struct {
	RepoDB      repoDB
	Feed        provider
	Chat        provider
	Email       provider
	Idempotency idempotency.Idempotency
	Config      config.Config
	UID         uid.NumberID
	Clock       clock.Clocker
	Validator   validator.Validator
	Instrument  instrument.Instrumentation
	// Logger receives trigger failures; slog.Default when nil.
	Logger *slog.Logger
}

func NewNotification(dep Dependency) *Usecase {
	logger := dep.Logger
	if logger == nil {
		logger = slog.Default()
	}

	attempts, err := dep.Instrument.Meter("notification.usecase").Int64Counter("notification.dispatch.attempts",
		metric.WithDescription("Number of channel delivery attempts"))
	if err != nil {
		slog.Error("failed to create dispatch attempts counter", "error", err)
	}

	return &Usecase{
		repoDB:    dep.RepoDB,
		feed:      dep.Feed,
		chat:      dep.Chat,
		email:     dep.Email,
		idem:      dep.Idempotency,
		cfg:       dep.Config,
		uid:       dep.UID,
		clock:     dep.Clock,
		validator: dep.Validator,
		ins:       dep.Instrument,
		log:       logger,
		attempts:  attempts,
		streams:   make(map[int64]map[*subscriber]struct{}),
	}
}

// defaultLockDuration must outlast the slowest fan-out; an expired
// in-progress marker lets a retry deliver to the audience a second time.
const defaultLockDuration = 30 * time.Minute

// lockDuration reads a seconds key, falling back to defaultLockDuration.
func (s *Usecase) lockDuration(key string) time.Duration {
	if s.cfg != nil {
		if d := s.cfg.GetSecond(key); d > 0 {
			return d
		}
	}
	return defaultLockDuration
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("notification.usecase").Start(ctx, name)
}

func (s *Usecase) countAttempt(ctx context.Context, ch entity.Channel, res entity.Result) {
	if s.attempts == nil {
		return
	}

	status := entity.DeliveryStatusSent
	if !res.Success {
		status = entity.DeliveryStatusFailed
	}
	s.attempts.Add(ctx, 1, metric.WithAttributes(
		attribute.String("channel", ch.String()),
		attribute.String("status", status.String()),
	))
}
