package usecase

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/shandysiswandi/shepherd/internal/notification/entity"
	"github.com/shandysiswandi/shepherd/internal/pkg/clock"
	"github.com/shandysiswandi/shepherd/internal/pkg/goerror"
	"github.com/shandysiswandi/shepherd/internal/pkg/instrument"
	"github.com/shandysiswandi/shepherd/internal/pkg/jwt"
	"github.com/shandysiswandi/shepherd/internal/pkg/validator"
	"github.com/stretchr/testify/require"
)

const testOrgID int64 = 1

var errBoom = errors.New("boom")

type fakeRepo struct {
	mu sync.Mutex

	orgs       map[int64]*entity.Organization
	accounts   map[int64]*entity.Account
	visitors   map[int64]*entity.Visitor
	gatherings map[int64]*entity.Gathering
	groups     map[int64][]int64
	ministries map[int64][]int64
	statuses   map[string][]int64
	genders    map[string][]int64

	failAccounts map[int64]error
	listErr      error
	createLogErr error

	queries int
	logs    []entity.CreateLog

	inbox    []entity.InboxItem
	readIDs  map[int64]bool
	markAll  int
	unread   int64
	inboxErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		orgs: map[int64]*entity.Organization{
			testOrgID: {ID: testOrgID, Name: "Grace Church", Locale: entity.LocaleAR},
		},
		accounts:     make(map[int64]*entity.Account),
		visitors:     make(map[int64]*entity.Visitor),
		gatherings:   make(map[int64]*entity.Gathering),
		groups:       make(map[int64][]int64),
		ministries:   make(map[int64][]int64),
		statuses:     make(map[string][]int64),
		genders:      make(map[string][]int64),
		failAccounts: make(map[int64]error),
		readIDs:      make(map[int64]bool),
	}
}

func (f *fakeRepo) addAccount(a entity.Account) {
	a.OrgID = testOrgID
	f.accounts[a.ID] = &a
}

func (f *fakeRepo) GetOrganization(_ context.Context, orgID int64) (*entity.Organization, error) {
	org, ok := f.orgs[orgID]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	return org, nil
}

func (f *fakeRepo) GetAccount(_ context.Context, _ int64, accountID int64) (*entity.Account, error) {
	if err := f.failAccounts[accountID]; err != nil {
		return nil, err
	}
	acc, ok := f.accounts[accountID]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	return acc, nil
}

func (f *fakeRepo) GetVisitor(_ context.Context, _ int64, visitorID int64) (*entity.Visitor, error) {
	v, ok := f.visitors[visitorID]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	return v, nil
}

func (f *fakeRepo) GetGathering(_ context.Context, _ int64, gatheringID int64) (*entity.Gathering, error) {
	g, ok := f.gatherings[gatheringID]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	return g, nil
}

func (f *fakeRepo) sortedAccounts(keep func(*entity.Account) bool) []int64 {
	var ids []int64
	for id, acc := range f.accounts {
		if keep(acc) {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids
}

func (f *fakeRepo) ListAccountIDsInOrg(context.Context, int64) ([]int64, error) {
	f.queries++
	return f.sortedAccounts(func(*entity.Account) bool { return true }), f.listErr
}

func (f *fakeRepo) ListAccountIDsByRoles(_ context.Context, _ int64, roles []string) ([]int64, error) {
	f.queries++
	return f.sortedAccounts(func(a *entity.Account) bool { return slices.Contains(roles, a.Role) }), f.listErr
}

func (f *fakeRepo) ListAccountIDsByGroups(_ context.Context, _ int64, groupIDs []int64) ([]int64, error) {
	f.queries++
	var ids []int64
	for _, g := range groupIDs {
		ids = append(ids, f.groups[g]...)
	}
	return ids, f.listErr
}

func (f *fakeRepo) ListAccountIDsByMinistries(ctx context.Context, orgID int64, ministryIDs []int64) ([]int64, error) {
	var groupIDs []int64
	for _, m := range ministryIDs {
		groupIDs = append(groupIDs, f.ministries[m]...)
	}
	return f.ListAccountIDsByGroups(ctx, orgID, groupIDs)
}

func (f *fakeRepo) ListAccountIDsByStatuses(_ context.Context, _ int64, statuses []string) ([]int64, error) {
	f.queries++
	var ids []int64
	for _, st := range statuses {
		ids = append(ids, f.statuses[st]...)
	}
	return ids, f.listErr
}

func (f *fakeRepo) ListAccountIDsByGender(_ context.Context, _ int64, gender string) ([]int64, error) {
	f.queries++
	return f.genders[gender], f.listErr
}

func (f *fakeRepo) ListVisitorContactsByStatuses(_ context.Context, _ int64, statuses []string) ([]entity.Visitor, error) {
	f.queries++
	ids := make([]int64, 0, len(f.visitors))
	for id := range f.visitors {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	var out []entity.Visitor
	for _, id := range ids {
		v := f.visitors[id]
		if v.Phone != "" && slices.Contains(statuses, v.Status) {
			out = append(out, *v)
		}
	}
	return out, f.listErr
}

func (f *fakeRepo) ListAccountPhones(_ context.Context, _ int64, ids []int64) ([]string, error) {
	var phones []string
	for _, id := range ids {
		if acc, ok := f.accounts[id]; ok && acc.Phone != "" {
			phones = append(phones, acc.Phone)
		}
	}
	return phones, nil
}

func (f *fakeRepo) CreateLog(_ context.Context, in entity.CreateLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createLogErr != nil {
		return f.createLogErr
	}
	f.logs = append(f.logs, in)
	return nil
}

func (f *fakeRepo) logsFor(ch entity.Channel) []entity.CreateLog {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.CreateLog
	for _, l := range f.logs {
		if l.Channel == ch {
			out = append(out, l)
		}
	}
	return out
}

func (f *fakeRepo) ListInbox(_ context.Context, _, _ int64, _ entity.InboxStatus, limit, offset int32) ([]entity.InboxItem, error) {
	if f.inboxErr != nil {
		return nil, f.inboxErr
	}
	start := min(int(offset), len(f.inbox))
	end := min(start+int(limit), len(f.inbox))
	return f.inbox[start:end], nil
}

func (f *fakeRepo) CountUnread(context.Context, int64, int64) (int64, error) {
	return f.unread, f.inboxErr
}

func (f *fakeRepo) MarkInboxRead(_ context.Context, _, _, id int64) (bool, error) {
	if f.inboxErr != nil {
		return false, f.inboxErr
	}
	for _, it := range f.inbox {
		if it.ID == id {
			f.readIDs[id] = true
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) MarkAllInboxRead(context.Context, int64, int64) (int64, error) {
	f.markAll++
	return int64(len(f.inbox)), f.inboxErr
}

// fakeFeed records feed messages the way the real provider writes rows.
type fakeFeed struct {
	mu     sync.Mutex
	sent   []entity.Message
	fail   bool
	panic  map[int64]bool
	onSend func(entity.Message)
}

func (f *fakeFeed) IsConfigured() bool { return true }

func (f *fakeFeed) Send(_ context.Context, msg entity.Message) entity.Result {
	if f.panic[msg.RecipientID] {
		panic("feed exploded")
	}
	if f.onSend != nil {
		f.onSend(msg)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return entity.Result{Error: "database unavailable"}
	}
	f.sent = append(f.sent, msg)
	return entity.Result{Success: true, MessageID: "feed"}
}

func (f *fakeFeed) recipients() []int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make([]int64, 0, len(f.sent))
	for _, m := range f.sent {
		ids = append(ids, m.RecipientID)
	}
	return ids
}

type fakeProvider struct {
	mu         sync.Mutex
	configured bool
	failWith   string
	sent       []entity.Message
	onSend     func(entity.Message)
}

func (p *fakeProvider) IsConfigured() bool { return p.configured }

func (p *fakeProvider) Send(_ context.Context, msg entity.Message) entity.Result {
	if p.onSend != nil {
		p.onSend(msg)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sent = append(p.sent, msg)
	if p.failWith != "" {
		return entity.Result{Error: p.failWith}
	}
	return entity.Result{Success: true, MessageID: "msg-1"}
}

type seqID struct {
	mu   sync.Mutex
	next int64
}

func (s *seqID) Generate() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	return s.next
}

type fixture struct {
	uc    *Usecase
	repo  *fakeRepo
	feed  *fakeFeed
	chat  *fakeProvider
	email *fakeProvider
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	v, err := validator.NewV10Validator()
	require.NoError(t, err)

	f := &fixture{
		repo:  newFakeRepo(),
		feed:  &fakeFeed{},
		chat:  &fakeProvider{configured: true},
		email: &fakeProvider{configured: true},
	}
	f.uc = NewNotification(Dependency{
		RepoDB:     f.repo,
		Feed:       f.feed,
		Chat:       f.chat,
		Email:      f.email,
		UID:        &seqID{},
		Clock:      clock.Fixed(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)),
		Validator:  v,
		Instrument: instrument.NewNoop(),
		Logger:     slog.New(slog.DiscardHandler),
	})
	return f
}

func authCtx(userID int64, role string) context.Context {
	return jwt.SetAuth(context.Background(), jwt.Claims{UserID: userID, OrgID: testOrgID, Role: role})
}
