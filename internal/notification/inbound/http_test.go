package inbound

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shandysiswandi/shepherd/internal/notification/entity"
	"github.com/shandysiswandi/shepherd/internal/notification/usecase"
	"github.com/shandysiswandi/shepherd/internal/pkg/goerror"
	"github.com/shandysiswandi/shepherd/internal/pkg/instrument"
	"github.com/shandysiswandi/shepherd/internal/pkg/jwt"
	"github.com/shandysiswandi/shepherd/internal/pkg/router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubVerifier struct{ claims jwt.Claims }

func (stubVerifier) Generate(jwt.Principal) (string, error) { return "", nil }
func (s stubVerifier) Verify(string) (jwt.Claims, error)    { return s.claims, nil }

type staticID string

func (s staticID) Generate() string { return string(s) }

type fakeUC struct {
	ucConsumer

	listIn       usecase.ListInboxInput
	items        []entity.InboxItem
	unread       int64
	markedID     int64
	markErr      error
	markedAll    bool
	broadcastIn  usecase.BroadcastInput
	broadcastErr error
	previewIn    usecase.PreviewBroadcastInput
	stream       chan entity.FeedEvent
}

func (f *fakeUC) ListInbox(_ context.Context, in usecase.ListInboxInput) ([]entity.InboxItem, error) {
	f.listIn = in
	return f.items, nil
}

func (f *fakeUC) UnreadCount(context.Context) (int64, error) {
	return f.unread, nil
}

func (f *fakeUC) MarkInboxRead(_ context.Context, in usecase.MarkInboxReadInput) error {
	f.markedID = in.ID
	return f.markErr
}

func (f *fakeUC) MarkAllInboxRead(context.Context) error {
	f.markedAll = true
	return nil
}

func (f *fakeUC) Broadcast(_ context.Context, in usecase.BroadcastInput) (*usecase.BroadcastOutput, error) {
	f.broadcastIn = in
	if f.broadcastErr != nil {
		return nil, f.broadcastErr
	}
	return &usecase.BroadcastOutput{Sent: 7}, nil
}

func (f *fakeUC) PreviewBroadcast(_ context.Context, in usecase.PreviewBroadcastInput) (*entity.AudienceCount, error) {
	f.previewIn = in
	return &entity.AudienceCount{AccountCount: 4, ExternalCount: 2, Total: 6}, nil
}

func (f *fakeUC) StreamNotifications(context.Context, int64) <-chan entity.FeedEvent {
	return f.stream
}

func newServer(t *testing.T, uc *fakeUC) *router.Router {
	t.Helper()

	r := router.NewRouter(router.Config{
		UUID:       staticID("cid"),
		JWT:        stubVerifier{claims: jwt.Claims{UserID: 10, OrgID: 1, Role: entity.RoleAdmin}},
		Instrument: instrument.NewNoop(),
	})
	RegisterHTTPEndpoint(r, uc)
	return r
}

func do(t *testing.T, h http.Handler, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer token")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func data(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var out struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out.Data
}

func TestHTTP_ListInbox(t *testing.T) {
	refID := int64(3)
	uc := &fakeUC{items: []entity.InboxItem{{
		ID:            99,
		Type:          entity.TypeVisitorAssigned,
		Title:         "t",
		Body:          "b",
		ReferenceID:   &refID,
		ReferenceType: entity.ReferenceVisitor,
		CreatedAt:     time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}}}
	srv := newServer(t, uc)

	rec := do(t, srv, http.MethodGet, "/api/v1/notification/inbox?status=unread&limit=5&offset=10", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, usecase.ListInboxInput{Status: "unread", Limit: 5, Offset: 10}, uc.listIn)

	items := data(t, rec)["notifications"].([]any)
	require.Len(t, items, 1)
	item := items[0].(map[string]any)
	assert.Equal(t, "99", item["id"])
	assert.Equal(t, "3", item["reference_id"])
	assert.Equal(t, "visitor_assigned", item["type"])

	rec = do(t, srv, http.MethodGet, "/api/v1/notification/inbox?limit=abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHTTP_UnreadCount(t *testing.T) {
	srv := newServer(t, &fakeUC{unread: 3})

	rec := do(t, srv, http.MethodGet, "/api/v1/notification/inbox/unread-count", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 3, data(t, rec)["count"])
}

func TestHTTP_MarkRead(t *testing.T) {
	uc := &fakeUC{}
	srv := newServer(t, uc)

	rec := do(t, srv, http.MethodPatch, "/api/v1/notification/inbox/42/read", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, int64(42), uc.markedID)

	uc.markErr = goerror.NewBusiness("inbox notification not found", goerror.CodeNotFound)
	rec = do(t, srv, http.MethodPatch, "/api/v1/notification/inbox/43/read", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, srv, http.MethodPatch, "/api/v1/notification/inbox/x/read", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, srv, http.MethodPut, "/api/v1/notification/inbox/read-all", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.True(t, uc.markedAll)
}

func TestHTTP_Broadcast(t *testing.T) {
	uc := &fakeUC{}
	srv := newServer(t, uc)

	body := `{"title_ar":"إعلان","body_ar":"نص","targets":[{"type":"by_role","values":["member"]},{"type":"all_in_org"}]}`
	rec := do(t, srv, http.MethodPost, "/api/v1/notification/broadcast", body, "Idempotency-Key", "k-1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 7, data(t, rec)["sent"])

	assert.Equal(t, "k-1", uc.broadcastIn.IdempotencyKey)
	assert.Equal(t, "إعلان", uc.broadcastIn.TitleAR)
	assert.Equal(t, []usecase.BroadcastTarget{
		{Type: "by_role", Values: []string{"member"}},
		{Type: "all_in_org"},
	}, uc.broadcastIn.Targets)

	uc.broadcastErr = goerror.NewBusiness("broadcast already submitted", goerror.CodeConflict)
	rec = do(t, srv, http.MethodPost, "/api/v1/notification/broadcast", body, "Idempotency-Key", "k-1")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, srv, http.MethodPost, "/api/v1/notification/broadcast", `{"unknown":1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHTTP_PreviewBroadcast(t *testing.T) {
	uc := &fakeUC{}
	srv := newServer(t, uc)

	rec := do(t, srv, http.MethodPost, "/api/v1/notification/broadcast/preview", `{"targets":[{"type":"by_external_status","values":["new"]}]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	got := data(t, rec)
	assert.EqualValues(t, 4, got["profile_count"])
	assert.EqualValues(t, 2, got["visitor_count"])
	assert.EqualValues(t, 6, got["total"])
	assert.Equal(t, "by_external_status", uc.previewIn.Targets[0].Type)
}

func TestHTTP_Stream(t *testing.T) {
	uc := &fakeUC{stream: make(chan entity.FeedEvent, 1)}
	srv := httptest.NewServer(newServer(t, uc))
	defer srv.Close()

	uc.stream <- entity.FeedEvent{ID: 5, RecipientID: 10, Type: entity.TypeBroadcast, Title: "hi"}
	close(uc.stream)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/v1/notification/stream", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer token")

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), ": connected")
	assert.Contains(t, string(raw), "event: notification\ndata: {\"id\":\"5\"")
}
