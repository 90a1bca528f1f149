package usecase

import (
	"context"
	"testing"

	"github.com/shandysiswandi/shepherd/internal/notification/entity"
	"github.com/shandysiswandi/shepherd/internal/pkg/goerror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListInbox(t *testing.T) {
	f := newFixture(t)
	for i := range int64(25) {
		f.repo.inbox = append(f.repo.inbox, entity.InboxItem{ID: i + 1, Type: entity.TypeBroadcast})
	}

	items, err := f.uc.ListInbox(authCtx(10, entity.RoleMember), ListInboxInput{})
	require.NoError(t, err)
	assert.Len(t, items, 20)

	items, err = f.uc.ListInbox(authCtx(10, entity.RoleMember), ListInboxInput{Status: "unread", Limit: 10, Offset: 20})
	require.NoError(t, err)
	assert.Len(t, items, 5)

	_, err = f.uc.ListInbox(authCtx(10, entity.RoleMember), ListInboxInput{Status: "archived"})
	assert.True(t, goerror.HasCode(err, goerror.CodeInvalidInput))

	_, err = f.uc.ListInbox(context.Background(), ListInboxInput{})
	assert.True(t, goerror.HasCode(err, goerror.CodeUnauthorized))

	f.repo.inboxErr = errBoom
	_, err = f.uc.ListInbox(authCtx(10, entity.RoleMember), ListInboxInput{})
	assert.True(t, goerror.HasCode(err, goerror.CodeInternal))
}

func TestUnreadCount(t *testing.T) {
	f := newFixture(t)
	f.repo.unread = 4

	count, err := f.uc.UnreadCount(authCtx(10, entity.RoleMember))
	require.NoError(t, err)
	assert.Equal(t, int64(4), count)
}

func TestMarkInboxRead(t *testing.T) {
	f := newFixture(t)
	f.repo.inbox = []entity.InboxItem{{ID: 1}}

	require.NoError(t, f.uc.MarkInboxRead(authCtx(10, entity.RoleMember), MarkInboxReadInput{ID: 1}))
	require.NoError(t, f.uc.MarkInboxRead(authCtx(10, entity.RoleMember), MarkInboxReadInput{ID: 1}))
	assert.True(t, f.repo.readIDs[1])

	err := f.uc.MarkInboxRead(authCtx(10, entity.RoleMember), MarkInboxReadInput{ID: 2})
	assert.True(t, goerror.HasCode(err, goerror.CodeNotFound))

	err = f.uc.MarkInboxRead(authCtx(10, entity.RoleMember), MarkInboxReadInput{})
	assert.True(t, goerror.HasCode(err, goerror.CodeInvalidInput))
}

func TestMarkAllInboxRead(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.uc.MarkAllInboxRead(authCtx(10, entity.RoleMember)))
	require.NoError(t, f.uc.MarkAllInboxRead(authCtx(10, entity.RoleMember)))
	assert.Equal(t, 2, f.repo.markAll)

	assert.True(t, goerror.HasCode(f.uc.MarkAllInboxRead(context.Background()), goerror.CodeUnauthorized))
}
