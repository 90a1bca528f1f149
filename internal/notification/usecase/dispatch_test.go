package usecase

import (
	"context"
	"testing"

	"github.com/shandysiswandi/shepherd/internal/notification/entity"
	"github.com/shandysiswandi/shepherd/internal/pkg/goerror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func welcomeRequest(recipientID int64) entity.Request {
	return newRequest(entity.TypeMemberWelcome, testOrgID, recipientID,
		map[string]string{"memberName": "Sara", "orgName": "Grace Church"}, nil)
}

func TestSend_PreferenceAllDeliversEveryChannel(t *testing.T) {
	f := newFixture(t)
	f.repo.addAccount(entity.Account{ID: 10, FullName: "Sara", Phone: "+962 79 000", Email: "sara@example.com", Preference: entity.PreferenceAll})

	results, err := f.uc.Send(context.Background(), welcomeRequest(10))
	require.NoError(t, err)

	assert.Len(t, results, 3)
	for ch, res := range results {
		assert.True(t, res.Success, ch)
	}
	assert.Len(t, f.feed.sent, 1)

	for _, ch := range []entity.Channel{entity.ChannelBusinessMessage, entity.ChannelEmail} {
		logs := f.repo.logsFor(ch)
		require.Len(t, logs, 1, ch)
		assert.Equal(t, entity.DeliveryStatusSent, logs[0].Status)
		assert.Equal(t, "msg-1", logs[0].Payload.GetString("message_id"))
		assert.Equal(t, "Sara", logs[0].Payload.GetString("memberName"))
		assert.Equal(t, "Grace Church", logs[0].Payload.GetString("orgName"))
		assert.NotNil(t, logs[0].SentAt)
	}

	require.Len(t, f.chat.sent, 1)
	chat := f.chat.sent[0]
	assert.Equal(t, "member_welcome_v1", chat.Template)
	assert.Equal(t, []string{"Sara", "Grace Church"}, chat.Params)
	assert.Equal(t, "+962 79 000", chat.To)

	require.Len(t, f.email.sent, 1)
	assert.Equal(t, "sara@example.com", f.email.sent[0].To)
	assert.Equal(t, "أهلاً بك في Grace Church", f.email.sent[0].Subject)
}

func TestSend_PreferenceNoneOnlyFeed(t *testing.T) {
	f := newFixture(t)
	f.repo.addAccount(entity.Account{ID: 10, Phone: "111", Email: "a@example.com", Preference: entity.PreferenceNone})

	results, err := f.uc.Send(context.Background(), welcomeRequest(10))
	require.NoError(t, err)

	assert.Equal(t, []entity.Channel{entity.ChannelInternalFeed}, keys(results))
	assert.Len(t, f.feed.sent, 1)
	assert.Empty(t, f.repo.logs)
	assert.Empty(t, f.chat.sent)
	assert.Empty(t, f.email.sent)
}

func TestSend_ChatFailureIsIndependent(t *testing.T) {
	f := newFixture(t)
	f.chat.failWith = "template not approved"
	f.repo.addAccount(entity.Account{ID: 10, Phone: "111", Email: "a@example.com", Preference: entity.PreferenceAll})

	results, err := f.uc.Send(context.Background(), welcomeRequest(10))
	require.NoError(t, err)

	assert.True(t, results[entity.ChannelInternalFeed].Success)
	assert.True(t, results[entity.ChannelEmail].Success)
	assert.False(t, results[entity.ChannelBusinessMessage].Success)
	assert.Equal(t, "template not approved", results[entity.ChannelBusinessMessage].Error)

	chatLogs := f.repo.logsFor(entity.ChannelBusinessMessage)
	require.Len(t, chatLogs, 1)
	assert.Equal(t, entity.DeliveryStatusFailed, chatLogs[0].Status)
	assert.Equal(t, "template not approved", chatLogs[0].ErrorMessage)
	assert.Nil(t, chatLogs[0].SentAt)
	assert.Equal(t, "Grace Church", chatLogs[0].Payload.GetString("orgName"))
	assert.Empty(t, chatLogs[0].Payload.GetString("message_id"))

	emailLogs := f.repo.logsFor(entity.ChannelEmail)
	require.Len(t, emailLogs, 1)
	assert.Equal(t, entity.DeliveryStatusSent, emailLogs[0].Status)
}

func TestSend_Skips(t *testing.T) {
	tests := []struct {
		name    string
		account entity.Account
		setup   func(f *fixture)
		req     func() entity.Request
	}{
		{
			name:    "no contact",
			account: entity.Account{ID: 10, Preference: entity.PreferenceAll},
			req:     func() entity.Request { return welcomeRequest(10) },
		},
		{
			name:    "providers not configured",
			account: entity.Account{ID: 10, Phone: "111", Email: "a@example.com", Preference: entity.PreferenceAll},
			setup: func(f *fixture) {
				f.chat.configured = false
				f.email.configured = false
			},
			req: func() entity.Request { return welcomeRequest(10) },
		},
		{
			name:    "no template",
			account: entity.Account{ID: 10, Phone: "111", Email: "a@example.com", Preference: entity.PreferenceAll},
			req: func() entity.Request {
				return entity.Request{RecipientID: 10, OrgID: testOrgID, Type: "unknown", Title: entity.Text{AR: "x"}}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.repo.addAccount(tt.account)
			if tt.setup != nil {
				tt.setup(f)
			}

			results, err := f.uc.Send(context.Background(), tt.req())
			require.NoError(t, err)
			assert.Equal(t, []entity.Channel{entity.ChannelInternalFeed}, keys(results))
			assert.Empty(t, f.repo.logs)
			assert.Empty(t, f.chat.sent)
			assert.Empty(t, f.email.sent)
		})
	}
}

func TestSend_ExplicitChannelsAndOverrides(t *testing.T) {
	f := newFixture(t)
	f.repo.orgs[testOrgID].Locale = entity.LocaleEN
	f.repo.addAccount(entity.Account{ID: 10, Phone: "111", Email: "a@example.com", Preference: entity.PreferenceNone})

	req := welcomeRequest(10)
	req.Channels = []entity.Channel{entity.ChannelEmail}
	req.Email = "override@example.com"

	results, err := f.uc.Send(context.Background(), req)
	require.NoError(t, err)

	assert.ElementsMatch(t, []entity.Channel{entity.ChannelInternalFeed, entity.ChannelEmail}, keys(results))
	require.Len(t, f.email.sent, 1)
	msg := f.email.sent[0]
	assert.Equal(t, "override@example.com", msg.To)
	assert.Equal(t, entity.LocaleEN, msg.Locale)
	assert.Equal(t, "Welcome to Grace Church", msg.Title)
	assert.Equal(t, "Hi Sara, we are glad you joined Grace Church.", msg.Body)
}

func TestSend_FeedFailureStillAttemptsSecondaries(t *testing.T) {
	f := newFixture(t)
	f.feed.fail = true
	f.repo.addAccount(entity.Account{ID: 10, Phone: "111", Preference: entity.PreferenceBusinessMessage})

	results, err := f.uc.Send(context.Background(), welcomeRequest(10))
	require.ErrorIs(t, err, ErrFeedFailed)

	assert.False(t, results[entity.ChannelInternalFeed].Success)
	assert.True(t, results[entity.ChannelBusinessMessage].Success)
	assert.Len(t, f.repo.logsFor(entity.ChannelBusinessMessage), 1)
}

func TestSend_LookupFailures(t *testing.T) {
	t.Run("unknown organization", func(t *testing.T) {
		f := newFixture(t)
		req := welcomeRequest(10)
		req.OrgID = 99

		_, err := f.uc.Send(context.Background(), req)
		assert.ErrorIs(t, err, goerror.ErrNotFound)
		assert.Empty(t, f.feed.sent)
	})

	t.Run("unknown recipient", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.uc.Send(context.Background(), welcomeRequest(10))
		assert.ErrorIs(t, err, goerror.ErrNotFound)
		assert.Empty(t, f.feed.sent)
	})

	t.Run("no recipient and no phone", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.uc.Send(context.Background(), entity.Request{OrgID: testOrgID, Type: entity.TypeBroadcast})
		assert.ErrorIs(t, err, ErrRecipientRequired)
	})
}

func TestSend_ExternalContact(t *testing.T) {
	f := newFixture(t)

	req := entity.Request{
		OrgID: testOrgID,
		Type:  entity.TypeBroadcast,
		Title: entity.Text{AR: "إعلان"},
		Body:  entity.Text{AR: "اجتماع الليلة"},
		Phone: "+962 (79) 123",
	}
	results, err := f.uc.Send(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, []entity.Channel{entity.ChannelBusinessMessage}, keys(results))
	assert.Empty(t, f.feed.sent)
	assert.Empty(t, f.email.sent)

	require.Len(t, f.chat.sent, 1)
	assert.Equal(t, "96279123", f.chat.sent[0].To)
	assert.Equal(t, []string{"إعلان", "اجتماع الليلة"}, f.chat.sent[0].Params)

	logs := f.repo.logsFor(entity.ChannelBusinessMessage)
	require.Len(t, logs, 1)
	assert.Zero(t, logs[0].RecipientID)
	assert.Equal(t, "96279123", logs[0].ContactPhone)
}

func TestSelectChannels(t *testing.T) {
	tests := []struct {
		pref     entity.Preference
		explicit []entity.Channel
		want     []entity.Channel
	}{
		{pref: entity.PreferenceBusinessMessage, want: []entity.Channel{entity.ChannelBusinessMessage, entity.ChannelInternalFeed}},
		{pref: entity.PreferenceSMSFallback, want: []entity.Channel{entity.ChannelBusinessMessage, entity.ChannelInternalFeed}},
		{pref: entity.PreferenceEmail, want: []entity.Channel{entity.ChannelEmail, entity.ChannelInternalFeed}},
		{pref: entity.PreferenceAll, want: []entity.Channel{entity.ChannelBusinessMessage, entity.ChannelEmail, entity.ChannelInternalFeed}},
		{pref: entity.PreferenceNone, want: []entity.Channel{entity.ChannelInternalFeed}},
		{pref: "carrier_pigeon", want: []entity.Channel{entity.ChannelInternalFeed}},
		{
			pref:     entity.PreferenceAll,
			explicit: []entity.Channel{entity.ChannelEmail, entity.ChannelEmail},
			want:     []entity.Channel{entity.ChannelEmail, entity.ChannelInternalFeed},
		},
	}

	for _, tt := range tests {
		t.Run(string(tt.pref), func(t *testing.T) {
			got := selectChannels(entity.Request{Channels: tt.explicit}, &entity.Account{Preference: tt.pref})
			assert.Equal(t, tt.want, got)
		})
	}
}

func keys(m map[entity.Channel]entity.Result) []entity.Channel {
	out := make([]entity.Channel, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
