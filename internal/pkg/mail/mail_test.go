package mail

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockSES struct {
	SendEmailFunc func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

func (m *mockSES) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	return m.SendEmailFunc(ctx, params, optFns...)
}

func TestSES_Send(t *testing.T) {
	var got *ses.SendEmailInput
	client := &mockSES{SendEmailFunc: func(_ context.Context, in *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
		got = in
		return &ses.SendEmailOutput{MessageId: aws.String("ses-123")}, nil
	}}

	id, err := NewSES(client, "noreply@shepherd.test").Send(context.Background(), Message{
		To:       []string{"leader@example.test"},
		Subject:  "New visitor assigned",
		TextBody: "Karim Haddad was assigned to you",
		HTMLBody: "<p>Karim Haddad was assigned to you</p>",
	})

	require.NoError(t, err)
	assert.Equal(t, "ses-123", id)
	assert.Equal(t, "noreply@shepherd.test", aws.ToString(got.Source))
	assert.Equal(t, []string{"leader@example.test"}, got.Destination.ToAddresses)
	assert.Equal(t, "New visitor assigned", aws.ToString(got.Message.Subject.Data))
	assert.Equal(t, "<p>Karim Haddad was assigned to you</p>", aws.ToString(got.Message.Body.Html.Data))
}

func TestSES_SendErrors(t *testing.T) {
	client := &mockSES{SendEmailFunc: func(context.Context, *ses.SendEmailInput, ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
		return nil, errors.New("MessageRejected: Email address is not verified")
	}}
	s := NewSES(client, "noreply@shepherd.test")

	_, err := s.Send(context.Background(), Message{})
	assert.ErrorIs(t, err, ErrNoRecipients)

	_, err = s.Send(context.Background(), Message{To: []string{"a@example.test"}})
	assert.EqualError(t, err, "MessageRejected: Email address is not verified")

	_, err = NewSES(client, "").Send(context.Background(), Message{To: []string{"a@example.test"}})
	assert.ErrorIs(t, err, ErrNoSender)
}

func TestSMTP_Send(t *testing.T) {
	s, err := NewSMTP(SMTPConfig{Host: "smtp.example.test", Port: 587, From: "noreply@shepherd.test"})
	require.NoError(t, err)

	var (
		gotTo  []string
		gotRaw string
	)
	s.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		assert.Equal(t, "smtp.example.test:587", addr)
		assert.Equal(t, "noreply@shepherd.test", from)
		gotTo = to
		gotRaw = string(msg)
		return nil
	}

	id, err := s.Send(context.Background(), Message{
		To:       []string{"a@example.test"},
		Bcc:      []string{"audit@example.test"},
		Subject:  "Welcome",
		TextBody: "hello",
		HTMLBody: "<p>hello</p>",
	})

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(id, "<") && strings.HasSuffix(id, "@smtp.example.test>"))
	assert.Equal(t, []string{"a@example.test", "audit@example.test"}, gotTo)
	assert.Contains(t, gotRaw, "Message-ID: "+id)
	assert.Contains(t, gotRaw, "multipart/alternative; boundary=shepherd-")
	assert.NotContains(t, gotRaw, "audit@example.test")
}

func TestNewSMTP_Validation(t *testing.T) {
	_, err := NewSMTP(SMTPConfig{Host: "smtp.example.test"})
	assert.ErrorIs(t, err, ErrSMTPHostPortRequired)
}

func TestNewFromDriver(t *testing.T) {
	m, err := NewFromDriver(context.Background(), Config{Driver: DriverDisabled})
	require.NoError(t, err)
	assert.Nil(t, m)

	m, err = NewFromDriver(context.Background(), Config{Driver: DriverSMTP, From: "x@example.test",
		SMTP: SMTPConfig{Host: "localhost", Port: 1025}})
	require.NoError(t, err)
	assert.IsType(t, &SMTP{}, m)

	_, err = NewFromDriver(context.Background(), Config{Driver: "pigeon"})
	assert.Error(t, err)
}
