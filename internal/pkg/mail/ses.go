package mail

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// SESAPI is the part of the SES client used here.
type SESAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SES sends mail through Amazon Simple Email Service.
type SES struct {
	client      SESAPI
	defaultFrom string
}

func NewSES(client SESAPI, from string) *SES {
	return &SES{client: client, defaultFrom: from}
}

// Send returns the SES MessageId.
func (s *SES) Send(ctx context.Context, msg Message) (string, error) {
	if len(msg.recipients()) == 0 {
		return "", ErrNoRecipients
	}

	from, err := msg.sender(s.defaultFrom)
	if err != nil {
		return "", err
	}

	body := &types.Body{}
	if msg.TextBody != "" {
		body.Text = &types.Content{Data: aws.String(msg.TextBody), Charset: aws.String("UTF-8")}
	}
	if msg.HTMLBody != "" {
		body.Html = &types.Content{Data: aws.String(msg.HTMLBody), Charset: aws.String("UTF-8")}
	}

	out, err := s.client.SendEmail(ctx, &ses.SendEmailInput{
		Source: aws.String(from),
		Destination: &types.Destination{
			ToAddresses:  msg.To,
			CcAddresses:  msg.Cc,
			BccAddresses: msg.Bcc,
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(msg.Subject), Charset: aws.String("UTF-8")},
			Body:    body,
		},
	})
	if err != nil {
		return "", err
	}

	return aws.ToString(out.MessageId), nil
}

func (*SES) Close() error {
	return nil
}
