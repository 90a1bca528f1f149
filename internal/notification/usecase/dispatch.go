package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/samber/lo"
	"github.com/shandysiswandi/shepherd/internal/notification/catalog"
	"github.com/shandysiswandi/shepherd/internal/notification/entity"
	"github.com/shandysiswandi/shepherd/internal/pkg/valueobject"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var (
	ErrRecipientRequired = errors.New("recipient id or phone is required")
	ErrFeedFailed        = errors.New("internal feed delivery failed")
)

// rendered is the request content resolved for the recipient's locale.
type rendered struct {
	req    entity.Request
	locale entity.Locale
	title  string
	body   string
	params map[string]string
	tpl    catalog.Template
	hasTpl bool
}

func (r rendered) message(ch entity.Channel, to string) entity.Message {
	msg := entity.Message{
		OrgID:       r.req.OrgID,
		RecipientID: r.req.RecipientID,
		Type:        r.req.Type,
		Channel:     ch,
		Locale:      r.locale,
		To:          to,
		Title:       r.title,
		Body:        r.body,
		Payload:     valueobject.FromStrings(r.params),
		Reference:   r.req.Reference,
	}
	if r.hasTpl {
		msg.Template = r.tpl.ChatTemplate
		msg.Params = r.tpl.ChatValues(r.params)
		msg.Subject = r.tpl.Render(r.locale, r.params).Subject
	}
	return msg
}

// Send delivers req on the internal feed and on every selected secondary
// channel that has a contact, a template and a configured provider. Only a
// lookup failure or a feed failure is returned as an error; secondary
// outcomes are recorded in the result map and the delivery log.
func (s *Usecase) Send(ctx context.Context, req entity.Request) (map[entity.Channel]entity.Result, error) {
	ctx, span := s.startSpan(ctx, "Send")
	defer span.End()

	span.SetAttributes(
		attribute.String("notification.type", req.Type.String()),
		attribute.Int64("notification.org_id", req.OrgID),
		attribute.Int64("notification.recipient_id", req.RecipientID),
	)

	if req.RecipientID == 0 && strings.TrimSpace(req.Phone) == "" {
		return nil, ErrRecipientRequired
	}

	org, err := s.repoDB.GetOrganization(ctx, req.OrgID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("lookup organization %d: %w", req.OrgID, err)
	}

	r := render(req, org.Locale)
	if req.RecipientID == 0 {
		return s.sendExternal(ctx, r), nil
	}

	acc, err := s.repoDB.GetAccount(ctx, req.OrgID, req.RecipientID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("lookup recipient %d: %w", req.RecipientID, err)
	}

	channels := selectChannels(req, acc)
	results := make(map[entity.Channel]entity.Result, len(channels))

	feedRes := s.feed.Send(ctx, r.message(entity.ChannelInternalFeed, ""))
	s.countAttempt(ctx, entity.ChannelInternalFeed, feedRes)
	results[entity.ChannelInternalFeed] = feedRes

	if lo.Contains(channels, entity.ChannelBusinessMessage) {
		phone := lo.CoalesceOrEmpty(strings.TrimSpace(req.Phone), acc.Phone)
		if res, ok := s.attempt(ctx, s.chat, r, entity.ChannelBusinessMessage, phone); ok {
			results[entity.ChannelBusinessMessage] = res
		}
	}
	if lo.Contains(channels, entity.ChannelEmail) {
		email := lo.CoalesceOrEmpty(strings.TrimSpace(req.Email), acc.Email)
		if res, ok := s.attempt(ctx, s.email, r, entity.ChannelEmail, email); ok {
			results[entity.ChannelEmail] = res
		}
	}

	if !feedRes.Success {
		err := fmt.Errorf("%w: %s", ErrFeedFailed, feedRes.Error)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return results, err
	}

	return results, nil
}

// sendExternal handles a recipient without an account. Only business
// messaging applies and the log row carries the phone instead of an id.
func (s *Usecase) sendExternal(ctx context.Context, r rendered) map[entity.Channel]entity.Result {
	results := make(map[entity.Channel]entity.Result, 1)

	phone := entity.NormalizePhone(r.req.Phone)
	if res, ok := s.attempt(ctx, s.chat, r, entity.ChannelBusinessMessage, phone); ok {
		results[entity.ChannelBusinessMessage] = res
	}

	return results
}

// attempt sends on a secondary channel and writes its log row. It reports
// false when the attempt was skipped.
func (s *Usecase) attempt(ctx context.Context, p provider, r rendered, ch entity.Channel, to string) (entity.Result, bool) {
	if to == "" || !r.hasTpl || p == nil || !p.IsConfigured() {
		slog.DebugContext(ctx, "channel skipped", "channel", ch.String(), "type", r.req.Type.String(),
			"has_contact", to != "", "has_template", r.hasTpl)
		return entity.Result{}, false
	}

	msg := r.message(ch, to)
	if r.req.RecipientID == 0 {
		msg.ContactPhone = to
	}

	res := p.Send(ctx, msg)
	s.countAttempt(ctx, ch, res)
	s.logAttempt(ctx, msg, res)

	return res, true
}

func (s *Usecase) logAttempt(ctx context.Context, msg entity.Message, res entity.Result) {
	payload := make(valueobject.JSONMap, len(msg.Payload)+1)
	maps.Copy(payload, msg.Payload)

	in := entity.CreateLog{
		ID:           s.uid.Generate(),
		OrgID:        msg.OrgID,
		RecipientID:  msg.RecipientID,
		ContactPhone: msg.ContactPhone,
		Type:         msg.Type,
		Channel:      msg.Channel,
		Title:        msg.Title,
		Body:         msg.Body,
		Payload:      payload,
		Status:       entity.DeliveryStatusFailed,
		ErrorMessage: res.Error,
		Reference:    msg.Reference,
	}
	if res.Success {
		now := s.clock.Now()
		in.Status = entity.DeliveryStatusSent
		in.SentAt = &now
		in.Payload.Set("message_id", res.MessageID)
	}

	if err := s.repoDB.CreateLog(ctx, in); err != nil {
		slog.ErrorContext(ctx, "failed to repo create log", "channel", msg.Channel.String(),
			"recipient_id", msg.RecipientID, "status", in.Status.String(), "error", err)
	}
}

func render(req entity.Request, locale entity.Locale) rendered {
	params := make(map[string]string, len(req.Params)+2)
	maps.Copy(params, req.Params)

	title := catalog.Interpolate(req.Title.Pick(locale), req.Params)
	body := catalog.Interpolate(req.Body.Pick(locale), req.Params)
	if _, ok := params["title"]; !ok {
		params["title"] = title
	}
	if _, ok := params["body"]; !ok {
		params["body"] = body
	}

	tpl, ok := catalog.Lookup(req.Type)
	return rendered{req: req, locale: locale, title: title, body: body, params: params, tpl: tpl, hasTpl: ok}
}

// selectChannels returns the explicit channel list or the preference policy,
// always including the internal feed.
func selectChannels(req entity.Request, acc *entity.Account) []entity.Channel {
	channels := req.Channels
	if len(channels) == 0 {
		channels = acc.Preference.Channels()
	}
	if !lo.Contains(channels, entity.ChannelInternalFeed) {
		channels = append(slices.Clone(channels), entity.ChannelInternalFeed)
	}
	return lo.Uniq(channels)
}
