package entity

import "strings"

type Channel string

const (
	ChannelInternalFeed    Channel = "internal_feed"
	ChannelBusinessMessage Channel = "business_message"
	ChannelEmail           Channel = "email"
)

func (c Channel) String() string {
	return string(c)
}

func ChannelFromString(raw string) (Channel, bool) {
	switch ch := Channel(strings.TrimSpace(raw)); ch {
	case ChannelInternalFeed, ChannelBusinessMessage, ChannelEmail:
		return ch, true
	default:
		return "", false
	}
}

// Preference is the account's channel preference.
type Preference string

const (
	PreferenceBusinessMessage Preference = "business_message"
	PreferenceSMSFallback     Preference = "sms_fallback"
	PreferenceEmail           Preference = "email"
	PreferenceAll             Preference = "all"
	PreferenceNone            Preference = "none"
)

// Channels maps a preference to its channel set. There is no SMS channel;
// sms_fallback is routed through business messaging. Unknown values behave
// like none.
func (p Preference) Channels() []Channel {
	switch p {
	case PreferenceBusinessMessage, PreferenceSMSFallback:
		return []Channel{ChannelBusinessMessage, ChannelInternalFeed}
	case PreferenceEmail:
		return []Channel{ChannelEmail, ChannelInternalFeed}
	case PreferenceAll:
		return []Channel{ChannelBusinessMessage, ChannelEmail, ChannelInternalFeed}
	default:
		return []Channel{ChannelInternalFeed}
	}
}

type DeliveryStatus string

const (
	DeliveryStatusSent   DeliveryStatus = "sent"
	DeliveryStatusFailed DeliveryStatus = "failed"
)

func (s DeliveryStatus) String() string {
	return string(s)
}

type InboxStatus string

const (
	InboxStatusAll    InboxStatus = "all"
	InboxStatusUnread InboxStatus = "unread"
	InboxStatusRead   InboxStatus = "read"
)

type Locale string

const (
	LocaleAR Locale = "ar"
	LocaleEN Locale = "en"
)

// LocaleFromString defaults to Arabic for anything but "en".
func LocaleFromString(raw string) Locale {
	if strings.EqualFold(strings.TrimSpace(raw), string(LocaleEN)) {
		return LocaleEN
	}
	return LocaleAR
}

// Dir is the HTML text direction for the locale.
func (l Locale) Dir() string {
	if l == LocaleAR {
		return "rtl"
	}
	return "ltr"
}

func (l Locale) String() string {
	return string(l)
}
