package templates

import (
	"time"
)

type Option func(*EmailData)

func WithIP(ip string) Option        { return func(d *EmailData) { d.IP = ip } }
func WithUserAgent(ua string) Option { return func(d *EmailData) { d.UserAgent = ua } }
func WithAppURL(url string) Option   { return func(d *EmailData) { d.AppURL = url } }

// WithTime stamps the email, rendered in the recipient's timezone when it is known.
func WithTime(t time.Time) Option {
	return func(d *EmailData) {
		d.TimeAt = t.UTC()
		d.Time = FormatIn(t, d.Timezone)
	}
}

// FormatIn formats t in the IANA zone tz, falling back to UTC.
func FormatIn(t time.Time, tz string) string {
	loc := time.UTC
	if tz != "" {
		if l, err := time.LoadLocation(tz); err == nil {
			loc = l
		}
	}
	return t.In(loc).Format(displayTimestamp)
}

func NewBaseEmailData(appName, typ, name, email, timezone string, opts ...Option) EmailData {
	d := EmailData{
		Name:     name,
		Email:    email,
		Type:     typ,
		AppName:  appName,
		Timezone: timezone,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

func NewWelcomeData(appName, name, email, timezone string, opts ...Option) map[string]any {
	return ToMap(NewBaseEmailData(appName, Welcome, name, email, timezone, opts...))
}

func NewSignedOutAllData(appName, name, email, timezone string, opts ...Option) map[string]any {
	return ToMap(NewBaseEmailData(appName, SignedOutAll, name, email, timezone, opts...))
}

func NewAccountDisabledData(appName, name, email, timezone string, opts ...Option) map[string]any {
	return ToMap(NewBaseEmailData(appName, AccountDisabled, name, email, timezone, opts...))
}
