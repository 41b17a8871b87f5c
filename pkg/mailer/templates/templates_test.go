package templates

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_AllTemplates(t *testing.T) {
	at := time.Date(2026, 6, 10, 14, 0, 0, 0, time.UTC)
	cases := map[string]map[string]any{
		Welcome:         NewWelcomeData("Standups", "Ann", "ann@example.com", "UTC", WithTime(at)),
		SignedOutAll:    NewSignedOutAllData("Standups", "Ann", "ann@example.com", "UTC", WithTime(at), WithIP("10.0.0.1")),
		AccountDisabled: NewAccountDisabledData("Standups", "Ann", "ann@example.com", "UTC", WithTime(at)),
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			subject, text, html, err := Render(name, data)
			require.NoError(t, err)
			assert.NotEmpty(t, subject)
			assert.NotContains(t, subject, "\n")
			assert.Contains(t, text, "Ann")
			assert.Contains(t, html, "ann@example.com")
		})
	}
}

func TestRender_DefaultsAndEscaping(t *testing.T) {
	_, text, html, err := Render(Welcome, map[string]any{"Name": "<b>Eve</b>", "Email": "eve@example.com"})
	require.NoError(t, err)
	assert.Contains(t, text, "<b>Eve</b>")
	assert.Contains(t, html, "&lt;b&gt;Eve&lt;/b&gt;")

	_, text, _, err = Render(Welcome, map[string]any{"Email": "x@example.com"})
	require.NoError(t, err)
	assert.Contains(t, text, "Hi there")
}

func TestRender_UnknownTemplate(t *testing.T) {
	_, _, _, err := Render("nope", nil)
	assert.Error(t, err)
}

func TestFormatIn(t *testing.T) {
	at := time.Date(2026, 6, 10, 14, 0, 0, 0, time.UTC)
	assert.Equal(t, "10 June 2026, 21:00 WIB", FormatIn(at, "Asia/Jakarta"))
	assert.Equal(t, "10 June 2026, 14:00 UTC", FormatIn(at, "Not/AZone"))

	data := NewBaseEmailData("Standups", Welcome, "Ann", "ann@example.com", "Asia/Jakarta", WithTime(at))
	assert.Equal(t, "10 June 2026, 21:00 WIB", data.Time)
	assert.True(t, at.Equal(data.TimeAt))
}
