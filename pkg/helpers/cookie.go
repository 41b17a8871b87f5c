package helpers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"
)

type Manager struct {
	Domain       string
	Secure       bool
	AccessMaxAge time.Duration
	RefreshAge   time.Duration
}

func NewCookie(domain string, secure bool, accessMaxAge, refreshMaxAge time.Duration) *Manager {
	return &Manager{Domain: domain, Secure: secure, AccessMaxAge: accessMaxAge, RefreshAge: refreshMaxAge}
}

// SetPair writes both auth cookies. SameSite=None lets a separately hosted
// frontend send them with credentialed requests.
func (m *Manager) SetPair(c *gin.Context, access, refresh string) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(AccessTokenCookie, access, int(m.AccessMaxAge.Seconds()), "/", m.Domain, m.Secure, true)
	c.SetCookie(RefreshTokenCookie, refresh, int(m.RefreshAge.Seconds()), "/", m.Domain, m.Secure, true)
}

func (m *Manager) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(AccessTokenCookie, "", -1, "/", m.Domain, m.Secure, true)
	c.SetCookie(RefreshTokenCookie, "", -1, "/", m.Domain, m.Secure, true)
}

// RefreshToken returns the refresh cookie value or "".
func (m *Manager) RefreshToken(c *gin.Context) string {
	v, err := c.Cookie(RefreshTokenCookie)
	if err != nil {
		return ""
	}
	return v
}
