package entity

import "time"

// RefreshToken is a persisted, revocable credential exchanged for new access tokens.
type RefreshToken struct {
	ID         string
	UserID     string
	Token      string
	UserAgent  string
	IPAddress  string
	LastUsedAt time.Time
	ExpiresAt  time.Time
	CreatedAt  time.Time
}

func (t *RefreshToken) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}
