package application

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	repo "github.com/oksasatya/standup-tracker/internal/domain/repository"
	"github.com/oksasatya/standup-tracker/pkg/helpers"
)

// TokenSweeper periodically removes refresh tokens past their expiry.
type TokenSweeper struct {
	Tokens   repo.RefreshTokenRepository
	Interval time.Duration
	Logger   *logrus.Logger

	now func() time.Time
}

func NewTokenSweeper(tokens repo.RefreshTokenRepository, interval time.Duration, logger *logrus.Logger) *TokenSweeper {
	return &TokenSweeper{Tokens: tokens, Interval: interval, Logger: logger, now: time.Now}
}

// SweepOnce deletes expired tokens and reports how many were removed.
func (s *TokenSweeper) SweepOnce(ctx context.Context) (int64, error) {
	now := time.Now()
	if s.now != nil {
		now = s.now()
	}
	n, err := s.Tokens.DeleteExpired(ctx, now)
	if err != nil {
		return 0, err
	}
	metricTokensSwept.Add(n)
	return n, nil
}

// Run sweeps on every tick until ctx is cancelled.
func (s *TokenSweeper) Run(ctx context.Context) {
	if s.Interval <= 0 {
		return
	}
	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.SweepOnce(ctx)
			if err != nil {
				helpers.LogWarn(s.Logger, "refresh token sweep failed", err, nil)
				continue
			}
			if n > 0 {
				helpers.LogInfo(s.Logger, "expired refresh tokens removed", logrus.Fields{"count": n})
			}
		}
	}
}
