package repository

import (
	"context"
	"time"

	"github.com/oksasatya/standup-tracker/internal/domain/entity"
)

type RefreshTokenRepository interface {
	Create(ctx context.Context, t *entity.RefreshToken) error
	// Find returns the token regardless of expiry; callers check Expired.
	Find(ctx context.Context, token string) (*entity.RefreshToken, error)
	// FindByUser returns the user's unexpired tokens, most recently used first.
	FindByUser(ctx context.Context, userID string, now time.Time) ([]entity.RefreshToken, error)
	Touch(ctx context.Context, token string, at time.Time) error
	Delete(ctx context.Context, token string) error
	DeleteByUser(ctx context.Context, userID string) (int64, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
