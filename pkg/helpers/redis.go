package helpers

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient initializes a redis client
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// KeyUserRevoked stores the unix second after which a user's access tokens are valid again.
func KeyUserRevoked(userID string) string {
	return "user:revoked:" + userID
}

// MarkUserRevoked records a global sign-out. ttl should cover the access token lifetime.
func MarkUserRevoked(ctx context.Context, rdb *redis.Client, userID string, at time.Time, ttl time.Duration) error {
	return rdb.Set(ctx, KeyUserRevoked(userID), strconv.FormatInt(at.Unix(), 10), ttl).Err()
}

// UserRevokedAt returns the revocation instant, or the zero time when none is recorded.
func UserRevokedAt(ctx context.Context, rdb *redis.Client, userID string) (time.Time, error) {
	v, err := rdb.Get(ctx, KeyUserRevoked(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	sec, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(sec, 0), nil
}
