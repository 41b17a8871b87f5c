package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/oksasatya/standup-tracker/internal/domain/entity"
	"github.com/oksasatya/standup-tracker/internal/domain/repository"
)

type RefreshTokenRepository struct {
	db DBTX
}

func NewRefreshTokenRepository(db DBTX) *RefreshTokenRepository {
	return &RefreshTokenRepository{db: db}
}

func (r *RefreshTokenRepository) Create(ctx context.Context, t *entity.RefreshToken) error {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO refresh_tokens (user_id, token, user_agent, ip_address, last_used_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, t.UserID, t.Token, emptyAsNull(t.UserAgent), emptyAsNull(t.IPAddress), t.LastUsedAt, t.ExpiresAt)

	if err := row.Scan(&t.ID, &t.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("insert refresh token: %w", err)
	}
	return nil
}

func (r *RefreshTokenRepository) Find(ctx context.Context, token string) (*entity.RefreshToken, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, token, user_agent, ip_address, last_used_at, expires_at, created_at
		FROM refresh_tokens
		WHERE token = $1
	`, token)
	return scanRefreshToken(row)
}

func (r *RefreshTokenRepository) FindByUser(ctx context.Context, userID string, now time.Time) ([]entity.RefreshToken, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, token, user_agent, ip_address, last_used_at, expires_at, created_at
		FROM refresh_tokens
		WHERE user_id = $1 AND expires_at > $2
		ORDER BY last_used_at DESC
	`, userID, now)
	if err != nil {
		return nil, fmt.Errorf("list user refresh tokens: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := make([]entity.RefreshToken, 0)
	for rows.Next() {
		t, err := scanRefreshToken(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list user refresh tokens: %w", err)
	}
	return out, nil
}

func scanRefreshToken(row scanner) (*entity.RefreshToken, error) {
	t := &entity.RefreshToken{}
	var ua, ip sql.NullString
	if err := row.Scan(&t.ID, &t.UserID, &t.Token, &ua, &ip, &t.LastUsedAt, &t.ExpiresAt, &t.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("find refresh token: %w", err)
	}
	t.UserAgent = ua.String
	t.IPAddress = ip.String
	return t, nil
}

func (r *RefreshTokenRepository) Touch(ctx context.Context, token string, at time.Time) error {
	if _, err := r.db.ExecContext(ctx, `
		UPDATE refresh_tokens SET last_used_at = $2
		WHERE token = $1
	`, token, at); err != nil {
		return fmt.Errorf("touch refresh token: %w", err)
	}
	return nil
}

// Delete is idempotent.
func (r *RefreshTokenRepository) Delete(ctx context.Context, token string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM refresh_tokens WHERE token = $1`, token); err != nil {
		return fmt.Errorf("delete refresh token: %w", err)
	}
	return nil
}

func (r *RefreshTokenRepository) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM refresh_tokens WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("delete user refresh tokens: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

func (r *RefreshTokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM refresh_tokens WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("delete expired refresh tokens: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

func emptyAsNull(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
