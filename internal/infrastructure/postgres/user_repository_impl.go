package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/oksasatya/standup-tracker/internal/domain/entity"
	"github.com/oksasatya/standup-tracker/internal/domain/repository"
	"github.com/oksasatya/standup-tracker/pkg/helpers"
)

const userColumns = `id, email, name, timezone, profile_image, status, created_at, updated_at`

type UserRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func scanUser(row interface{ Scan(...any) error }, withPassword bool) (*entity.User, error) {
	u := &entity.User{}
	var img sql.NullString
	var status string
	dest := []any{&u.ID, &u.Email, &u.Name, &u.Timezone, &img, &status, &u.CreatedAt, &u.UpdatedAt}
	if withPassword {
		dest = append(dest, &u.Password)
	}
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	u.ProfileImage = stringPtr(img)
	u.Status = entity.UserStatus(status)
	return u, nil
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	u.Email = normalizeEmail(u.Email)
	if !helpers.IsPasswordHash(u.Password) {
		hash, err := helpers.HashPassword(u.Password)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		u.Password = hash
	}
	if u.Timezone == "" {
		u.Timezone = "UTC"
	}
	if u.Status == "" {
		u.Status = entity.UserActive
	}

	row := r.db.QueryRowContext(ctx, `
		INSERT INTO users (email, password, name, timezone, profile_image, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, u.Email, u.Password, u.Name, u.Timezone, nullString(u.ProfileImage), string(u.Status))

	if err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	u, err := scanUser(row, false)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, normalizeEmail(email))
	u, err := scanUser(row, false)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

func (r *UserRepository) GetByEmailWithPassword(ctx context.Context, email string) (*entity.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+`, password FROM users WHERE email = $1`, normalizeEmail(email))
	u, err := scanUser(row, true)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("get user credentials: %w", err)
	}
	return u, nil
}

// Update only touches name, timezone, profile_image and status.
func (r *UserRepository) Update(ctx context.Context, id string, upd entity.UserUpdate) (*entity.User, error) {
	var status sql.NullString
	if upd.Status != nil {
		status = sql.NullString{String: string(*upd.Status), Valid: true}
	}
	row := r.db.QueryRowContext(ctx, `
		UPDATE users SET
			name = COALESCE($2, name),
			timezone = COALESCE($3, timezone),
			profile_image = COALESCE($4, profile_image),
			status = COALESCE($5, status),
			updated_at = now()
		WHERE id = $1
		RETURNING `+userColumns,
		id, nullString(upd.Name), nullString(upd.Timezone), nullString(upd.ProfileImage), status)

	u, err := scanUser(row, false)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return u, nil
}

func (r *UserRepository) SoftDelete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users SET status = 'inactive', updated_at = now()
		WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("soft delete user: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) ListActive(ctx context.Context) ([]entity.User, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE status = 'active'
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list active users: %w", err)
	}
	defer func() { _ = rows.Close() }()

	users := make([]entity.User, 0)
	for rows.Next() {
		u, err := scanUser(rows, false)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list active users: %w", err)
	}
	return users, nil
}

func (r *UserRepository) Ping(ctx context.Context) error {
	var one int
	return r.db.QueryRowContext(ctx, `SELECT 1`).Scan(&one)
}
