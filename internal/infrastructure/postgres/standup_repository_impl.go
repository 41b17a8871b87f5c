package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/oksasatya/standup-tracker/internal/domain/entity"
	"github.com/oksasatya/standup-tracker/internal/domain/repository"
)

const standupColumns = `id, user_id, standup_date, yesterday, today, blockers, status, created_at, updated_at`

var standupSortColumns = map[entity.StandupSort]string{
	entity.SortByDate:      "s.standup_date",
	entity.SortByCreatedAt: "s.created_at",
	entity.SortByUpdatedAt: "s.updated_at",
}

type StandupRepository struct {
	db DBTX
}

func NewStandupRepository(db DBTX) *StandupRepository {
	return &StandupRepository{db: db}
}

type scanner interface{ Scan(...any) error }

func scanStandup(row scanner, extra ...any) (*entity.Standup, error) {
	s := &entity.Standup{}
	var status string
	dest := append([]any{&s.ID, &s.UserID, &s.Date, &s.Yesterday, &s.Today, &s.Blockers, &status, &s.CreatedAt, &s.UpdatedAt}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	s.Status = entity.StandupStatus(status)
	s.Date = entity.DayStart(s.Date)
	return s, nil
}

func (r *StandupRepository) CreateOrUpdateDraft(ctx context.Context, s *entity.Standup) (*entity.Standup, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO standups (user_id, standup_date, yesterday, today, blockers, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, standup_date) DO UPDATE SET
			yesterday = EXCLUDED.yesterday,
			today = EXCLUDED.today,
			blockers = EXCLUDED.blockers,
			status = EXCLUDED.status,
			updated_at = now()
		WHERE standups.status = 'draft'
		RETURNING `+standupColumns,
		s.UserID, entity.DayStart(s.Date), s.Yesterday, s.Today, s.Blockers, string(s.Status))

	out, err := scanStandup(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrDaySubmitted
		}
		return nil, fmt.Errorf("upsert standup: %w", err)
	}
	return out, nil
}

func (r *StandupRepository) FindByID(ctx context.Context, id string) (*entity.Standup, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT s.id, s.user_id, s.standup_date, s.yesterday, s.today, s.blockers, s.status, s.created_at, s.updated_at,
			u.name, u.email, u.profile_image
		FROM standups s
		JOIN users u ON u.id = s.user_id
		WHERE s.id = $1
	`, id)
	return scanStandupWithOwner(row)
}

func (r *StandupRepository) FindOwned(ctx context.Context, id, userID string) (*entity.Standup, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+standupColumns+` FROM standups WHERE id = $1 AND user_id = $2`, id, userID)
	s, err := scanStandup(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("find standup: %w", err)
	}
	return s, nil
}

func (r *StandupRepository) FindByUserAndDate(ctx context.Context, userID string, day time.Time) (*entity.Standup, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+standupColumns+` FROM standups WHERE user_id = $1 AND standup_date = $2`,
		userID, entity.DayStart(day))
	s, err := scanStandup(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("find standup by date: %w", err)
	}
	return s, nil
}

// Update merges the non-nil patch fields into the caller's own standup.
func (r *StandupRepository) Update(ctx context.Context, id, userID string, patch entity.StandupPatch) (*entity.Standup, error) {
	var status sql.NullString
	if patch.Status != nil {
		status = sql.NullString{String: string(*patch.Status), Valid: true}
	}
	row := r.db.QueryRowContext(ctx, `
		UPDATE standups SET
			yesterday = COALESCE($3, yesterday),
			today = COALESCE($4, today),
			blockers = COALESCE($5, blockers),
			status = COALESCE($6, status),
			updated_at = now()
		WHERE id = $1 AND user_id = $2
		RETURNING `+standupColumns,
		id, userID, nullString(patch.Yesterday), nullString(patch.Today), nullString(patch.Blockers), status)

	s, err := scanStandup(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("update standup: %w", err)
	}
	return s, nil
}

func scanStandupWithOwner(row scanner) (*entity.Standup, error) {
	owner := &entity.StandupOwner{}
	var img sql.NullString
	s, err := scanStandup(row, &owner.Name, &owner.Email, &img)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan standup: %w", err)
	}
	owner.ProfileImage = stringPtr(img)
	s.Owner = owner
	return s, nil
}

// standupWhere builds the shared predicate for the page query and its count.
func standupWhere(f entity.StandupFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, strings.ReplaceAll(cond, "?", "$"+strconv.Itoa(len(args))))
	}

	if f.UserID != "" {
		add("s.user_id = ?", f.UserID)
	}
	if f.Status != "" {
		add("s.status = ?", string(f.Status))
	}
	switch {
	case f.Date != nil:
		add("s.standup_date = ?", entity.DayStart(*f.Date))
	default:
		if f.DateFrom != nil {
			add("s.standup_date >= ?", entity.DayStart(*f.DateFrom))
		}
		if f.DateTo != nil {
			add("s.standup_date <= ?", entity.DayStart(*f.DateTo))
		}
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// FindStandups runs the page query and the count concurrently over the same predicate.
func (r *StandupRepository) FindStandups(ctx context.Context, f entity.StandupFilter) (*entity.StandupPage, error) {
	where, args := standupWhere(f)

	col, ok := standupSortColumns[f.Sort]
	if !ok {
		col = standupSortColumns[entity.SortByDate]
	}
	dir := "ASC"
	if f.Desc {
		dir = "DESC"
	}

	pageArgs := append(append([]any{}, args...), f.Limit, f.Offset())
	pageQuery := `
		SELECT s.id, s.user_id, s.standup_date, s.yesterday, s.today, s.blockers, s.status, s.created_at, s.updated_at,
			u.name, u.email, u.profile_image
		FROM standups s
		JOIN users u ON u.id = s.user_id` + where + `
		ORDER BY ` + col + ` ` + dir + `, s.id ` + dir + `
		LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)
	countQuery := `SELECT COUNT(*) FROM standups s` + where

	var (
		items []entity.Standup
		total int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := r.db.QueryContext(gctx, pageQuery, pageArgs...)
		if err != nil {
			return fmt.Errorf("query standups: %w", err)
		}
		defer func() { _ = rows.Close() }()
		items = make([]entity.Standup, 0, f.Limit)
		for rows.Next() {
			s, err := scanStandupWithOwner(rows)
			if err != nil {
				return err
			}
			items = append(items, *s)
		}
		return rows.Err()
	})
	g.Go(func() error {
		if err := r.db.QueryRowContext(gctx, countQuery, args...).Scan(&total); err != nil {
			return fmt.Errorf("count standups: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &entity.StandupPage{
		Items:      items,
		Pagination: entity.NewPagination(f.Page, f.Limit, total),
	}, nil
}
