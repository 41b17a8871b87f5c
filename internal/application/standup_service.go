package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/standup-tracker/internal/domain/entity"
	repo "github.com/oksasatya/standup-tracker/internal/domain/repository"
	"github.com/oksasatya/standup-tracker/internal/infrastructure/search"
	"github.com/oksasatya/standup-tracker/pkg/apperror"
	"github.com/oksasatya/standup-tracker/pkg/helpers"
	"github.com/oksasatya/standup-tracker/pkg/validation"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100

	// BackfillWindow is how far back a standup may be dated.
	BackfillWindow = 7 * 24 * time.Hour

	msgStandupExists   = "Standup already exists for this date"
	msgStandupNotFound = "Standup not found"
)

// StandupSearcher is the full-text side index; *search.StandupIndex satisfies it.
type StandupSearcher interface {
	Enabled() bool
	IndexStandup(ctx context.Context, s *entity.Standup) error
	Search(ctx context.Context, q, userID string, size int) ([]search.Hit, error)
}

type StandupService struct {
	Repo   repo.StandupRepository
	Search StandupSearcher
	Logger *logrus.Logger

	now func() time.Time
}

func NewStandupService(r repo.StandupRepository, searcher StandupSearcher, logger *logrus.Logger) *StandupService {
	return &StandupService{Repo: r, Search: searcher, Logger: logger, now: time.Now}
}

func (s *StandupService) clock() time.Time {
	if s.now == nil {
		return time.Now()
	}
	return s.now()
}

type CreateStandupInput struct {
	Yesterday string
	Today     string
	Blockers  *string
	Status    *entity.StandupStatus
	// Date defaults to today (UTC).
	Date *time.Time
}

// CreateStandup writes the caller's entry for the day. A draft for the same day is
// overwritten in place; a submitted one is a conflict.
func (s *StandupService) CreateStandup(ctx context.Context, userID string, in CreateStandupInput) (*StandupDTO, error) {
	today := entity.DayStart(s.clock())
	day := today
	if in.Date != nil {
		day = entity.DayStart(*in.Date)
		if day.After(today) {
			return nil, apperror.Validation("Validation failed", []validation.FieldError{{Field: "date", Message: "cannot be in the future"}})
		}
		if today.Sub(day) > BackfillWindow {
			return nil, apperror.Validation("Validation failed", []validation.FieldError{{Field: "date", Message: "must be within the last 7 days"}})
		}
	}

	st := &entity.Standup{
		UserID:    userID,
		Date:      day,
		Yesterday: in.Yesterday,
		Today:     in.Today,
		Blockers:  entity.DefaultBlockers,
		Status:    entity.StandupDraft,
	}
	if in.Blockers != nil && strings.TrimSpace(*in.Blockers) != "" {
		st.Blockers = *in.Blockers
	}
	if in.Status != nil {
		st.Status = *in.Status
	}

	saved, err := s.Repo.CreateOrUpdateDraft(ctx, st)
	if err != nil {
		if errors.Is(err, repo.ErrDaySubmitted) {
			return nil, apperror.Conflict(msgStandupExists)
		}
		return nil, apperror.Internal("failed to create standup", err)
	}
	metricStandupsCreated.Add(1)
	s.index(ctx, saved)

	dto := ToStandupDTO(saved)
	return &dto, nil
}

// UpdateStandup applies a partial update to a standup owned by userID.
func (s *StandupService) UpdateStandup(ctx context.Context, id, userID string, patch entity.StandupPatch) (*StandupDTO, error) {
	if _, err := s.Repo.FindOwned(ctx, id, userID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, apperror.NotFound(msgStandupNotFound)
		}
		return nil, apperror.Internal("failed to update standup", err)
	}

	// A row that vanished between the lookup and the write is unexpected here.
	updated, err := s.Repo.Update(ctx, id, userID, patch)
	if err != nil {
		return nil, apperror.Internal("failed to update standup", err)
	}
	metricStandupsUpdated.Add(1)
	s.index(ctx, updated)

	dto := ToStandupDTO(updated)
	return &dto, nil
}

func (s *StandupService) GetStandup(ctx context.Context, id string) (*StandupDTO, error) {
	st, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, apperror.NotFound(msgStandupNotFound)
		}
		return nil, apperror.Internal("failed to load standup", err)
	}
	dto := ToStandupDTO(st)
	return &dto, nil
}

// StandupQuery is the raw list query; dates are YYYY-MM-DD.
type StandupQuery struct {
	UserID   string
	Date     string
	DateFrom string
	DateTo   string
	Status   string
	Page     int
	Limit    int
	Sort     string
	Order    string
}

// Filter applies defaults. With no user and no date bounds it selects today's entries
// from everyone (team view); a user without dates selects that user's history.
func (q StandupQuery) Filter(now time.Time) (entity.StandupFilter, error) {
	f := entity.StandupFilter{
		UserID: q.UserID,
		Status: entity.StandupStatus(q.Status),
		Page:   q.Page,
		Limit:  q.Limit,
		Sort:   entity.StandupSort(q.Sort),
		Desc:   !strings.EqualFold(q.Order, "asc"),
	}
	if f.Page < 1 {
		f.Page = DefaultPage
	}
	if f.Limit < 1 {
		f.Limit = DefaultLimit
	}
	if f.Limit > MaxLimit {
		f.Limit = MaxLimit
	}
	switch f.Sort {
	case entity.SortByDate, entity.SortByCreatedAt, entity.SortByUpdatedAt:
	default:
		f.Sort = entity.SortByDate
	}

	var details []validation.FieldError
	parse := func(field, v string) *time.Time {
		if v == "" {
			return nil
		}
		t, err := time.Parse(validation.DateLayout, v)
		if err != nil {
			details = append(details, validation.FieldError{Field: field, Message: "must be a date formatted as YYYY-MM-DD"})
			return nil
		}
		return &t
	}
	f.Date = parse("date", q.Date)
	f.DateFrom = parse("dateFrom", q.DateFrom)
	f.DateTo = parse("dateTo", q.DateTo)
	if len(details) > 0 {
		return f, apperror.Validation("Validation failed", details)
	}
	if f.DateFrom != nil && f.DateTo != nil && f.DateFrom.After(*f.DateTo) {
		return f, apperror.Validation("Validation failed", []validation.FieldError{{Field: "dateFrom", Message: "must not be after dateTo"}})
	}

	if f.UserID == "" && f.Date == nil && f.DateFrom == nil && f.DateTo == nil {
		today := entity.DayStart(now)
		f.Date = &today
	}
	return f, nil
}

func (s *StandupService) GetStandups(ctx context.Context, q StandupQuery) (*StandupListDTO, error) {
	f, err := q.Filter(s.clock())
	if err != nil {
		return nil, err
	}
	page, err := s.Repo.FindStandups(ctx, f)
	if err != nil {
		return nil, apperror.Internal("failed to list standups", err)
	}
	out := &StandupListDTO{Data: make([]StandupDTO, 0, len(page.Items)), Pagination: page.Pagination}
	for i := range page.Items {
		out.Data = append(out.Data, ToStandupDTO(&page.Items[i]))
	}
	return out, nil
}

// SearchStandups queries the side index. Returns an empty list when search is disabled.
func (s *StandupService) SearchStandups(ctx context.Context, q, userID string, size int) ([]search.Hit, error) {
	if s.Search == nil || !s.Search.Enabled() {
		return []search.Hit{}, nil
	}
	hits, err := s.Search.Search(ctx, q, userID, size)
	if err != nil {
		return nil, apperror.Internal("search failed", err)
	}
	return hits, nil
}

func (s *StandupService) index(ctx context.Context, st *entity.Standup) {
	if s.Search == nil || !s.Search.Enabled() {
		return
	}
	if err := s.Search.IndexStandup(ctx, st); err != nil {
		helpers.LogWarn(s.Logger, "es index failed", err, logrus.Fields{"standup_id": st.ID})
	}
}
