package repository

import (
	"context"
	"errors"
	"time"

	"github.com/oksasatya/standup-tracker/internal/domain/entity"
)

// ErrDaySubmitted is returned by CreateOrUpdateDraft when the user's entry for that day is already submitted.
var ErrDaySubmitted = errors.New("standup already submitted for this day")

type StandupRepository interface {
	// CreateOrUpdateDraft atomically inserts the (user, day) entry or overwrites it while it is still a draft.
	CreateOrUpdateDraft(ctx context.Context, s *entity.Standup) (*entity.Standup, error)
	FindByID(ctx context.Context, id string) (*entity.Standup, error)
	FindOwned(ctx context.Context, id, userID string) (*entity.Standup, error)
	FindByUserAndDate(ctx context.Context, userID string, day time.Time) (*entity.Standup, error)
	Update(ctx context.Context, id, userID string, patch entity.StandupPatch) (*entity.Standup, error)
	FindStandups(ctx context.Context, f entity.StandupFilter) (*entity.StandupPage, error)
}
