package application

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/standup-tracker/internal/domain/entity"
	"github.com/oksasatya/standup-tracker/internal/infrastructure/search"
	"github.com/oksasatya/standup-tracker/pkg/helpers"
)

type standupFixture struct {
	svc      *StandupService
	repo     *memStandups
	users    *memUsers
	searcher *fakeSearcher
	now      time.Time
}

func newStandupFixture(t *testing.T) *standupFixture {
	t.Helper()
	users := newMemUsers()
	repo := newMemStandups(users)
	searcher := &fakeSearcher{enabled: true}
	svc := NewStandupService(repo, searcher, helpers.NewNopLogger())
	now := time.Date(2026, 6, 10, 14, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	return &standupFixture{svc: svc, repo: repo, users: users, searcher: searcher, now: now}
}

func (f *standupFixture) addUser(t *testing.T, name string) string {
	t.Helper()
	u := &entity.User{Email: name + "@example.com", Password: "password123", Name: name}
	require.NoError(t, f.users.Create(context.Background(), u))
	return u.ID
}

func strPtr(s string) *string { return &s }

func statusPtr(s entity.StandupStatus) *entity.StandupStatus { return &s }

func TestStandupService_CreateDefaults(t *testing.T) {
	f := newStandupFixture(t)
	uid := f.addUser(t, "ann")

	got, err := f.svc.CreateStandup(context.Background(), uid, CreateStandupInput{Yesterday: "x", Today: "y"})
	require.NoError(t, err)
	assert.Equal(t, uid, got.UserID)
	assert.Equal(t, "draft", got.Status)
	assert.Equal(t, "None", got.Blockers)
	assert.Equal(t, "2026-06-10", got.Date)
	assert.Equal(t, []string{got.ID}, f.searcher.indexed)
}

func TestStandupService_SameDayCreatesCollapse(t *testing.T) {
	f := newStandupFixture(t)
	uid := f.addUser(t, "ann")
	ctx := context.Background()

	first, err := f.svc.CreateStandup(ctx, uid, CreateStandupInput{Yesterday: "x", Today: "y"})
	require.NoError(t, err)
	second, err := f.svc.CreateStandup(ctx, uid, CreateStandupInput{Yesterday: "x2", Today: "y2", Blockers: strPtr("CI is red")})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "x2", second.Yesterday)
	assert.Equal(t, "y2", second.Today)
	assert.Equal(t, "CI is red", second.Blockers)

	page, err := f.svc.GetStandups(ctx, StandupQuery{UserID: uid})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Pagination.Total)
}

func TestStandupService_CreateAfterSubmitIsConflict(t *testing.T) {
	f := newStandupFixture(t)
	uid := f.addUser(t, "ann")
	ctx := context.Background()

	_, err := f.svc.CreateStandup(ctx, uid, CreateStandupInput{Yesterday: "x", Today: "y", Status: statusPtr(entity.StandupSubmitted)})
	require.NoError(t, err)

	_, err = f.svc.CreateStandup(ctx, uid, CreateStandupInput{Yesterday: "again", Today: "again"})
	requireAppError(t, err, http.StatusConflict, "Standup already exists for this date")
}

func TestStandupService_CreateDateWindow(t *testing.T) {
	f := newStandupFixture(t)
	uid := f.addUser(t, "ann")
	ctx := context.Background()

	future := f.now.Add(24 * time.Hour)
	_, err := f.svc.CreateStandup(ctx, uid, CreateStandupInput{Yesterday: "x", Today: "y", Date: &future})
	requireAppError(t, err, http.StatusBadRequest, "")

	old := f.now.Add(-8 * 24 * time.Hour)
	_, err = f.svc.CreateStandup(ctx, uid, CreateStandupInput{Yesterday: "x", Today: "y", Date: &old})
	requireAppError(t, err, http.StatusBadRequest, "")

	backfill := f.now.Add(-2 * 24 * time.Hour)
	got, err := f.svc.CreateStandup(ctx, uid, CreateStandupInput{Yesterday: "x", Today: "y", Date: &backfill})
	require.NoError(t, err)
	assert.Equal(t, "2026-06-08", got.Date)
}

func TestStandupService_UpdateOwnership(t *testing.T) {
	f := newStandupFixture(t)
	owner := f.addUser(t, "ann")
	other := f.addUser(t, "bob")
	ctx := context.Background()

	created, err := f.svc.CreateStandup(ctx, owner, CreateStandupInput{Yesterday: "x", Today: "y"})
	require.NoError(t, err)

	_, err = f.svc.UpdateStandup(ctx, created.ID, other, entity.StandupPatch{Today: strPtr("hijack")})
	requireAppError(t, err, http.StatusNotFound, "Standup not found")

	_, err = f.svc.UpdateStandup(ctx, "missing", owner, entity.StandupPatch{Today: strPtr("nope")})
	requireAppError(t, err, http.StatusNotFound, "Standup not found")

	updated, err := f.svc.UpdateStandup(ctx, created.ID, owner, entity.StandupPatch{Today: strPtr("ship it"), Status: statusPtr(entity.StandupSubmitted)})
	require.NoError(t, err)
	assert.Equal(t, "ship it", updated.Today)
	assert.Equal(t, "x", updated.Yesterday)
	assert.Equal(t, "submitted", updated.Status)
	assert.False(t, updated.UpdatedAt.Before(updated.CreatedAt))
}

func TestStandupService_TeamViewDefaultsToToday(t *testing.T) {
	f := newStandupFixture(t)
	ann := f.addUser(t, "ann")
	bob := f.addUser(t, "bob")
	ctx := context.Background()

	yesterday := f.now.Add(-24 * time.Hour)
	_, err := f.svc.CreateStandup(ctx, ann, CreateStandupInput{Yesterday: "a", Today: "b", Date: &yesterday})
	require.NoError(t, err)
	_, err = f.svc.CreateStandup(ctx, ann, CreateStandupInput{Yesterday: "c", Today: "d"})
	require.NoError(t, err)
	_, err = f.svc.CreateStandup(ctx, bob, CreateStandupInput{Yesterday: "e", Today: "f"})
	require.NoError(t, err)

	page, err := f.svc.GetStandups(ctx, StandupQuery{})
	require.NoError(t, err)
	require.Len(t, page.Data, 2)
	for _, s := range page.Data {
		assert.Equal(t, "2026-06-10", s.Date)
		require.NotNil(t, s.User)
	}
}

func TestStandupService_HistoryViewPaginates(t *testing.T) {
	f := newStandupFixture(t)
	ann := f.addUser(t, "ann")
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		d := f.now.Add(-time.Duration(i) * 24 * time.Hour)
		_, err := f.svc.CreateStandup(ctx, ann, CreateStandupInput{Yesterday: "y", Today: "t", Date: &d, Status: statusPtr(entity.StandupSubmitted)})
		require.NoError(t, err)
	}

	page, err := f.svc.GetStandups(ctx, StandupQuery{UserID: ann, Limit: 2})
	require.NoError(t, err)
	require.Len(t, page.Data, 2)
	assert.Equal(t, "2026-06-10", page.Data[0].Date)
	assert.Equal(t, "2026-06-09", page.Data[1].Date)
	assert.Equal(t, entity.Pagination{Page: 1, Limit: 2, Total: 5, TotalPages: 3, HasMore: true}, page.Pagination)

	last, err := f.svc.GetStandups(ctx, StandupQuery{UserID: ann, Limit: 2, Page: 3})
	require.NoError(t, err)
	require.Len(t, last.Data, 1)
	assert.False(t, last.Pagination.HasMore)

	asc, err := f.svc.GetStandups(ctx, StandupQuery{UserID: ann, Order: "asc", Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, "2026-06-06", asc.Data[0].Date)
}

func TestStandupQuery_Filter(t *testing.T) {
	now := time.Date(2026, 6, 10, 23, 59, 0, 0, time.UTC)

	f, err := StandupQuery{Limit: 500, Sort: "bogus"}.Filter(now)
	require.NoError(t, err)
	assert.Equal(t, MaxLimit, f.Limit)
	assert.Equal(t, DefaultPage, f.Page)
	assert.Equal(t, entity.SortByDate, f.Sort)
	assert.True(t, f.Desc)
	require.NotNil(t, f.Date)
	assert.Equal(t, time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC), *f.Date)

	f, err = StandupQuery{UserID: "u1"}.Filter(now)
	require.NoError(t, err)
	assert.Nil(t, f.Date)

	f, err = StandupQuery{DateFrom: "2026-06-01"}.Filter(now)
	require.NoError(t, err)
	assert.Nil(t, f.Date)
	require.NotNil(t, f.DateFrom)

	_, err = StandupQuery{Date: "10/06/2026"}.Filter(now)
	requireAppError(t, err, http.StatusBadRequest, "Validation failed")

	_, err = StandupQuery{DateFrom: "2026-06-09", DateTo: "2026-06-01"}.Filter(now)
	requireAppError(t, err, http.StatusBadRequest, "Validation failed")
}

func TestStandupService_GetStandup(t *testing.T) {
	f := newStandupFixture(t)
	ann := f.addUser(t, "ann")
	ctx := context.Background()
	created, err := f.svc.CreateStandup(ctx, ann, CreateStandupInput{Yesterday: "x", Today: "y"})
	require.NoError(t, err)

	got, err := f.svc.GetStandup(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got.User)
	assert.Equal(t, "ann", got.User.Name)

	_, err = f.svc.GetStandup(ctx, "missing")
	requireAppError(t, err, http.StatusNotFound, "")
}

func TestStandupService_Search(t *testing.T) {
	f := newStandupFixture(t)
	f.searcher.SearchF = func(_ context.Context, q, userID string, size int) ([]search.Hit, error) {
		assert.Equal(t, "deploy", q)
		assert.Equal(t, "u1", userID)
		return []search.Hit{{ID: "s1"}}, nil
	}
	hits, err := f.svc.SearchStandups(context.Background(), "deploy", "u1", 5)
	require.NoError(t, err)
	assert.Len(t, hits, 1)

	f.searcher.SearchF = func(context.Context, string, string, int) ([]search.Hit, error) {
		return nil, errors.New("es down")
	}
	_, err = f.svc.SearchStandups(context.Background(), "deploy", "", 5)
	requireAppError(t, err, http.StatusInternalServerError, "")

	f.searcher.enabled = false
	hits, err = f.svc.SearchStandups(context.Background(), "deploy", "", 5)
	require.NoError(t, err)
	assert.Empty(t, hits)
}
