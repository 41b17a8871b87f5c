package application

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/oksasatya/standup-tracker/internal/domain/entity"
	repo "github.com/oksasatya/standup-tracker/internal/domain/repository"
	"github.com/oksasatya/standup-tracker/internal/infrastructure/search"
	"github.com/oksasatya/standup-tracker/pkg/helpers"
)

type memUsers struct {
	mu    sync.Mutex
	seq   int
	users map[string]entity.User
}

func newMemUsers() *memUsers { return &memUsers{users: map[string]entity.User{}} }

func (m *memUsers) Create(_ context.Context, u *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return repo.ErrDuplicate
		}
	}
	if !helpers.IsPasswordHash(u.Password) {
		hash, err := helpers.HashPassword(u.Password)
		if err != nil {
			return err
		}
		u.Password = hash
	}
	m.seq++
	u.ID = fmt.Sprintf("user-%d", m.seq)
	if u.Status == "" {
		u.Status = entity.UserActive
	}
	if u.Timezone == "" {
		u.Timezone = "UTC"
	}
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	m.users[u.ID] = *u
	return nil
}

func (m *memUsers) GetByID(_ context.Context, id string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	u.Password = ""
	return &u, nil
}

func (m *memUsers) find(email string) (*entity.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range m.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, err := m.find(email)
	if err != nil {
		return nil, err
	}
	u.Password = ""
	return u, nil
}

func (m *memUsers) GetByEmailWithPassword(_ context.Context, email string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.find(email)
}

func (m *memUsers) Update(_ context.Context, id string, upd entity.UserUpdate) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	if upd.Name != nil {
		u.Name = *upd.Name
	}
	if upd.Timezone != nil {
		u.Timezone = *upd.Timezone
	}
	if upd.ProfileImage != nil {
		img := *upd.ProfileImage
		u.ProfileImage = &img
	}
	if upd.Status != nil {
		u.Status = *upd.Status
	}
	u.UpdatedAt = time.Now()
	m.users[id] = u
	u.Password = ""
	return &u, nil
}

func (m *memUsers) SoftDelete(ctx context.Context, id string) error {
	inactive := entity.UserInactive
	_, err := m.Update(ctx, id, entity.UserUpdate{Status: &inactive})
	return err
}

func (m *memUsers) ListActive(_ context.Context) ([]entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []entity.User{}
	for _, u := range m.users {
		if u.Status == entity.UserActive {
			u.Password = ""
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memUsers) Ping(context.Context) error { return nil }

// stored returns the raw row, password hash included.
func (m *memUsers) stored(id string) entity.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.users[id]
}

type memTokens struct {
	mu     sync.Mutex
	tokens map[string]entity.RefreshToken
}

func newMemTokens() *memTokens { return &memTokens{tokens: map[string]entity.RefreshToken{}} }

func (m *memTokens) Create(_ context.Context, t *entity.RefreshToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tokens[t.Token]; ok {
		return repo.ErrDuplicate
	}
	t.ID = fmt.Sprintf("rt-%d", len(m.tokens)+1)
	t.CreatedAt = time.Now()
	m.tokens[t.Token] = *t
	return nil
}

func (m *memTokens) Find(_ context.Context, token string) (*entity.RefreshToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tokens[token]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &t, nil
}

func (m *memTokens) FindByUser(_ context.Context, userID string, now time.Time) ([]entity.RefreshToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]entity.RefreshToken, 0)
	for _, t := range m.tokens {
		if t.UserID == userID && !t.Expired(now) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastUsedAt.After(out[j].LastUsedAt) })
	return out, nil
}

func (m *memTokens) Touch(_ context.Context, token string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.tokens[token]; ok {
		t.LastUsedAt = at
		m.tokens[token] = t
	}
	return nil
}

func (m *memTokens) Delete(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tokens, token)
	return nil
}

func (m *memTokens) DeleteByUser(_ context.Context, userID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for k, t := range m.tokens {
		if t.UserID == userID {
			delete(m.tokens, k)
			n++
		}
	}
	return n, nil
}

func (m *memTokens) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for k, t := range m.tokens {
		if t.Expired(now) {
			delete(m.tokens, k)
			n++
		}
	}
	return n, nil
}

func (m *memTokens) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tokens)
}

type memStandups struct {
	mu       sync.Mutex
	seq      int
	standups map[string]entity.Standup
	users    *memUsers
}

func newMemStandups(users *memUsers) *memStandups {
	return &memStandups{standups: map[string]entity.Standup{}, users: users}
}

func (m *memStandups) CreateOrUpdateDraft(_ context.Context, s *entity.Standup) (*entity.Standup, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	day := entity.DayStart(s.Date)
	now := time.Now()
	for id, existing := range m.standups {
		if existing.UserID == s.UserID && existing.Date.Equal(day) {
			if existing.Status != entity.StandupDraft {
				return nil, repo.ErrDaySubmitted
			}
			existing.Yesterday, existing.Today, existing.Blockers, existing.Status = s.Yesterday, s.Today, s.Blockers, s.Status
			existing.UpdatedAt = now
			m.standups[id] = existing
			return &existing, nil
		}
	}
	m.seq++
	out := *s
	out.ID = fmt.Sprintf("standup-%d", m.seq)
	out.Date = day
	out.CreatedAt = now
	out.UpdatedAt = out.CreatedAt
	m.standups[out.ID] = out
	return &out, nil
}

func (m *memStandups) withOwner(s entity.Standup) entity.Standup {
	if m.users != nil {
		u := m.users.stored(s.UserID)
		s.Owner = &entity.StandupOwner{Name: u.Name, Email: u.Email, ProfileImage: u.ProfileImage}
	}
	return s
}

func (m *memStandups) FindByID(_ context.Context, id string) (*entity.Standup, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.standups[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	s = m.withOwner(s)
	return &s, nil
}

func (m *memStandups) FindOwned(_ context.Context, id, userID string) (*entity.Standup, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.standups[id]
	if !ok || s.UserID != userID {
		return nil, repo.ErrNotFound
	}
	return &s, nil
}

func (m *memStandups) FindByUserAndDate(_ context.Context, userID string, day time.Time) (*entity.Standup, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.standups {
		if s.UserID == userID && s.Date.Equal(entity.DayStart(day)) {
			s := s
			return &s, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (m *memStandups) Update(_ context.Context, id, userID string, p entity.StandupPatch) (*entity.Standup, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.standups[id]
	if !ok || s.UserID != userID {
		return nil, repo.ErrNotFound
	}
	if p.Yesterday != nil {
		s.Yesterday = *p.Yesterday
	}
	if p.Today != nil {
		s.Today = *p.Today
	}
	if p.Blockers != nil {
		s.Blockers = *p.Blockers
	}
	if p.Status != nil {
		s.Status = *p.Status
	}
	s.UpdatedAt = time.Now()
	m.standups[id] = s
	return &s, nil
}

func (m *memStandups) FindStandups(_ context.Context, f entity.StandupFilter) (*entity.StandupPage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var matched []entity.Standup
	for _, s := range m.standups {
		if f.UserID != "" && s.UserID != f.UserID {
			continue
		}
		if f.Status != "" && s.Status != f.Status {
			continue
		}
		if f.Date != nil && !s.Date.Equal(entity.DayStart(*f.Date)) {
			continue
		}
		if f.Date == nil && f.DateFrom != nil && s.Date.Before(entity.DayStart(*f.DateFrom)) {
			continue
		}
		if f.Date == nil && f.DateTo != nil && s.Date.After(entity.DayStart(*f.DateTo)) {
			continue
		}
		matched = append(matched, m.withOwner(s))
	}
	key := func(s entity.Standup) time.Time {
		switch f.Sort {
		case entity.SortByCreatedAt:
			return s.CreatedAt
		case entity.SortByUpdatedAt:
			return s.UpdatedAt
		default:
			return s.Date
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		if f.Desc {
			return key(matched[i]).After(key(matched[j]))
		}
		return key(matched[i]).Before(key(matched[j]))
	})
	total := len(matched)
	start := f.Offset()
	if start > total {
		start = total
	}
	end := start + f.Limit
	if end > total {
		end = total
	}
	return &entity.StandupPage{Items: matched[start:end], Pagination: entity.NewPagination(f.Page, f.Limit, total)}, nil
}

type recordingPublisher struct {
	mu   sync.Mutex
	jobs []any
	err  error
}

func (p *recordingPublisher) PublishJSON(_ context.Context, body any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.jobs = append(p.jobs, body)
	return nil
}

type fakeSearcher struct {
	enabled bool
	indexed []string
	SearchF func(ctx context.Context, q, userID string, size int) ([]search.Hit, error)
}

func (f *fakeSearcher) Enabled() bool { return f.enabled }

func (f *fakeSearcher) IndexStandup(_ context.Context, s *entity.Standup) error {
	f.indexed = append(f.indexed, s.ID)
	return nil
}

func (f *fakeSearcher) Search(ctx context.Context, q, userID string, size int) ([]search.Hit, error) {
	if f.SearchF != nil {
		return f.SearchF(ctx, q, userID, size)
	}
	return nil, nil
}

type fakeUploader struct {
	path        string
	contentType string
	body        string
	err         error
}

func (f *fakeUploader) Upload(_ context.Context, objectPath, contentType string, r io.Reader) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	b, _ := io.ReadAll(r)
	f.path, f.contentType, f.body = objectPath, contentType, string(b)
	return helpers.PublicURL("bucket", objectPath), nil
}
