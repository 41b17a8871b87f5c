package handlers

import (
	"context"
	"io"

	"github.com/oksasatya/standup-tracker/internal/application"
	"github.com/oksasatya/standup-tracker/internal/domain/entity"
	"github.com/oksasatya/standup-tracker/internal/infrastructure/search"
)

type fakeAuthService struct {
	RegisterF       func(ctx context.Context, in application.RegisterInput, meta application.ClientMeta) (*application.AuthResult, error)
	LoginF          func(ctx context.Context, email, password string, meta application.ClientMeta) (*application.AuthResult, error)
	LogoutF         func(ctx context.Context, refreshToken string) error
	RefreshTokenF   func(ctx context.Context, oldToken string, meta application.ClientMeta) (application.TokenPair, error)
	LogoutAllF      func(ctx context.Context, userID string, meta application.ClientMeta) error
	GetCurrentUserF func(ctx context.Context, userID string) (*application.UserDTO, error)
	ListSessionsF   func(ctx context.Context, userID string) ([]application.SessionDTO, error)
}

func (f *fakeAuthService) Register(ctx context.Context, in application.RegisterInput, meta application.ClientMeta) (*application.AuthResult, error) {
	return f.RegisterF(ctx, in, meta)
}

func (f *fakeAuthService) Login(ctx context.Context, email, password string, meta application.ClientMeta) (*application.AuthResult, error) {
	return f.LoginF(ctx, email, password, meta)
}

func (f *fakeAuthService) Logout(ctx context.Context, refreshToken string) error {
	return f.LogoutF(ctx, refreshToken)
}

func (f *fakeAuthService) RefreshToken(ctx context.Context, oldToken string, meta application.ClientMeta) (application.TokenPair, error) {
	return f.RefreshTokenF(ctx, oldToken, meta)
}

func (f *fakeAuthService) LogoutAll(ctx context.Context, userID string, meta application.ClientMeta) error {
	return f.LogoutAllF(ctx, userID, meta)
}

func (f *fakeAuthService) GetCurrentUser(ctx context.Context, userID string) (*application.UserDTO, error) {
	return f.GetCurrentUserF(ctx, userID)
}

func (f *fakeAuthService) ListSessions(ctx context.Context, userID string) ([]application.SessionDTO, error) {
	return f.ListSessionsF(ctx, userID)
}

type fakeStandupService struct {
	CreateF func(ctx context.Context, userID string, in application.CreateStandupInput) (*application.StandupDTO, error)
	UpdateF func(ctx context.Context, id, userID string, patch entity.StandupPatch) (*application.StandupDTO, error)
	GetF    func(ctx context.Context, id string) (*application.StandupDTO, error)
	ListF   func(ctx context.Context, q application.StandupQuery) (*application.StandupListDTO, error)
	SearchF func(ctx context.Context, q, userID string, size int) ([]search.Hit, error)
}

func (f *fakeStandupService) CreateStandup(ctx context.Context, userID string, in application.CreateStandupInput) (*application.StandupDTO, error) {
	return f.CreateF(ctx, userID, in)
}

func (f *fakeStandupService) UpdateStandup(ctx context.Context, id, userID string, patch entity.StandupPatch) (*application.StandupDTO, error) {
	return f.UpdateF(ctx, id, userID, patch)
}

func (f *fakeStandupService) GetStandup(ctx context.Context, id string) (*application.StandupDTO, error) {
	return f.GetF(ctx, id)
}

func (f *fakeStandupService) GetStandups(ctx context.Context, q application.StandupQuery) (*application.StandupListDTO, error) {
	return f.ListF(ctx, q)
}

func (f *fakeStandupService) SearchStandups(ctx context.Context, q, userID string, size int) ([]search.Hit, error) {
	return f.SearchF(ctx, q, userID, size)
}

type fakeUserService struct {
	ListActiveF    func(ctx context.Context) ([]application.UserDTO, error)
	GetProfileF    func(ctx context.Context, userID string) (*application.UserDTO, error)
	UpdateProfileF func(ctx context.Context, userID string, in application.UpdateProfileInput) (*application.UserDTO, error)
	DeactivateF    func(ctx context.Context, userID string, meta application.ClientMeta) error
	UploadAvatarF  func(ctx context.Context, userID string, r io.Reader, filename, contentType string, size int64) (*application.UserDTO, error)
}

func (f *fakeUserService) ListActive(ctx context.Context) ([]application.UserDTO, error) {
	return f.ListActiveF(ctx)
}

func (f *fakeUserService) GetProfile(ctx context.Context, userID string) (*application.UserDTO, error) {
	return f.GetProfileF(ctx, userID)
}

func (f *fakeUserService) UpdateProfile(ctx context.Context, userID string, in application.UpdateProfileInput) (*application.UserDTO, error) {
	return f.UpdateProfileF(ctx, userID, in)
}

func (f *fakeUserService) Deactivate(ctx context.Context, userID string, meta application.ClientMeta) error {
	return f.DeactivateF(ctx, userID, meta)
}

func (f *fakeUserService) UploadAvatar(ctx context.Context, userID string, r io.Reader, filename, contentType string, size int64) (*application.UserDTO, error) {
	return f.UploadAvatarF(ctx, userID, r, filename, contentType, size)
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }
