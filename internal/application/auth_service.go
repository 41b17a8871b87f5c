package application

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/standup-tracker/internal/domain/entity"
	repo "github.com/oksasatya/standup-tracker/internal/domain/repository"
	"github.com/oksasatya/standup-tracker/pkg/apperror"
	"github.com/oksasatya/standup-tracker/pkg/helpers"
	"github.com/oksasatya/standup-tracker/pkg/mailer"
	mailtpl "github.com/oksasatya/standup-tracker/pkg/mailer/templates"
)

const (
	msgInvalidCredentials  = "Invalid credentials"
	msgInvalidRefreshToken = "Invalid refresh token"
	msgRefreshTokenExpired = "Refresh token expired"
	msgUserExists          = "User already exists"
	msgUserNotFound        = "User not found"
)

// JobPublisher enqueues background jobs; *helpers.RabbitPublisher satisfies it.
type JobPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

type AuthService struct {
	Users  repo.UserRepository
	Tokens repo.RefreshTokenRepository
	JWT    *helpers.JWTManager
	Redis  *redis.Client
	Jobs   JobPublisher
	Logger *logrus.Logger

	AppName string
	AppURL  string

	now func() time.Time
}

func NewAuthService(users repo.UserRepository, tokens repo.RefreshTokenRepository, jwt *helpers.JWTManager, rdb *redis.Client, jobs JobPublisher, logger *logrus.Logger) *AuthService {
	return &AuthService{
		Users:  users,
		Tokens: tokens,
		JWT:    jwt,
		Redis:  rdb,
		Jobs:   jobs,
		Logger: logger,
		now:    time.Now,
	}
}

func (s *AuthService) clock() time.Time {
	if s.now == nil {
		return time.Now()
	}
	return s.now()
}

type RegisterInput struct {
	Email        string
	Password     string
	Name         string
	Timezone     string
	ProfileImage *string
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput, meta ClientMeta) (*AuthResult, error) {
	if _, err := s.Users.GetByEmail(ctx, in.Email); err == nil {
		return nil, apperror.Conflict(msgUserExists)
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, apperror.Internal("failed to register user", err)
	}

	u := &entity.User{
		Email:        in.Email,
		Password:     in.Password,
		Name:         in.Name,
		Timezone:     in.Timezone,
		ProfileImage: in.ProfileImage,
		Status:       entity.UserActive,
	}
	if err := s.Users.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, apperror.Conflict(msgUserExists)
		}
		return nil, apperror.Internal("failed to register user", err)
	}

	pair, err := s.issueTokens(ctx, u, meta)
	if err != nil {
		return nil, err
	}
	metricRegistrations.Add(1)

	s.enqueueEmail(ctx, u, mailtpl.Welcome, mailtpl.NewWelcomeData(s.AppName, u.Name, u.Email, u.Timezone,
		mailtpl.WithAppURL(s.AppURL), mailtpl.WithTime(s.clock())))

	return &AuthResult{User: ToUserDTO(u), Tokens: pair}, nil
}

// Login answers unknown email, inactive account and wrong password identically.
func (s *AuthService) Login(ctx context.Context, email, password string, meta ClientMeta) (*AuthResult, error) {
	u, err := s.Users.GetByEmailWithPassword(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			metricLoginFailures.Add(1)
			return nil, apperror.Unauthorized(msgInvalidCredentials)
		}
		return nil, apperror.Internal("failed to login", err)
	}
	if !u.IsActive() || !helpers.CompareHashAndPassword(u.Password, password) {
		metricLoginFailures.Add(1)
		return nil, apperror.Unauthorized(msgInvalidCredentials)
	}

	pair, err := s.issueTokens(ctx, u, meta)
	if err != nil {
		return nil, err
	}
	metricLogins.Add(1)
	return &AuthResult{User: ToUserDTO(u), Tokens: pair}, nil
}

// Logout is idempotent.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	if err := s.Tokens.Delete(ctx, refreshToken); err != nil {
		return apperror.Internal("failed to logout", err)
	}
	return nil
}

// RefreshToken rotates the presented refresh token: the old one is deleted and never accepted again.
func (s *AuthService) RefreshToken(ctx context.Context, oldToken string, meta ClientMeta) (TokenPair, error) {
	if oldToken == "" {
		return TokenPair{}, apperror.Unauthorized(msgInvalidRefreshToken)
	}
	stored, err := s.Tokens.Find(ctx, oldToken)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return TokenPair{}, apperror.Unauthorized(msgInvalidRefreshToken)
		}
		return TokenPair{}, apperror.Internal("failed to refresh token", err)
	}
	now := s.clock()
	if stored.Expired(now) {
		if err := s.Tokens.Delete(ctx, oldToken); err != nil {
			helpers.LogWarn(s.Logger, "delete expired refresh token failed", err, logrus.Fields{"user_id": stored.UserID})
		}
		return TokenPair{}, apperror.Unauthorized(msgRefreshTokenExpired)
	}
	if _, err := s.JWT.ParseRefreshToken(oldToken); err != nil {
		return TokenPair{}, apperror.Unauthorized(msgInvalidRefreshToken)
	}
	if err := s.Tokens.Touch(ctx, oldToken, now); err != nil {
		helpers.LogWarn(s.Logger, "touch refresh token failed", err, logrus.Fields{"user_id": stored.UserID})
	}

	u, err := s.Users.GetByID(ctx, stored.UserID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return TokenPair{}, apperror.NotFound(msgUserNotFound)
		}
		return TokenPair{}, apperror.Internal("failed to refresh token", err)
	}

	if err := s.Tokens.Delete(ctx, oldToken); err != nil {
		return TokenPair{}, apperror.Internal("failed to rotate refresh token", err)
	}
	if meta.UserAgent == "" {
		meta.UserAgent = stored.UserAgent
	}
	pair, err := s.issueTokens(ctx, u, meta)
	if err != nil {
		return TokenPair{}, err
	}
	metricTokenRefreshes.Add(1)
	return pair, nil
}

// LogoutAll deletes every refresh token of the user and rejects access tokens issued before now.
func (s *AuthService) LogoutAll(ctx context.Context, userID string, meta ClientMeta) error {
	n, err := s.Tokens.DeleteByUser(ctx, userID)
	if err != nil {
		return apperror.Internal("failed to logout", err)
	}
	now := s.clock()
	if s.Redis != nil {
		if err := helpers.MarkUserRevoked(ctx, s.Redis, userID, now, s.JWT.AccessTTL); err != nil {
			helpers.LogError(s.Logger, "mark user revoked failed", err, logrus.Fields{"user_id": userID})
		}
	}
	helpers.LogInfo(s.Logger, "user signed out everywhere", logrus.Fields{"user_id": userID, "tokens": n})

	if u, err := s.Users.GetByID(ctx, userID); err == nil {
		s.enqueueEmail(ctx, u, mailtpl.SignedOutAll, mailtpl.NewSignedOutAllData(s.AppName, u.Name, u.Email, u.Timezone,
			mailtpl.WithIP(meta.IP), mailtpl.WithUserAgent(meta.UserAgent), mailtpl.WithTime(now)))
	}
	return nil
}

// ListSessions returns the devices currently holding a valid refresh token.
func (s *AuthService) ListSessions(ctx context.Context, userID string) ([]SessionDTO, error) {
	tokens, err := s.Tokens.FindByUser(ctx, userID, s.clock())
	if err != nil {
		return nil, apperror.Internal("failed to list sessions", err)
	}
	out := make([]SessionDTO, 0, len(tokens))
	for i := range tokens {
		out = append(out, ToSessionDTO(&tokens[i]))
	}
	return out, nil
}

func (s *AuthService) GetCurrentUser(ctx context.Context, userID string) (*UserDTO, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, apperror.NotFound(msgUserNotFound)
		}
		return nil, apperror.Internal("failed to load user", err)
	}
	dto := ToUserDTO(u)
	return &dto, nil
}

// issueTokens signs a new pair and persists the refresh token.
func (s *AuthService) issueTokens(ctx context.Context, u *entity.User, meta ClientMeta) (TokenPair, error) {
	access, aexp, err := s.JWT.GenerateAccessToken(u.ID, u.Email)
	if err != nil {
		helpers.LogError(s.Logger, "generate access token failed", err, logrus.Fields{"user_id": u.ID})
		return TokenPair{}, apperror.Internal("failed to issue tokens", err)
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken()
	if err != nil {
		helpers.LogError(s.Logger, "generate refresh token failed", err, logrus.Fields{"user_id": u.ID})
		return TokenPair{}, apperror.Internal("failed to issue tokens", err)
	}

	rt := &entity.RefreshToken{
		UserID:     u.ID,
		Token:      refresh,
		UserAgent:  meta.UserAgent,
		IPAddress:  meta.IP,
		LastUsedAt: s.clock(),
		ExpiresAt:  rexp,
	}
	if err := s.Tokens.Create(ctx, rt); err != nil {
		return TokenPair{}, apperror.Internal("failed to persist refresh token", err)
	}
	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

// enqueueEmail is best effort; a broken queue never fails the request.
func (s *AuthService) enqueueEmail(ctx context.Context, u *entity.User, template string, data map[string]any) {
	enqueueEmail(ctx, s.Jobs, s.Logger, u, template, data)
}

func enqueueEmail(ctx context.Context, jobs JobPublisher, logger *logrus.Logger, u *entity.User, template string, data map[string]any) {
	if jobs == nil {
		return
	}
	job := mailer.EmailJob{To: u.Email, Template: template, Data: data}
	c, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := jobs.PublishJSON(c, job); err != nil {
		helpers.LogWarn(logger, "enqueue email failed", err, logrus.Fields{"user_id": u.ID, "template": template})
	}
}
