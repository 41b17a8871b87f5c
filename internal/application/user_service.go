package application

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/standup-tracker/internal/domain/entity"
	repo "github.com/oksasatya/standup-tracker/internal/domain/repository"
	"github.com/oksasatya/standup-tracker/pkg/apperror"
	"github.com/oksasatya/standup-tracker/pkg/helpers"
	mailtpl "github.com/oksasatya/standup-tracker/pkg/mailer/templates"
	"github.com/oksasatya/standup-tracker/pkg/validation"
)

const MaxAvatarBytes = 5 << 20

// ObjectUploader stores a blob and returns its public URL; *helpers.GCSUploader satisfies it.
type ObjectUploader interface {
	Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error)
}

// SessionRevoker ends every session of a user.
type SessionRevoker interface {
	LogoutAll(ctx context.Context, userID string, meta ClientMeta) error
}

type UserService struct {
	Repo     repo.UserRepository
	Storage  ObjectUploader
	Sessions SessionRevoker
	Jobs     JobPublisher
	Logger   *logrus.Logger

	AppName string

	now func() time.Time
}

func NewUserService(r repo.UserRepository, storage ObjectUploader, sessions SessionRevoker, jobs JobPublisher, logger *logrus.Logger) *UserService {
	return &UserService{Repo: r, Storage: storage, Sessions: sessions, Jobs: jobs, Logger: logger, now: time.Now}
}

func (s *UserService) clock() time.Time {
	if s.now == nil {
		return time.Now()
	}
	return s.now()
}

func (s *UserService) ListActive(ctx context.Context) ([]UserDTO, error) {
	users, err := s.Repo.ListActive(ctx)
	if err != nil {
		return nil, apperror.Internal("failed to list users", err)
	}
	out := make([]UserDTO, 0, len(users))
	for i := range users {
		out = append(out, ToUserDTO(&users[i]))
	}
	return out, nil
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*UserDTO, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		return nil, userLookupError(err)
	}
	dto := ToUserDTO(u)
	return &dto, nil
}

type UpdateProfileInput struct {
	Name         *string
	Timezone     *string
	ProfileImage *string
}

func (s *UserService) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*UserDTO, error) {
	u, err := s.Repo.Update(ctx, userID, entity.UserUpdate{
		Name:         in.Name,
		Timezone:     in.Timezone,
		ProfileImage: in.ProfileImage,
	})
	if err != nil {
		return nil, userLookupError(err)
	}
	dto := ToUserDTO(u)
	return &dto, nil
}

// Deactivate soft-deletes the user and ends all of their sessions.
func (s *UserService) Deactivate(ctx context.Context, userID string, meta ClientMeta) error {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		return userLookupError(err)
	}
	if err := s.Repo.SoftDelete(ctx, userID); err != nil {
		return userLookupError(err)
	}
	if s.Sessions != nil {
		if err := s.Sessions.LogoutAll(ctx, userID, meta); err != nil {
			return err
		}
	}
	enqueueEmail(ctx, s.Jobs, s.Logger, u, mailtpl.AccountDisabled,
		mailtpl.NewAccountDisabledData(s.AppName, u.Name, u.Email, u.Timezone, mailtpl.WithTime(s.clock())))
	return nil
}

// UploadAvatar stores an image and points the user's profileImage at it.
func (s *UserService) UploadAvatar(ctx context.Context, userID string, r io.Reader, filename, contentType string, size int64) (*UserDTO, error) {
	if !strings.HasPrefix(contentType, "image/") {
		return nil, apperror.Validation("Validation failed", []validation.FieldError{{Field: "file", Message: "must be an image"}})
	}
	if size > MaxAvatarBytes {
		return nil, apperror.Validation("Validation failed", []validation.FieldError{{Field: "file", Message: "must be at most 5 MiB"}})
	}
	if _, err := s.Repo.GetByID(ctx, userID); err != nil {
		return nil, userLookupError(err)
	}
	if s.Storage == nil {
		return nil, apperror.Internal("failed to upload avatar", errors.New("object storage not configured"))
	}

	objectPath := helpers.AvatarObjectPath(userID, filename, s.clock())
	url, err := s.Storage.Upload(ctx, objectPath, contentType, io.LimitReader(r, MaxAvatarBytes))
	if err != nil {
		return nil, apperror.Internal("failed to upload avatar", err)
	}
	return s.UpdateProfile(ctx, userID, UpdateProfileInput{ProfileImage: &url})
}

func userLookupError(err error) error {
	if errors.Is(err, repo.ErrNotFound) {
		return apperror.NotFound(msgUserNotFound)
	}
	return apperror.Internal("user operation failed", err)
}
