package application

import (
	"time"

	"github.com/oksasatya/standup-tracker/internal/domain/entity"
	"github.com/oksasatya/standup-tracker/pkg/validation"
)

// UserDTO is the public view of a user. It never carries the password.
type UserDTO struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Timezone     string    `json:"timezone"`
	ProfileImage *string   `json:"profileImage"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func ToUserDTO(u *entity.User) UserDTO {
	return UserDTO{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		Timezone:     u.Timezone,
		ProfileImage: u.ProfileImage,
		Status:       string(u.Status),
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

type StandupOwnerDTO struct {
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	ProfileImage *string `json:"profileImage"`
}

type StandupDTO struct {
	ID        string           `json:"id"`
	UserID    string           `json:"userId"`
	Date      string           `json:"date"`
	Yesterday string           `json:"yesterday"`
	Today     string           `json:"today"`
	Blockers  string           `json:"blockers"`
	Status    string           `json:"status"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
	User      *StandupOwnerDTO `json:"user,omitempty"`
}

func ToStandupDTO(s *entity.Standup) StandupDTO {
	dto := StandupDTO{
		ID:        s.ID,
		UserID:    s.UserID,
		Date:      s.Date.UTC().Format(validation.DateLayout),
		Yesterday: s.Yesterday,
		Today:     s.Today,
		Blockers:  s.Blockers,
		Status:    string(s.Status),
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
	if s.Owner != nil {
		dto.User = &StandupOwnerDTO{Name: s.Owner.Name, Email: s.Owner.Email, ProfileImage: s.Owner.ProfileImage}
	}
	return dto
}

type StandupListDTO struct {
	Data       []StandupDTO      `json:"data"`
	Pagination entity.Pagination `json:"pagination"`
}

// SessionDTO describes one signed-in device. The token itself is never exposed.
type SessionDTO struct {
	ID         string    `json:"id"`
	UserAgent  string    `json:"userAgent"`
	IPAddress  string    `json:"ipAddress"`
	LastUsedAt time.Time `json:"lastUsedAt"`
	ExpiresAt  time.Time `json:"expiresAt"`
	CreatedAt  time.Time `json:"createdAt"`
}

func ToSessionDTO(t *entity.RefreshToken) SessionDTO {
	return SessionDTO{
		ID:         t.ID,
		UserAgent:  t.UserAgent,
		IPAddress:  t.IPAddress,
		LastUsedAt: t.LastUsedAt,
		ExpiresAt:  t.ExpiresAt,
		CreatedAt:  t.CreatedAt,
	}
}

type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

type AuthResult struct {
	User   UserDTO
	Tokens TokenPair
}

// ClientMeta is recorded with every refresh token issued.
type ClientMeta struct {
	UserAgent string
	IP        string
}
