package entity

import (
	"time"
)

type UserStatus string

const (
	UserActive   UserStatus = "active"
	UserInactive UserStatus = "inactive"
)

// User is the aggregate root for user domain
// Password holds the bcrypt hash and is only loaded by the credential lookups.
type User struct {
	ID           string
	Email        string
	Password     string
	Name         string
	Timezone     string
	ProfileImage *string
	Status       UserStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (u *User) IsActive() bool { return u.Status == UserActive }

// UserUpdate carries the mutable user fields; nil means unchanged.
type UserUpdate struct {
	Name         *string
	Timezone     *string
	ProfileImage *string
	Status       *UserStatus
}
