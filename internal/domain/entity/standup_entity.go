package entity

import (
	"time"
)

type StandupStatus string

const (
	StandupDraft     StandupStatus = "draft"
	StandupSubmitted StandupStatus = "submitted"

	DefaultBlockers = "None"
)

// Standup is one user's report for one calendar day (UTC).
type Standup struct {
	ID        string
	UserID    string
	Date      time.Time
	Yesterday string
	Today     string
	Blockers  string
	Status    StandupStatus
	CreatedAt time.Time
	UpdatedAt time.Time

	// Owner is populated by list queries.
	Owner *StandupOwner
}

type StandupOwner struct {
	Name         string
	Email        string
	ProfileImage *string
}

// StandupPatch is a partial update; nil fields are left untouched.
type StandupPatch struct {
	Yesterday *string
	Today     *string
	Blockers  *string
	Status    *StandupStatus
}

type StandupSort string

const (
	SortByDate      StandupSort = "date"
	SortByCreatedAt StandupSort = "createdAt"
	SortByUpdatedAt StandupSort = "updatedAt"
)

// StandupFilter selects standups. Date wins over DateFrom/DateTo.
type StandupFilter struct {
	UserID   string
	Date     *time.Time
	DateFrom *time.Time
	DateTo   *time.Time
	Status   StandupStatus
	Page     int
	Limit    int
	Sort     StandupSort
	Desc     bool
}

func (f StandupFilter) Offset() int {
	if f.Page < 1 {
		return 0
	}
	return (f.Page - 1) * f.Limit
}

type Pagination struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasMore    bool `json:"hasMore"`
}

// NewPagination derives totalPages = ceil(total/limit) and hasMore = page < totalPages.
func NewPagination(page, limit, total int) Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasMore:    page < totalPages,
	}
}

type StandupPage struct {
	Items      []Standup
	Pagination Pagination
}

// DayStart truncates t to midnight UTC.
func DayStart(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
