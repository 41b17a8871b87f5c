package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/standup-tracker/internal/application"
	"github.com/oksasatya/standup-tracker/internal/domain/entity"
	"github.com/oksasatya/standup-tracker/internal/infrastructure/search"
	"github.com/oksasatya/standup-tracker/internal/interface/middleware"
	"github.com/oksasatya/standup-tracker/pkg/response"
	"github.com/oksasatya/standup-tracker/pkg/validation"
)

// StandupService is implemented by *application.StandupService.
type StandupService interface {
	CreateStandup(ctx context.Context, userID string, in application.CreateStandupInput) (*application.StandupDTO, error)
	UpdateStandup(ctx context.Context, id, userID string, patch entity.StandupPatch) (*application.StandupDTO, error)
	GetStandup(ctx context.Context, id string) (*application.StandupDTO, error)
	GetStandups(ctx context.Context, q application.StandupQuery) (*application.StandupListDTO, error)
	SearchStandups(ctx context.Context, q, userID string, size int) ([]search.Hit, error)
}

type StandupHandler struct {
	errorWriter
	Svc StandupService
}

func NewStandupHandler(svc StandupService, logger *logrus.Logger, exposeInternal bool) *StandupHandler {
	return &StandupHandler{errorWriter: errorWriter{Logger: logger, ExposeInternal: exposeInternal}, Svc: svc}
}

type createStandupRequest struct {
	Yesterday string  `json:"yesterday" binding:"required,min=1,max=1000,markdown"`
	Today     string  `json:"today" binding:"required,min=1,max=1000,markdown"`
	Blockers  *string `json:"blockers" binding:"omitempty,max=1000,markdown"`
	Status    *string `json:"status" binding:"omitempty,standup_status"`
	Date      string  `json:"date" binding:"omitempty,isodate"`
}

type updateStandupRequest struct {
	Yesterday *string `json:"yesterday" binding:"omitempty,min=1,max=1000,markdown"`
	Today     *string `json:"today" binding:"omitempty,min=1,max=1000,markdown"`
	Blockers  *string `json:"blockers" binding:"omitempty,max=1000,markdown"`
	Status    *string `json:"status" binding:"omitempty,standup_status"`
}

type standupURI struct {
	ID string `uri:"id" binding:"required,uuid"`
}

type listStandupsQuery struct {
	UserID   string `form:"userId" binding:"omitempty,uuid"`
	Date     string `form:"date" binding:"omitempty,isodate"`
	DateFrom string `form:"dateFrom" binding:"omitempty,isodate"`
	DateTo   string `form:"dateTo" binding:"omitempty,isodate"`
	Status   string `form:"status" binding:"omitempty,standup_status"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	Limit    int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Sort     string `form:"sort" binding:"omitempty,oneof=date createdAt updatedAt"`
	Order    string `form:"order" binding:"omitempty,oneof=asc desc"`
}

type searchStandupsQuery struct {
	Q      string `form:"q" binding:"required,min=1,max=200"`
	UserID string `form:"userId" binding:"omitempty,uuid"`
	Size   int    `form:"size" binding:"omitempty,min=1,max=50"`
}

func statusPtr(s *string) *entity.StandupStatus {
	if s == nil {
		return nil
	}
	st := entity.StandupStatus(*s)
	return &st
}

func (h *StandupHandler) Create(c *gin.Context) {
	var req createStandupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.invalid(c, err)
		return
	}
	in := application.CreateStandupInput{
		Yesterday: req.Yesterday,
		Today:     req.Today,
		Blockers:  req.Blockers,
		Status:    statusPtr(req.Status),
	}
	if req.Date != "" {
		// already checked by the isodate rule
		d, _ := time.Parse(validation.DateLayout, req.Date)
		in.Date = &d
	}

	st, err := h.Svc.CreateStandup(c.Request.Context(), middleware.UserID(c), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, st, "Standup created successfully", nil)
}

func (h *StandupHandler) Update(c *gin.Context) {
	var uri standupURI
	if err := c.ShouldBindUri(&uri); err != nil {
		h.invalid(c, err)
		return
	}
	var req updateStandupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.invalid(c, err)
		return
	}
	st, err := h.Svc.UpdateStandup(c.Request.Context(), uri.ID, middleware.UserID(c), entity.StandupPatch{
		Yesterday: req.Yesterday,
		Today:     req.Today,
		Blockers:  req.Blockers,
		Status:    statusPtr(req.Status),
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, st, "Standup updated successfully", nil)
}

func (h *StandupHandler) Get(c *gin.Context) {
	var uri standupURI
	if err := c.ShouldBindUri(&uri); err != nil {
		h.invalid(c, err)
		return
	}
	st, err := h.Svc.GetStandup(c.Request.Context(), uri.ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, st, "Standup retrieved successfully", nil)
}

// List serves both the team view (no filters: everyone's entries for today)
// and a user's history (userId without dates).
func (h *StandupHandler) List(c *gin.Context) {
	var q listStandupsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.invalid(c, err)
		return
	}
	list, err := h.Svc.GetStandups(c.Request.Context(), application.StandupQuery{
		UserID:   q.UserID,
		Date:     q.Date,
		DateFrom: q.DateFrom,
		DateTo:   q.DateTo,
		Status:   q.Status,
		Page:     q.Page,
		Limit:    q.Limit,
		Sort:     q.Sort,
		Order:    q.Order,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	items := list.Data
	if items == nil {
		items = []application.StandupDTO{}
	}
	response.Success(c, http.StatusOK, items, "Standups retrieved successfully", list.Pagination)
}

func (h *StandupHandler) Search(c *gin.Context) {
	var q searchStandupsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.invalid(c, err)
		return
	}
	hits, err := h.Svc.SearchStandups(c.Request.Context(), q.Q, q.UserID, q.Size)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, hits, "Search completed", gin.H{"count": len(hits)})
}
