package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jengzang/motion-profile-go/internal/models"
	"github.com/jengzang/motion-profile-go/internal/repository"
	"github.com/jengzang/motion-profile-go/internal/service"
	"github.com/jengzang/motion-profile-go/pkg/response"
)

// RunHandler handles HTTP requests for runs and day summaries
type RunHandler struct {
	service *service.ProfileService
}

// NewRunHandler creates a new run handler
func NewRunHandler(service *service.ProfileService) *RunHandler {
	return &RunHandler{service: service}
}

// ListRuns handles GET /api/v1/runs
func (h *RunHandler) ListRuns(c *gin.Context) {
	var filter models.RunFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters", err)
		return
	}

	runs, err := h.service.ListRuns(filter)
	if err != nil {
		response.InternalError(c, "Failed to list runs", err)
		return
	}

	response.Success(c, gin.H{
		"runs":   runs,
		"limit":  filter.Limit,
		"offset": filter.Offset,
	})
}

// GetRun handles GET /api/v1/runs/:id
func (h *RunHandler) GetRun(c *gin.Context) {
	run, err := h.service.GetRun(c.Param("id"))
	if err != nil {
		notFoundOrError(c, "Run not found", "Failed to get run", err)
		return
	}

	response.Success(c, run)
}

// GetRunDays handles GET /api/v1/runs/:id/days
func (h *RunHandler) GetRunDays(c *gin.Context) {
	var filter models.DayFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters", err)
		return
	}

	run, err := h.service.GetRun(c.Param("id"))
	if err != nil {
		notFoundOrError(c, "Run not found", "Failed to get run", err)
		return
	}
	filter.RunID = run.ID

	h.respondDays(c, filter)
}

// ListDays handles GET /api/v1/days
func (h *RunHandler) ListDays(c *gin.Context) {
	var filter models.DayFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters", err)
		return
	}

	h.respondDays(c, filter)
}

// GetDay handles GET /api/v1/runs/:id/days/:day
func (h *RunHandler) GetDay(c *gin.Context) {
	day, err := h.service.GetDay(c.Param("id"), c.Param("day"))
	if err != nil {
		notFoundOrError(c, "Day not found", "Failed to get day", err)
		return
	}

	response.Success(c, day)
}

func (h *RunHandler) respondDays(c *gin.Context, filter models.DayFilter) {
	days, total, err := h.service.ListDays(filter)
	if err != nil {
		response.InternalError(c, "Failed to list day summaries", err)
		return
	}

	// Calculate pagination info
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 100
	}
	if filter.PageSize > 1000 {
		filter.PageSize = 1000
	}
	totalPages := int(total) / filter.PageSize
	if int(total)%filter.PageSize > 0 {
		totalPages++
	}
	if days == nil {
		days = []models.DaySummary{}
	}

	response.Success(c, models.DaySummariesResponse{
		Data:       days,
		Total:      total,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalPages: totalPages,
	})
}

func notFoundOrError(c *gin.Context, notFound, failed string, err error) {
	if errors.Is(err, repository.ErrNotFound) {
		response.NotFound(c, notFound)
		return
	}
	response.Error(c, http.StatusInternalServerError, failed, err)
}
