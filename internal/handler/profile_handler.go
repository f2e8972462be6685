package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jengzang/motion-profile-go/internal/config"
	"github.com/jengzang/motion-profile-go/internal/ingest"
	"github.com/jengzang/motion-profile-go/internal/service"
	"github.com/jengzang/motion-profile-go/pkg/response"
)

// ProfileHandler handles uploads of logger files
type ProfileHandler struct {
	service        *service.ProfileService
	defaults       config.Thresholds
	maxUploadBytes int64
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(service *service.ProfileService, defaults config.Thresholds, maxUploadMB int64) *ProfileHandler {
	return &ProfileHandler{
		service:        service,
		defaults:       defaults,
		maxUploadBytes: maxUploadMB << 20,
	}
}

// CreateProfile handles POST /api/v1/profiles
// Form field "file" holds the CSV; query parameters idleSpeed, sigmas,
// idleDuration and chargingMode override the server thresholds.
func (h *ProfileHandler) CreateProfile(c *gin.Context) {
	th, err := thresholdsFromQuery(c, h.defaults)
	if err != nil {
		response.BadRequest(c, "Invalid thresholds", err)
		return
	}

	if h.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	}
	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Error(c, http.StatusRequestEntityTooLarge, "Upload too large", err)
			return
		}
		response.BadRequest(c, "Missing form file \"file\"", err)
		return
	}

	f, err := header.Open()
	if err != nil {
		response.BadRequest(c, "Failed to open upload", err)
		return
	}
	defer f.Close()

	result, err := h.service.ProcessReader(c.Request.Context(), header.Filename, f, th)
	if err != nil {
		switch {
		case errors.Is(err, ingest.ErrMalformedCoordinate), errors.Is(err, ingest.ErrMissingColumn):
			response.Error(c, http.StatusUnprocessableEntity, "Failed to parse logger file", err)
		default:
			response.InternalError(c, "Failed to profile logger file", err)
		}
		return
	}

	response.Created(c, gin.H{
		"run":  result.Run,
		"days": result.Summaries(),
	})
}

func thresholdsFromQuery(c *gin.Context, th config.Thresholds) (config.Thresholds, error) {
	floats := []struct {
		key string
		dst *float64
	}{
		{"idleSpeed", &th.IdleSpeedThreshold},
		{"sigmas", &th.Sigmas},
		{"idleDuration", &th.IdleDurationThresholdS},
	}
	for _, f := range floats {
		v, ok := c.GetQuery(f.key)
		if !ok {
			continue
		}
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return th, fmt.Errorf("%w: %s=%q", config.ErrInvalidThresholds, f.key, v)
		}
		*f.dst = n
	}
	if mode, ok := c.GetQuery("chargingMode"); ok {
		th.ChargingMode = config.ChargingMode(mode)
	}

	return th, th.Validate()
}
