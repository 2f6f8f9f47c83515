package handler

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/AfopeM/nawalingo/config"
	"github.com/AfopeM/nawalingo/internal/dto"
	"github.com/AfopeM/nawalingo/internal/service"
	"github.com/AfopeM/nawalingo/pkg/response"
)

// TutorHandler tutor search, detail, ratings, application and availability
type TutorHandler struct {
	tutorSvc  service.TutorService
	ratingSvc service.RatingService
	search    config.SearchConfig
	logger    *zap.Logger
}

// NewTutorHandler creates a TutorHandler
func NewTutorHandler(tutorSvc service.TutorService, ratingSvc service.RatingService, search config.SearchConfig, logger *zap.Logger) *TutorHandler {
	return &TutorHandler{tutorSvc: tutorSvc, ratingSvc: ratingSvc, search: search, logger: logger}
}

// ────────────────────── Public ──────────────────────

// Search tutor search
// GET /api/v1/tutors
func (h *TutorHandler) Search(c *gin.Context) {
	params := dto.ParseTutorSearch(c.Request.URL.Query(), h.search.DefaultPageSize, h.search.MaxPageSize)

	results, total, err := h.tutorSvc.Search(c.Request.Context(), params)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	response.OKPage(c, results, total, params.Page, params.PageSize)
}

// Detail one listed tutor
// GET /api/v1/tutors/:tutorId
func (h *TutorHandler) Detail(c *gin.Context) {
	detail, err := h.tutorSvc.GetDetail(c.Request.Context(), c.Param("tutorId"))
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	response.OK(c, detail)
}

// AvailabilityICS weekly availability as a calendar feed
// GET /api/v1/tutors/:tutorId/availability.ics
func (h *TutorHandler) AvailabilityICS(c *gin.Context) {
	tutorID := c.Param("tutorId")
	cal, err := h.tutorSvc.ExportAvailability(c.Request.Context(), tutorID)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	c.Header("Content-Disposition", `inline; filename="availability.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(cal))
}

// RatingSummary mean rating and count
// GET /api/v1/tutors/:tutorId/ratings
func (h *TutorHandler) RatingSummary(c *gin.Context) {
	sum, err := h.ratingSvc.Summary(c.Request.Context(), c.Param("tutorId"))
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	response.OK(c, sum)
}

// ────────────────────── Authenticated ──────────────────────

// Rate a student rates a tutor
// POST /api/v1/tutors/:tutorId/ratings
func (h *TutorHandler) Rate(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateRatingRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.ratingSvc.Rate(c.Request.Context(), userID, c.Param("tutorId"), &req); err != nil {
		handleError(c, h.logger, err)
		return
	}
	response.Created(c)
}

// Apply submit or update a tutor application
// POST /api/v1/tutor/apply
func (h *TutorHandler) Apply(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.TutorApplyRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.tutorSvc.Apply(c.Request.Context(), userID, GetEmail(c), &req); err != nil {
		handleError(c, h.logger, err)
		return
	}
	response.Created(c)
}

// UpdateAvailability replace-all weekly availability
// PUT /api/v1/tutor/availability
func (h *TutorHandler) UpdateAvailability(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateAvailabilityRequest
	if !bindJSON(c, &req) {
		return
	}

	saved, err := h.tutorSvc.ReplaceAvailability(c.Request.Context(), userID, &req)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	response.OK(c, gin.H{"success": true, "saved": saved})
}

// ImportAvailability replace availability from an .ics calendar
// POST /api/v1/tutor/availability/import
//
// Accepts either multipart/form-data (field "file") or the raw calendar as
// the body. The optional "timezone" query or form value applies to
// floating times.
func (h *TutorHandler) ImportAvailability(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	timezone := c.Query("timezone")
	var body io.Reader = c.Request.Body
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		file, _, err := c.Request.FormFile("file")
		if err != nil {
			if h.tooLarge(c, err) {
				return
			}
			response.BadRequest(c, codeValidation, "Upload an .ics file in the \"file\" field")
			return
		}
		defer file.Close()
		body = file
		if tz := c.PostForm("timezone"); tz != "" {
			timezone = tz
		}
	}

	saved, err := h.tutorSvc.ImportAvailability(c.Request.Context(), userID, body, timezone)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	response.OK(c, gin.H{"success": true, "saved": saved})
}

func (h *TutorHandler) tooLarge(c *gin.Context, err error) bool {
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		response.Error(c, http.StatusRequestEntityTooLarge, codeTooLarge, "Request body too large")
		return true
	}
	return false
}
