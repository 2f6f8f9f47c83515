package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/AfopeM/nawalingo/internal/api/middleware"
	"github.com/AfopeM/nawalingo/internal/api/validation"
	pkgerrors "github.com/AfopeM/nawalingo/pkg/errors"
	"github.com/AfopeM/nawalingo/pkg/response"
)

// response codes
const (
	codeValidation      = 10001
	codeUnauthenticated = 10002
	codeForbidden       = 10003
	codeTooLarge        = 10005
	codeNotFound        = 10006
)

// handleError maps an error kind to its status; anything untyped is a 500
// whose cause is logged, never returned
func handleError(c *gin.Context, logger *zap.Logger, err error) {
	switch pkgerrors.KindOf(err) {
	case pkgerrors.ErrValidation:
		response.BadRequest(c, codeValidation, err.Error())
	case pkgerrors.ErrUnauthenticated:
		response.Unauthorized(c, codeUnauthenticated, err.Error())
	case pkgerrors.ErrForbidden:
		response.Forbidden(c, codeForbidden, err.Error())
	case pkgerrors.ErrNotFound:
		response.NotFound(c, codeNotFound, err.Error())
	default:
		logger.Error("request failed",
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.String("method", c.Request.Method),
			zap.String("route", c.FullPath()),
			zap.Error(err))
		response.InternalError(c)
	}
}

// bindJSON binds and validates the body, writing the 4xx itself.
// Returns false when the handler should stop.
func bindJSON(c *gin.Context, dst any) bool {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return true
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		response.Error(c, http.StatusRequestEntityTooLarge, codeTooLarge, "Request body too large")
		return false
	}
	if details := validation.Details(err); details != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, codeValidation, "Validation failed", details)
		return false
	}
	response.BadRequest(c, codeValidation, "Invalid request body")
	return false
}
