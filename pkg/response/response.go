package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorBody failure envelope returned on every 4xx/5xx
type ErrorBody struct {
	Error   string `json:"error"`
	Code    int    `json:"code"`
	Details any    `json:"details,omitempty"`
}

// SuccessBody acknowledgement for mutations without a payload
type SuccessBody struct {
	Success bool `json:"success"`
}

// Page paginated list envelope
type Page struct {
	Page     int   `json:"page"`
	PageSize int   `json:"pageSize"`
	Total    int64 `json:"total"`
	Results  any   `json:"results"`
}

// ── success ──

// OK 200 with the payload as the body
func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

// Success 200 {"success": true}
func Success(c *gin.Context) {
	c.JSON(http.StatusOK, SuccessBody{Success: true})
}

// Created 201 {"success": true}
func Created(c *gin.Context) {
	c.JSON(http.StatusCreated, SuccessBody{Success: true})
}

// OKPage 200 paginated list
func OKPage(c *gin.Context, results any, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, Page{
		Page:     page,
		PageSize: pageSize,
		Total:    total,
		Results:  results,
	})
}

// ── failure ──

// Error generic failure
func Error(c *gin.Context, httpStatus int, code int, message string) {
	c.JSON(httpStatus, ErrorBody{Error: message, Code: code})
}

// ErrorWithDetails failure carrying field-level details
func ErrorWithDetails(c *gin.Context, httpStatus int, code int, message string, details any) {
	c.JSON(httpStatus, ErrorBody{Error: message, Code: code, Details: details})
}

// BadRequest 400
func BadRequest(c *gin.Context, code int, message string) {
	Error(c, http.StatusBadRequest, code, message)
}

// Unauthorized 401
func Unauthorized(c *gin.Context, code int, message string) {
	Error(c, http.StatusUnauthorized, code, message)
}

// Forbidden 403
func Forbidden(c *gin.Context, code int, message string) {
	Error(c, http.StatusForbidden, code, message)
}

// NotFound 404
func NotFound(c *gin.Context, code int, message string) {
	Error(c, http.StatusNotFound, code, message)
}

// InternalError 500; the cause is logged by the caller, never echoed
func InternalError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, 50000, "Internal server error")
}
