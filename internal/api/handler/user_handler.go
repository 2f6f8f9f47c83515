package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/AfopeM/nawalingo/internal/dto"
	"github.com/AfopeM/nawalingo/internal/service"
	"github.com/AfopeM/nawalingo/pkg/response"
)

// UserHandler the caller's roles, onboarding and profile
type UserHandler struct {
	permSvc    service.PermissionService
	profileSvc service.ProfileService
	logger     *zap.Logger
}

// NewUserHandler creates a UserHandler
func NewUserHandler(permSvc service.PermissionService, profileSvc service.ProfileService, logger *zap.Logger) *UserHandler {
	return &UserHandler{permSvc: permSvc, profileSvc: profileSvc, logger: logger}
}

// ── roles & permissions ──

// Roles approved role names, lowercase
// GET /api/v1/user/roles
func (h *UserHandler) Roles(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	roles, err := h.permSvc.ApprovedRoles(c.Request.Context(), userID)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	response.OK(c, dto.RolesResponse{Roles: roles})
}

// Permissions the caller's permissions
// GET /api/v1/user/permissions
func (h *UserHandler) Permissions(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	resp, err := h.permSvc.Permissions(c.Request.Context(), userID)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	response.OK(c, resp)
}

// ── onboarding ──

// OnboardingStatus GET /api/v1/user/onboarding
func (h *UserHandler) OnboardingStatus(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	resp, err := h.profileSvc.OnboardingStatus(c.Request.Context(), userID)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	response.OK(c, resp)
}

// CompleteOnboarding POST /api/v1/user/onboarding
func (h *UserHandler) CompleteOnboarding(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.OnboardingRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.profileSvc.CompleteOnboarding(c.Request.Context(), userID, GetEmail(c), &req); err != nil {
		handleError(c, h.logger, err)
		return
	}
	response.Success(c)
}

// ── profile ──

// GetProfile GET /api/v1/user/profile
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	resp, err := h.profileSvc.GetProfile(c.Request.Context(), userID)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	response.OK(c, resp)
}

// UpdateProfile PUT /api/v1/user/profile
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.profileSvc.UpdateProfile(c.Request.Context(), userID, GetEmail(c), &req); err != nil {
		handleError(c, h.logger, err)
		return
	}
	response.Success(c)
}
