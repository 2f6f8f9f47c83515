package handler

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/AfopeM/nawalingo/internal/dto"
	"github.com/AfopeM/nawalingo/internal/model"
	"github.com/AfopeM/nawalingo/internal/service"
	"github.com/AfopeM/nawalingo/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// AdminHandler tutor applications and role administration
type AdminHandler struct {
	adminSvc  service.AdminService
	exportSvc service.ExportService
	permSvc   service.PermissionService
	logger    *zap.Logger
}

// NewAdminHandler creates an AdminHandler
func NewAdminHandler(adminSvc service.AdminService, exportSvc service.ExportService, permSvc service.PermissionService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{adminSvc: adminSvc, exportSvc: exportSvc, permSvc: permSvc, logger: logger}
}

// ────────────────────── Tutor applications ──────────────────────

// ListApplications pending tutor applications
// GET /api/v1/admin/tutor-applications
func (h *AdminHandler) ListApplications(c *gin.Context) {
	apps, err := h.adminSvc.ListTutorApplications(c.Request.Context())
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	response.OK(c, apps)
}

// ExportApplications pending tutor applications as .xlsx
// GET /api/v1/admin/tutor-applications/export
func (h *AdminHandler) ExportApplications(c *gin.Context) {
	buf, filename, err := h.exportSvc.ExportTutorApplications(c.Request.Context())
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.QueryEscape(filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// Approve POST /api/v1/admin/tutor-applications/:userId/approve
func (h *AdminHandler) Approve(c *gin.Context) {
	if err := h.adminSvc.ApproveTutor(c.Request.Context(), c.Param("userId")); err != nil {
		handleError(c, h.logger, err)
		return
	}
	response.Success(c)
}

// Reject POST /api/v1/admin/tutor-applications/:userId/reject
func (h *AdminHandler) Reject(c *gin.Context) {
	if err := h.adminSvc.RejectTutor(c.Request.Context(), c.Param("userId")); err != nil {
		handleError(c, h.logger, err)
		return
	}
	response.Success(c)
}

// ────────────────────── Roles & permissions ──────────────────────

// MakeAdmin POST /api/v1/admin/users/:userId/make-admin
func (h *AdminHandler) MakeAdmin(c *gin.Context) {
	if err := h.adminSvc.MakeAdmin(c.Request.Context(), c.Param("userId")); err != nil {
		handleError(c, h.logger, err)
		return
	}
	response.Success(c)
}

// UserPermissions another user's permissions; MANAGE_ADMINS or self
// GET /api/v1/admin/permissions/:userId
func (h *AdminHandler) UserPermissions(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	target := c.Param("userId")

	if target != callerID {
		allowed, err := h.permSvc.HasPermission(c.Request.Context(), callerID, model.PermManageAdmins)
		if err != nil {
			handleError(c, h.logger, err)
			return
		}
		if !allowed {
			handleError(c, h.logger, service.ErrPermissionDenied)
			return
		}
	}

	resp, err := h.permSvc.Permissions(c.Request.Context(), target)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	response.OK(c, resp)
}

// SetRolePermissions PUT /api/v1/admin/roles/:role/permissions
func (h *AdminHandler) SetRolePermissions(c *gin.Context) {
	var req dto.RolePermissionsRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.adminSvc.SetRolePermissions(c.Request.Context(), c.Param("role"), req.Permissions); err != nil {
		handleError(c, h.logger, err)
		return
	}
	response.Success(c)
}
