package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/AfopeM/nawalingo/internal/service"
	"github.com/AfopeM/nawalingo/pkg/response"
)

// LanguageHandler language catalog
type LanguageHandler struct {
	svc    service.LanguageService
	logger *zap.Logger
}

// NewLanguageHandler creates a LanguageHandler
func NewLanguageHandler(svc service.LanguageService, logger *zap.Logger) *LanguageHandler {
	return &LanguageHandler{svc: svc, logger: logger}
}

// List language catalog
// GET /api/v1/languages
func (h *LanguageHandler) List(c *gin.Context) {
	langs, err := h.svc.List(c.Request.Context())
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	response.OK(c, langs)
}
