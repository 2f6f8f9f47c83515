package handler

import (
	"go.uber.org/zap"

	"github.com/AfopeM/nawalingo/config"
	"github.com/AfopeM/nawalingo/internal/service"
)

// Handler aggregate of every handler
type Handler struct {
	Language *LanguageHandler
	Tutor    *TutorHandler
	User     *UserHandler
	Admin    *AdminHandler
}

// NewHandler creates the Handler aggregate
func NewHandler(svc *service.Service, search config.SearchConfig, logger *zap.Logger) *Handler {
	return &Handler{
		Language: NewLanguageHandler(svc.Language, logger),
		Tutor:    NewTutorHandler(svc.Tutor, svc.Rating, search, logger),
		User:     NewUserHandler(svc.Permission, svc.Profile, logger),
		Admin:    NewAdminHandler(svc.Admin, svc.Export, svc.Permission, logger),
	}
}
