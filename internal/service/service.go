package service

import (
	"go.uber.org/zap"

	"github.com/AfopeM/nawalingo/internal/repository"
)

// Service aggregate of every service
type Service struct {
	Permission PermissionService
	Profile    ProfileService
	Tutor      TutorService
	Rating     RatingService
	Admin      AdminService
	Export     ExportService
	Language   LanguageService
}

// NewService builds the aggregate; cache may be nil
func NewService(repo *repository.Repository, cache Cache, logger *zap.Logger) *Service {
	return &Service{
		Permission: NewPermissionService(repo, logger),
		Profile:    NewProfileService(repo, logger),
		Tutor:      NewTutorService(repo, logger),
		Rating:     NewRatingService(repo, logger),
		Admin:      NewAdminService(repo, logger),
		Export:     NewExportService(repo, logger),
		Language:   NewLanguageService(repo, cache, logger),
	}
}
