package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/AfopeM/nawalingo/internal/dto"
	"github.com/AfopeM/nawalingo/internal/repository"
)

const (
	languageCacheKey = "languages:v1"
	languageCacheTTL = 10 * time.Minute
)

// Cache JSON cache; a nil Cache disables caching
type Cache interface {
	GetJSON(ctx context.Context, key string, dst any) error
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
}

// LanguageService language catalog
type LanguageService interface {
	List(ctx context.Context) ([]dto.LanguageResponse, error)
}

type languageService struct {
	repo   *repository.Repository
	cache  Cache
	logger *zap.Logger
}

// NewLanguageService creates a LanguageService
func NewLanguageService(repo *repository.Repository, cache Cache, logger *zap.Logger) LanguageService {
	return &languageService{repo: repo, cache: cache, logger: logger}
}

func (s *languageService) List(ctx context.Context) ([]dto.LanguageResponse, error) {
	if s.cache != nil {
		var cached []dto.LanguageResponse
		if err := s.cache.GetJSON(ctx, languageCacheKey, &cached); err == nil {
			return cached, nil
		}
	}

	langs, err := s.repo.Language.List(ctx)
	if err != nil {
		s.logger.Error("list languages failed", zap.Error(err))
		return nil, err
	}

	out := make([]dto.LanguageResponse, len(langs))
	for i, l := range langs {
		out[i] = dto.LanguageResponse{ID: l.ID, Code: l.Code, Name: l.Name, NativeName: l.NativeName}
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, languageCacheKey, out, languageCacheTTL); err != nil {
			s.logger.Warn("cache languages failed", zap.Error(err))
		}
	}
	return out, nil
}
