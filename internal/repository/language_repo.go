package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/AfopeM/nawalingo/internal/model"
)

// LanguageRepository language catalog access
type LanguageRepository interface {
	List(ctx context.Context) ([]model.Language, error)
	// Resolve matches each key against code, name (case-insensitive) or id.
	// The result is keyed by the lowercased input key; unknown keys are absent.
	Resolve(ctx context.Context, keys []string) (map[string]model.Language, error)
}

type languageRepo struct {
	db *gorm.DB
}

// NewLanguageRepo creates a LanguageRepository
func NewLanguageRepo(db *gorm.DB) LanguageRepository {
	return &languageRepo{db: db}
}

func (r *languageRepo) List(ctx context.Context) ([]model.Language, error) {
	var langs []model.Language
	err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&langs).Error
	return langs, err
}

func (r *languageRepo) Resolve(ctx context.Context, keys []string) (map[string]model.Language, error) {
	lowered := NormalizeKeys(keys)
	out := make(map[string]model.Language, len(lowered))
	if len(lowered) == 0 {
		return out, nil
	}

	var langs []model.Language
	err := r.db.WithContext(ctx).
		Where("LOWER(code) IN ? OR LOWER(name) IN ? OR id::text IN ?", lowered, lowered, lowered).
		Find(&langs).Error
	if err != nil {
		return nil, err
	}

	for _, l := range langs {
		MatchLanguage(out, lowered, l)
	}
	return out, nil
}

// NormalizeKeys lowercases, trims and de-duplicates lookup keys
func NormalizeKeys(keys []string) []string {
	seen := make(map[string]struct{}, len(keys))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}

// MatchLanguage records l under every key it answers to
func MatchLanguage(out map[string]model.Language, keys []string, l model.Language) {
	for _, k := range keys {
		if k == strings.ToLower(l.Code) || k == strings.ToLower(l.Name) || k == strings.ToLower(l.ID) {
			out[k] = l
		}
	}
}
