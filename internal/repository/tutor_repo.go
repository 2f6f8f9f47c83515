package repository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/AfopeM/nawalingo/internal/model"
)

// TutorFilter search criteria; zero values mean no constraint except
// MaxRating, where 5 is the open bound
type TutorFilter struct {
	Languages   []string // code, name or id; lowercased by the repository
	Native      bool
	Country     string
	MinRating   float64
	MaxRating   float64
	DayOfWeek   *int
	StartMinute int
	EndMinute   int
	Offset      int
	Limit       int
}

// TutorRepository tutor profiles, taught languages and search
type TutorRepository interface {
	GetProfile(ctx context.Context, userID string) (*model.TutorProfile, error)
	UpsertProfile(ctx context.Context, p *model.TutorProfile) (*model.TutorProfile, error)
	UpsertLanguages(ctx context.Context, links []model.TutorLanguage) error
	DeleteLanguagesExcept(ctx context.Context, tutorID string, keepLanguageIDs []string) error
	// Search lists active, approved tutors matching f, newest first
	Search(ctx context.Context, f TutorFilter) ([]model.TutorProfile, int64, error)
}

type tutorRepo struct {
	db *gorm.DB
}

// NewTutorRepo creates a TutorRepository
func NewTutorRepo(db *gorm.DB) TutorRepository {
	return &tutorRepo{db: db}
}

func (r *tutorRepo) GetProfile(ctx context.Context, userID string) (*model.TutorProfile, error) {
	var p model.TutorProfile
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Languages", "is_teaching = ?", true).
		Preload("Languages.Language").
		Where("user_id = ?", userID).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *tutorRepo) UpsertProfile(ctx context.Context, p *model.TutorProfile) (*model.TutorProfile, error) {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"intro":               p.Intro,
				"teaching_experience": p.TeachingExperience,
				"is_active":           p.IsActive,
				"updated_at":          time.Now(),
			}),
		}).
		Create(p).Error
	if err != nil {
		return nil, err
	}

	var saved model.TutorProfile
	if err := r.db.WithContext(ctx).Where("user_id = ?", p.UserID).First(&saved).Error; err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *tutorRepo) UpsertLanguages(ctx context.Context, links []model.TutorLanguage) error {
	if len(links) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "tutor_id"}, {Name: "language_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"proficiency", "is_teaching"}),
		}).
		Create(&links).Error
}

func (r *tutorRepo) DeleteLanguagesExcept(ctx context.Context, tutorID string, keepLanguageIDs []string) error {
	q := r.db.WithContext(ctx).Where("tutor_id = ?", tutorID)
	if len(keepLanguageIDs) > 0 {
		q = q.Where("language_id NOT IN ?", keepLanguageIDs)
	}
	return q.Delete(&model.TutorLanguage{}).Error
}

func (r *tutorRepo) Search(ctx context.Context, f TutorFilter) ([]model.TutorProfile, int64, error) {
	var total int64
	if err := r.searchScope(ctx, f).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var profiles []model.TutorProfile
	if total == 0 {
		return profiles, 0, nil
	}

	err := r.searchScope(ctx, f).
		Select("tutor_profiles.*").
		Preload("User").
		Preload("Languages", "is_teaching = ?", true).
		Preload("Languages.Language").
		Order("tutor_profiles.created_at DESC, tutor_profiles.id ASC").
		Offset(f.Offset).Limit(f.Limit).
		Find(&profiles).Error
	if err != nil {
		return nil, 0, err
	}

	return profiles, total, nil
}

// searchScope builds a fresh filtered query so count and page never share state
func (r *tutorRepo) searchScope(ctx context.Context, f TutorFilter) *gorm.DB {
	db := r.db.WithContext(ctx).
		Model(&model.TutorProfile{}).
		Joins("JOIN users ON users.id = tutor_profiles.user_id").
		Where("tutor_profiles.is_active AND users.is_active").
		Where(`EXISTS (SELECT 1 FROM user_role_assignments ura JOIN roles ro ON ro.id = ura.role_id
			WHERE ura.user_id = tutor_profiles.user_id AND ro.name = ? AND ura.status = ?)`,
			model.RoleTutor, model.RoleStatusApproved)

	if keys := NormalizeKeys(f.Languages); len(keys) > 0 {
		sql := `EXISTS (SELECT 1 FROM tutor_languages tl JOIN languages l ON l.id = tl.language_id
			WHERE tl.tutor_id = tutor_profiles.id AND tl.is_teaching
			AND (LOWER(l.code) IN ? OR LOWER(l.name) IN ? OR l.id::text IN ?)`
		args := []any{keys, keys, keys}
		if f.Native {
			sql += " AND tl.proficiency = ?"
			args = append(args, model.ProficiencyNative)
		}
		db = db.Where(sql+")", args...)
	}

	if c := strings.TrimSpace(f.Country); c != "" {
		db = db.Where("LOWER(users.country) = LOWER(?)", c)
	}

	if f.DayOfWeek != nil {
		db = db.Where(`EXISTS (SELECT 1 FROM availabilities a
			WHERE a.user_id = tutor_profiles.user_id AND a.type = ? AND a.is_active
			AND a.day_of_week = ? AND a.start_minute <= ? AND a.end_minute >= ?)`,
			model.AvailabilityTutor, *f.DayOfWeek, f.EndMinute, f.StartMinute)
	}

	if f.MinRating > 0 || f.MaxRating < 5 {
		db = db.Where(`(SELECT COALESCE(AVG(tr.overall_rating), 0) FROM tutor_ratings tr
			WHERE tr.tutor_id = tutor_profiles.user_id) BETWEEN ? AND ?`, f.MinRating, f.MaxRating)
	}

	return db
}
