package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/AfopeM/nawalingo/internal/model"
)

// StudentRepository student profile and language links
type StudentRepository interface {
	GetProfile(ctx context.Context, userID string) (*model.StudentProfile, error)
	// UpsertProfile creates or touches the profile; onboarding is only
	// written when non-nil
	UpsertProfile(ctx context.Context, userID string, onboardingCompleted *bool) (*model.StudentProfile, error)
	UpsertLanguages(ctx context.Context, links []model.StudentLanguage) error
	// DeleteLanguagesExcept removes links whose language is not kept
	DeleteLanguagesExcept(ctx context.Context, studentID string, keepLanguageIDs []string) error
}

type studentRepo struct {
	db *gorm.DB
}

// NewStudentRepo creates a StudentRepository
func NewStudentRepo(db *gorm.DB) StudentRepository {
	return &studentRepo{db: db}
}

func (r *studentRepo) GetProfile(ctx context.Context, userID string) (*model.StudentProfile, error) {
	var p model.StudentProfile
	err := r.db.WithContext(ctx).
		Preload("Languages.Language").
		Where("user_id = ?", userID).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *studentRepo) UpsertProfile(ctx context.Context, userID string, onboardingCompleted *bool) (*model.StudentProfile, error) {
	p := model.StudentProfile{UserID: userID}
	updates := map[string]any{"updated_at": time.Now()}
	if onboardingCompleted != nil {
		p.OnboardingCompleted = *onboardingCompleted
		updates["onboarding_completed"] = *onboardingCompleted
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.Assignments(updates),
		}).
		Create(&p).Error
	if err != nil {
		return nil, err
	}

	var saved model.StudentProfile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&saved).Error; err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *studentRepo) UpsertLanguages(ctx context.Context, links []model.StudentLanguage) error {
	if len(links) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "student_id"}, {Name: "language_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"proficiency"}),
		}).
		Create(&links).Error
}

func (r *studentRepo) DeleteLanguagesExcept(ctx context.Context, studentID string, keepLanguageIDs []string) error {
	q := r.db.WithContext(ctx).Where("student_id = ?", studentID)
	if len(keepLanguageIDs) > 0 {
		q = q.Where("language_id NOT IN ?", keepLanguageIDs)
	}
	return q.Delete(&model.StudentLanguage{}).Error
}
