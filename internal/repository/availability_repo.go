package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/AfopeM/nawalingo/internal/model"
)

// AvailabilityRepository weekly window access
type AvailabilityRepository interface {
	ListByUserAndType(ctx context.Context, userID, typ string) ([]model.Availability, error)
	// ListActiveByUsers active windows of one type for many users
	ListActiveByUsers(ctx context.Context, userIDs []string, typ string) ([]model.Availability, error)
	// ReplaceByUserAndType hard-deletes every window of the type and inserts
	// rows in the same transaction; an empty rows clears the set
	ReplaceByUserAndType(ctx context.Context, userID, typ string, rows []model.Availability) error
}

type availabilityRepo struct {
	db *gorm.DB
}

// NewAvailabilityRepo creates an AvailabilityRepository
func NewAvailabilityRepo(db *gorm.DB) AvailabilityRepository {
	return &availabilityRepo{db: db}
}

func (r *availabilityRepo) ListByUserAndType(ctx context.Context, userID, typ string) ([]model.Availability, error) {
	var rows []model.Availability
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND type = ?", userID, typ).
		Order("day_of_week ASC, start_minute ASC").
		Find(&rows).Error
	return rows, err
}

func (r *availabilityRepo) ListActiveByUsers(ctx context.Context, userIDs []string, typ string) ([]model.Availability, error) {
	var rows []model.Availability
	if len(userIDs) == 0 {
		return rows, nil
	}
	err := r.db.WithContext(ctx).
		Where("user_id IN ? AND type = ? AND is_active", userIDs, typ).
		Order("user_id ASC, day_of_week ASC, start_minute ASC").
		Find(&rows).Error
	return rows, err
}

func (r *availabilityRepo) ReplaceByUserAndType(ctx context.Context, userID, typ string, rows []model.Availability) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? AND type = ?", userID, typ).
			Delete(&model.Availability{}).Error; err != nil {
			return err
		}
		if len(rows) > 0 {
			if err := tx.Create(&rows).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
