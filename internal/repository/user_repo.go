package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/AfopeM/nawalingo/internal/model"
)

// UserRepository user data access
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
	// Ensure creates the row for an identity-provider subject when missing
	Ensure(ctx context.Context, id, email string) error
	// UpdateFields updates the given columns only
	UpdateFields(ctx context.Context, id string, fields map[string]any) error
}

type userRepo struct {
	db *gorm.DB
}

// NewUserRepo creates a UserRepository
func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) Ensure(ctx context.Context, id, email string) error {
	user := model.User{ID: id, Email: email, IsActive: true}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).
		Create(&user).Error
}

func (r *userRepo) UpdateFields(ctx context.Context, id string, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", id).
		Updates(fields).Error
}
