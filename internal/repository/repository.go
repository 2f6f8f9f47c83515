package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository aggregate of every repository
type Repository struct {
	db *gorm.DB

	User         UserRepository
	Language     LanguageRepository
	Student      StudentRepository
	Tutor        TutorRepository
	Availability AvailabilityRepository
	Role         RoleRepository
	Rating       RatingRepository
}

// NewRepository builds the aggregate on one connection (or transaction)
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:           db,
		User:         NewUserRepo(db),
		Language:     NewLanguageRepo(db),
		Student:      NewStudentRepo(db),
		Tutor:        NewTutorRepo(db),
		Availability: NewAvailabilityRepo(db),
		Role:         NewRoleRepo(db),
		Rating:       NewRatingRepo(db),
	}
}

// Transaction runs fn with repositories bound to a single database
// transaction; any error rolls everything back.
// An aggregate assembled without a connection (tests) runs fn directly.
func (r *Repository) Transaction(ctx context.Context, fn func(tx *Repository) error) error {
	if r.db == nil {
		return fn(r)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}
