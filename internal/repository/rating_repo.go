package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/AfopeM/nawalingo/internal/model"
)

// RatingStat raw aggregate for one tutor
type RatingStat struct {
	TutorID string
	Sum     int64
	Count   int64
}

// RatingRepository tutor rating access
type RatingRepository interface {
	Create(ctx context.Context, rating *model.TutorRating) error
	Aggregate(ctx context.Context, tutorID string) (RatingStat, error)
	// AggregateMany one GROUP BY over all ids; unrated tutors are absent
	AggregateMany(ctx context.Context, tutorIDs []string) (map[string]RatingStat, error)
}

type ratingRepo struct {
	db *gorm.DB
}

// NewRatingRepo creates a RatingRepository
func NewRatingRepo(db *gorm.DB) RatingRepository {
	return &ratingRepo{db: db}
}

func (r *ratingRepo) Create(ctx context.Context, rating *model.TutorRating) error {
	return r.db.WithContext(ctx).Create(rating).Error
}

func (r *ratingRepo) Aggregate(ctx context.Context, tutorID string) (RatingStat, error) {
	stat := RatingStat{TutorID: tutorID}
	err := r.db.WithContext(ctx).
		Model(&model.TutorRating{}).
		Select("COALESCE(SUM(overall_rating), 0) AS sum, COUNT(*) AS count").
		Where("tutor_id = ?", tutorID).
		Scan(&stat).Error
	stat.TutorID = tutorID
	return stat, err
}

func (r *ratingRepo) AggregateMany(ctx context.Context, tutorIDs []string) (map[string]RatingStat, error) {
	out := make(map[string]RatingStat, len(tutorIDs))
	if len(tutorIDs) == 0 {
		return out, nil
	}

	var rows []RatingStat
	err := r.db.WithContext(ctx).
		Model(&model.TutorRating{}).
		Select("tutor_id, SUM(overall_rating) AS sum, COUNT(*) AS count").
		Where("tutor_id IN ?", tutorIDs).
		Group("tutor_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		out[row.TutorID] = row
	}
	return out, nil
}
