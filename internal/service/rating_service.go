package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/AfopeM/nawalingo/internal/dto"
	"github.com/AfopeM/nawalingo/internal/model"
	"github.com/AfopeM/nawalingo/internal/repository"
)

// RatingService tutor rating aggregation and submission
type RatingService interface {
	Summary(ctx context.Context, tutorID string) (*dto.RatingSummary, error)
	// SummaryMany one batched aggregate; every requested id is present
	SummaryMany(ctx context.Context, tutorIDs []string) (map[string]dto.RatingSummary, error)
	Rate(ctx context.Context, studentID, tutorID string, req *dto.CreateRatingRequest) error
}

type ratingService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewRatingService creates a RatingService
func NewRatingService(repo *repository.Repository, logger *zap.Logger) RatingService {
	return &ratingService{repo: repo, logger: logger}
}

// Summarize mean and count; no ratings gives a null mean
func Summarize(stat repository.RatingStat) dto.RatingSummary {
	if stat.Count == 0 {
		return dto.RatingSummary{Rating: nil, Count: 0}
	}
	mean := float64(stat.Sum) / float64(stat.Count)
	return dto.RatingSummary{Rating: &mean, Count: stat.Count}
}

func (s *ratingService) Summary(ctx context.Context, tutorID string) (*dto.RatingSummary, error) {
	stat, err := s.repo.Rating.Aggregate(ctx, tutorID)
	if err != nil {
		s.logger.Error("aggregate rating failed", zap.String("tutor_id", tutorID), zap.Error(err))
		return nil, err
	}
	sum := Summarize(stat)
	return &sum, nil
}

func (s *ratingService) SummaryMany(ctx context.Context, tutorIDs []string) (map[string]dto.RatingSummary, error) {
	stats, err := s.repo.Rating.AggregateMany(ctx, tutorIDs)
	if err != nil {
		s.logger.Error("aggregate ratings failed", zap.Int("tutors", len(tutorIDs)), zap.Error(err))
		return nil, err
	}
	out := make(map[string]dto.RatingSummary, len(tutorIDs))
	for _, id := range tutorIDs {
		out[id] = Summarize(stats[id])
	}
	return out, nil
}

func (s *ratingService) Rate(ctx context.Context, studentID, tutorID string, req *dto.CreateRatingRequest) error {
	if studentID == tutorID {
		return ErrSelfRating
	}

	roles, err := s.repo.Role.ListApprovedRoleNames(ctx, studentID)
	if err != nil {
		s.logger.Error("list approved roles failed", zap.String("user_id", studentID), zap.Error(err))
		return err
	}
	if !containsFold(roles, model.RoleStudent) {
		return ErrStudentRoleRequired
	}

	if _, err := listedTutorProfile(ctx, s.repo, s.logger, tutorID); err != nil {
		return err
	}

	rating := &model.TutorRating{
		TutorID:       tutorID,
		StudentID:     studentID,
		OverallRating: req.Rating,
		Comment:       strings.TrimSpace(req.Comment),
	}
	if err := s.repo.Rating.Create(ctx, rating); err != nil {
		s.logger.Error("create rating failed", zap.String("tutor_id", tutorID), zap.Error(err))
		return err
	}
	return nil
}
