package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/AfopeM/nawalingo/internal/dto"
	"github.com/AfopeM/nawalingo/internal/model"
	"github.com/AfopeM/nawalingo/internal/repository"
)

// ── test helpers ──

func setupTestRatingService() (RatingService, *mockStore) {
	s := newMockStore()
	return NewRatingService(s.repo(), zap.NewNop()), s
}

// ── Summarize ──

func TestSummarize(t *testing.T) {
	empty := Summarize(repository.RatingStat{})
	if empty.Rating != nil || empty.Count != 0 {
		t.Errorf("expected null/0, got %v/%d", empty.Rating, empty.Count)
	}

	s := Summarize(repository.RatingStat{Sum: 12, Count: 3})
	if s.Rating == nil || *s.Rating != 4 || s.Count != 3 {
		t.Errorf("expected 4/3, got %v/%d", s.Rating, s.Count)
	}
}

func TestRatingService_Summary(t *testing.T) {
	svc, s := setupTestRatingService()
	for _, v := range []int{3, 4, 5} {
		s.ratings = append(s.ratings, model.TutorRating{TutorID: "tutor-a", OverallRating: v})
	}

	sum, err := svc.Summary(context.Background(), "tutor-a")
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if sum.Rating == nil || *sum.Rating != 4 || sum.Count != 3 {
		t.Errorf("expected 4 over 3, got %v/%d", sum.Rating, sum.Count)
	}

	none, _ := svc.Summary(context.Background(), "tutor-b")
	if none.Rating != nil || none.Count != 0 {
		t.Errorf("expected unrated, got %v/%d", none.Rating, none.Count)
	}
}

func TestRatingService_SummaryMany_MatchesSingle(t *testing.T) {
	svc, s := setupTestRatingService()
	s.ratings = []model.TutorRating{
		{TutorID: "a", OverallRating: 5}, {TutorID: "a", OverallRating: 2},
		{TutorID: "b", OverallRating: 1},
	}
	ids := []string{"a", "b", "c"}

	many, err := svc.SummaryMany(context.Background(), ids)
	if err != nil {
		t.Fatalf("SummaryMany: %v", err)
	}
	if len(many) != len(ids) {
		t.Fatalf("expected every id present, got %v", many)
	}
	for _, id := range ids {
		single, _ := svc.Summary(context.Background(), id)
		got := many[id]
		if got.Count != single.Count || (got.Rating == nil) != (single.Rating == nil) ||
			(got.Rating != nil && *got.Rating != *single.Rating) {
			t.Errorf("%s: batched %+v differs from single %+v", id, got, single)
		}
	}
}

// ── Rate ──

func TestRatingService_Rate(t *testing.T) {
	svc, s := setupTestRatingService()
	s.addTutor("tutor-a", nil)
	s.addUser("stu-1")
	s.grant("stu-1", model.RoleStudent, model.RoleStatusApproved)

	err := svc.Rate(context.Background(), "stu-1", "tutor-a", &dto.CreateRatingRequest{Rating: 5, Comment: " great "})
	if err != nil {
		t.Fatalf("Rate: %v", err)
	}
	if len(s.ratings) != 1 || s.ratings[0].Comment != "great" || s.ratings[0].StudentID != "stu-1" {
		t.Errorf("unexpected ratings %+v", s.ratings)
	}
}

func TestRatingService_Rate_Rejections(t *testing.T) {
	svc, s := setupTestRatingService()
	s.addTutor("tutor-a", nil)
	s.addUser("stu-1")
	s.grant("stu-1", model.RoleStudent, model.RoleStatusApproved)
	s.addUser("visitor")
	s.grant("tutor-a", model.RoleStudent, model.RoleStatusApproved)
	s.addTutor("inactive", nil)
	s.tutorProfiles["inactive"].IsActive = false
	s.addTutor("pending", nil)
	s.grant("pending", model.RoleTutor, model.RoleStatusSubmitted)

	tests := []struct {
		name    string
		student string
		tutor   string
		want    error
	}{
		{"self", "tutor-a", "tutor-a", ErrSelfRating},
		{"no student role", "visitor", "tutor-a", ErrStudentRoleRequired},
		{"unknown tutor", "stu-1", "missing", ErrTutorNotFound},
		{"inactive tutor", "stu-1", "inactive", ErrTutorNotFound},
		{"unapproved tutor", "stu-1", "pending", ErrTutorNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.Rate(context.Background(), tt.student, tt.tutor, &dto.CreateRatingRequest{Rating: 3})
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
	if len(s.ratings) != 0 {
		t.Errorf("expected nothing stored, got %d", len(s.ratings))
	}
}
