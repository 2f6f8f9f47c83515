package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/AfopeM/nawalingo/internal/availability"
	"github.com/AfopeM/nawalingo/internal/dto"
	"github.com/AfopeM/nawalingo/internal/model"
	"github.com/AfopeM/nawalingo/internal/repository"
)

// TutorService tutor search, detail, application and availability
type TutorService interface {
	Search(ctx context.Context, params dto.TutorSearchParams) ([]dto.TutorSummary, int64, error)
	// GetDetail tutorID is the tutor's user id; only listed tutors are visible
	GetDetail(ctx context.Context, tutorID string) (*dto.TutorDetailResponse, error)
	Apply(ctx context.Context, userID, email string, req *dto.TutorApplyRequest) error
	// ReplaceAvailability replace-all; a nil or empty slot list clears it
	ReplaceAvailability(ctx context.Context, userID string, req *dto.UpdateAvailabilityRequest) (int, error)
	// ImportAvailability replaces availability with the calendar's weekly events
	ImportAvailability(ctx context.Context, userID string, r io.Reader, timezone string) (int, error)
	// ExportAvailability weekly availability as an iCalendar document
	ExportAvailability(ctx context.Context, tutorID string) (string, error)
}

type tutorService struct {
	repo    *repository.Repository
	ratings RatingService
	logger  *zap.Logger
	now     func() time.Time
}

// NewTutorService creates a TutorService
func NewTutorService(repo *repository.Repository, logger *zap.Logger) TutorService {
	return &tutorService{
		repo:    repo,
		ratings: NewRatingService(repo, logger),
		logger:  logger,
		now:     time.Now,
	}
}

// ────────────────────── Search ──────────────────────

func (s *tutorService) Search(ctx context.Context, p dto.TutorSearchParams) ([]dto.TutorSummary, int64, error) {
	filter := repository.TutorFilter{
		Languages:   p.Languages,
		Native:      p.Native,
		Country:     p.Country,
		MinRating:   p.MinRating,
		MaxRating:   p.MaxRating,
		DayOfWeek:   p.DayOfWeek,
		StartMinute: p.StartMinute,
		EndMinute:   p.EndMinute,
		Offset:      p.Offset(),
		Limit:       p.PageSize,
	}

	profiles, total, err := s.repo.Tutor.Search(ctx, filter)
	if err != nil {
		s.logger.Error("search tutors failed", zap.Error(err))
		return nil, 0, err
	}

	results := make([]dto.TutorSummary, 0, len(profiles))
	if len(profiles) == 0 {
		return results, total, nil
	}

	ids := make([]string, len(profiles))
	for i, p := range profiles {
		ids[i] = p.UserID
	}

	// one aggregate and one availability read for the whole page
	ratings, err := s.ratings.SummaryMany(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	rows, err := s.repo.Availability.ListActiveByUsers(ctx, ids, model.AvailabilityTutor)
	if err != nil {
		s.logger.Error("list tutor availability failed", zap.Error(err))
		return nil, 0, err
	}
	byUser := make(map[string][]model.Availability, len(ids))
	for _, r := range rows {
		byUser[r.UserID] = append(byUser[r.UserID], r)
	}

	now := s.now()
	for i := range profiles {
		ws := model.Windows(byUser[profiles[i].UserID])
		summary := s.summarize(&profiles[i], ratings[profiles[i].UserID], ws, now)

		summary.MatchingSlots = []dto.SlotResponse{}
		if p.HasTimeFilter() {
			q := availability.Query{DayOfWeek: *p.DayOfWeek, StartMinute: p.StartMinute, EndMinute: p.EndMinute}
			summary.MatchingSlots = toSlotResponses(availability.Matching(ws, q))
		}
		results = append(results, summary)
	}

	return results, total, nil
}

// ────────────────────── Detail ──────────────────────

func (s *tutorService) GetDetail(ctx context.Context, tutorID string) (*dto.TutorDetailResponse, error) {
	profile, err := listedTutorProfile(ctx, s.repo, s.logger, tutorID)
	if err != nil {
		return nil, err
	}

	rating, err := s.ratings.Summary(ctx, tutorID)
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.Availability.ListActiveByUsers(ctx, []string{tutorID}, model.AvailabilityTutor)
	if err != nil {
		s.logger.Error("list tutor availability failed", zap.String("tutor_id", tutorID), zap.Error(err))
		return nil, err
	}

	ws := model.Windows(rows)
	summary := s.summarize(profile, *rating, ws, s.now())
	summary.MatchingSlots = []dto.SlotResponse{}

	resp := &dto.TutorDetailResponse{
		TutorSummary: summary,
		Availability: toSlotResponses(ws),
	}
	if profile.User != nil {
		resp.Timezone = profile.User.Timezone
	}
	return resp, nil
}

func (s *tutorService) summarize(p *model.TutorProfile, rating dto.RatingSummary, ws []availability.Window, now time.Time) dto.TutorSummary {
	summary := dto.TutorSummary{
		ID:                 p.UserID,
		Intro:              p.Intro,
		TeachingExperience: p.TeachingExperience,
		Languages:          toTutorLanguages(p.Languages),
		Rating:             rating.Rating,
		RatingCount:        rating.Count,
		NextAvailableSlot:  formatInstant(availability.NextStart(now, ws)),
	}
	if p.User != nil {
		summary.FirstName = p.User.FirstName
		summary.LastName = p.User.LastName
		summary.ProfileImageURL = p.User.ProfileImageURL
		summary.Country = p.User.Country
	}
	return summary
}

// ────────────────────── Apply ──────────────────────

// Apply submits or updates a tutor application. An already approved tutor
// keeps the approval; anyone else goes (back) to SUBMITTED.
func (s *tutorService) Apply(ctx context.Context, userID, email string, req *dto.TutorApplyRequest) error {
	fields := map[string]any{}
	setIf(fields, "country", req.Country)
	setIf(fields, "timezone", req.SelectedTimezone)

	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.User.Ensure(ctx, userID, email); err != nil {
			return err
		}
		if err := tx.User.UpdateFields(ctx, userID, fields); err != nil {
			return err
		}

		profile, err := tx.Tutor.UpsertProfile(ctx, &model.TutorProfile{
			UserID:             userID,
			Intro:              strings.TrimSpace(req.Intro),
			TeachingExperience: strings.TrimSpace(req.TeachingExperience),
			IsActive:           true,
		})
		if err != nil {
			return err
		}

		langs, err := resolveLanguages(ctx, tx.Language, req.LanguagesTaught)
		if err != nil {
			return err
		}
		if err := tx.Tutor.UpsertLanguages(ctx, tutorLinks(profile.ID, langs)); err != nil {
			return err
		}
		if err := tx.Tutor.DeleteLanguagesExcept(ctx, profile.ID, languageIDs(langs)); err != nil {
			return err
		}

		if req.SelectedTimeSlots != nil {
			tz, err := slotTimezone(ctx, tx, userID, req.SelectedTimezone)
			if err != nil {
				return err
			}
			rows := slotsToRows(userID, model.AvailabilityTutor, req.SelectedTimeSlots, tz)
			if err := tx.Availability.ReplaceByUserAndType(ctx, userID, model.AvailabilityTutor, rows); err != nil {
				return err
			}
		}

		role, err := tx.Role.EnsureRole(ctx, model.RoleTutor)
		if err != nil {
			return err
		}
		status := model.RoleStatusSubmitted
		existing, err := tx.Role.GetAssignment(ctx, userID, role.ID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if existing != nil && existing.Status == model.RoleStatusApproved {
			status = model.RoleStatusApproved
		}
		return tx.Role.UpsertAssignment(ctx, userID, role.ID, status)
	})
	if err != nil {
		s.logger.Error("tutor application failed", zap.String("user_id", userID), zap.Error(err))
		return err
	}

	s.logger.Info("tutor application submitted", zap.String("user_id", userID))
	return nil
}

// ────────────────────── Availability ──────────────────────

func (s *tutorService) ReplaceAvailability(ctx context.Context, userID string, req *dto.UpdateAvailabilityRequest) (int, error) {
	if err := s.requireTutor(ctx, userID); err != nil {
		return 0, err
	}

	var saved int
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		tz, err := slotTimezone(ctx, tx, userID, req.SelectedTimezone)
		if err != nil {
			return err
		}
		rows := slotsToRows(userID, model.AvailabilityTutor, req.SelectedTimeSlots, tz)
		saved = len(rows)
		return tx.Availability.ReplaceByUserAndType(ctx, userID, model.AvailabilityTutor, rows)
	})
	if err != nil {
		s.logger.Error("replace tutor availability failed", zap.String("user_id", userID), zap.Error(err))
		return 0, err
	}
	return saved, nil
}

func (s *tutorService) ImportAvailability(ctx context.Context, userID string, r io.Reader, timezone string) (int, error) {
	if err := s.requireTutor(ctx, userID); err != nil {
		return 0, err
	}

	ws, err := ParseAvailabilityICS(r, timezone)
	if err != nil {
		s.logger.Info("reject calendar import", zap.String("user_id", userID), zap.Error(err))
		return 0, ErrInvalidCalendar
	}

	rows := make([]model.Availability, len(ws))
	for i, w := range ws {
		rows[i] = model.AvailabilityFromWindow(userID, model.AvailabilityTutor, w)
	}
	if err := s.repo.Availability.ReplaceByUserAndType(ctx, userID, model.AvailabilityTutor, rows); err != nil {
		s.logger.Error("import tutor availability failed", zap.String("user_id", userID), zap.Error(err))
		return 0, err
	}
	return len(rows), nil
}

func (s *tutorService) ExportAvailability(ctx context.Context, tutorID string) (string, error) {
	profile, err := listedTutorProfile(ctx, s.repo, s.logger, tutorID)
	if err != nil {
		return "", err
	}

	rows, err := s.repo.Availability.ListActiveByUsers(ctx, []string{tutorID}, model.AvailabilityTutor)
	if err != nil {
		s.logger.Error("list tutor availability failed", zap.String("tutor_id", tutorID), zap.Error(err))
		return "", err
	}

	name := "Nawalingo tutor availability"
	if profile.User != nil {
		if full := strings.TrimSpace(profile.User.FirstName + " " + profile.User.LastName); full != "" {
			name = full + " availability"
		}
	}
	return BuildAvailabilityICS(name, tutorID, s.now(), model.Windows(rows)), nil
}

func (s *tutorService) requireTutor(ctx context.Context, userID string) error {
	roles, err := s.repo.Role.ListApprovedRoleNames(ctx, userID)
	if err != nil {
		s.logger.Error("list approved roles failed", zap.String("user_id", userID), zap.Error(err))
		return err
	}
	if !containsFold(roles, model.RoleTutor) {
		return ErrTutorRoleRequired
	}
	return nil
}

func tutorLinks(tutorID string, langs []resolvedLanguage) []model.TutorLanguage {
	links := make([]model.TutorLanguage, len(langs))
	for i, l := range langs {
		links[i] = model.TutorLanguage{
			TutorID:     tutorID,
			LanguageID:  l.Language.ID,
			Proficiency: l.Proficiency,
			IsTeaching:  true,
		}
	}
	return links
}
