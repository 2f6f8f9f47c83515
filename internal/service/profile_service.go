package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/AfopeM/nawalingo/internal/dto"
	"github.com/AfopeM/nawalingo/internal/model"
	"github.com/AfopeM/nawalingo/internal/repository"
)

// ProfileService student onboarding and profile
type ProfileService interface {
	OnboardingStatus(ctx context.Context, userID string) (*dto.OnboardingStatusResponse, error)
	// CompleteOnboarding writes user fields, student profile, languages,
	// availability and the STUDENT role in one transaction
	CompleteOnboarding(ctx context.Context, userID, email string, req *dto.OnboardingRequest) error
	GetProfile(ctx context.Context, userID string) (*dto.ProfileResponse, error)
	UpdateProfile(ctx context.Context, userID, email string, req *dto.UpdateProfileRequest) error
}

type profileService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewProfileService creates a ProfileService
func NewProfileService(repo *repository.Repository, logger *zap.Logger) ProfileService {
	return &profileService{repo: repo, logger: logger}
}

// ────────────────────── Onboarding ──────────────────────

func (s *profileService) OnboardingStatus(ctx context.Context, userID string) (*dto.OnboardingStatusResponse, error) {
	p, err := s.repo.Student.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &dto.OnboardingStatusResponse{OnboardingCompleted: false}, nil
		}
		s.logger.Error("get student profile failed", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	return &dto.OnboardingStatusResponse{OnboardingCompleted: p.OnboardingCompleted}, nil
}

func (s *profileService) CompleteOnboarding(ctx context.Context, userID, email string, req *dto.OnboardingRequest) error {
	fields := map[string]any{}
	setIf(fields, "first_name", req.FirstName)
	setIf(fields, "last_name", req.LastName)
	setIf(fields, "username", req.UserName)
	setIf(fields, "country", req.Country)
	setIf(fields, "timezone", req.SelectedTimezone)

	completed := true
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.User.Ensure(ctx, userID, email); err != nil {
			return err
		}
		if err := tx.User.UpdateFields(ctx, userID, fields); err != nil {
			return err
		}

		profile, err := tx.Student.UpsertProfile(ctx, userID, &completed)
		if err != nil {
			return err
		}

		langs, err := resolveLanguages(ctx, tx.Language, req.SelectedLanguages)
		if err != nil {
			return err
		}
		if err := tx.Student.UpsertLanguages(ctx, studentLinks(profile.ID, langs)); err != nil {
			return err
		}

		if req.SelectedTimeSlots != nil {
			tz, err := slotTimezone(ctx, tx, userID, req.SelectedTimezone)
			if err != nil {
				return err
			}
			rows := slotsToRows(userID, model.AvailabilityStudent, req.SelectedTimeSlots, tz)
			if err := tx.Availability.ReplaceByUserAndType(ctx, userID, model.AvailabilityStudent, rows); err != nil {
				return err
			}
		}

		role, err := tx.Role.EnsureRole(ctx, model.RoleStudent)
		if err != nil {
			return err
		}
		return tx.Role.UpsertAssignment(ctx, userID, role.ID, model.RoleStatusApproved)
	})
	if err != nil {
		s.logger.Error("complete onboarding failed", zap.String("user_id", userID), zap.Error(err))
		return err
	}

	s.logger.Info("student onboarded", zap.String("user_id", userID))
	return nil
}

// ────────────────────── Profile ──────────────────────

func (s *profileService) GetProfile(ctx context.Context, userID string) (*dto.ProfileResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("get user failed", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	resp := &dto.ProfileResponse{
		FullName:          user.Username,
		FirstName:         user.FirstName,
		LastName:          user.LastName,
		Email:             user.Email,
		Country:           user.Country,
		SelectedTimezone:  user.Timezone,
		SelectedLanguages: []dto.LanguageSelection{},
		SelectedTimeSlots: []dto.TimeSlot{},
	}

	profile, err := s.repo.Student.GetProfile(ctx, userID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("get student profile failed", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	if profile != nil {
		for _, l := range profile.Languages {
			if l.Language == nil {
				continue
			}
			resp.SelectedLanguages = append(resp.SelectedLanguages, dto.LanguageSelection{
				Language:    l.Language.Code,
				Proficiency: string(l.Proficiency),
			})
		}
	}

	rows, err := s.repo.Availability.ListByUserAndType(ctx, userID, model.AvailabilityStudent)
	if err != nil {
		s.logger.Error("list student availability failed", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	for _, r := range rows {
		resp.SelectedTimeSlots = append(resp.SelectedTimeSlots, toTimeSlot(r))
	}

	return resp, nil
}

// UpdateProfile syncs the language set (languages no longer listed are
// removed). A nil language or slot list leaves that part untouched.
func (s *profileService) UpdateProfile(ctx context.Context, userID, email string, req *dto.UpdateProfileRequest) error {
	fields := map[string]any{}
	setIf(fields, "username", req.FullName)
	setIf(fields, "timezone", req.SelectedTimezone)
	if req.Country != nil {
		fields["country"] = *req.Country
	}

	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.User.Ensure(ctx, userID, email); err != nil {
			return err
		}
		if err := tx.User.UpdateFields(ctx, userID, fields); err != nil {
			return err
		}

		profile, err := tx.Student.UpsertProfile(ctx, userID, nil)
		if err != nil {
			return err
		}

		if req.SelectedLanguages != nil {
			langs, err := resolveLanguages(ctx, tx.Language, req.SelectedLanguages)
			if err != nil {
				return err
			}
			if err := tx.Student.UpsertLanguages(ctx, studentLinks(profile.ID, langs)); err != nil {
				return err
			}
			if err := tx.Student.DeleteLanguagesExcept(ctx, profile.ID, languageIDs(langs)); err != nil {
				return err
			}
		}

		if req.SelectedTimeSlots != nil {
			tz, err := slotTimezone(ctx, tx, userID, req.SelectedTimezone)
			if err != nil {
				return err
			}
			rows := slotsToRows(userID, model.AvailabilityStudent, req.SelectedTimeSlots, tz)
			if err := tx.Availability.ReplaceByUserAndType(ctx, userID, model.AvailabilityStudent, rows); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("update profile failed", zap.String("user_id", userID), zap.Error(err))
		return err
	}
	return nil
}

// ── helpers ──

// slotTimezone the requested zone, else the user's stored one
func slotTimezone(ctx context.Context, tx *repository.Repository, userID, requested string) (string, error) {
	if requested != "" {
		return requested, nil
	}
	user, err := tx.User.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	return user.Timezone, nil
}

func setIf(fields map[string]any, column, value string) {
	if value != "" {
		fields[column] = value
	}
}

func studentLinks(studentID string, langs []resolvedLanguage) []model.StudentLanguage {
	links := make([]model.StudentLanguage, len(langs))
	for i, l := range langs {
		links[i] = model.StudentLanguage{
			StudentID:   studentID,
			LanguageID:  l.Language.ID,
			Proficiency: l.Proficiency,
		}
	}
	return links
}
