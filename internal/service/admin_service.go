package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/AfopeM/nawalingo/internal/dto"
	"github.com/AfopeM/nawalingo/internal/model"
	"github.com/AfopeM/nawalingo/internal/repository"
)

// AdminService tutor applications and role administration
type AdminService interface {
	ListTutorApplications(ctx context.Context) ([]dto.TutorApplicationResponse, error)
	ApproveTutor(ctx context.Context, userID string) error
	// RejectTutor marks the application REJECTED; re-applying submits it again
	RejectTutor(ctx context.Context, userID string) error
	MakeAdmin(ctx context.Context, userID string) error
	// SetRolePermissions replaces the role's permission set
	SetRolePermissions(ctx context.Context, roleName string, permissions []string) error
}

type adminService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewAdminService creates an AdminService
func NewAdminService(repo *repository.Repository, logger *zap.Logger) AdminService {
	return &adminService{repo: repo, logger: logger}
}

// ────────────────────── Applications ──────────────────────

func (s *adminService) ListTutorApplications(ctx context.Context) ([]dto.TutorApplicationResponse, error) {
	list, err := s.repo.Role.ListAssignments(ctx, model.RoleTutor, model.RoleStatusSubmitted)
	if err != nil {
		s.logger.Error("list tutor applications failed", zap.Error(err))
		return nil, err
	}

	out := make([]dto.TutorApplicationResponse, 0, len(list))
	for _, a := range list {
		out = append(out, toApplication(a))
	}
	return out, nil
}

func toApplication(a model.UserRoleAssignment) dto.TutorApplicationResponse {
	app := dto.TutorApplicationResponse{
		UserID:      a.UserID,
		Status:      a.Status,
		Languages:   []dto.TutorLanguageResponse{},
		SubmittedAt: a.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if u := a.User; u != nil {
		app.Email = u.Email
		app.FirstName = u.FirstName
		app.LastName = u.LastName
		app.Username = u.Username
		app.Country = u.Country
		if tp := u.TutorProfile; tp != nil {
			app.Intro = tp.Intro
			app.TeachingExperience = tp.TeachingExperience
			app.Languages = toTutorLanguages(tp.Languages)
		}
	}
	return app
}

func (s *adminService) ApproveTutor(ctx context.Context, userID string) error {
	return s.setTutorStatus(ctx, userID, model.RoleStatusApproved)
}

func (s *adminService) RejectTutor(ctx context.Context, userID string) error {
	return s.setTutorStatus(ctx, userID, model.RoleStatusRejected)
}

func (s *adminService) setTutorStatus(ctx context.Context, userID, status string) error {
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		role, err := tx.Role.GetByName(ctx, model.RoleTutor)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRoleNotFound
			}
			return err
		}
		a, err := tx.Role.GetAssignment(ctx, userID, role.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrApplicationNotFound
			}
			return err
		}
		// only a pending application can be decided
		if a.Status != model.RoleStatusSubmitted {
			return ErrApplicationNotPending
		}
		return tx.Role.SetAssignmentStatus(ctx, a.ID, status)
	})
	if err != nil {
		if errors.Is(err, ErrRoleNotFound) || errors.Is(err, ErrApplicationNotFound) ||
			errors.Is(err, ErrApplicationNotPending) {
			return err
		}
		s.logger.Error("update tutor application failed",
			zap.String("user_id", userID), zap.String("status", status), zap.Error(err))
		return err
	}

	s.logger.Info("tutor application updated", zap.String("user_id", userID), zap.String("status", status))
	return nil
}

// ────────────────────── Roles ──────────────────────

func (s *adminService) MakeAdmin(ctx context.Context, userID string) error {
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if _, err := tx.User.GetByID(ctx, userID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}
		role, err := tx.Role.EnsureRole(ctx, model.RoleAdmin)
		if err != nil {
			return err
		}
		return tx.Role.UpsertAssignment(ctx, userID, role.ID, model.RoleStatusApproved)
	})
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return err
		}
		s.logger.Error("make admin failed", zap.String("user_id", userID), zap.Error(err))
		return err
	}

	s.logger.Info("admin granted", zap.String("user_id", userID))
	return nil
}

func (s *adminService) SetRolePermissions(ctx context.Context, roleName string, permissions []string) error {
	names := make([]string, 0, len(permissions))
	seen := make(map[string]struct{}, len(permissions))
	for _, p := range permissions {
		p = strings.ToUpper(strings.TrimSpace(p))
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		names = append(names, p)
	}

	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		role, err := tx.Role.GetByName(ctx, strings.ToUpper(strings.TrimSpace(roleName)))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRoleNotFound
			}
			return err
		}

		perms, err := tx.Role.GetPermissionsByNames(ctx, names)
		if err != nil {
			return err
		}
		if len(perms) != len(names) {
			return ErrUnknownPermission
		}

		ids := make([]string, len(perms))
		for i, p := range perms {
			ids[i] = p.ID
		}
		return tx.Role.ReplaceRolePermissions(ctx, role.ID, ids)
	})
	if err != nil {
		if errors.Is(err, ErrRoleNotFound) || errors.Is(err, ErrUnknownPermission) {
			return err
		}
		s.logger.Error("set role permissions failed", zap.String("role", roleName), zap.Error(err))
		return err
	}
	return nil
}
