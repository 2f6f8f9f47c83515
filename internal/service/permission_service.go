package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/AfopeM/nawalingo/internal/dto"
	"github.com/AfopeM/nawalingo/internal/model"
	"github.com/AfopeM/nawalingo/internal/repository"
)

// PermissionService role and permission gate
type PermissionService interface {
	// HasPermission an APPROVED ADMIN holds every permission; otherwise any
	// APPROVED role linked to the permission grants it
	HasPermission(ctx context.Context, userID, permission string) (bool, error)
	HasApprovedRole(ctx context.Context, userID, role string) (bool, error)
	// ApprovedRoles lowercase role names
	ApprovedRoles(ctx context.Context, userID string) ([]string, error)
	Permissions(ctx context.Context, userID string) (*dto.PermissionsResponse, error)
}

type permissionService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewPermissionService creates a PermissionService
func NewPermissionService(repo *repository.Repository, logger *zap.Logger) PermissionService {
	return &permissionService{repo: repo, logger: logger}
}

func (s *permissionService) HasPermission(ctx context.Context, userID, permission string) (bool, error) {
	roles, err := s.repo.Role.ListApprovedRoleNames(ctx, userID)
	if err != nil {
		s.logger.Error("list approved roles failed", zap.String("user_id", userID), zap.Error(err))
		return false, err
	}
	if len(roles) == 0 {
		return false, nil
	}
	if containsFold(roles, model.RoleAdmin) {
		return true, nil
	}

	perms, err := s.repo.Role.ListPermissionNamesByRoles(ctx, roles)
	if err != nil {
		s.logger.Error("list role permissions failed", zap.String("user_id", userID), zap.Error(err))
		return false, err
	}
	return containsFold(perms, permission), nil
}

func (s *permissionService) HasApprovedRole(ctx context.Context, userID, role string) (bool, error) {
	roles, err := s.repo.Role.ListApprovedRoleNames(ctx, userID)
	if err != nil {
		s.logger.Error("list approved roles failed", zap.String("user_id", userID), zap.Error(err))
		return false, err
	}
	return containsFold(roles, role), nil
}

func (s *permissionService) ApprovedRoles(ctx context.Context, userID string) ([]string, error) {
	roles, err := s.repo.Role.ListApprovedRoleNames(ctx, userID)
	if err != nil {
		s.logger.Error("list approved roles failed", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	out := make([]string, len(roles))
	for i, r := range roles {
		out[i] = strings.ToLower(r)
	}
	return out, nil
}

func (s *permissionService) Permissions(ctx context.Context, userID string) (*dto.PermissionsResponse, error) {
	roles, err := s.repo.Role.ListApprovedRoleNames(ctx, userID)
	if err != nil {
		s.logger.Error("list approved roles failed", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	resp := &dto.PermissionsResponse{UserID: userID, Permissions: []string{}}
	var perms []string
	if containsFold(roles, model.RoleAdmin) {
		resp.IsAdmin = true
		perms, err = s.repo.Role.ListPermissionNames(ctx)
	} else {
		perms, err = s.repo.Role.ListPermissionNamesByRoles(ctx, roles)
	}
	if err != nil {
		s.logger.Error("list permissions failed", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	if perms != nil {
		resp.Permissions = perms
	}
	return resp, nil
}
