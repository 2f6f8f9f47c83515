package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/AfopeM/nawalingo/internal/model"
)

// RoleRepository roles, permissions and user assignments
type RoleRepository interface {
	GetByName(ctx context.Context, name string) (*model.Role, error)
	// EnsureRole returns the named role, creating it when missing
	EnsureRole(ctx context.Context, name string) (*model.Role, error)

	GetAssignment(ctx context.Context, userID, roleID string) (*model.UserRoleAssignment, error)
	UpsertAssignment(ctx context.Context, userID, roleID, status string) error
	SetAssignmentStatus(ctx context.Context, assignmentID, status string) error
	// ListAssignments by role name and status with user, tutor profile and
	// taught languages preloaded, oldest first
	ListAssignments(ctx context.Context, roleName, status string) ([]model.UserRoleAssignment, error)

	ListApprovedRoleNames(ctx context.Context, userID string) ([]string, error)
	ListPermissionNamesByRoles(ctx context.Context, roleNames []string) ([]string, error)
	ListPermissionNames(ctx context.Context) ([]string, error)
	GetPermissionsByNames(ctx context.Context, names []string) ([]model.Permission, error)
	// ReplaceRolePermissions swaps the whole permission set of a role
	ReplaceRolePermissions(ctx context.Context, roleID string, permissionIDs []string) error
}

type roleRepo struct {
	db *gorm.DB
}

// NewRoleRepo creates a RoleRepository
func NewRoleRepo(db *gorm.DB) RoleRepository {
	return &roleRepo{db: db}
}

// ────────────────────── Roles ──────────────────────

func (r *roleRepo) GetByName(ctx context.Context, name string) (*model.Role, error) {
	var role model.Role
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *roleRepo) EnsureRole(ctx context.Context, name string) (*model.Role, error) {
	role := model.Role{Name: name}
	err := r.db.WithContext(ctx).
		Where(model.Role{Name: name}).
		FirstOrCreate(&role).Error
	if err != nil {
		return nil, err
	}
	return &role, nil
}

// ────────────────────── Assignments ──────────────────────

func (r *roleRepo) GetAssignment(ctx context.Context, userID, roleID string) (*model.UserRoleAssignment, error) {
	var a model.UserRoleAssignment
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND role_id = ?", userID, roleID).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *roleRepo) UpsertAssignment(ctx context.Context, userID, roleID, status string) error {
	a := model.UserRoleAssignment{UserID: userID, RoleID: roleID, Status: status}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "role_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"status":     status,
				"updated_at": time.Now(),
			}),
		}).
		Create(&a).Error
}

func (r *roleRepo) SetAssignmentStatus(ctx context.Context, assignmentID, status string) error {
	return r.db.WithContext(ctx).
		Model(&model.UserRoleAssignment{}).
		Where("id = ?", assignmentID).
		Updates(map[string]any{"status": status, "updated_at": time.Now()}).Error
}

func (r *roleRepo) ListAssignments(ctx context.Context, roleName, status string) ([]model.UserRoleAssignment, error) {
	var list []model.UserRoleAssignment
	err := r.db.WithContext(ctx).
		Joins("JOIN roles ON roles.id = user_role_assignments.role_id").
		Where("roles.name = ? AND user_role_assignments.status = ?", roleName, status).
		Preload("Role").
		Preload("User").
		Preload("User.TutorProfile").
		Preload("User.TutorProfile.Languages", "is_teaching = ?", true).
		Preload("User.TutorProfile.Languages.Language").
		Order("user_role_assignments.updated_at ASC").
		Find(&list).Error
	return list, err
}

// ────────────────────── Permissions ──────────────────────

func (r *roleRepo) ListApprovedRoleNames(ctx context.Context, userID string) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).
		Table("user_role_assignments").
		Joins("JOIN roles ON roles.id = user_role_assignments.role_id").
		Where("user_role_assignments.user_id = ? AND user_role_assignments.status = ?", userID, model.RoleStatusApproved).
		Order("roles.name ASC").
		Pluck("roles.name", &names).Error
	return names, err
}

func (r *roleRepo) ListPermissionNamesByRoles(ctx context.Context, roleNames []string) ([]string, error) {
	var names []string
	if len(roleNames) == 0 {
		return names, nil
	}
	err := r.db.WithContext(ctx).
		Table("permissions").
		Distinct("permissions.name").
		Joins("JOIN role_permission_assignments rpa ON rpa.permission_id = permissions.id").
		Joins("JOIN roles ON roles.id = rpa.role_id").
		Where("roles.name IN ?", roleNames).
		Order("permissions.name ASC").
		Pluck("permissions.name", &names).Error
	return names, err
}

func (r *roleRepo) ListPermissionNames(ctx context.Context) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).
		Model(&model.Permission{}).
		Order("name ASC").
		Pluck("name", &names).Error
	return names, err
}

func (r *roleRepo) GetPermissionsByNames(ctx context.Context, names []string) ([]model.Permission, error) {
	var perms []model.Permission
	if len(names) == 0 {
		return perms, nil
	}
	err := r.db.WithContext(ctx).Where("name IN ?", names).Find(&perms).Error
	return perms, err
}

func (r *roleRepo) ReplaceRolePermissions(ctx context.Context, roleID string, permissionIDs []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("role_id = ?", roleID).
			Delete(&model.RolePermissionAssignment{}).Error; err != nil {
			return err
		}
		if len(permissionIDs) == 0 {
			return nil
		}
		links := make([]model.RolePermissionAssignment, len(permissionIDs))
		for i, pid := range permissionIDs {
			links[i] = model.RolePermissionAssignment{RoleID: roleID, PermissionID: pid}
		}
		return tx.Create(&links).Error
	})
}
