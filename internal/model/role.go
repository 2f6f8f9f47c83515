package model

import "time"

// Role names
const (
	RoleStudent = "STUDENT"
	RoleTutor   = "TUTOR"
	RoleAdmin   = "ADMIN"
)

// Role assignment statuses
const (
	RoleStatusSubmitted = "SUBMITTED"
	RoleStatusApproved  = "APPROVED"
	RoleStatusRejected  = "REJECTED"
)

// Permission names
const (
	PermManageUsers             = "MANAGE_USERS"
	PermViewDashboard           = "VIEW_DASHBOARD"
	PermManageRoles             = "MANAGE_ROLES"
	PermManageTutorApplications = "MANAGE_TUTOR_APPLICATIONS"
	PermViewAuditLogs           = "VIEW_AUDIT_LOGS"
	PermSystemSettings          = "SYSTEM_SETTINGS"
	PermManageAdmins            = "MANAGE_ADMINS"
	PermManagePayments          = "MANAGE_PAYMENTS"
)

// Role roles table
type Role struct {
	ID   string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name string `gorm:"type:varchar(32);not null;uniqueIndex"           json:"name"`

	Permissions []Permission `gorm:"many2many:role_permission_assignments;joinForeignKey:RoleID;joinReferences:PermissionID" json:"permissions,omitempty"`
}

// TableName table name
func (Role) TableName() string { return "roles" }

// Permission permissions table
type Permission struct {
	ID          string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name        string `gorm:"type:varchar(64);not null;uniqueIndex"           json:"name"`
	Description string `gorm:"type:text;not null"                              json:"description"`
}

// TableName table name
func (Permission) TableName() string { return "permissions" }

// RolePermissionAssignment role → permission link
type RolePermissionAssignment struct {
	ID           string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	RoleID       string `gorm:"type:uuid;not null"                             json:"roleId"`
	PermissionID string `gorm:"type:uuid;not null"                             json:"permissionId"`
}

// TableName table name
func (RolePermissionAssignment) TableName() string { return "role_permission_assignments" }

// UserRoleAssignment (user, role, status); only APPROVED grants anything
type UserRoleAssignment struct {
	ID        string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID    string    `gorm:"type:uuid;not null"                             json:"userId"`
	RoleID    string    `gorm:"type:uuid;not null"                             json:"roleId"`
	Status    string    `gorm:"type:varchar(16);not null"                      json:"status"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"updatedAt"`

	Role *Role `gorm:"foreignKey:RoleID" json:"role,omitempty"`
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName table name
func (UserRoleAssignment) TableName() string { return "user_role_assignments" }
