package model

// User users table; ID is the identity provider's subject
type User struct {
	ID              string `gorm:"type:uuid;primaryKey"              json:"id"`
	Email           string `gorm:"type:varchar(255);not null"        json:"email"`
	Username        string `gorm:"type:varchar(100);not null"        json:"username"`
	FirstName       string `gorm:"type:varchar(100);not null"        json:"firstName"`
	LastName        string `gorm:"type:varchar(100);not null"        json:"lastName"`
	Country         string `gorm:"type:varchar(100);not null"        json:"country"`
	Timezone        string `gorm:"type:varchar(64);not null"         json:"timezone"`
	ProfileImageURL string `gorm:"type:text;not null"                json:"profileImageUrl"`
	IsActive        bool   `gorm:"not null;default:true"             json:"isActive"`
	BaseModel

	StudentProfile  *StudentProfile      `gorm:"foreignKey:UserID" json:"studentProfile,omitempty"`
	TutorProfile    *TutorProfile        `gorm:"foreignKey:UserID" json:"tutorProfile,omitempty"`
	RoleAssignments []UserRoleAssignment `gorm:"foreignKey:UserID" json:"roleAssignments,omitempty"`
}

// TableName table name
func (User) TableName() string { return "users" }
