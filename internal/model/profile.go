package model

// StudentProfile student_profiles table
type StudentProfile struct {
	ID                  string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID              string `gorm:"type:uuid;not null;uniqueIndex"                 json:"userId"`
	OnboardingCompleted bool   `gorm:"not null;default:false"                         json:"onboardingCompleted"`
	BaseModel

	Languages []StudentLanguage `gorm:"foreignKey:StudentID" json:"languages,omitempty"`
}

// TableName table name
func (StudentProfile) TableName() string { return "student_profiles" }

// TutorProfile tutor_profiles table
type TutorProfile struct {
	ID                 string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID             string `gorm:"type:uuid;not null;uniqueIndex"                 json:"userId"`
	Intro              string `gorm:"type:text;not null"                             json:"intro"`
	TeachingExperience string `gorm:"type:text;not null"                             json:"teachingExperience"`
	IsActive           bool   `gorm:"not null;default:true"                          json:"isActive"`
	BaseModel

	User      *User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Languages []TutorLanguage `gorm:"foreignKey:TutorID" json:"languages,omitempty"`
}

// TableName table name
func (TutorProfile) TableName() string { return "tutor_profiles" }
