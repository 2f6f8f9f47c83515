package model

import "strings"

// Proficiency self-reported language level
type Proficiency string

const (
	ProficiencyNative       Proficiency = "NATIVE"
	ProficiencyFluent       Proficiency = "FLUENT"
	ProficiencyAdvanced     Proficiency = "ADVANCED"
	ProficiencyIntermediate Proficiency = "INTERMEDIATE"
	ProficiencyBeginner     Proficiency = "BEGINNER"
)

// ParseProficiency case-insensitive; ok is false for unknown levels
func ParseProficiency(s string) (Proficiency, bool) {
	p := Proficiency(strings.ToUpper(strings.TrimSpace(s)))
	switch p {
	case ProficiencyNative, ProficiencyFluent, ProficiencyAdvanced, ProficiencyIntermediate, ProficiencyBeginner:
		return p, true
	}
	return "", false
}

// Language catalog entry
type Language struct {
	ID         string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Code       string `gorm:"type:varchar(16);not null;uniqueIndex"           json:"code"`
	Name       string `gorm:"type:varchar(100);not null;uniqueIndex"          json:"name"`
	NativeName string `gorm:"type:varchar(100);not null"                      json:"nativeName"`
}

// TableName table name
func (Language) TableName() string { return "languages" }

// StudentLanguage student_languages link
type StudentLanguage struct {
	ID          string      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	StudentID   string      `gorm:"type:uuid;not null"                             json:"studentId"`
	LanguageID  string      `gorm:"type:uuid;not null"                             json:"languageId"`
	Proficiency Proficiency `gorm:"type:varchar(16);not null"                      json:"proficiency"`

	Language *Language `gorm:"foreignKey:LanguageID" json:"language,omitempty"`
}

// TableName table name
func (StudentLanguage) TableName() string { return "student_languages" }

// TutorLanguage tutor_languages link; IsTeaching marks searchable languages
type TutorLanguage struct {
	ID          string      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	TutorID     string      `gorm:"type:uuid;not null"                             json:"tutorId"`
	LanguageID  string      `gorm:"type:uuid;not null"                             json:"languageId"`
	Proficiency Proficiency `gorm:"type:varchar(16);not null"                      json:"proficiency"`
	IsTeaching  bool        `gorm:"not null;default:true"                          json:"isTeaching"`

	Language *Language `gorm:"foreignKey:LanguageID" json:"language,omitempty"`
}

// TableName table name
func (TutorLanguage) TableName() string { return "tutor_languages" }
