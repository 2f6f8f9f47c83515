package model

import "time"

// TutorRating one student's rating of a tutor; both ids reference users
type TutorRating struct {
	ID            string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	TutorID       string    `gorm:"type:uuid;not null;index"                       json:"tutorId"`
	StudentID     string    `gorm:"type:uuid;not null"                             json:"studentId"`
	OverallRating int       `gorm:"type:smallint;not null"                         json:"overallRating"`
	Comment       string    `gorm:"type:text;not null"                             json:"comment"`
	CreatedAt     time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"createdAt"`
}

// TableName table name
func (TutorRating) TableName() string { return "tutor_ratings" }
