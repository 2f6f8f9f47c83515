package model

import (
	"time"

	"github.com/AfopeM/nawalingo/internal/availability"
)

// Availability types
const (
	AvailabilityStudent = "STUDENT_AVAILABILITY"
	AvailabilityTutor   = "TUTOR_AVAILABILITY"
)

// Availability recurring weekly window; DayOfWeek 0 = Sunday
type Availability struct {
	ID          string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID      string    `gorm:"type:uuid;not null;index"                       json:"userId"`
	Type        string    `gorm:"type:varchar(32);not null"                      json:"type"`
	DayOfWeek   int       `gorm:"type:smallint;not null"                         json:"dayOfWeek"`
	StartMinute int       `gorm:"type:smallint;not null"                         json:"startMinute"`
	EndMinute   int       `gorm:"type:smallint;not null"                         json:"endMinute"`
	Timezone    string    `gorm:"type:varchar(64);not null;default:'UTC'"        json:"timezone"`
	IsActive    bool      `gorm:"not null;default:true"                          json:"isActive"`
	CreatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"createdAt"`
}

// TableName table name
func (Availability) TableName() string { return "availabilities" }

// Window converts the row for the matcher
func (a Availability) Window() availability.Window {
	return availability.Window{
		DayOfWeek:   a.DayOfWeek,
		StartMinute: a.StartMinute,
		EndMinute:   a.EndMinute,
		Timezone:    a.Timezone,
		Active:      a.IsActive,
	}
}

// AvailabilityFromWindow builds an unsaved row for a user
func AvailabilityFromWindow(userID, typ string, w availability.Window) Availability {
	return Availability{
		UserID:      userID,
		Type:        typ,
		DayOfWeek:   w.DayOfWeek,
		StartMinute: w.StartMinute,
		EndMinute:   w.EndMinute,
		Timezone:    w.Timezone,
		IsActive:    true,
	}
}

// Windows converts rows for the matcher
func Windows(rows []Availability) []availability.Window {
	ws := make([]availability.Window, len(rows))
	for i, r := range rows {
		ws[i] = r.Window()
	}
	return ws
}
