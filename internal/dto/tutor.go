package dto

import (
	"net/url"
	"strconv"
	"strings"
)

// ── tutor application & availability ──

// TutorApplyRequest POST /tutor/apply
type TutorApplyRequest struct {
	Intro              string              `json:"intro"              binding:"notblank,max=5000"`
	TeachingExperience string              `json:"teachingExperience" binding:"notblank,max=5000"`
	LanguagesTaught    []LanguageSelection `json:"languagesTaught"    binding:"required,min=1"`
	Country            string              `json:"country"            binding:"omitempty,max=100"`
	SelectedTimezone   string              `json:"selectedTimezone"   binding:"omitempty,timezone"`
	SelectedTimeSlots  []TimeSlot          `json:"selectedTimeSlots"`
}

// UpdateAvailabilityRequest PUT /tutor/availability; an empty list clears every slot
type UpdateAvailabilityRequest struct {
	SelectedTimezone  string     `json:"selectedTimezone"  binding:"omitempty,timezone"`
	SelectedTimeSlots []TimeSlot `json:"selectedTimeSlots"`
}

// ── search ──

// TutorSearchParams normalized search filters
type TutorSearchParams struct {
	Pagination
	Languages   []string
	Native      bool
	Country     string
	MinRating   float64
	MaxRating   float64
	DayOfWeek   *int
	StartMinute int
	EndMinute   int
}

// HasTimeFilter true when a day was given
func (p TutorSearchParams) HasTimeFilter() bool {
	return p.DayOfWeek != nil
}

// ParseTutorSearch reads GET /tutors query parameters.
// Malformed values fall back to their defaults instead of failing.
func ParseTutorSearch(q url.Values, defaultPageSize, maxPageSize int) TutorSearchParams {
	p := TutorSearchParams{
		Pagination: Pagination{
			Page:     intOr(q.Get("page"), 1),
			PageSize: intOr(q.Get("pageSize"), defaultPageSize),
		},
		Country:     strings.TrimSpace(q.Get("country")),
		MinRating:   floatOr(q.Get("minRating"), 0),
		MaxRating:   floatOr(q.Get("maxRating"), 5),
		StartMinute: intOr(q.Get("startMinute"), 0),
		EndMinute:   intOr(q.Get("endMinute"), 1439),
	}

	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = defaultPageSize
	}
	if p.PageSize > maxPageSize {
		p.PageSize = maxPageSize
	}

	for _, raw := range q["languages"] {
		for _, l := range strings.Split(raw, ",") {
			if l = strings.TrimSpace(l); l != "" {
				p.Languages = append(p.Languages, l)
			}
		}
	}

	native := strings.ToLower(q.Get("native"))
	p.Native = native == "true" || native == "1"

	p.MinRating = clampFloat(p.MinRating, 0, 5)
	p.MaxRating = clampFloat(p.MaxRating, 0, 5)

	if d, err := strconv.Atoi(q.Get("dayOfWeek")); err == nil && d >= 0 && d <= 6 {
		p.DayOfWeek = &d
	}
	p.StartMinute = clampInt(p.StartMinute, 0, 1439)
	p.EndMinute = clampInt(p.EndMinute, 0, 1439)

	return p
}

func intOr(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return n
}

func floatOr(s string, def float64) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return def
	}
	return f
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// TutorLanguageResponse language a tutor speaks
type TutorLanguageResponse struct {
	ID          string `json:"id"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	Proficiency string `json:"proficiency"`
}

// SlotResponse stored window with both numeric and display forms
type SlotResponse struct {
	DayOfWeek   int    `json:"dayOfWeek"`
	Day         string `json:"day"`
	StartMinute int    `json:"startMinute"`
	EndMinute   int    `json:"endMinute"`
	Start       string `json:"start"`
	End         string `json:"end"`
	Timezone    string `json:"timezone"`
}

// TutorSummary one search result
type TutorSummary struct {
	ID                 string                  `json:"id"`
	FirstName          string                  `json:"firstName"`
	LastName           string                  `json:"lastName"`
	ProfileImageURL    string                  `json:"profileImageUrl"`
	Country            string                  `json:"country"`
	Intro              string                  `json:"intro"`
	TeachingExperience string                  `json:"teachingExperience"`
	Languages          []TutorLanguageResponse `json:"languages"`
	Rating             *float64                `json:"rating"`
	RatingCount        int64                   `json:"ratingCount"`
	NextAvailableSlot  *string                 `json:"nextAvailableSlot"`
	MatchingSlots      []SlotResponse          `json:"matchingSlots"`
}

// TutorDetailResponse GET /tutors/:tutorId
type TutorDetailResponse struct {
	TutorSummary
	Timezone     string         `json:"timezone"`
	Availability []SlotResponse `json:"availability"`
}
