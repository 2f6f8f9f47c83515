package dto

// ── admin ──

// TutorApplicationResponse one pending tutor application
type TutorApplicationResponse struct {
	UserID             string                  `json:"userId"`
	Email              string                  `json:"email"`
	FirstName          string                  `json:"firstName"`
	LastName           string                  `json:"lastName"`
	Username           string                  `json:"username"`
	Country            string                  `json:"country"`
	Status             string                  `json:"status"`
	Intro              string                  `json:"intro"`
	TeachingExperience string                  `json:"teachingExperience"`
	Languages          []TutorLanguageResponse `json:"languages"`
	SubmittedAt        string                  `json:"submittedAt"`
}

// RolePermissionsRequest PUT /admin/roles/:role/permissions
type RolePermissionsRequest struct {
	Permissions []string `json:"permissions" binding:"required,dive,notblank"`
}
