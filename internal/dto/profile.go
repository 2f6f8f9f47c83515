package dto

// ── student profile ──

// UpdateProfileRequest PUT /user/profile; fullName is stored as the username
type UpdateProfileRequest struct {
	FullName          string              `json:"fullName"          binding:"omitempty,max=100"`
	Country           *string             `json:"country"           binding:"omitempty,max=100"`
	SelectedTimezone  string              `json:"selectedTimezone"  binding:"omitempty,timezone"`
	SelectedLanguages []LanguageSelection `json:"selectedLanguages"`
	SelectedTimeSlots []TimeSlot          `json:"selectedTimeSlots"`
}

// ProfileResponse GET /user/profile
type ProfileResponse struct {
	FullName          string              `json:"fullName"`
	FirstName         string              `json:"firstName"`
	LastName          string              `json:"lastName"`
	Email             string              `json:"email"`
	Country           string              `json:"country"`
	SelectedTimezone  string              `json:"selectedTimezone"`
	SelectedLanguages []LanguageSelection `json:"selectedLanguages"`
	SelectedTimeSlots []TimeSlot          `json:"selectedTimeSlots"`
}

// RolesResponse GET /user/roles
type RolesResponse struct {
	Roles []string `json:"roles"`
}

// PermissionsResponse GET /user/permissions and /admin/permissions/:userId
type PermissionsResponse struct {
	UserID      string   `json:"userId"`
	IsAdmin     bool     `json:"isAdmin"`
	Permissions []string `json:"permissions"`
}
