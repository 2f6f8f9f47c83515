package dto

// ── student onboarding ──

// OnboardingRequest POST /user/onboarding
type OnboardingRequest struct {
	FirstName         string              `json:"firstName"         binding:"omitempty,max=100"`
	LastName          string              `json:"lastName"          binding:"omitempty,max=100"`
	UserName          string              `json:"userName"          binding:"omitempty,max=100"`
	Country           string              `json:"country"           binding:"omitempty,max=100"`
	SelectedTimezone  string              `json:"selectedTimezone"  binding:"omitempty,timezone"`
	SelectedLanguages []LanguageSelection `json:"selectedLanguages"`
	SelectedTimeSlots []TimeSlot          `json:"selectedTimeSlots"`
}

// OnboardingStatusResponse GET /user/onboarding
type OnboardingStatusResponse struct {
	OnboardingCompleted bool `json:"onboardingCompleted"`
}
