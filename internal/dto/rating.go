package dto

// CreateRatingRequest POST /tutors/:tutorId/ratings
type CreateRatingRequest struct {
	Rating  int    `json:"rating"  binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"omitempty,max=2000"`
}

// RatingSummary mean and count; Rating is null when unrated
type RatingSummary struct {
	Rating *float64 `json:"rating"`
	Count  int64    `json:"count"`
}
