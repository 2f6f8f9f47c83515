package dto

// ── shared shapes ──

// TimeSlot weekly slot as clients send it: {"day":"Tuesday","start":"09:00","end":"10:00"}
type TimeSlot struct {
	Day   string `json:"day"`
	Start string `json:"start"`
	End   string `json:"end"`
}

// LanguageSelection language code, id or name with a proficiency
type LanguageSelection struct {
	Language    string `json:"language"`
	Proficiency string `json:"proficiency"`
}

// Pagination page/pageSize with defaults and an upper bound
type Pagination struct {
	Page     int
	PageSize int
}

// Offset row offset for the current page
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.PageSize
}
