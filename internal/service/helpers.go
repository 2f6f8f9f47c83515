package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/AfopeM/nawalingo/internal/availability"
	"github.com/AfopeM/nawalingo/internal/dto"
	"github.com/AfopeM/nawalingo/internal/model"
	"github.com/AfopeM/nawalingo/internal/repository"
)

const defaultTimezone = "UTC"

// resolvedLanguage a selection whose language and proficiency both resolved
type resolvedLanguage struct {
	Language    model.Language
	Proficiency model.Proficiency
}

// resolveLanguages drops entries with an unknown language or proficiency.
// A language listed twice keeps the last proficiency.
func resolveLanguages(ctx context.Context, repo repository.LanguageRepository, selections []dto.LanguageSelection) ([]resolvedLanguage, error) {
	keys := make([]string, 0, len(selections))
	for _, s := range selections {
		keys = append(keys, s.Language)
	}

	found, err := repo.Resolve(ctx, keys)
	if err != nil {
		return nil, err
	}

	out := make([]resolvedLanguage, 0, len(selections))
	index := make(map[string]int, len(selections))
	for _, s := range selections {
		lang, ok := found[strings.ToLower(strings.TrimSpace(s.Language))]
		if !ok {
			continue
		}
		prof, ok := model.ParseProficiency(s.Proficiency)
		if !ok {
			continue
		}
		if i, dup := index[lang.ID]; dup {
			out[i].Proficiency = prof
			continue
		}
		index[lang.ID] = len(out)
		out = append(out, resolvedLanguage{Language: lang, Proficiency: prof})
	}
	return out, nil
}

func languageIDs(langs []resolvedLanguage) []string {
	ids := make([]string, len(langs))
	for i, l := range langs {
		ids[i] = l.Language.ID
	}
	return ids
}

// slotsToRows converts client slots to availability rows, dropping any slot
// that does not parse or is not a forward interval inside one day
func slotsToRows(userID, typ string, slots []dto.TimeSlot, timezone string) []model.Availability {
	if timezone == "" {
		timezone = defaultTimezone
	}
	rows := make([]model.Availability, 0, len(slots))
	for _, slot := range slots {
		w, ok := availability.FromSlot(slot.Day, slot.Start, slot.End, timezone)
		if !ok {
			continue
		}
		rows = append(rows, model.AvailabilityFromWindow(userID, typ, w))
	}
	return rows
}

func toTimeSlot(a model.Availability) dto.TimeSlot {
	return dto.TimeSlot{
		Day:   availability.NumberToDayName(a.DayOfWeek),
		Start: availability.MinutesToTimeString(a.StartMinute),
		End:   availability.MinutesToTimeString(a.EndMinute),
	}
}

func toSlotResponse(w availability.Window) dto.SlotResponse {
	return dto.SlotResponse{
		DayOfWeek:   w.DayOfWeek,
		Day:         availability.NumberToDayName(w.DayOfWeek),
		StartMinute: w.StartMinute,
		EndMinute:   w.EndMinute,
		Start:       availability.MinutesToTimeString(w.StartMinute),
		End:         availability.MinutesToTimeString(w.EndMinute),
		Timezone:    w.Timezone,
	}
}

func toSlotResponses(ws []availability.Window) []dto.SlotResponse {
	out := make([]dto.SlotResponse, len(ws))
	for i, w := range ws {
		out[i] = toSlotResponse(w)
	}
	return out
}

func toTutorLanguages(links []model.TutorLanguage) []dto.TutorLanguageResponse {
	out := make([]dto.TutorLanguageResponse, 0, len(links))
	for _, l := range links {
		if l.Language == nil {
			continue
		}
		out = append(out, dto.TutorLanguageResponse{
			ID:          l.Language.ID,
			Code:        l.Language.Code,
			Name:        l.Language.Name,
			Proficiency: string(l.Proficiency),
		})
	}
	return out
}

func formatInstant(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}

func containsFold(list []string, v string) bool {
	for _, s := range list {
		if strings.EqualFold(s, v) {
			return true
		}
	}
	return false
}

// listedTutorProfile loads a tutor profile that search would show: active
// profile, active user and an APPROVED TUTOR role
func listedTutorProfile(ctx context.Context, repo *repository.Repository, logger *zap.Logger, tutorID string) (*model.TutorProfile, error) {
	profile, err := repo.Tutor.GetProfile(ctx, tutorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTutorNotFound
		}
		logger.Error("get tutor profile failed", zap.String("tutor_id", tutorID), zap.Error(err))
		return nil, err
	}
	if !profile.IsActive || (profile.User != nil && !profile.User.IsActive) {
		return nil, ErrTutorNotFound
	}

	roles, err := repo.Role.ListApprovedRoleNames(ctx, tutorID)
	if err != nil {
		logger.Error("list approved roles failed", zap.String("tutor_id", tutorID), zap.Error(err))
		return nil, err
	}
	if !containsFold(roles, model.RoleTutor) {
		return nil, ErrTutorNotFound
	}
	return profile, nil
}
