//go:build integration

package repository_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/AfopeM/nawalingo/internal/model"
	"github.com/AfopeM/nawalingo/internal/repository"
	"github.com/AfopeM/nawalingo/pkg/database"
)

// ═══════════════════════════════════════════════════════════
// Test Setup
// ═══════════════════════════════════════════════════════════

var testDB *gorm.DB

func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		dsn = "host=localhost port=5433 user=nawalingo password=nawalingo_password dbname=nawalingo_test sslmode=disable TimeZone=UTC"
	}

	var err error
	testDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot connect to test database: %v\n", err)
		os.Exit(1)
	}

	sqlDB, err := testDB.DB()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot get sql.DB: %v\n", err)
		os.Exit(1)
	}
	if err := database.RunMigrations(sqlDB, zap.NewNop()); err != nil {
		fmt.Fprintf(os.Stderr, "migrations failed: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()
	sqlDB.Close()
	os.Exit(code)
}

// fixture ids created by one test; cleanup removes them (child rows cascade)
type fixture struct {
	repo  *repository.Repository
	users []string
}

func setup(t *testing.T) (*fixture, func()) {
	t.Helper()
	f := &fixture{repo: repository.NewRepository(testDB)}
	return f, func() {
		if len(f.users) > 0 {
			testDB.Exec("DELETE FROM users WHERE id IN ?", f.users)
		}
	}
}

func (f *fixture) user(t *testing.T, country string) string {
	t.Helper()
	ctx := context.Background()
	id := uuid.NewString()
	if err := f.repo.User.Ensure(ctx, id, id[:8]+"@example.com"); err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	f.users = append(f.users, id)
	if country != "" {
		if err := f.repo.User.UpdateFields(ctx, id, map[string]any{"country": country}); err != nil {
			t.Fatalf("UpdateFields: %v", err)
		}
	}
	return id
}

// tutor creates an approved tutor teaching the given language codes natively
// with the given weekly windows
func (f *fixture) tutor(t *testing.T, country string, codes []string, windows ...model.Availability) string {
	t.Helper()
	ctx := context.Background()
	userID := f.user(t, country)

	profile, err := f.repo.Tutor.UpsertProfile(ctx, &model.TutorProfile{UserID: userID, Intro: "hi", IsActive: true})
	if err != nil {
		t.Fatalf("UpsertProfile: %v", err)
	}

	langs, err := f.repo.Language.Resolve(ctx, codes)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	var links []model.TutorLanguage
	for _, c := range codes {
		links = append(links, model.TutorLanguage{
			TutorID: profile.ID, LanguageID: langs[c].ID,
			Proficiency: model.ProficiencyNative, IsTeaching: true,
		})
	}
	if err := f.repo.Tutor.UpsertLanguages(ctx, links); err != nil {
		t.Fatalf("UpsertLanguages: %v", err)
	}

	role, err := f.repo.Role.EnsureRole(ctx, model.RoleTutor)
	if err != nil {
		t.Fatalf("EnsureRole: %v", err)
	}
	if err := f.repo.Role.UpsertAssignment(ctx, userID, role.ID, model.RoleStatusApproved); err != nil {
		t.Fatalf("UpsertAssignment: %v", err)
	}

	for i := range windows {
		windows[i].UserID = userID
		windows[i].Type = model.AvailabilityTutor
		windows[i].IsActive = true
		if windows[i].Timezone == "" {
			windows[i].Timezone = "UTC"
		}
	}
	if err := f.repo.Availability.ReplaceByUserAndType(ctx, userID, model.AvailabilityTutor, windows); err != nil {
		t.Fatalf("ReplaceByUserAndType: %v", err)
	}
	return userID
}

func contains(profiles []model.TutorProfile, userID string) bool {
	for _, p := range profiles {
		if p.UserID == userID {
			return true
		}
	}
	return false
}

// ═══════════════════════════════════════════════════════════
// Users & Languages
// ═══════════════════════════════════════════════════════════

func TestUserEnsureIsIdempotent(t *testing.T) {
	f, cleanup := setup(t)
	defer cleanup()
	ctx := context.Background()

	id := f.user(t, "Kenya")
	if err := f.repo.User.Ensure(ctx, id, "other@example.com"); err != nil {
		t.Fatalf("second Ensure: %v", err)
	}

	u, err := f.repo.User.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if u.Country != "Kenya" {
		t.Errorf("country = %q, want Kenya", u.Country)
	}
	if u.Email == "other@example.com" {
		t.Error("Ensure must not overwrite an existing row")
	}
}

func TestLanguageResolveByCodeNameAndID(t *testing.T) {
	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	all, err := repo.Language.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) < 10 {
		t.Fatalf("expected seeded catalog, got %d languages", len(all))
	}

	var yoID string
	for _, l := range all {
		if l.Code == "yo" {
			yoID = l.ID
		}
	}

	got, err := repo.Language.Resolve(ctx, []string{"YO", "swahili", yoID, "klingon"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got["yo"].Code != "yo" || got["swahili"].Code != "sw" || got[yoID].Code != "yo" {
		t.Errorf("unexpected resolution %v", got)
	}
	if _, ok := got["klingon"]; ok {
		t.Error("unknown language must stay unresolved")
	}
}

// ═══════════════════════════════════════════════════════════
// Profiles & Availability
// ═══════════════════════════════════════════════════════════

func TestStudentLanguagesReplace(t *testing.T) {
	f, cleanup := setup(t)
	defer cleanup()
	ctx := context.Background()

	userID := f.user(t, "")
	done := true
	profile, err := f.repo.Student.UpsertProfile(ctx, userID, &done)
	if err != nil {
		t.Fatalf("UpsertProfile: %v", err)
	}
	if !profile.OnboardingCompleted {
		t.Error("onboarding flag not persisted")
	}

	langs, _ := f.repo.Language.Resolve(ctx, []string{"yo", "ha"})
	links := []model.StudentLanguage{
		{StudentID: profile.ID, LanguageID: langs["yo"].ID, Proficiency: model.ProficiencyBeginner},
		{StudentID: profile.ID, LanguageID: langs["ha"].ID, Proficiency: model.ProficiencyBeginner},
	}
	if err := f.repo.Student.UpsertLanguages(ctx, links); err != nil {
		t.Fatalf("UpsertLanguages: %v", err)
	}
	if err := f.repo.Student.DeleteLanguagesExcept(ctx, profile.ID, []string{langs["ha"].ID}); err != nil {
		t.Fatalf("DeleteLanguagesExcept: %v", err)
	}

	got, err := f.repo.Student.GetProfile(ctx, userID)
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if len(got.Languages) != 1 || got.Languages[0].LanguageID != langs["ha"].ID {
		t.Errorf("expected only Hausa to remain, got %+v", got.Languages)
	}
}

func TestAvailabilityReplaceAndClear(t *testing.T) {
	f, cleanup := setup(t)
	defer cleanup()
	ctx := context.Background()

	userID := f.user(t, "")
	rows := []model.Availability{
		{UserID: userID, Type: model.AvailabilityStudent, DayOfWeek: 1, StartMinute: 540, EndMinute: 600, Timezone: "UTC", IsActive: true},
		{UserID: userID, Type: model.AvailabilityStudent, DayOfWeek: 3, StartMinute: 60, EndMinute: 120, Timezone: "UTC", IsActive: true},
	}
	if err := f.repo.Availability.ReplaceByUserAndType(ctx, userID, model.AvailabilityStudent, rows); err != nil {
		t.Fatalf("replace: %v", err)
	}

	got, _ := f.repo.Availability.ListByUserAndType(ctx, userID, model.AvailabilityStudent)
	if len(got) != 2 {
		t.Fatalf("expected 2 windows, got %d", len(got))
	}
	other, _ := f.repo.Availability.ListByUserAndType(ctx, userID, model.AvailabilityTutor)
	if len(other) != 0 {
		t.Errorf("tutor windows must be untouched, got %d", len(other))
	}

	if err := f.repo.Availability.ReplaceByUserAndType(ctx, userID, model.AvailabilityStudent, nil); err != nil {
		t.Fatalf("clear: %v", err)
	}
	got, _ = f.repo.Availability.ListByUserAndType(ctx, userID, model.AvailabilityStudent)
	if len(got) != 0 {
		t.Errorf("expected cleared set, got %d", len(got))
	}
}

// ═══════════════════════════════════════════════════════════
// Roles & Ratings
// ═══════════════════════════════════════════════════════════

func TestRoleAssignmentLifecycle(t *testing.T) {
	f, cleanup := setup(t)
	defer cleanup()
	ctx := context.Background()

	userID := f.user(t, "")
	role, err := f.repo.Role.EnsureRole(ctx, model.RoleTutor)
	if err != nil {
		t.Fatalf("EnsureRole: %v", err)
	}

	if err := f.repo.Role.UpsertAssignment(ctx, userID, role.ID, model.RoleStatusSubmitted); err != nil {
		t.Fatalf("UpsertAssignment: %v", err)
	}
	names, _ := f.repo.Role.ListApprovedRoleNames(ctx, userID)
	if len(names) != 0 {
		t.Errorf("submitted role must not be approved, got %v", names)
	}

	a, err := f.repo.Role.GetAssignment(ctx, userID, role.ID)
	if err != nil {
		t.Fatalf("GetAssignment: %v", err)
	}
	if err := f.repo.Role.SetAssignmentStatus(ctx, a.ID, model.RoleStatusApproved); err != nil {
		t.Fatalf("SetAssignmentStatus: %v", err)
	}

	names, _ = f.repo.Role.ListApprovedRoleNames(ctx, userID)
	if len(names) != 1 || names[0] != model.RoleTutor {
		t.Errorf("expected [TUTOR], got %v", names)
	}
}

func TestAdminRoleCarriesSeededPermissions(t *testing.T) {
	repo := repository.NewRepository(testDB)
	perms, err := repo.Role.ListPermissionNamesByRoles(context.Background(), []string{model.RoleAdmin})
	if err != nil {
		t.Fatalf("ListPermissionNamesByRoles: %v", err)
	}
	found := false
	for _, p := range perms {
		if p == model.PermManageRoles {
			found = true
		}
	}
	if !found {
		t.Errorf("ADMIN should hold MANAGE_ROLES, got %v", perms)
	}
}

func TestRatingAggregates(t *testing.T) {
	f, cleanup := setup(t)
	defer cleanup()
	ctx := context.Background()

	rated := f.user(t, "")
	unrated := f.user(t, "")
	student := f.user(t, "")

	for _, score := range []int{5, 4} {
		if err := f.repo.Rating.Create(ctx, &model.TutorRating{TutorID: rated, StudentID: student, OverallRating: score}); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	one, err := f.repo.Rating.Aggregate(ctx, rated)
	if err != nil || one.Sum != 9 || one.Count != 2 {
		t.Errorf("Aggregate = %+v, %v", one, err)
	}
	none, err := f.repo.Rating.Aggregate(ctx, unrated)
	if err != nil || none.Count != 0 {
		t.Errorf("unrated Aggregate = %+v, %v", none, err)
	}

	many, err := f.repo.Rating.AggregateMany(ctx, []string{rated, unrated})
	if err != nil {
		t.Fatalf("AggregateMany: %v", err)
	}
	if many[rated].Count != 2 {
		t.Errorf("rated count = %d, want 2", many[rated].Count)
	}
	if _, ok := many[unrated]; ok {
		t.Error("unrated tutor must be absent")
	}
}

// ═══════════════════════════════════════════════════════════
// Tutor Search
// ═══════════════════════════════════════════════════════════

func TestTutorSearchFilters(t *testing.T) {
	f, cleanup := setup(t)
	defer cleanup()
	ctx := context.Background()

	// Tuesday 09:00-11:00 Yoruba tutor in Nigeria
	tue := f.tutor(t, "Nigeria", []string{"yo"},
		model.Availability{DayOfWeek: 2, StartMinute: 540, EndMinute: 660})
	// Wednesday Swahili tutor in Kenya
	wed := f.tutor(t, "Kenya", []string{"sw"},
		model.Availability{DayOfWeek: 3, StartMinute: 540, EndMinute: 660})

	student := f.user(t, "")
	if err := f.repo.Rating.Create(ctx, &model.TutorRating{TutorID: wed, StudentID: student, OverallRating: 2}); err != nil {
		t.Fatalf("rate: %v", err)
	}

	day := 2
	tests := []struct {
		name    string
		filter  repository.TutorFilter
		want    []string
		notWant []string
	}{
		{
			name:    "language by name",
			filter:  repository.TutorFilter{Languages: []string{"Yoruba"}, MaxRating: 5, Limit: 50},
			want:    []string{tue},
			notWant: []string{wed},
		},
		{
			name:    "country case-insensitive",
			filter:  repository.TutorFilter{Country: "kenya", MaxRating: 5, Limit: 50},
			want:    []string{wed},
			notWant: []string{tue},
		},
		{
			name:    "window touching start is inclusive",
			filter:  repository.TutorFilter{DayOfWeek: &day, StartMinute: 660, EndMinute: 720, MaxRating: 5, Limit: 50},
			want:    []string{tue},
			notWant: []string{wed},
		},
		{
			name:    "unrated counts as zero",
			filter:  repository.TutorFilter{MinRating: 1, MaxRating: 5, Limit: 50},
			want:    []string{wed},
			notWant: []string{tue},
		},
		{
			name:    "max rating excludes higher",
			filter:  repository.TutorFilter{MaxRating: 1, Limit: 50},
			want:    []string{tue},
			notWant: []string{wed},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, total, err := f.repo.Tutor.Search(ctx, tt.filter)
			if err != nil {
				t.Fatalf("Search: %v", err)
			}
			if total < int64(len(got)) {
				t.Errorf("total %d below page size %d", total, len(got))
			}
			for _, id := range tt.want {
				if !contains(got, id) {
					t.Errorf("expected tutor %s in results", id)
				}
			}
			for _, id := range tt.notWant {
				if contains(got, id) {
					t.Errorf("tutor %s must be filtered out", id)
				}
			}
		})
	}
}

func TestTutorSearchSkipsUnapproved(t *testing.T) {
	f, cleanup := setup(t)
	defer cleanup()
	ctx := context.Background()

	id := f.tutor(t, "Ghana", []string{"ha"})
	role, _ := f.repo.Role.GetByName(ctx, model.RoleTutor)
	a, _ := f.repo.Role.GetAssignment(ctx, id, role.ID)
	if err := f.repo.Role.SetAssignmentStatus(ctx, a.ID, model.RoleStatusSubmitted); err != nil {
		t.Fatalf("SetAssignmentStatus: %v", err)
	}

	got, _, err := f.repo.Tutor.Search(ctx, repository.TutorFilter{Country: "Ghana", MaxRating: 5, Limit: 50})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if contains(got, id) {
		t.Error("tutor without an approved role must not be listed")
	}
}

// ═══════════════════════════════════════════════════════════
// Transactions
// ═══════════════════════════════════════════════════════════

func TestTransactionRollsBack(t *testing.T) {
	f, cleanup := setup(t)
	defer cleanup()
	ctx := context.Background()

	userID := f.user(t, "")
	boom := errors.New("boom")

	err := f.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.User.UpdateFields(ctx, userID, map[string]any{"country": "Rwanda"}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	u, _ := f.repo.User.GetByID(ctx, userID)
	if u.Country == "Rwanda" {
		t.Error("update should have been rolled back")
	}
}
