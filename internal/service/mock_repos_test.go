package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/AfopeM/nawalingo/internal/availability"
	"github.com/AfopeM/nawalingo/internal/model"
	"github.com/AfopeM/nawalingo/internal/repository"
)

// ── in-memory store shared by the mock repositories ──

type mockStore struct {
	seq int

	users           map[string]*model.User
	languages       []model.Language
	studentProfiles map[string]*model.StudentProfile // by user id
	studentLangs    map[string]map[string]model.StudentLanguage
	tutorProfiles   map[string]*model.TutorProfile // by user id
	tutorLangs      map[string]map[string]model.TutorLanguage
	avail           map[string][]model.Availability // user|type
	roles           map[string]*model.Role          // by name
	assignments     map[string]*model.UserRoleAssignment
	permissions     []model.Permission
	rolePerms       map[string][]string // role id → permission ids
	ratings         []model.TutorRating
}

func newMockStore() *mockStore {
	s := &mockStore{
		users:           map[string]*model.User{},
		studentProfiles: map[string]*model.StudentProfile{},
		studentLangs:    map[string]map[string]model.StudentLanguage{},
		tutorProfiles:   map[string]*model.TutorProfile{},
		tutorLangs:      map[string]map[string]model.TutorLanguage{},
		avail:           map[string][]model.Availability{},
		roles:           map[string]*model.Role{},
		assignments:     map[string]*model.UserRoleAssignment{},
		rolePerms:       map[string][]string{},
	}

	s.languages = []model.Language{
		{ID: "lang-yo", Code: "yo", Name: "Yoruba", NativeName: "Yorùbá"},
		{ID: "lang-sw", Code: "sw", Name: "Swahili", NativeName: "Kiswahili"},
		{ID: "lang-ha", Code: "ha", Name: "Hausa", NativeName: "Harshen Hausa"},
	}
	for _, name := range []string{model.RoleAdmin, model.RoleTutor, model.RoleStudent} {
		s.roles[name] = &model.Role{ID: "role-" + strings.ToLower(name), Name: name}
	}
	for _, name := range []string{
		model.PermManageUsers, model.PermManageRoles, model.PermManageTutorApplications,
		model.PermManageAdmins, model.PermViewDashboard,
	} {
		s.permissions = append(s.permissions, model.Permission{ID: "perm-" + strings.ToLower(name), Name: name})
	}
	return s
}

func (s *mockStore) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s-%d", prefix, s.seq)
}

func (s *mockStore) repo() *repository.Repository {
	return &repository.Repository{
		User:         &mockUserRepo{s},
		Language:     &mockLanguageRepo{s},
		Student:      &mockStudentRepo{s},
		Tutor:        &mockTutorRepo{s},
		Availability: &mockAvailabilityRepo{s},
		Role:         &mockRoleRepo{s},
		Rating:       &mockRatingRepo{s},
	}
}

// ── fixtures ──

func (s *mockStore) addUser(id string) *model.User {
	u := &model.User{ID: id, Email: id + "@example.com", IsActive: true, Timezone: "UTC"}
	s.users[id] = u
	return u
}

func (s *mockStore) grant(userID, roleName, status string) {
	role := s.roles[roleName]
	s.assignments[userID+"|"+role.ID] = &model.UserRoleAssignment{
		ID: s.nextID("ura"), UserID: userID, RoleID: role.ID, Status: status,
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
}

func (s *mockStore) linkPermission(roleName, permName string) {
	role := s.roles[roleName]
	for _, p := range s.permissions {
		if p.Name == permName {
			s.rolePerms[role.ID] = append(s.rolePerms[role.ID], p.ID)
		}
	}
}

func (s *mockStore) addTutor(userID string, langs map[string]model.Proficiency, windows ...availability.Window) {
	u := s.addUser(userID)
	u.FirstName = "Tutor"
	u.LastName = userID
	u.Country = "Nigeria"
	p := &model.TutorProfile{ID: "tp-" + userID, UserID: userID, Intro: "hi", TeachingExperience: "years", IsActive: true}
	s.tutorProfiles[userID] = p
	s.tutorLangs[p.ID] = map[string]model.TutorLanguage{}
	for code, prof := range langs {
		for _, l := range s.languages {
			if l.Code == code {
				s.tutorLangs[p.ID][l.ID] = model.TutorLanguage{TutorID: p.ID, LanguageID: l.ID, Proficiency: prof, IsTeaching: true}
			}
		}
	}
	for _, w := range windows {
		s.avail[userID+"|"+model.AvailabilityTutor] = append(s.avail[userID+"|"+model.AvailabilityTutor],
			model.AvailabilityFromWindow(userID, model.AvailabilityTutor, w))
	}
	s.grant(userID, model.RoleTutor, model.RoleStatusApproved)
}

func (s *mockStore) approvedRoles(userID string) []string {
	var names []string
	for _, a := range s.assignments {
		if a.UserID != userID || a.Status != model.RoleStatusApproved {
			continue
		}
		for _, r := range s.roles {
			if r.ID == a.RoleID {
				names = append(names, r.Name)
			}
		}
	}
	sort.Strings(names)
	return names
}

func (s *mockStore) language(id string) *model.Language {
	for i := range s.languages {
		if s.languages[i].ID == id {
			l := s.languages[i]
			return &l
		}
	}
	return nil
}

// ── User ──

type mockUserRepo struct{ s *mockStore }

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.s.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Ensure(_ context.Context, id, email string) error {
	if _, ok := m.s.users[id]; !ok {
		m.s.users[id] = &model.User{ID: id, Email: email, IsActive: true}
	}
	return nil
}

func (m *mockUserRepo) UpdateFields(_ context.Context, id string, fields map[string]any) error {
	u, ok := m.s.users[id]
	if !ok {
		return nil
	}
	for k, v := range fields {
		val, _ := v.(string)
		switch k {
		case "first_name":
			u.FirstName = val
		case "last_name":
			u.LastName = val
		case "username":
			u.Username = val
		case "country":
			u.Country = val
		case "timezone":
			u.Timezone = val
		}
	}
	return nil
}

// ── Language ──

type mockLanguageRepo struct{ s *mockStore }

func (m *mockLanguageRepo) List(_ context.Context) ([]model.Language, error) {
	out := append([]model.Language(nil), m.s.languages...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *mockLanguageRepo) Resolve(_ context.Context, keys []string) (map[string]model.Language, error) {
	lowered := repository.NormalizeKeys(keys)
	out := map[string]model.Language{}
	for _, l := range m.s.languages {
		repository.MatchLanguage(out, lowered, l)
	}
	return out, nil
}

// ── Student ──

type mockStudentRepo struct{ s *mockStore }

func (m *mockStudentRepo) GetProfile(_ context.Context, userID string) (*model.StudentProfile, error) {
	p, ok := m.s.studentProfiles[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	cp.Languages = nil
	for _, l := range m.s.studentLangs[p.ID] {
		l.Language = m.s.language(l.LanguageID)
		cp.Languages = append(cp.Languages, l)
	}
	sort.Slice(cp.Languages, func(i, j int) bool { return cp.Languages[i].LanguageID < cp.Languages[j].LanguageID })
	return &cp, nil
}

func (m *mockStudentRepo) UpsertProfile(_ context.Context, userID string, onboardingCompleted *bool) (*model.StudentProfile, error) {
	p, ok := m.s.studentProfiles[userID]
	if !ok {
		p = &model.StudentProfile{ID: "sp-" + userID, UserID: userID}
		m.s.studentProfiles[userID] = p
		m.s.studentLangs[p.ID] = map[string]model.StudentLanguage{}
	}
	if onboardingCompleted != nil {
		p.OnboardingCompleted = *onboardingCompleted
	}
	cp := *p
	return &cp, nil
}

func (m *mockStudentRepo) UpsertLanguages(_ context.Context, links []model.StudentLanguage) error {
	for _, l := range links {
		if m.s.studentLangs[l.StudentID] == nil {
			m.s.studentLangs[l.StudentID] = map[string]model.StudentLanguage{}
		}
		m.s.studentLangs[l.StudentID][l.LanguageID] = l
	}
	return nil
}

func (m *mockStudentRepo) DeleteLanguagesExcept(_ context.Context, studentID string, keep []string) error {
	for id := range m.s.studentLangs[studentID] {
		if !containsFold(keep, id) {
			delete(m.s.studentLangs[studentID], id)
		}
	}
	return nil
}

// ── Tutor ──

type mockTutorRepo struct{ s *mockStore }

func (m *mockTutorRepo) hydrate(p *model.TutorProfile) model.TutorProfile {
	cp := *p
	if u, ok := m.s.users[p.UserID]; ok {
		uc := *u
		cp.User = &uc
	}
	cp.Languages = nil
	for _, l := range m.s.tutorLangs[p.ID] {
		if !l.IsTeaching {
			continue
		}
		l.Language = m.s.language(l.LanguageID)
		cp.Languages = append(cp.Languages, l)
	}
	sort.Slice(cp.Languages, func(i, j int) bool { return cp.Languages[i].LanguageID < cp.Languages[j].LanguageID })
	return cp
}

func (m *mockTutorRepo) GetProfile(_ context.Context, userID string) (*model.TutorProfile, error) {
	p, ok := m.s.tutorProfiles[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := m.hydrate(p)
	return &cp, nil
}

func (m *mockTutorRepo) UpsertProfile(_ context.Context, in *model.TutorProfile) (*model.TutorProfile, error) {
	p, ok := m.s.tutorProfiles[in.UserID]
	if !ok {
		p = &model.TutorProfile{ID: "tp-" + in.UserID, UserID: in.UserID}
		m.s.tutorProfiles[in.UserID] = p
		m.s.tutorLangs[p.ID] = map[string]model.TutorLanguage{}
	}
	p.Intro = in.Intro
	p.TeachingExperience = in.TeachingExperience
	p.IsActive = in.IsActive
	cp := *p
	return &cp, nil
}

func (m *mockTutorRepo) UpsertLanguages(_ context.Context, links []model.TutorLanguage) error {
	for _, l := range links {
		if m.s.tutorLangs[l.TutorID] == nil {
			m.s.tutorLangs[l.TutorID] = map[string]model.TutorLanguage{}
		}
		m.s.tutorLangs[l.TutorID][l.LanguageID] = l
	}
	return nil
}

func (m *mockTutorRepo) DeleteLanguagesExcept(_ context.Context, tutorID string, keep []string) error {
	for id := range m.s.tutorLangs[tutorID] {
		if !containsFold(keep, id) {
			delete(m.s.tutorLangs[tutorID], id)
		}
	}
	return nil
}

// Search mirrors the SQL filters of the gorm implementation
func (m *mockTutorRepo) Search(_ context.Context, f repository.TutorFilter) ([]model.TutorProfile, int64, error) {
	keys := repository.NormalizeKeys(f.Languages)

	var matched []model.TutorProfile
	for _, p := range m.s.tutorProfiles {
		u := m.s.users[p.UserID]
		if !p.IsActive || u == nil || !u.IsActive {
			continue
		}
		if !containsFold(m.s.approvedRoles(p.UserID), model.RoleTutor) {
			continue
		}
		if len(keys) > 0 && !m.teachesAny(p.ID, keys, f.Native) {
			continue
		}
		if f.Country != "" && !strings.EqualFold(u.Country, f.Country) {
			continue
		}
		if f.DayOfWeek != nil {
			ws := model.Windows(m.s.avail[p.UserID+"|"+model.AvailabilityTutor])
			q := availability.Query{DayOfWeek: *f.DayOfWeek, StartMinute: f.StartMinute, EndMinute: f.EndMinute}
			if !availability.AnyOverlap(ws, q) {
				continue
			}
		}
		if f.MinRating > 0 || f.MaxRating < 5 {
			avg := 0.0
			if sum := Summarize(m.s.stat(p.UserID)); sum.Rating != nil {
				avg = *sum.Rating
			}
			if avg < f.MinRating || avg > f.MaxRating {
				continue
			}
		}
		matched = append(matched, m.hydrate(p))
	}

	sort.Slice(matched, func(i, j int) bool { return matched[i].UserID < matched[j].UserID })
	total := int64(len(matched))
	if f.Offset >= len(matched) {
		return []model.TutorProfile{}, total, nil
	}
	end := f.Offset + f.Limit
	if f.Limit <= 0 || end > len(matched) {
		end = len(matched)
	}
	return matched[f.Offset:end], total, nil
}

func (m *mockTutorRepo) teachesAny(tutorID string, keys []string, native bool) bool {
	for _, l := range m.s.tutorLangs[tutorID] {
		if !l.IsTeaching || (native && l.Proficiency != model.ProficiencyNative) {
			continue
		}
		lang := m.s.language(l.LanguageID)
		found := map[string]model.Language{}
		repository.MatchLanguage(found, keys, *lang)
		if len(found) > 0 {
			return true
		}
	}
	return false
}

// ── Availability ──

type mockAvailabilityRepo struct{ s *mockStore }

func (m *mockAvailabilityRepo) ListByUserAndType(_ context.Context, userID, typ string) ([]model.Availability, error) {
	return append([]model.Availability(nil), m.s.avail[userID+"|"+typ]...), nil
}

func (m *mockAvailabilityRepo) ListActiveByUsers(_ context.Context, userIDs []string, typ string) ([]model.Availability, error) {
	var out []model.Availability
	for _, id := range userIDs {
		for _, a := range m.s.avail[id+"|"+typ] {
			if a.IsActive {
				out = append(out, a)
			}
		}
	}
	return out, nil
}

func (m *mockAvailabilityRepo) ReplaceByUserAndType(_ context.Context, userID, typ string, rows []model.Availability) error {
	m.s.avail[userID+"|"+typ] = append([]model.Availability(nil), rows...)
	return nil
}

// ── Role ──

type mockRoleRepo struct{ s *mockStore }

func (m *mockRoleRepo) GetByName(_ context.Context, name string) (*model.Role, error) {
	if r, ok := m.s.roles[name]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRoleRepo) EnsureRole(_ context.Context, name string) (*model.Role, error) {
	r, ok := m.s.roles[name]
	if !ok {
		r = &model.Role{ID: "role-" + strings.ToLower(name), Name: name}
		m.s.roles[name] = r
	}
	cp := *r
	return &cp, nil
}

func (m *mockRoleRepo) GetAssignment(_ context.Context, userID, roleID string) (*model.UserRoleAssignment, error) {
	if a, ok := m.s.assignments[userID+"|"+roleID]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRoleRepo) UpsertAssignment(_ context.Context, userID, roleID, status string) error {
	key := userID + "|" + roleID
	if a, ok := m.s.assignments[key]; ok {
		a.Status = status
		a.UpdatedAt = time.Now()
		return nil
	}
	m.s.assignments[key] = &model.UserRoleAssignment{
		ID: m.s.nextID("ura"), UserID: userID, RoleID: roleID, Status: status,
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	return nil
}

func (m *mockRoleRepo) SetAssignmentStatus(_ context.Context, assignmentID, status string) error {
	for _, a := range m.s.assignments {
		if a.ID == assignmentID {
			a.Status = status
			a.UpdatedAt = time.Now()
		}
	}
	return nil
}

func (m *mockRoleRepo) ListAssignments(_ context.Context, roleName, status string) ([]model.UserRoleAssignment, error) {
	role := m.s.roles[roleName]
	var out []model.UserRoleAssignment
	for _, a := range m.s.assignments {
		if role == nil || a.RoleID != role.ID || a.Status != status {
			continue
		}
		cp := *a
		if u, ok := m.s.users[a.UserID]; ok {
			uc := *u
			if p, ok := m.s.tutorProfiles[a.UserID]; ok {
				tp := (&mockTutorRepo{m.s}).hydrate(p)
				tp.User = nil
				uc.TutorProfile = &tp
			}
			cp.User = &uc
		}
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (m *mockRoleRepo) ListApprovedRoleNames(_ context.Context, userID string) ([]string, error) {
	return m.s.approvedRoles(userID), nil
}

func (m *mockRoleRepo) ListPermissionNamesByRoles(_ context.Context, roleNames []string) ([]string, error) {
	set := map[string]struct{}{}
	for _, name := range roleNames {
		role := m.s.roles[name]
		if role == nil {
			continue
		}
		for _, pid := range m.s.rolePerms[role.ID] {
			for _, p := range m.s.permissions {
				if p.ID == pid {
					set[p.Name] = struct{}{}
				}
			}
		}
	}
	out := make([]string, 0, len(set))
	for n := range set {
		out = append(out, n)
	}
	sort.Strings(out)
	return out, nil
}

func (m *mockRoleRepo) ListPermissionNames(_ context.Context) ([]string, error) {
	out := make([]string, 0, len(m.s.permissions))
	for _, p := range m.s.permissions {
		out = append(out, p.Name)
	}
	sort.Strings(out)
	return out, nil
}

func (m *mockRoleRepo) GetPermissionsByNames(_ context.Context, names []string) ([]model.Permission, error) {
	var out []model.Permission
	for _, p := range m.s.permissions {
		if containsFold(names, p.Name) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockRoleRepo) ReplaceRolePermissions(_ context.Context, roleID string, permissionIDs []string) error {
	m.s.rolePerms[roleID] = append([]string(nil), permissionIDs...)
	return nil
}

// ── Rating ──

type mockRatingRepo struct{ s *mockStore }

func (s *mockStore) stat(tutorID string) repository.RatingStat {
	st := repository.RatingStat{TutorID: tutorID}
	for _, r := range s.ratings {
		if r.TutorID == tutorID {
			st.Sum += int64(r.OverallRating)
			st.Count++
		}
	}
	return st
}

func (m *mockRatingRepo) Create(_ context.Context, r *model.TutorRating) error {
	r.ID = m.s.nextID("rating")
	m.s.ratings = append(m.s.ratings, *r)
	return nil
}

func (m *mockRatingRepo) Aggregate(_ context.Context, tutorID string) (repository.RatingStat, error) {
	return m.s.stat(tutorID), nil
}

func (m *mockRatingRepo) AggregateMany(_ context.Context, tutorIDs []string) (map[string]repository.RatingStat, error) {
	out := map[string]repository.RatingStat{}
	for _, id := range tutorIDs {
		if st := m.s.stat(id); st.Count > 0 {
			out[id] = st
		}
	}
	return out, nil
}
