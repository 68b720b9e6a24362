package services

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Dosada05/seqel-esports/models"
	"github.com/Dosada05/seqel-esports/repositories"
)

// memDB is an in-memory stand-in for the postgres schema, shared by the
// fake repositories below.
type memDB struct {
	mu sync.Mutex

	schools   []models.School
	students  []models.Student
	points    []models.PointsEntry
	overrides []models.GamePointsOverride
	games     []models.Game
	events    []models.Event
	areas     []models.Area
	rounds    []models.Round
	matches   []models.Match
	awards    []models.MatchParticipant
	settings  map[string]string

	nextID int
	// failUIDInserts makes the next N school/student inserts report a
	// UID4 collision, as a concurrent writer would cause.
	failUIDInserts int
}

func newMemDB() *memDB {
	return &memDB{settings: map[string]string{}}
}

func (db *memDB) id() int {
	db.nextID++
	return db.nextID
}

type memSnapshot struct {
	schools   []models.School
	students  []models.Student
	points    []models.PointsEntry
	overrides []models.GamePointsOverride
	games     []models.Game
	events    []models.Event
	areas     []models.Area
	rounds    []models.Round
	matches   []models.Match
	awards    []models.MatchParticipant
	settings  map[string]string
}

func (db *memDB) snapshot() memSnapshot {
	db.mu.Lock()
	defer db.mu.Unlock()
	settings := make(map[string]string, len(db.settings))
	for k, v := range db.settings {
		settings[k] = v
	}
	return memSnapshot{
		schools:   append([]models.School(nil), db.schools...),
		students:  append([]models.Student(nil), db.students...),
		points:    append([]models.PointsEntry(nil), db.points...),
		overrides: append([]models.GamePointsOverride(nil), db.overrides...),
		games:     append([]models.Game(nil), db.games...),
		events:    append([]models.Event(nil), db.events...),
		areas:     append([]models.Area(nil), db.areas...),
		rounds:    append([]models.Round(nil), db.rounds...),
		matches:   append([]models.Match(nil), db.matches...),
		awards:    append([]models.MatchParticipant(nil), db.awards...),
		settings:  settings,
	}
}

func (db *memDB) restore(s memSnapshot) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.schools, db.students, db.points, db.overrides = s.schools, s.students, s.points, s.overrides
	db.games, db.events, db.areas, db.rounds = s.games, s.events, s.areas, s.rounds
	db.matches, db.awards, db.settings = s.matches, s.awards, s.settings
}

// fakeTx commits by keeping changes and rolls back by restoring a snapshot.
type fakeTx struct {
	db        *memDB
	commits   int
	rollbacks int
}

func (tx *fakeTx) WithinTx(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error {
	snap := tx.db.snapshot()
	if err := fn(nil); err != nil {
		tx.db.restore(snap)
		tx.rollbacks++
		return err
	}
	tx.commits++
	return nil
}

// --- schools ---

type fakeSchoolRepo struct{ db *memDB }

func (r *fakeSchoolRepo) Create(ctx context.Context, exec repositories.SQLExecutor, school *models.School) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.failUIDInserts > 0 {
		r.db.failUIDInserts--
		return repositories.ErrUIDConflict
	}
	for _, s := range r.db.schools {
		if s.UID4 == school.UID4 {
			return repositories.ErrUIDConflict
		}
		if s.Name == school.Name {
			return repositories.ErrSchoolNameConflict
		}
	}
	school.ID = r.db.id()
	r.db.schools = append(r.db.schools, *school)
	return nil
}

func (r *fakeSchoolRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.School, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, s := range r.db.schools {
		if s.ID == id {
			school := s
			return &school, nil
		}
	}
	return nil, repositories.ErrSchoolNotFound
}

func (r *fakeSchoolRepo) GetByName(ctx context.Context, exec repositories.SQLExecutor, name string) (*models.School, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, s := range r.db.schools {
		if s.Name == name {
			school := s
			return &school, nil
		}
	}
	return nil, repositories.ErrSchoolNotFound
}

func (r *fakeSchoolRepo) List(ctx context.Context) ([]models.School, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := append([]models.School{}, r.db.schools...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeSchoolRepo) ListUIDs(ctx context.Context, exec repositories.SQLExecutor) ([]int, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := make([]int, 0, len(r.db.schools))
	for _, s := range r.db.schools {
		out = append(out, s.UID4)
	}
	return out, nil
}

func (r *fakeSchoolRepo) DeleteAll(ctx context.Context, exec repositories.SQLExecutor) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.schools = nil
	return nil
}

// --- students ---

type fakeStudentRepo struct{ db *memDB }

func (r *fakeStudentRepo) schoolName(id int) string {
	for _, s := range r.db.schools {
		if s.ID == id {
			return s.Name
		}
	}
	return ""
}

func (r *fakeStudentRepo) Create(ctx context.Context, exec repositories.SQLExecutor, student *models.Student) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.failUIDInserts > 0 {
		r.db.failUIDInserts--
		return repositories.ErrUIDConflict
	}
	for _, s := range r.db.students {
		if s.UID4 == student.UID4 {
			return repositories.ErrUIDConflict
		}
	}
	if r.schoolName(student.SchoolID) == "" {
		return repositories.ErrStudentSchoolInvalid
	}
	student.ID = r.db.id()
	stored := *student
	stored.SchoolName = ""
	r.db.students = append(r.db.students, stored)
	return nil
}

func (r *fakeStudentRepo) GetByID(ctx context.Context, id int) (*models.Student, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, s := range r.db.students {
		if s.ID == id {
			student := s
			student.SchoolName = r.schoolName(s.SchoolID)
			return &student, nil
		}
	}
	return nil, repositories.ErrStudentNotFound
}

func (r *fakeStudentRepo) List(ctx context.Context, search string) ([]models.Student, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	search = strings.ToLower(strings.TrimSpace(search))
	out := make([]models.Student, 0)
	for _, s := range r.db.students {
		s.SchoolName = r.schoolName(s.SchoolID)
		haystack := strings.ToLower(s.FirstName + " " + s.LastName + " " + s.SchoolName)
		if search == "" || strings.Contains(haystack, search) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UID4 < out[j].UID4 })
	return out, nil
}

func (r *fakeStudentRepo) ListUIDs(ctx context.Context, exec repositories.SQLExecutor) ([]int, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := make([]int, 0, len(r.db.students))
	for _, s := range r.db.students {
		out = append(out, s.UID4)
	}
	return out, nil
}

func (r *fakeStudentRepo) SetFlag(ctx context.Context, id int, flag models.StudentFlag, value bool) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for i := range r.db.students {
		if r.db.students[i].ID != id {
			continue
		}
		switch flag {
		case models.FlagNonConsent:
			r.db.students[i].NonConsent = value
		case models.FlagReferee:
			r.db.students[i].IsRef = value
		case models.FlagAdmin:
			r.db.students[i].IsAdmin = value
		}
		return nil
	}
	return repositories.ErrStudentNotFound
}

func (r *fakeStudentRepo) SchoolNamesByUIDs(ctx context.Context, uids []int) (map[int]string, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := make(map[int]string)
	for _, uid := range uids {
		for _, s := range r.db.students {
			if s.UID4 == uid {
				out[uid] = r.schoolName(s.SchoolID)
			}
		}
	}
	return out, nil
}

func (r *fakeStudentRepo) DeleteAll(ctx context.Context, exec repositories.SQLExecutor) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.students = nil
	return nil
}

// --- points ---

type fakePointsRepo struct{ db *memDB }

func (r *fakePointsRepo) CreateEntry(ctx context.Context, exec repositories.SQLExecutor, entry *models.PointsEntry) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, p := range r.db.points {
		if p.Code == entry.Code {
			return repositories.ErrPointsCodeConflict
		}
	}
	r.db.points = append(r.db.points, *entry)
	return nil
}

func (r *fakePointsRepo) UpdateEntry(ctx context.Context, entry *models.PointsEntry) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for i, p := range r.db.points {
		if p.Code == entry.Code {
			r.db.points[i] = *entry
			return nil
		}
	}
	return repositories.ErrPointsEntryNotFound
}

func (r *fakePointsRepo) GetEntry(ctx context.Context, exec repositories.SQLExecutor, code string) (*models.PointsEntry, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, p := range r.db.points {
		if p.Code == code {
			entry := p
			return &entry, nil
		}
	}
	return nil, repositories.ErrPointsEntryNotFound
}

func (r *fakePointsRepo) ListEntries(ctx context.Context) ([]models.PointsEntry, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := append([]models.PointsEntry{}, r.db.points...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out, nil
}

func (r *fakePointsRepo) GetOverride(ctx context.Context, exec repositories.SQLExecutor, gameID int, code string) (int, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, o := range r.db.overrides {
		if o.GameID == gameID && o.Code == code {
			return o.Value, nil
		}
	}
	return 0, repositories.ErrPointsOverrideMissing
}

func (r *fakePointsRepo) UpsertOverride(ctx context.Context, exec repositories.SQLExecutor, override *models.GamePointsOverride) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	found := false
	for _, g := range r.db.games {
		found = found || g.ID == override.GameID
	}
	if !found {
		return repositories.ErrOverrideGameInvalid
	}
	for i, o := range r.db.overrides {
		if o.GameID == override.GameID && o.Code == override.Code {
			r.db.overrides[i].Value = override.Value
			override.ID = o.ID
			return nil
		}
	}
	override.ID = r.db.id()
	r.db.overrides = append(r.db.overrides, *override)
	return nil
}

func (r *fakePointsRepo) ListOverrides(ctx context.Context) ([]models.GamePointsOverride, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return append([]models.GamePointsOverride{}, r.db.overrides...), nil
}

func (r *fakePointsRepo) DeleteAllOverrides(ctx context.Context, exec repositories.SQLExecutor) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.overrides = nil
	return nil
}

// --- games, events, areas, rounds ---

type fakeGameRepo struct{ db *memDB }

func (r *fakeGameRepo) Create(ctx context.Context, exec repositories.SQLExecutor, game *models.Game) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, g := range r.db.games {
		if g.Name == game.Name {
			return repositories.ErrGameNameConflict
		}
	}
	game.ID = r.db.id()
	r.db.games = append(r.db.games, *game)
	return nil
}

func (r *fakeGameRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Game, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, g := range r.db.games {
		if g.ID == id {
			game := g
			return &game, nil
		}
	}
	return nil, repositories.ErrGameNotFound
}

func (r *fakeGameRepo) GetByName(ctx context.Context, exec repositories.SQLExecutor, name string) (*models.Game, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, g := range r.db.games {
		if g.Name == name {
			game := g
			return &game, nil
		}
	}
	return nil, repositories.ErrGameNotFound
}

func (r *fakeGameRepo) List(ctx context.Context) ([]models.Game, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := append([]models.Game{}, r.db.games...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type fakeEventRepo struct{ db *memDB }

func (r *fakeEventRepo) EnsureEvent(ctx context.Context, exec repositories.SQLExecutor, gameID int, stream models.Stream) (*models.Event, error) {
	r.db.mu.Lock()
	found := false
	for _, g := range r.db.games {
		found = found || g.ID == gameID
	}
	if !found {
		r.db.mu.Unlock()
		return nil, repositories.ErrEventGameInvalid
	}
	exists := false
	for _, e := range r.db.events {
		exists = exists || (e.GameID == gameID && e.Stream == stream)
	}
	if !exists {
		r.db.events = append(r.db.events, models.Event{ID: r.db.id(), GameID: gameID, Stream: stream})
	}
	r.db.mu.Unlock()
	return r.GetEvent(ctx, exec, gameID, stream)
}

func (r *fakeEventRepo) GetEvent(ctx context.Context, exec repositories.SQLExecutor, gameID int, stream models.Stream) (*models.Event, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, e := range r.db.events {
		if e.GameID == gameID && e.Stream == stream {
			event := e
			return &event, nil
		}
	}
	return nil, repositories.ErrEventNotFound
}

func (r *fakeEventRepo) ListEvents(ctx context.Context) ([]models.Event, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return append([]models.Event{}, r.db.events...), nil
}

func (r *fakeEventRepo) EnsureArea(ctx context.Context, exec repositories.SQLExecutor, area *models.Area) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, a := range r.db.areas {
		if a.GameID == area.GameID && a.Stream == area.Stream && a.Name == area.Name {
			area.ID = a.ID
			return false, nil
		}
	}
	area.ID = r.db.id()
	r.db.areas = append(r.db.areas, *area)
	return true, nil
}

func (r *fakeEventRepo) GetArea(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Area, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, a := range r.db.areas {
		if a.ID == id {
			area := a
			return &area, nil
		}
	}
	return nil, repositories.ErrAreaNotFound
}

func (r *fakeEventRepo) ListAreas(ctx context.Context) ([]models.Area, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return append([]models.Area{}, r.db.areas...), nil
}

type fakeRoundRepo struct{ db *memDB }

func (r *fakeRoundRepo) Ensure(ctx context.Context, exec repositories.SQLExecutor, round *models.Round) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, rd := range r.db.rounds {
		if rd.Label == round.Label {
			*round = rd
			return false, nil
		}
	}
	round.ID = r.db.id()
	r.db.rounds = append(r.db.rounds, *round)
	return true, nil
}

func (r *fakeRoundRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Round, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, rd := range r.db.rounds {
		if rd.ID == id {
			round := rd
			return &round, nil
		}
	}
	return nil, repositories.ErrRoundNotFound
}

func (r *fakeRoundRepo) List(ctx context.Context) ([]models.Round, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := append([]models.Round{}, r.db.rounds...)
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime < out[j].StartTime })
	return out, nil
}

// --- matches and awards ---

type fakeMatchRepo struct{ db *memDB }

func (r *fakeMatchRepo) Create(ctx context.Context, exec repositories.SQLExecutor, match *models.Match) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	match.ID = r.db.id()
	match.CreatedAt = time.Now()
	r.db.matches = append(r.db.matches, *match)
	return nil
}

func (r *fakeMatchRepo) GetByID(ctx context.Context, id int) (*models.Match, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, m := range r.db.matches {
		if m.ID == id {
			match := m
			return &match, nil
		}
	}
	return nil, repositories.ErrMatchNotFound
}

func (r *fakeMatchRepo) Cancel(ctx context.Context, id int, reason string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for i := range r.db.matches {
		if r.db.matches[i].ID == id {
			r.db.matches[i].Cancelled = true
			r.db.matches[i].CancelReason = &reason
			return nil
		}
	}
	return repositories.ErrMatchNotFound
}

func (r *fakeMatchRepo) ListRecent(ctx context.Context, limit int) ([]*models.MatchSummary, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := make([]*models.MatchSummary, 0)
	for i := len(r.db.matches) - 1; i >= 0 && len(out) < limit; i-- {
		s := &models.MatchSummary{Match: r.db.matches[i]}
		for _, a := range r.db.awards {
			if a.MatchID == s.ID {
				award := a
				s.Participants = append(s.Participants, &award)
			}
		}
		out = append(out, s)
	}
	return out, nil
}

func (r *fakeMatchRepo) AddParticipant(ctx context.Context, exec repositories.SQLExecutor, p *models.MatchParticipant) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p.ID = r.db.id()
	r.db.awards = append(r.db.awards, *p)
	return nil
}

func (r *fakeMatchRepo) ListParticipants(ctx context.Context, matchIDs []int) ([]*models.MatchParticipant, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := make([]*models.MatchParticipant, 0)
	for _, a := range r.db.awards {
		for _, id := range matchIDs {
			if a.MatchID == id {
				award := a
				out = append(out, &award)
			}
		}
	}
	return out, nil
}

func (r *fakeMatchRepo) ListFinalsEntries(ctx context.Context, exec repositories.SQLExecutor, eventID int) ([]*models.MatchParticipant, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	finals := make(map[int]bool)
	for _, m := range r.db.matches {
		if m.EventID == eventID && m.Stage != nil && *m.Stage == models.StageFinal && !m.Cancelled {
			finals[m.ID] = true
		}
	}
	out := make([]*models.MatchParticipant, 0)
	for _, a := range r.db.awards {
		if finals[a.MatchID] && a.MetricValueMs != nil {
			award := a
			out = append(out, &award)
		}
	}
	return out, nil
}

func (r *fakeMatchRepo) UpdateAward(ctx context.Context, exec repositories.SQLExecutor, awardID int, outcome string, points int) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for i := range r.db.awards {
		if r.db.awards[i].ID == awardID {
			r.db.awards[i].Outcome = &outcome
			r.db.awards[i].PointsAwarded = points
			return nil
		}
	}
	return repositories.ErrAwardNotFound
}

func (r *fakeMatchRepo) ClearCancelledFinals(ctx context.Context, exec repositories.SQLExecutor, eventID int) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	cancelled := make(map[int]bool)
	for _, m := range r.db.matches {
		if m.EventID == eventID && m.Stage != nil && *m.Stage == models.StageFinal && m.Cancelled {
			cancelled[m.ID] = true
		}
	}
	var n int64
	for i := range r.db.awards {
		a := &r.db.awards[i]
		if cancelled[a.MatchID] && a.MetricValueMs != nil && a.Outcome != nil {
			a.Outcome = nil
			a.PointsAwarded = 0
			n++
		}
	}
	return n, nil
}

func (r *fakeMatchRepo) DeleteAll(ctx context.Context, exec repositories.SQLExecutor) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.awards = nil
	r.db.matches = nil
	return nil
}

// --- settings, leaderboard, stats ---

type fakeSettingRepo struct{ db *memDB }

func (r *fakeSettingRepo) Get(ctx context.Context, exec repositories.SQLExecutor, key string) (string, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	v, ok := r.db.settings[key]
	if !ok {
		return "", repositories.ErrSettingNotFound
	}
	return v, nil
}

func (r *fakeSettingRepo) Set(ctx context.Context, exec repositories.SQLExecutor, key, value string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.settings[key] = value
	return nil
}

func (r *fakeSettingRepo) List(ctx context.Context) ([]models.Setting, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := make([]models.Setting, 0, len(r.db.settings))
	for k, v := range r.db.settings {
		out = append(out, models.Setting{Key: k, Value: v})
	}
	return out, nil
}

type fakeLeaderboardRepo struct{ db *memDB }

func (r *fakeLeaderboardRepo) matchesEvent(matchID int, filter models.LeaderboardFilter) bool {
	for _, m := range r.db.matches {
		if m.ID != matchID {
			continue
		}
		for _, e := range r.db.events {
			if e.ID != m.EventID {
				continue
			}
			if filter.GameID != nil && e.GameID != *filter.GameID {
				return false
			}
			if filter.Stream != nil && e.Stream != *filter.Stream {
				return false
			}
			return true
		}
	}
	return false
}

func (r *fakeLeaderboardRepo) ListAwards(ctx context.Context, filter models.LeaderboardFilter) ([]models.AwardPoints, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := make([]models.AwardPoints, 0)
	for _, a := range r.db.awards {
		if r.matchesEvent(a.MatchID, filter) {
			out = append(out, models.AwardPoints{UID4: a.UID4, Points: a.PointsAwarded})
		}
	}
	return out, nil
}

func (r *fakeLeaderboardRepo) SchoolTotals(ctx context.Context, filter models.LeaderboardFilter) ([]models.SchoolBoardRow, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	totals := make(map[int]int)
	for _, a := range r.db.awards {
		if !r.matchesEvent(a.MatchID, filter) {
			continue
		}
		for _, st := range r.db.students {
			if st.UID4 == a.UID4 {
				totals[st.SchoolID] += a.PointsAwarded
			}
		}
	}
	out := make([]models.SchoolBoardRow, 0)
	for _, sc := range r.db.schools {
		if total, ok := totals[sc.ID]; ok {
			out = append(out, models.SchoolBoardRow{SchoolUID4: sc.UID4, SchoolName: sc.Name, Total: total})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Total > out[j].Total })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

// testEnv wires every service to one memDB.
type testEnv struct {
	db  *memDB
	tx  *fakeTx
	log *slog.Logger

	schoolRepo  *fakeSchoolRepo
	studentRepo *fakeStudentRepo
	pointsRepo  *fakePointsRepo
	gameRepo    *fakeGameRepo
	eventRepo   *fakeEventRepo
	roundRepo   *fakeRoundRepo
	matchRepo   *fakeMatchRepo
	settingRepo *fakeSettingRepo

	schools     SchoolService
	students    StudentService
	points      PointsService
	games       GameService
	schedule    ScheduleService
	settings    SettingService
	matches     MatchService
	leaderboard LeaderboardService
	imports     ImportService
	seed        SeedService
	maintenance MaintenanceService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := newMemDB()
	env := &testEnv{
		db:          db,
		tx:          &fakeTx{db: db},
		log:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		schoolRepo:  &fakeSchoolRepo{db: db},
		studentRepo: &fakeStudentRepo{db: db},
		pointsRepo:  &fakePointsRepo{db: db},
		gameRepo:    &fakeGameRepo{db: db},
		eventRepo:   &fakeEventRepo{db: db},
		roundRepo:   &fakeRoundRepo{db: db},
		matchRepo:   &fakeMatchRepo{db: db},
		settingRepo: &fakeSettingRepo{db: db},
	}
	env.schools = NewSchoolService(env.schoolRepo, env.tx, env.log)
	env.students = NewStudentService(env.studentRepo, env.schoolRepo, env.tx, env.log)
	env.points = NewPointsService(env.pointsRepo, env.log)
	env.games = NewGameService(env.gameRepo, env.eventRepo, env.tx, env.log)
	env.schedule = NewScheduleService(env.roundRepo, env.eventRepo, env.tx)
	env.settings = NewSettingService(env.settingRepo)
	env.matches = NewMatchService(env.matchRepo, env.gameRepo, env.eventRepo, env.roundRepo, env.settingRepo,
		env.points, env.tx, []string{"velocity"}, env.log)
	env.leaderboard = NewLeaderboardService(&fakeLeaderboardRepo{db: db}, env.studentRepo, env.gameRepo)
	env.imports = NewImportService(env.studentRepo, env.schoolRepo, env.tx, env.log)
	env.seed = NewSeedService(env.pointsRepo, env.gameRepo, env.eventRepo, env.roundRepo, env.tx, env.log)
	env.maintenance = NewMaintenanceService(env.matchRepo, env.pointsRepo, env.studentRepo, env.schoolRepo, env.tx, env.log)
	return env
}

// seeded returns an env with the default catalogue, games and rounds.
func seeded(t *testing.T) *testEnv {
	t.Helper()
	env := newTestEnv(t)
	if _, err := env.seed.Seed(context.Background()); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	return env
}

func (env *testEnv) game(t *testing.T, name string) *models.Game {
	t.Helper()
	g, err := env.gameRepo.GetByName(context.Background(), nil, name)
	if err != nil {
		t.Fatalf("game %q: %v", name, err)
	}
	return g
}

func (env *testEnv) area(t *testing.T, gameID int, stream models.Stream) int {
	t.Helper()
	for _, a := range env.db.areas {
		if a.GameID == gameID && a.Stream == stream {
			return a.ID
		}
	}
	t.Fatalf("no area for game %d stream %s", gameID, stream)
	return 0
}

func (env *testEnv) firstRound(t *testing.T) int {
	t.Helper()
	rounds, _ := env.roundRepo.List(context.Background())
	if len(rounds) == 0 {
		t.Fatal("no rounds seeded")
	}
	return rounds[0].ID
}

// submission builds a valid submission skeleton for game/stream.
func (env *testEnv) submission(t *testing.T, gameName string, stream models.Stream, mode models.SubmissionMode) MatchSubmission {
	t.Helper()
	g := env.game(t, gameName)
	return MatchSubmission{
		GameID:  g.ID,
		Stream:  string(stream),
		RoundID: env.firstRound(t),
		AreaID:  env.area(t, g.ID, stream),
		Mode:    string(mode),
	}
}

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func strPtr(v string) *string { return &v }
