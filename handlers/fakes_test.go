package handlers

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/Dosada05/seqel-esports/models"
	"github.com/Dosada05/seqel-esports/services"
	"github.com/Dosada05/seqel-esports/views"
)

func testRenderer(t *testing.T) *views.Renderer {
	t.Helper()
	r, err := views.New(slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("views.New: %v", err)
	}
	return r
}

type fakeMatchService struct {
	submissions []services.MatchSubmission
	recordErr   error

	finalized   []models.Stream
	finalizeErr error

	cancelled map[int]string
	cancelErr error

	recent []*models.MatchSummary
}

func (f *fakeMatchService) Record(_ context.Context, sub services.MatchSubmission) (*models.MatchResult, error) {
	f.submissions = append(f.submissions, sub)
	if f.recordErr != nil {
		return nil, f.recordErr
	}
	return &models.MatchResult{
		Match:        &models.Match{ID: 1, RoundID: sub.RoundID, AreaID: sub.AreaID},
		Participants: []*models.MatchParticipant{{ID: 1, MatchID: 1, UID4: 2001, PointsAwarded: 50}},
	}, nil
}

func (f *fakeMatchService) FinalizeFinals(_ context.Context, _ int, stream models.Stream) ([]*models.MatchParticipant, error) {
	f.finalized = append(f.finalized, stream)
	return nil, f.finalizeErr
}

func (f *fakeMatchService) Cancel(_ context.Context, matchID int, reason string) error {
	if f.cancelErr != nil {
		return f.cancelErr
	}
	if f.cancelled == nil {
		f.cancelled = map[int]string{}
	}
	f.cancelled[matchID] = reason
	return nil
}

func (f *fakeMatchService) Recent(context.Context, int) ([]*models.MatchSummary, error) {
	return f.recent, nil
}

type fakeGameService struct {
	games []models.Game
}

func (f *fakeGameService) CreateGame(_ context.Context, input services.CreateGameInput) (*models.Game, error) {
	g := models.Game{ID: len(f.games) + 1, Name: input.Name, ScoringMode: models.ScoringMode(input.ScoringMode)}
	f.games = append(f.games, g)
	return &g, nil
}

func (f *fakeGameService) GetGame(_ context.Context, id int) (*models.Game, error) {
	for _, g := range f.games {
		if g.ID == id {
			return &g, nil
		}
	}
	return nil, services.ErrGameNotFound
}

func (f *fakeGameService) ListGames(context.Context) ([]models.Game, error) { return f.games, nil }

func (f *fakeGameService) ListEvents(context.Context) ([]models.Event, error) { return nil, nil }

type fakeScheduleService struct {
	rounds []models.Round
	areas  []models.Area
}

func (f *fakeScheduleService) ListRounds(context.Context) ([]models.Round, error) { return f.rounds, nil }

func (f *fakeScheduleService) AddRound(_ context.Context, input services.RoundInput) (*models.Round, bool, error) {
	r := models.Round{ID: len(f.rounds) + 1, Label: input.Label, StartTime: input.StartTime}
	f.rounds = append(f.rounds, r)
	return &r, true, nil
}

func (f *fakeScheduleService) ListAreas(context.Context) ([]models.Area, error) { return f.areas, nil }

func (f *fakeScheduleService) AddArea(_ context.Context, input services.AreaInput) (*models.Area, bool, error) {
	a := models.Area{ID: len(f.areas) + 1, GameID: input.GameID, Stream: models.Stream(input.Stream), Name: input.Name}
	f.areas = append(f.areas, a)
	return &a, true, nil
}

type fakeLeaderboardService struct {
	rows       []models.LeaderboardRow
	schoolRows []models.SchoolBoardRow
	err        error
	filters    []models.LeaderboardFilter
}

func (f *fakeLeaderboardService) Students(_ context.Context, filter models.LeaderboardFilter) ([]models.LeaderboardRow, error) {
	f.filters = append(f.filters, filter)
	return f.rows, f.err
}

func (f *fakeLeaderboardService) Schools(_ context.Context, filter models.LeaderboardFilter) ([]models.SchoolBoardRow, error) {
	f.filters = append(f.filters, filter)
	return f.schoolRows, f.err
}

type fakeSponsorService struct {
	sponsors []services.Sponsor
	listErr  error
}

func (f *fakeSponsorService) Upload(context.Context, string, io.Reader) (*services.Sponsor, error) {
	return &services.Sponsor{}, nil
}

func (f *fakeSponsorService) List(context.Context) ([]services.Sponsor, error) {
	return f.sponsors, f.listErr
}

func (f *fakeSponsorService) Delete(context.Context, string) error { return nil }

func (f *fakeSponsorService) LocalDir(context.Context) (string, error) { return ".", nil }

type fakeStudentService struct {
	created   []services.CreateStudentInput
	createErr error
}

func (f *fakeStudentService) CreateStudent(_ context.Context, input services.CreateStudentInput) (*models.Student, error) {
	f.created = append(f.created, input)
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &models.Student{ID: 1, UID4: 2000, FirstName: input.FirstName, LastName: input.LastName}, nil
}

func (f *fakeStudentService) GetStudent(_ context.Context, id int) (*models.Student, error) {
	if id != 1 {
		return nil, services.ErrStudentNotFound
	}
	return &models.Student{ID: 1, UID4: 2000, FirstName: "Ada", LastName: "Lovelace"}, nil
}

func (f *fakeStudentService) ListStudents(context.Context, string) ([]models.Student, error) {
	return nil, nil
}

func (f *fakeStudentService) SetFlag(context.Context, int, models.StudentFlag, bool) error { return nil }

type fakePinger struct {
	err error
}

func (f fakePinger) PingContext(context.Context) error { return f.err }
