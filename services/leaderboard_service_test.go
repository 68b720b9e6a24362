package services

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/Dosada05/seqel-esports/models"
)

// addAwards stores a match on the game/stream event with one award row per
// (uid, points) pair, in order.
func addAwards(t *testing.T, env *testEnv, game string, stream models.Stream, rows ...models.AwardPoints) {
	t.Helper()
	ctx := context.Background()
	g := env.game(t, game)
	event, err := env.eventRepo.GetEvent(ctx, nil, g.ID, stream)
	if err != nil {
		t.Fatalf("GetEvent: %v", err)
	}
	match := &models.Match{EventID: event.ID, AreaID: env.area(t, g.ID, stream), RoundID: env.firstRound(t)}
	if err := env.matchRepo.Create(ctx, nil, match); err != nil {
		t.Fatalf("Create match: %v", err)
	}
	for i, r := range rows {
		p := &models.MatchParticipant{MatchID: match.ID, UID4: r.UID4, Slot: i + 1, PointsAwarded: r.Points}
		if err := env.matchRepo.AddParticipant(ctx, nil, p); err != nil {
			t.Fatalf("AddParticipant: %v", err)
		}
	}
}

func createStudent(t *testing.T, env *testEnv, first, school string) *models.Student {
	t.Helper()
	st, err := env.students.CreateStudent(context.Background(), CreateStudentInput{
		FirstName: first, LastName: "Test", SchoolName: school, Cohort: "High",
	})
	if err != nil {
		t.Fatalf("CreateStudent: %v", err)
	}
	return st
}

func TestLeaderboardStudents(t *testing.T) {
	ctx := context.Background()
	env := seeded(t)
	a := createStudent(t, env, "Ava", "North High")
	b := createStudent(t, env, "Ben", "South High")

	addAwards(t, env, "Rocket League", models.StreamSchoolsCup,
		models.AwardPoints{UID4: a.UID4, Points: 50},
		models.AwardPoints{UID4: a.UID4, Points: 10},
		models.AwardPoints{UID4: b.UID4, Points: 20},
	)

	got, err := env.leaderboard.Students(ctx, models.LeaderboardFilter{})
	if err != nil {
		t.Fatalf("Students: %v", err)
	}
	want := []models.LeaderboardRow{
		{UID4: a.UID4, SchoolName: "North High", Total: 60},
		{UID4: b.UID4, SchoolName: "South High", Total: 20},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Students = %+v, want %+v", got, want)
	}
}

func TestLeaderboardFilters(t *testing.T) {
	ctx := context.Background()
	env := seeded(t)
	rocket := env.game(t, "Rocket League")
	nba := env.game(t, "NBA")

	addAwards(t, env, "Rocket League", models.StreamSchoolsCup, models.AwardPoints{UID4: 2001, Points: 50})
	addAwards(t, env, "Rocket League", models.StreamCompetition, models.AwardPoints{UID4: 2002, Points: 40})
	addAwards(t, env, "NBA", models.StreamSchoolsCup, models.AwardPoints{UID4: 2003, Points: 30}, models.AwardPoints{UID4: 2001, Points: 5})

	schoolsCup := models.StreamSchoolsCup
	tests := []struct {
		name   string
		filter models.LeaderboardFilter
		want   []int
	}{
		{"no filter", models.LeaderboardFilter{}, []int{2001, 2002, 2003}},
		{"by game", models.LeaderboardFilter{GameID: &rocket.ID}, []int{2001, 2002}},
		{"by stream", models.LeaderboardFilter{Stream: &schoolsCup}, []int{2001, 2003}},
		{"by game and stream", models.LeaderboardFilter{GameID: &nba.ID, Stream: &schoolsCup}, []int{2003, 2001}},
		{"capped", models.LeaderboardFilter{Limit: 1}, []int{2001}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := env.leaderboard.Students(ctx, tt.filter)
			if err != nil {
				t.Fatalf("Students: %v", err)
			}
			got := make([]int, 0, len(rows))
			for _, r := range rows {
				got = append(got, r.UID4)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("uids = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLeaderboardRejectsBadFilters(t *testing.T) {
	env := seeded(t)
	mars := models.Stream("Mars")
	unknown := 99999

	for name, filter := range map[string]models.LeaderboardFilter{
		"negative limit": {Limit: -1},
		"limit too big":  {Limit: MaxLeaderboardLimit + 1},
		"unknown stream": {Stream: &mars},
		"unknown game":   {GameID: &unknown},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := env.leaderboard.Students(context.Background(), filter)
			if !errors.Is(err, ErrValidationFailed) {
				t.Errorf("error = %v, want validation failure", err)
			}
		})
	}
}

func TestLeaderboardEmpty(t *testing.T) {
	env := seeded(t)
	rows, err := env.leaderboard.Students(context.Background(), models.LeaderboardFilter{})
	if err != nil {
		t.Fatalf("Students: %v", err)
	}
	if rows == nil || len(rows) != 0 {
		t.Errorf("rows = %#v, want empty non-nil slice", rows)
	}
}

func TestLeaderboardSchools(t *testing.T) {
	env := seeded(t)
	a := createStudent(t, env, "Ava", "North High")
	a2 := createStudent(t, env, "Amy", "North High")
	b := createStudent(t, env, "Ben", "South High")

	addAwards(t, env, "NBA", models.StreamSchoolsCup,
		models.AwardPoints{UID4: a.UID4, Points: 50},
		models.AwardPoints{UID4: b.UID4, Points: 60},
		models.AwardPoints{UID4: a2.UID4, Points: 25},
		models.AwardPoints{UID4: 1500, Points: 99},
	)

	rows, err := env.leaderboard.Schools(context.Background(), models.LeaderboardFilter{})
	if err != nil {
		t.Fatalf("Schools: %v", err)
	}
	if len(rows) != 2 || rows[0].SchoolName != "North High" || rows[0].Total != 75 || rows[1].Total != 60 {
		t.Errorf("Schools = %+v", rows)
	}
}
