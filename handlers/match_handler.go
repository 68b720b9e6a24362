package handlers

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Dosada05/seqel-esports/models"
	"github.com/Dosada05/seqel-esports/services"
	"golang.org/x/sync/errgroup"
)

const loggerPath = "/logger"

type MatchHandler struct {
	matchService    services.MatchService
	gameService     services.GameService
	scheduleService services.ScheduleService
	views           renderer
}

func NewMatchHandler(
	ms services.MatchService,
	gs services.GameService,
	ss services.ScheduleService,
	views renderer,
) *MatchHandler {
	return &MatchHandler{
		matchService:    ms,
		gameService:     gs,
		scheduleService: ss,
		views:           views,
	}
}

type loggerData struct {
	Games     []models.Game
	GameNames map[int]string
	Rounds    []models.Round
	Areas     []models.Area
	Recent    []*models.MatchSummary
	NextRound int
}

// Page renders the logger form with the most recent matches.
func (h *MatchHandler) Page(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	data := loggerData{NextRound: toInt(r.URL.Query().Get("next_round"), 0)}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		data.Games, err = h.gameService.ListGames(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		data.Rounds, err = h.scheduleService.ListRounds(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		data.Areas, err = h.scheduleService.ListAreas(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		data.Recent, err = h.matchService.Recent(gctx, 0)
		return err
	})
	if err := g.Wait(); err != nil {
		serverErrorResponse(w, r, err)
		return
	}

	data.GameNames = gameNames(data.Games)
	h.views.Render(w, http.StatusOK, "logger", newPage(r, "Match logger", data))
}

// Submit records a match from the logger form and redirects back with the
// next round preselected.
func (h *MatchHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		redirectWithError(w, r, loggerPath, fmt.Errorf("%w: %v", services.ErrValidationFailed, err))
		return
	}

	sub, err := submissionFromForm(r)
	if err != nil {
		redirectWithError(w, r, loggerPath, fmt.Errorf("%w: %v", services.ErrValidationFailed, err))
		return
	}

	if _, err := h.matchService.Record(r.Context(), sub); err != nil {
		redirectWithError(w, r, loggerPath, err)
		return
	}

	params := url.Values{"ok": {"1"}}
	if rounds, err := h.scheduleService.ListRounds(r.Context()); err == nil {
		if next := nextRoundID(rounds, sub.RoundID); next > 0 {
			params.Set("next_round", strconv.Itoa(next))
		}
	}
	redirect(w, r, loggerPath, params)
}

func (h *MatchHandler) Finalize(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		redirectWithError(w, r, loggerPath, fmt.Errorf("%w: %v", services.ErrValidationFailed, err))
		return
	}

	gameID := toInt(r.PostFormValue("game_id"), 0)
	stream := models.Stream(r.PostFormValue("stream"))
	if _, err := h.matchService.FinalizeFinals(r.Context(), gameID, stream); err != nil {
		redirectWithError(w, r, loggerPath, err)
		return
	}
	redirectOK(w, r, loggerPath)
}

func (h *MatchHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		redirectWithError(w, r, loggerPath, fmt.Errorf("%w: %v", services.ErrValidationFailed, err))
		return
	}

	if err := h.matchService.Cancel(r.Context(), matchID, r.PostFormValue("reason")); err != nil {
		redirectWithError(w, r, loggerPath, err)
		return
	}
	redirectOK(w, r, loggerPath)
}

func (h *MatchHandler) CreateMatch(w http.ResponseWriter, r *http.Request) {
	var sub services.MatchSubmission
	if err := readJSON(w, r, &sub); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.matchService.Record(r.Context(), sub)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"match": result.Match, "awards": result.Participants}
	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

type finalizeInput struct {
	GameID int           `json:"game_id"`
	Stream models.Stream `json:"stream"`
}

func (h *MatchHandler) FinalizeFinals(w http.ResponseWriter, r *http.Request) {
	var input finalizeInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	awards, err := h.matchService.FinalizeFinals(r.Context(), input.GameID, input.Stream)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"awards": awards}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) RecentMatches(w http.ResponseWriter, r *http.Request) {
	matches, err := h.matchService.Recent(r.Context(), toInt(r.URL.Query().Get("limit"), 0))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"matches": matches}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func submissionFromForm(r *http.Request) (services.MatchSubmission, error) {
	sub := services.MatchSubmission{
		GameID:  toInt(r.PostFormValue("game_id"), 0),
		Stream:  r.PostFormValue("stream"),
		RoundID: toInt(r.PostFormValue("round_id"), 0),
		AreaID:  toInt(r.PostFormValue("area_id"), 0),
		Mode:    r.PostFormValue("mode"),
	}

	ints := []struct {
		field string
		dst   **int
	}{
		{"uid1", &sub.UID1},
		{"uid2", &sub.UID2},
		{"uid3", &sub.UID3},
		{"uid4", &sub.UID4},
		{"winner_uid", &sub.WinnerUID},
		{"place1", &sub.Place1},
		{"place2", &sub.Place2},
		{"place3", &sub.Place3},
		{"place4", &sub.Place4},
		{"finals_uid", &sub.FinalsUID},
	}
	for _, f := range ints {
		v, err := formOptionalInt(r, f.field)
		if err != nil {
			return sub, err
		}
		*f.dst = v
	}

	metric, err := formOptionalFloat(r, "metric")
	if err != nil {
		return sub, err
	}
	sub.Metric = metric
	return sub, nil
}

// nextRoundID returns the round listed after current, or 0 when current is
// the last one or unknown. Rounds come ordered by start time.
func nextRoundID(rounds []models.Round, current int) int {
	for i, round := range rounds {
		if round.ID == current && i+1 < len(rounds) {
			return rounds[i+1].ID
		}
	}
	return 0
}

func gameNames(games []models.Game) map[int]string {
	names := make(map[int]string, len(games))
	for _, g := range games {
		names[g.ID] = g.Name
	}
	return names
}
