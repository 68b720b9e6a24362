package handlers

import (
	"net/http"
	"strings"

	"github.com/Dosada05/seqel-esports/services"
)

const gamesPath = "/admin/games"

type GameHandler struct {
	gameService services.GameService
	views       renderer
}

func NewGameHandler(gs services.GameService, views renderer) *GameHandler {
	return &GameHandler{gameService: gs, views: views}
}

func (h *GameHandler) Page(w http.ResponseWriter, r *http.Request) {
	games, err := h.gameService.ListGames(r.Context())
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}
	h.views.Render(w, http.StatusOK, "admin_games", newPage(r, "Games", games))
}

// Create adds a game together with both of its events and default areas.
func (h *GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	input := services.CreateGameInput{
		Name:           strings.TrimSpace(r.PostFormValue("name")),
		Platform:       strings.TrimSpace(r.PostFormValue("platform")),
		ScoringMode:    r.PostFormValue("scoring_mode"),
		FinalsMetric:   r.PostFormValue("finals_metric"),
		Notes:          strings.TrimSpace(r.PostFormValue("notes")),
		OverridePoints: formBool(r, "override_points"),
	}

	if _, err := h.gameService.CreateGame(r.Context(), input); err != nil {
		redirectWithError(w, r, gamesPath, err)
		return
	}
	redirectOK(w, r, gamesPath)
}

func (h *GameHandler) ListGames(w http.ResponseWriter, r *http.Request) {
	games, err := h.gameService.ListGames(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"games": games}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *GameHandler) CreateGame(w http.ResponseWriter, r *http.Request) {
	var input services.CreateGameInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	game, err := h.gameService.CreateGame(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"game": game}
	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
