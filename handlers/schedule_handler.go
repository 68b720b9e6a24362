package handlers

import (
	"net/http"
	"strings"

	"github.com/Dosada05/seqel-esports/models"
	"github.com/Dosada05/seqel-esports/services"
	"golang.org/x/sync/errgroup"
)

const (
	roundsPath = "/admin/rounds"
	areasPath  = "/admin/areas"
)

type ScheduleHandler struct {
	scheduleService services.ScheduleService
	gameService     services.GameService
	views           renderer
}

func NewScheduleHandler(ss services.ScheduleService, gs services.GameService, views renderer) *ScheduleHandler {
	return &ScheduleHandler{scheduleService: ss, gameService: gs, views: views}
}

func (h *ScheduleHandler) RoundsPage(w http.ResponseWriter, r *http.Request) {
	rounds, err := h.scheduleService.ListRounds(r.Context())
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}
	h.views.Render(w, http.StatusOK, "admin_rounds", newPage(r, "Rounds", rounds))
}

func (h *ScheduleHandler) AddRound(w http.ResponseWriter, r *http.Request) {
	input := services.RoundInput{
		Label:     strings.TrimSpace(r.PostFormValue("label")),
		StartTime: strings.TrimSpace(r.PostFormValue("start_time")),
	}

	if _, _, err := h.scheduleService.AddRound(r.Context(), input); err != nil {
		redirectWithError(w, r, roundsPath, err)
		return
	}
	redirectOK(w, r, roundsPath)
}

type areasData struct {
	Games     []models.Game
	GameNames map[int]string
	Areas     []models.Area
}

func (h *ScheduleHandler) AreasPage(w http.ResponseWriter, r *http.Request) {
	var data areasData

	g, gctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		data.Games, err = h.gameService.ListGames(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		data.Areas, err = h.scheduleService.ListAreas(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		serverErrorResponse(w, r, err)
		return
	}

	data.GameNames = gameNames(data.Games)
	h.views.Render(w, http.StatusOK, "admin_areas", newPage(r, "Areas", data))
}

func (h *ScheduleHandler) AddArea(w http.ResponseWriter, r *http.Request) {
	input := services.AreaInput{
		GameID: toInt(r.PostFormValue("game_id"), 0),
		Stream: r.PostFormValue("stream"),
		Name:   strings.TrimSpace(r.PostFormValue("name")),
	}

	if _, _, err := h.scheduleService.AddArea(r.Context(), input); err != nil {
		redirectWithError(w, r, areasPath, err)
		return
	}
	redirectOK(w, r, areasPath)
}

func (h *ScheduleHandler) ListRounds(w http.ResponseWriter, r *http.Request) {
	rounds, err := h.scheduleService.ListRounds(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"rounds": rounds}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
