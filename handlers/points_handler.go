package handlers

import (
	"net/http"
	"strings"

	"github.com/Dosada05/seqel-esports/models"
	"github.com/Dosada05/seqel-esports/services"
	"golang.org/x/sync/errgroup"
)

const pointsPath = "/admin/points"

type PointsHandler struct {
	pointsService services.PointsService
	gameService   services.GameService
	views         renderer
}

func NewPointsHandler(ps services.PointsService, gs services.GameService, views renderer) *PointsHandler {
	return &PointsHandler{pointsService: ps, gameService: gs, views: views}
}

type pointsData struct {
	Entries   []models.PointsEntry
	Overrides []models.GamePointsOverride
	Games     []models.Game
	GameNames map[int]string
}

func (h *PointsHandler) Page(w http.ResponseWriter, r *http.Request) {
	var data pointsData

	g, gctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		data.Entries, err = h.pointsService.ListEntries(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		data.Overrides, err = h.pointsService.ListOverrides(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		data.Games, err = h.gameService.ListGames(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		serverErrorResponse(w, r, err)
		return
	}

	data.GameNames = gameNames(data.Games)
	h.views.Render(w, http.StatusOK, "admin_points", newPage(r, "Points", data))
}

// Add creates a catalogue code. An existing code is left unchanged.
func (h *PointsHandler) Add(w http.ResponseWriter, r *http.Request) {
	input := services.PointsEntryInput{
		Code:      strings.TrimSpace(r.PostFormValue("code")),
		Label:     strings.TrimSpace(r.PostFormValue("label")),
		Value:     toInt(r.PostFormValue("value"), -1),
		SortOrder: toInt(r.PostFormValue("sort_order"), 0),
		Active:    formBool(r, "active"),
	}

	if _, _, err := h.pointsService.AddEntry(r.Context(), input); err != nil {
		redirectWithError(w, r, pointsPath, err)
		return
	}
	redirectOK(w, r, pointsPath)
}

func (h *PointsHandler) Override(w http.ResponseWriter, r *http.Request) {
	input := services.OverrideInput{
		GameID: toInt(r.PostFormValue("game_id"), 0),
		Code:   strings.TrimSpace(r.PostFormValue("code")),
		Value:  toInt(r.PostFormValue("value"), -1),
	}

	if _, err := h.pointsService.SetOverride(r.Context(), input); err != nil {
		redirectWithError(w, r, pointsPath, err)
		return
	}
	redirectOK(w, r, pointsPath)
}

func (h *PointsHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := h.pointsService.ListEntries(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"points": entries}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *PointsHandler) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	var input services.PointsEntryInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	input.Code = chiParam(r, "code")

	entry, err := h.pointsService.UpdateEntry(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"points": entry}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
