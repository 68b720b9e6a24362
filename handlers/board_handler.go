package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/Dosada05/seqel-esports/models"
	"github.com/Dosada05/seqel-esports/services"
	"golang.org/x/sync/errgroup"
)

type BoardHandler struct {
	leaderboardService services.LeaderboardService
	gameService        services.GameService
	sponsorService     services.SponsorService
	views              renderer
}

func NewBoardHandler(
	ls services.LeaderboardService,
	gs services.GameService,
	ss services.SponsorService,
	views renderer,
) *BoardHandler {
	return &BoardHandler{
		leaderboardService: ls,
		gameService:        gs,
		sponsorService:     ss,
		views:              views,
	}
}

type boardData struct {
	Games    []models.Game
	Rows     []models.LeaderboardRow
	Sponsors []services.Sponsor
	GameID   int
	Stream   string
	Limit    int
}

// filterFromQuery reads game_id, stream and limit. Blank values do not filter.
func filterFromQuery(q url.Values) (models.LeaderboardFilter, error) {
	var filter models.LeaderboardFilter

	if s := strings.TrimSpace(q.Get("game_id")); s != "" {
		id, err := strconv.Atoi(s)
		if err != nil {
			return filter, fmt.Errorf("%w: game_id must be a number", services.ErrValidationFailed)
		}
		filter.GameID = &id
	}
	if s := strings.TrimSpace(q.Get("stream")); s != "" {
		stream := models.Stream(s)
		filter.Stream = &stream
	}
	if s := strings.TrimSpace(q.Get("limit")); s != "" {
		limit, err := strconv.Atoi(s)
		if err != nil {
			return filter, fmt.Errorf("%w: limit must be a number", services.ErrValidationFailed)
		}
		filter.Limit = limit
	}
	return filter, nil
}

func (h *BoardHandler) StudentsPage(w http.ResponseWriter, r *http.Request) {
	data := boardData{Limit: services.DefaultLeaderboardLimit}

	filter, filterErr := filterFromQuery(r.URL.Query())
	if filterErr == nil {
		if filter.GameID != nil {
			data.GameID = *filter.GameID
		}
		if filter.Stream != nil {
			data.Stream = string(*filter.Stream)
		}
		if filter.Limit != 0 {
			data.Limit = filter.Limit
		}
	}

	g, gctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		data.Games, err = h.gameService.ListGames(gctx)
		return err
	})
	g.Go(func() error {
		sponsors, err := h.sponsorService.List(gctx)
		if err != nil {
			slog.Warn("sponsor images unavailable", slog.Any("error", err))
			return nil
		}
		data.Sponsors = sponsors
		return nil
	})
	if filterErr == nil {
		g.Go(func() error {
			rows, err := h.leaderboardService.Students(gctx, filter)
			if errors.Is(err, services.ErrValidationFailed) {
				filterErr = err
				return nil
			}
			data.Rows = rows
			return err
		})
	}
	if err := g.Wait(); err != nil {
		serverErrorResponse(w, r, err)
		return
	}

	page := newPage(r, "Student leaderboard", &data)
	if filterErr != nil {
		page.Error = filterErr.Error()
	}
	h.views.Render(w, http.StatusOK, "boards_students", page)
}

func (h *BoardHandler) Students(w http.ResponseWriter, r *http.Request) {
	filter, err := filterFromQuery(r.URL.Query())
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	rows, err := h.leaderboardService.Students(r.Context(), filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"students": rows}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *BoardHandler) Schools(w http.ResponseWriter, r *http.Request) {
	filter, err := filterFromQuery(r.URL.Query())
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	rows, err := h.leaderboardService.Schools(r.Context(), filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"schools": rows}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
