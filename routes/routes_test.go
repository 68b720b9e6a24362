package routes

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Dosada05/seqel-esports/handlers"
	"github.com/Dosada05/seqel-esports/models"
	"github.com/go-chi/chi/v5"
)

type okPinger struct{}

func (okPinger) PingContext(context.Context) error { return nil }

type emptyLeaderboard struct{}

func (emptyLeaderboard) Students(context.Context, models.LeaderboardFilter) ([]models.LeaderboardRow, error) {
	return nil, nil
}

func (emptyLeaderboard) Schools(context.Context, models.LeaderboardFilter) ([]models.SchoolBoardRow, error) {
	return nil, nil
}

func newTestRouter() http.Handler {
	router := chi.NewRouter()
	SetupRoutes(router, Handlers{
		Home:   func(w http.ResponseWriter, r *http.Request) {},
		Health: handlers.NewHealthHandler(okPinger{}),
		Board:  handlers.NewBoardHandler(emptyLeaderboard{}, nil, nil, nil),
	}, []string{"http://screen.local"}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return router
}

func TestHealthRoute(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec.Header().Get("Content-Type") != "application/json" {
		t.Errorf("Content-Type = %q", rec.Header().Get("Content-Type"))
	}
}

func TestBoardsAllowConfiguredOrigin(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/boards/students", nil)
	req.Header.Set("Origin", "http://screen.local")

	rec := httptest.NewRecorder()
	newTestRouter().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://screen.local" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
}

func TestBoardsRejectOtherOrigin(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/boards/students", nil)
	req.Header.Set("Origin", "http://elsewhere.example")

	rec := httptest.NewRecorder()
	newTestRouter().ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("Access-Control-Allow-Origin = %q, want none", got)
	}
}

func TestUnknownRoute(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
