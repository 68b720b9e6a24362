package handlers

import (
	"net/http"

	"github.com/Dosada05/seqel-esports/services"
)

type AdminHandler struct {
	dashboardService services.DashboardService
	seedService      services.SeedService
	views            renderer
}

func NewAdminHandler(ds services.DashboardService, ss services.SeedService, views renderer) *AdminHandler {
	return &AdminHandler{dashboardService: ds, seedService: ss, views: views}
}

func (h *AdminHandler) Home(w http.ResponseWriter, r *http.Request) {
	stats, err := h.dashboardService.GetStats(r.Context())
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}
	h.views.Render(w, http.StatusOK, "admin_home", newPage(r, "Administration", stats))
}

func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.dashboardService.GetStats(r.Context())
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, stats, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Seed inserts the default catalogue again; existing rows are kept.
func (h *AdminHandler) Seed(w http.ResponseWriter, r *http.Request) {
	if _, err := h.seedService.Seed(r.Context()); err != nil {
		redirectWithError(w, r, "/admin/", err)
		return
	}
	redirectOK(w, r, "/admin/")
}

// Home renders the landing page.
func Home(views renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		views.Render(w, http.StatusOK, "home", newPage(r, "SEQEL Esports", nil))
	}
}
