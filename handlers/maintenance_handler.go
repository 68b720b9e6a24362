package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Dosada05/seqel-esports/services"
)

const maintenancePath = "/admin/maintenance"

type MaintenanceHandler struct {
	maintenanceService services.MaintenanceService
	views              renderer
}

func NewMaintenanceHandler(ms services.MaintenanceService, views renderer) *MaintenanceHandler {
	return &MaintenanceHandler{maintenanceService: ms, views: views}
}

func (h *MaintenanceHandler) Page(w http.ResponseWriter, r *http.Request) {
	h.views.Render(w, http.StatusOK, "admin_maintenance", newPage(r, "Maintenance", nil))
}

func (h *MaintenanceHandler) Reset(w http.ResponseWriter, r *http.Request) {
	scope := r.PostFormValue("scope")
	if err := h.maintenanceService.Reset(r.Context(), scope); err != nil {
		redirectWithError(w, r, maintenancePath, err)
		return
	}
	slog.Info("data reset", slog.String("scope", scope))
	redirectOK(w, r, maintenancePath)
}
