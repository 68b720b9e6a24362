package handlers

import (
	"net/http"

	"github.com/Dosada05/seqel-esports/services"
)

const settingsPath = "/admin/settings"

type SettingsHandler struct {
	settingService services.SettingService
	views          renderer
}

func NewSettingsHandler(ss services.SettingService, views renderer) *SettingsHandler {
	return &SettingsHandler{settingService: ss, views: views}
}

func (h *SettingsHandler) Page(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settingService.List(r.Context())
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}
	h.views.Render(w, http.StatusOK, "admin_settings", newPage(r, "Settings", settings))
}

func (h *SettingsHandler) Save(w http.ResponseWriter, r *http.Request) {
	key := r.PostFormValue("key")
	if err := h.settingService.Set(r.Context(), key, r.PostFormValue("value")); err != nil {
		redirectWithError(w, r, settingsPath, err)
		return
	}
	redirectOK(w, r, settingsPath)
}
