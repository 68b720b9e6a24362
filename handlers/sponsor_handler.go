package handlers

import (
	"fmt"
	"net/http"

	"github.com/Dosada05/seqel-esports/services"
)

const sponsorsPath = "/admin/sponsors"

type SponsorHandler struct {
	sponsorService services.SponsorService
	views          renderer
}

func NewSponsorHandler(ss services.SponsorService, views renderer) *SponsorHandler {
	return &SponsorHandler{sponsorService: ss, views: views}
}

func (h *SponsorHandler) Page(w http.ResponseWriter, r *http.Request) {
	sponsors, err := h.sponsorService.List(r.Context())
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}
	h.views.Render(w, http.StatusOK, "admin_sponsors", newPage(r, "Sponsors", sponsors))
}

func (h *SponsorHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		redirectWithError(w, r, sponsorsPath, fmt.Errorf("%w: %v", services.ErrValidationFailed, err))
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		redirectWithError(w, r, sponsorsPath, fmt.Errorf("%w: image is required", services.ErrValidationFailed))
		return
	}
	defer file.Close()

	if _, err := h.sponsorService.Upload(r.Context(), header.Header.Get("Content-Type"), file); err != nil {
		redirectWithError(w, r, sponsorsPath, err)
		return
	}
	redirectOK(w, r, sponsorsPath)
}

func (h *SponsorHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.sponsorService.Delete(r.Context(), r.PostFormValue("key")); err != nil {
		redirectWithError(w, r, sponsorsPath, err)
		return
	}
	redirectOK(w, r, sponsorsPath)
}

// Files serves locally stored sponsor images. The directory is read per
// request because it is a setting that can change at runtime.
func (h *SponsorHandler) Files(w http.ResponseWriter, r *http.Request) {
	dir, err := h.sponsorService.LocalDir(r.Context())
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}
	http.StripPrefix(services.SponsorURLPrefix, http.FileServer(http.Dir(dir))).ServeHTTP(w, r)
}

func (h *SponsorHandler) List(w http.ResponseWriter, r *http.Request) {
	sponsors, err := h.sponsorService.List(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"sponsors": sponsors}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
