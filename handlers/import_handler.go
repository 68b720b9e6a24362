package handlers

import (
	"fmt"
	"net/http"

	"github.com/Dosada05/seqel-esports/services"
)

const maxUploadBytes = 10 << 20

type ImportHandler struct {
	importService services.ImportService
	views         renderer
}

func NewImportHandler(is services.ImportService, views renderer) *ImportHandler {
	return &ImportHandler{importService: is, views: views}
}

func (h *ImportHandler) Page(w http.ResponseWriter, r *http.Request) {
	h.views.Render(w, http.StatusOK, "admin_upload", newPage(r, "Import students", nil))
}

// Upload imports the CSV file and renders the counts directly.
func (h *ImportHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		redirectWithError(w, r, "/admin/upload", fmt.Errorf("%w: %v", services.ErrValidationFailed, err))
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		redirectWithError(w, r, "/admin/upload", fmt.Errorf("%w: file is required", services.ErrValidationFailed))
		return
	}
	defer file.Close()

	result, err := h.importService.ImportStudents(r.Context(), file)
	if err != nil {
		redirectWithError(w, r, "/admin/upload", err)
		return
	}

	page := newPage(r, "Import students", result)
	page.Notice = fmt.Sprintf("Imported %d students.", result.StudentsCreated)
	h.views.Render(w, http.StatusOK, "admin_upload", page)
}
