package handlers

import (
	"net/http"

	"github.com/Dosada05/seqel-esports/services"
)

const schoolsPath = "/admin/schools"

type SchoolHandler struct {
	schoolService services.SchoolService
	views         renderer
}

func NewSchoolHandler(ss services.SchoolService, views renderer) *SchoolHandler {
	return &SchoolHandler{schoolService: ss, views: views}
}

func (h *SchoolHandler) Page(w http.ResponseWriter, r *http.Request) {
	schools, err := h.schoolService.ListSchools(r.Context())
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}
	h.views.Render(w, http.StatusOK, "admin_schools", newPage(r, "Schools", schools))
}

// Create adds a school; an existing name is reused silently.
func (h *SchoolHandler) Create(w http.ResponseWriter, r *http.Request) {
	if _, _, err := h.schoolService.EnsureSchool(r.Context(), r.PostFormValue("name")); err != nil {
		redirectWithError(w, r, schoolsPath, err)
		return
	}
	redirectOK(w, r, schoolsPath)
}

func (h *SchoolHandler) List(w http.ResponseWriter, r *http.Request) {
	schools, err := h.schoolService.ListSchools(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"schools": schools}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
