package handlers

import (
	"fmt"
	"net/http"

	"github.com/Dosada05/seqel-esports/models"
	"github.com/Dosada05/seqel-esports/services"
)

const studentsPath = "/admin/students"

type StudentHandler struct {
	studentService services.StudentService
	views          renderer
}

func NewStudentHandler(ss services.StudentService, views renderer) *StudentHandler {
	return &StudentHandler{studentService: ss, views: views}
}

type studentsData struct {
	Search   string
	Students []models.Student
}

func (h *StudentHandler) Page(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("q")
	students, err := h.studentService.ListStudents(r.Context(), search)
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}

	data := studentsData{Search: search, Students: students}
	h.views.Render(w, http.StatusOK, "admin_students", newPage(r, "Students", data))
}

func (h *StudentHandler) Create(w http.ResponseWriter, r *http.Request) {
	input := services.CreateStudentInput{
		FirstName:  r.PostFormValue("first_name"),
		LastName:   r.PostFormValue("last_name"),
		SchoolName: r.PostFormValue("school"),
		Cohort:     r.PostFormValue("cohort"),
		YearLevel:  r.PostFormValue("year_level"),
	}

	if _, err := h.studentService.CreateStudent(r.Context(), input); err != nil {
		redirectWithError(w, r, studentsPath, err)
		return
	}
	redirectOK(w, r, studentsPath)
}

func (h *StudentHandler) SetFlag(w http.ResponseWriter, r *http.Request) {
	studentID, err := getIDFromURL(r, "studentID")
	if err != nil {
		redirectWithError(w, r, studentsPath, fmt.Errorf("%w: %v", services.ErrValidationFailed, err))
		return
	}

	flag := models.StudentFlag(r.PostFormValue("flag"))
	if err := h.studentService.SetFlag(r.Context(), studentID, flag, formBool(r, "value")); err != nil {
		redirectWithError(w, r, studentsPath, err)
		return
	}
	redirectOK(w, r, studentsPath)
}

func (h *StudentHandler) GetStudent(w http.ResponseWriter, r *http.Request) {
	studentID, err := getIDFromURL(r, "studentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	student, err := h.studentService.GetStudent(r.Context(), studentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"student": student}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *StudentHandler) CreateStudent(w http.ResponseWriter, r *http.Request) {
	var input services.CreateStudentInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	student, err := h.studentService.CreateStudent(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"student": student}
	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
