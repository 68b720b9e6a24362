package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/Dosada05/seqel-esports/services"
	"github.com/Dosada05/seqel-esports/views"
	"github.com/go-chi/chi/v5"
)

type jsonResponse map[string]interface{}

// renderer is satisfied by *views.Renderer.
type renderer interface {
	Render(w http.ResponseWriter, status int, name string, page views.Page)
}

func readJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	maxBytes := 1_048_576
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var invalidUnmarshalError *json.InvalidUnmarshalError
		var maxBytesError *http.MaxBytesError

		switch {
		case errors.As(err, &syntaxError):
			return fmt.Errorf("body contains badly-formed JSON (at character %d)", syntaxError.Offset)
		case errors.Is(err, io.ErrUnexpectedEOF):
			return errors.New("body contains badly-formed JSON")
		case errors.As(err, &unmarshalTypeError):
			if unmarshalTypeError.Field != "" {
				return fmt.Errorf("body contains incorrect JSON type for field %q", unmarshalTypeError.Field)
			}
			return fmt.Errorf("body contains incorrect JSON type (at character %d)", unmarshalTypeError.Offset)
		case errors.Is(err, io.EOF):
			return errors.New("body must not be empty")
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			fieldName := strings.TrimPrefix(err.Error(), "json: unknown field ")
			return fmt.Errorf("body contains unknown key %s", fieldName)
		case errors.As(err, &maxBytesError):
			return fmt.Errorf("body must not be larger than %d bytes", maxBytes)
		case errors.As(err, &invalidUnmarshalError):
			panic(err)
		default:
			return err
		}
	}

	err = dec.Decode(&struct{}{})
	if !errors.Is(err, io.EOF) {
		return errors.New("body must only contain a single JSON value")
	}

	return nil
}

func writeJSON(w http.ResponseWriter, status int, data interface{}, headers http.Header) error {
	js, err := json.MarshalIndent(data, "", "\t")
	if err != nil {
		return err
	}
	js = append(js, '\n')

	for key, value := range headers {
		w.Header()[key] = value
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(js)
	return err
}

func errorResponse(w http.ResponseWriter, r *http.Request, status int, message interface{}) {
	env := jsonResponse{"error": message}
	if err := writeJSON(w, status, env, nil); err != nil {
		slog.Error("failed to write error response",
			slog.String("path", r.URL.Path),
			slog.Any("error", err))
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	slog.Error("internal server error",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Any("error", err))
	message := "the server encountered a problem and could not process your request"
	errorResponse(w, r, http.StatusInternalServerError, message)
}

func badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	errorResponse(w, r, http.StatusBadRequest, err.Error())
}

func failedValidationResponse(w http.ResponseWriter, r *http.Request, errors map[string]string) {
	errorResponse(w, r, http.StatusUnprocessableEntity, errors)
}

func notFoundResponse(w http.ResponseWriter, r *http.Request) {
	message := "the requested resource could not be found"
	errorResponse(w, r, http.StatusNotFound, message)
}

func conflictResponse(w http.ResponseWriter, r *http.Request, message string) {
	errorResponse(w, r, http.StatusConflict, message)
}

// mapServiceErrorToHTTP turns a service error into a JSON error response.
func mapServiceErrorToHTTP(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *services.ValidationError

	switch {
	case errors.As(err, &validationErr):
		failedValidationResponse(w, r, validationErr.Fields)

	case errors.Is(err, services.ErrWinnerMismatch),
		errors.Is(err, services.ErrValidationFailed),
		errors.Is(err, services.ErrUnsupportedContentType):
		badRequestResponse(w, r, err)

	case errors.Is(err, services.ErrNotFound),
		errors.Is(err, services.ErrSchoolNotFound),
		errors.Is(err, services.ErrStudentNotFound),
		errors.Is(err, services.ErrGameNotFound),
		errors.Is(err, services.ErrEventNotFound),
		errors.Is(err, services.ErrAreaNotFound),
		errors.Is(err, services.ErrRoundNotFound),
		errors.Is(err, services.ErrMatchNotFound),
		errors.Is(err, services.ErrPointsEntryNotFound):
		notFoundResponse(w, r)

	case errors.Is(err, services.ErrGameNameConflict),
		errors.Is(err, services.ErrUIDPoolExhausted):
		conflictResponse(w, r, err.Error())

	default:
		serverErrorResponse(w, r, err)
	}
}

// Codes carried in the ?error= query parameter of HTML redirects.
const (
	codeWinnerMismatch    = "WinnerMismatch"
	codeValidationFailed  = "ValidationFailed"
	codeUIDPoolExhausted  = "UIDPoolExhausted"
	codeNotFound          = "NotFound"
	codeConflict          = "Conflict"
	codePersistenceFailed = "PersistenceFailed"
)

var errorMessages = map[string]string{
	codeWinnerMismatch:    "The winner must be one of the two participants.",
	codeValidationFailed:  "Some of the submitted values are missing or invalid.",
	codeUIDPoolExhausted:  "Warning: no free 4-digit identifier is left.",
	codeNotFound:          "The referenced record does not exist.",
	codeConflict:          "A record with that name already exists.",
	codePersistenceFailed: "The change could not be saved. Please try again.",
}

// errorCode is the HTML counterpart of mapServiceErrorToHTTP.
func errorCode(err error) string {
	switch {
	case errors.Is(err, services.ErrWinnerMismatch):
		return codeWinnerMismatch
	case errors.Is(err, services.ErrValidationFailed),
		errors.Is(err, services.ErrUnsupportedContentType):
		return codeValidationFailed
	case errors.Is(err, services.ErrUIDPoolExhausted):
		return codeUIDPoolExhausted
	case errors.Is(err, services.ErrNotFound),
		errors.Is(err, services.ErrSchoolNotFound),
		errors.Is(err, services.ErrStudentNotFound),
		errors.Is(err, services.ErrGameNotFound),
		errors.Is(err, services.ErrEventNotFound),
		errors.Is(err, services.ErrAreaNotFound),
		errors.Is(err, services.ErrRoundNotFound),
		errors.Is(err, services.ErrMatchNotFound),
		errors.Is(err, services.ErrPointsEntryNotFound):
		return codeNotFound
	case errors.Is(err, services.ErrGameNameConflict):
		return codeConflict
	default:
		return codePersistenceFailed
	}
}

// redirectWithError logs unexpected failures and sends the browser back to
// target with an error code.
func redirectWithError(w http.ResponseWriter, r *http.Request, target string, err error) {
	code := errorCode(err)
	if code == codePersistenceFailed {
		slog.Error("request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Any("error", err))
	}
	redirect(w, r, target, url.Values{"error": {code}})
}

func redirectOK(w http.ResponseWriter, r *http.Request, target string) {
	redirect(w, r, target, url.Values{"ok": {"1"}})
}

func redirect(w http.ResponseWriter, r *http.Request, target string, params url.Values) {
	if len(params) > 0 {
		target += "?" + params.Encode()
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// newPage builds a page and fills its notice or error from the redirect
// query parameters.
func newPage(r *http.Request, title string, data interface{}) views.Page {
	page := views.Page{Title: title, Data: data}
	q := r.URL.Query()
	if q.Get("ok") != "" {
		page.Notice = "Saved."
	}
	if code := q.Get("error"); code != "" {
		msg, ok := errorMessages[code]
		if !ok {
			msg = errorMessages[codePersistenceFailed]
		}
		page.Error = msg
	}
	return page
}

func getIDFromURL(r *http.Request, paramName string) (int, error) {
	idStr := chi.URLParam(r, paramName)
	if idStr == "" {
		return 0, fmt.Errorf("missing %s in URL path", paramName)
	}

	id, err := strconv.Atoi(idStr)
	if err != nil {
		return 0, fmt.Errorf("invalid %s format: %q", paramName, idStr)
	}

	if id <= 0 {
		return 0, fmt.Errorf("invalid %s value: %d", paramName, id)
	}

	return id, nil
}

func chiParam(r *http.Request, name string) string {
	return strings.TrimSpace(chi.URLParam(r, name))
}

func toInt(s string, def int) int {
	if i, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
		return i
	}
	return def
}

// formOptionalInt returns nil for a blank field.
func formOptionalInt(r *http.Request, field string) (*int, error) {
	s := strings.TrimSpace(r.PostFormValue(field))
	if s == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil, fmt.Errorf("%s must be a whole number", field)
	}
	return &v, nil
}

func formOptionalFloat(r *http.Request, field string) (*float64, error) {
	s := strings.TrimSpace(r.PostFormValue(field))
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("%s must be a number", field)
	}
	return &v, nil
}

func formBool(r *http.Request, field string) bool {
	switch strings.ToLower(strings.TrimSpace(r.PostFormValue(field))) {
	case "1", "on", "true", "yes":
		return true
	}
	return false
}
