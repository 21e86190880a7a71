// Package student contains all HTTP handlers the dashboard talks to.
//
// HANDLER PATTERN USED HERE — THE CLOSURE / FACTORY PATTERN:
// ────────────────────────────────────────────────────────────
// Go's router expects handler functions with the signature:
//
//	func(http.ResponseWriter, *http.Request)
//
// That signature has no room for extra parameters like the query service.
// To inject dependencies we use a factory function that accepts them and
// returns a function with the exact signature the router needs:
//
//	router.HandleFunc("POST /api/students", student.New(svc))
//	//                                              ^^^^^^^^
//	//                         New(svc) is called ONCE at startup.
//	//                         It returns a handler func which is called
//	//                         on EVERY incoming request.
package student

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/aanand-mishra/students-dashboard/internal/types"
	"github.com/aanand-mishra/students-dashboard/internal/utils/response"
	"github.com/aanand-mishra/students-dashboard/internal/validation"
)

// Default paging used when the dashboard omits ?page= or ?limit=.
const (
	defaultPage  = 1
	defaultLimit = 5
)

// Service is the query layer as seen by the handlers.
// *query.Service satisfies it.
type Service interface {
	List(ctx context.Context, page, pageSize int) (types.Page, error)
	Search(ctx context.Context, text string) ([]types.Student, error)
	FilterByCourse(ctx context.Context, course types.Course) ([]types.Student, error)
	FilterByStatus(ctx context.Context, status types.Status) ([]types.Student, error)
	Statistics(ctx context.Context) (types.Statistics, error)
	Get(ctx context.Context, id string) (types.Student, bool, error)
	Create(ctx context.Context, in types.NewStudent) (types.Student, error)
}

// ─────────────────────────────────────────────────────────────────────────────
// New handles POST /api/students
// Creates a new student from the JSON request body.
//
// Request body (JSON):
//
//	{ "name": "Aarav Sharma", "email": "aarav@example.com", "cgpa": 8.4,
//	  "course": "Web Development", "semester": 3,
//	  "enrollmentDate": "2024-07-01", "phoneNumber": "+919876543210" }
//
// Success response (201 Created): the stored student, including the id,
// rollNumber and status the store assigned. Clients should only move on
// (reset the form, navigate away) after receiving it.
//
// Error responses:
//
//	400 Bad Request  — empty body, malformed JSON, or failed validation
//	500 Internal     — storage error
//
// ─────────────────────────────────────────────────────────────────────────────
func New(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("creating a student")

		var in types.NewStudent
		err := json.NewDecoder(r.Body).Decode(&in)
		if errors.Is(err, io.EOF) {
			response.WriteJSON(w, http.StatusBadRequest,
				response.GeneralError(errors.New("request body is empty")))
			return
		}
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		created, err := svc.Create(r.Context(), in)
		if err != nil {
			writeError(w, "error creating student", err)
			return
		}

		response.WriteJSON(w, http.StatusCreated, created)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// GetByID handles GET /api/students/{id}
//
// Success response (200 OK): the student.
// Error responses:
//
//	404 Not Found — no student has that id
//	500 Internal  — storage error
//
// ─────────────────────────────────────────────────────────────────────────────
func GetByID(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		slog.Info("getting a student", slog.String("id", id))

		student, found, err := svc.Get(r.Context(), id)
		if err != nil {
			writeError(w, "error getting student", err, slog.String("id", id))
			return
		}
		if !found {
			response.WriteJSON(w, http.StatusNotFound,
				response.GeneralError(fmt.Errorf("no student found with id: %s", id)))
			return
		}

		response.WriteJSON(w, http.StatusOK, student)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// GetList handles GET /api/students
//
// The dashboard shows one view at a time, so at most one of the filter
// parameters may be present:
//
//	?search=text   → every student whose name, roll number or course contains text
//	?course=OS     → every student in the course (full name or abbreviation)
//	?status=active → every student with that status
//	(none)         → { "students": [...], "total": n }, paged by ?page= and ?limit=
//
// A whitespace-only search counts as no search. Filtered results are not
// paged. Returns [] (not null) when nothing matches.
// ─────────────────────────────────────────────────────────────────────────────
func GetList(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		search := q.Get("search")
		course := strings.TrimSpace(q.Get("course"))
		status := strings.TrimSpace(q.Get("status"))

		modes := 0
		for _, v := range []string{strings.TrimSpace(search), course, status} {
			if v != "" {
				modes++
			}
		}
		if modes > 1 {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(
				errors.New("use only one of search, course and status")))
			return
		}

		ctx := r.Context()
		switch {
		case strings.TrimSpace(search) != "":
			slog.Info("searching students", slog.String("search", search))
			students, err := svc.Search(ctx, search)
			if err != nil {
				writeError(w, "error searching students", err)
				return
			}
			response.WriteJSON(w, http.StatusOK, students)

		case course != "":
			c, err := types.ParseCourse(course)
			if err != nil {
				response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
				return
			}
			slog.Info("filtering students by course", slog.String("course", string(c)))
			students, err := svc.FilterByCourse(ctx, c)
			if err != nil {
				writeError(w, "error filtering students", err)
				return
			}
			response.WriteJSON(w, http.StatusOK, students)

		case status != "":
			st, err := types.ParseStatus(status)
			if err != nil {
				response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
				return
			}
			slog.Info("filtering students by status", slog.String("status", string(st)))
			students, err := svc.FilterByStatus(ctx, st)
			if err != nil {
				writeError(w, "error filtering students", err)
				return
			}
			response.WriteJSON(w, http.StatusOK, students)

		default:
			page, err := intParam(q.Get("page"), defaultPage)
			if err != nil {
				response.WriteJSON(w, http.StatusBadRequest,
					response.GeneralError(fmt.Errorf("invalid page: %w", err)))
				return
			}
			limit, err := intParam(q.Get("limit"), defaultLimit)
			if err != nil {
				response.WriteJSON(w, http.StatusBadRequest,
					response.GeneralError(fmt.Errorf("invalid limit: %w", err)))
				return
			}

			slog.Info("listing students", slog.Int("page", page), slog.Int("limit", limit))
			result, err := svc.List(ctx, page, limit)
			if err != nil {
				writeError(w, "error listing students", err)
				return
			}
			response.WriteJSON(w, http.StatusOK, result)
		}
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// GetStatistics handles GET /api/statistics
//
// Success response (200 OK):
//
//	{ "totalStudents": 20, "activeStudents": 16, "inactiveStudents": 4,
//	  "averageCGPA": 8.47,
//	  "courseStats": [ { "name": "Web Development", "abbreviation": "WD",
//	                     "students": 5, "percentage": 25 }, ... ] }
//
// ─────────────────────────────────────────────────────────────────────────────
func GetStatistics(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("computing statistics")

		stats, err := svc.Statistics(r.Context())
		if err != nil {
			writeError(w, "error computing statistics", err)
			return
		}
		response.WriteJSON(w, http.StatusOK, stats)
	}
}

// courseInfo is one entry of the course catalogue.
type courseInfo struct {
	Name         types.Course `json:"name"`
	Abbreviation string       `json:"abbreviation"`
}

// GetCourses handles GET /api/courses and lists the closed course set in
// its canonical order, for the dashboard's filter buttons and form select.
func GetCourses() http.HandlerFunc {
	courses := make([]courseInfo, 0, len(types.Courses))
	for _, c := range types.Courses {
		courses = append(courses, courseInfo{Name: c, Abbreviation: c.Abbreviation()})
	}
	return func(w http.ResponseWriter, r *http.Request) {
		response.WriteJSON(w, http.StatusOK, courses)
	}
}

// writeError maps a service error onto a status code:
//
//	validation failure → 400 with per-field messages
//	anything else      → 500
func writeError(w http.ResponseWriter, msg string, err error, attrs ...any) {
	var verrs validator.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		response.WriteJSON(w, http.StatusBadRequest, response.ValidationError(verrs))
	case errors.Is(err, validation.ErrInvalid):
		response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
	default:
		slog.Error(msg, append(attrs, slog.String("error", err.Error()))...)
		response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
	}
}

func intParam(raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

// Register mounts every handler on router.
//
// Route table:
//
//	POST /api/students       → create a new student
//	GET  /api/students       → page, search or filter students
//	GET  /api/students/{id}  → get one student by id
//	GET  /api/statistics     → dashboard statistics
//	GET  /api/courses        → the course catalogue
func Register(router *http.ServeMux, svc Service) {
	router.HandleFunc("POST /api/students", New(svc))
	router.HandleFunc("GET /api/students", GetList(svc))
	router.HandleFunc("GET /api/students/{id}", GetByID(svc))
	router.HandleFunc("GET /api/statistics", GetStatistics(svc))
	router.HandleFunc("GET /api/courses", GetCourses())
}
