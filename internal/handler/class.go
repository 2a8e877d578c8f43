package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/baraus/tutorhub/internal/apperror"
	"github.com/baraus/tutorhub/internal/auth"
	"github.com/baraus/tutorhub/internal/service"
)

// ClassHandler owns the class listing and creation endpoints plus the
// subject taxonomy.
type ClassHandler struct {
	classes *service.ClassService
	logger  *slog.Logger
}

func NewClassHandler(classes *service.ClassService, logger *slog.Logger) *ClassHandler {
	return &ClassHandler{classes: classes, logger: logger}
}

// HandleList searches classes.
//
// HTTP: GET /v1/classes?user_id=&subject_id=&week_day=
//
// All filters are optional. week_day is 0 (Sunday) through 6; an
// unparsable user_id or subject_id is a 400 rather than silently
// ignored.
func (h *ClassHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	userID, err := parseIDParam(q.Get("user_id"))
	if err != nil {
		writeError(w, apperror.ValidationFailed("user_id", "user_id must be a positive integer"))
		return
	}
	subjectID, err := parseIDParam(q.Get("subject_id"))
	if err != nil {
		writeError(w, apperror.ValidationFailed("subject_id", "subject_id must be a positive integer"))
		return
	}

	classes, err := h.classes.List(r.Context(), service.ListFilter{
		UserID:     userID,
		SubjectID:  subjectID,
		WeekDayStr: q.Get("week_day"),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"classes": classes})
}

// HandleCreate publishes a new class owned by the authenticated user.
//
// HTTP: POST /v1/classes
// BODY: {"subject_id", "cost", "summary", "schedule": [{"week_day","from","to"}]}
func (h *ClassHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("authentication required"))
		return
	}

	var in struct {
		SubjectID int64                   `json:"subject_id"`
		Cost      float64                 `json:"cost"`
		Summary   string                  `json:"summary"`
		Schedule  []service.ScheduleInput `json:"schedule"`
	}
	if !decodeJSON(w, r, &in) {
		return
	}

	class, err := h.classes.Create(r.Context(), userID, in.SubjectID, in.Cost, in.Summary, in.Schedule)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"class": class})
}

// HandleSubjects returns the taxonomy for client-side pickers.
//
// HTTP: GET /v1/subjects
func (h *ClassHandler) HandleSubjects(w http.ResponseWriter, r *http.Request) {
	subjects, err := h.classes.Subjects(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"subjects": subjects})
}

// parseIDParam converts an optional numeric query parameter; "" means
// "not given" and comes back as 0.
func parseIDParam(s string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseInt(s, 10, 64)
}
