package handler

import (
	"log/slog"
	"net/http"

	"github.com/baraus/tutorhub/internal/apperror"
	"github.com/baraus/tutorhub/internal/auth"
	"github.com/baraus/tutorhub/internal/service"
)

// ConnectionHandler records and reports teacher contacts.
type ConnectionHandler struct {
	connections *service.ConnectionService
	logger      *slog.Logger
}

func NewConnectionHandler(connections *service.ConnectionService, logger *slog.Logger) *ConnectionHandler {
	return &ConnectionHandler{connections: connections, logger: logger}
}

// HandleList returns all recorded connections and the running total.
//
// HTTP: GET /v1/connections
func (h *ConnectionHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.connections.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// HandleCreate records that the authenticated user asked for a
// teacher's contact details.
//
// HTTP: POST /v1/connections
// BODY: {"subject_id"?} (omit or 0 for no subject)
func (h *ConnectionHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("authentication required"))
		return
	}

	var in struct {
		SubjectID int64 `json:"subject_id"`
	}
	if !decodeJSON(w, r, &in) {
		return
	}

	conn, err := h.connections.Create(r.Context(), userID, in.SubjectID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"connection": conn})
}
