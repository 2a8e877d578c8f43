package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/baraus/tutorhub/internal/apperror"
	"github.com/baraus/tutorhub/internal/auth"
	"github.com/baraus/tutorhub/internal/model"
	"github.com/baraus/tutorhub/internal/service"
)

// UserHandler owns the account endpoints: registration, login,
// profiles, and the password-reset flow.
type UserHandler struct {
	users  *service.UserService
	logger *slog.Logger
}

func NewUserHandler(users *service.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{users: users, logger: logger}
}

// HandleAuthenticate logs a user in.
//
// HTTP: POST /v1/authenticate
// BODY: {"email": "x@y.com", "password": "secret"}
//
// Answers 404 for an unknown email and 401 for a wrong password, same
// as registration-era clients expect.
func (h *UserHandler) HandleAuthenticate(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &in) {
		return
	}

	result, err := h.users.Authenticate(r.Context(), in.Email, in.Password)
	if err != nil {
		h.logger.Warn("authentication failed",
			slog.String("email", in.Email),
			slog.String("error", err.Error()),
		)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// HandleRegister creates an account and logs the new user straight in.
//
// HTTP: POST /v1/register
// BODY: {"name","surname","email","password","whatsapp"?,"bio"?}
func (h *UserHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var in service.RegisterInput
	if !decodeJSON(w, r, &in) {
		return
	}

	result, err := h.users.Register(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

// HandleForgotPassword starts the password-reset flow by mailing a
// one-hour token.
//
// HTTP: POST /v1/forgot_password
// BODY: {"email": "x@y.com"}
func (h *UserHandler) HandleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email string `json:"email"`
	}
	if !decodeJSON(w, r, &in) {
		return
	}

	if err := h.users.RequestPasswordReset(r.Context(), in.Email); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleResetPassword completes the reset flow with the mailed token.
//
// HTTP: POST /v1/reset_password
// BODY: {"email", "token", "password"}
func (h *UserHandler) HandleResetPassword(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email    string `json:"email"`
		Token    string `json:"token"`
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &in) {
		return
	}

	if err := h.users.ResetPassword(r.Context(), in.Email, in.Token, in.Password); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleGetUser returns another user's public profile.
//
// HTTP: GET /v1/users/{id}
func (h *UserHandler) HandleGetUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, apperror.ValidationFailed("id", "user id must be a positive integer"))
		return
	}

	user, err := h.users.Profile(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"user": user.Public()})
}

// HandleProfile returns the authenticated user's own record plus
// their class listings with schedule slots.
//
// HTTP: GET /v1/profile
func (h *UserHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("authentication required"))
		return
	}

	user, classes, err := h.users.ProfileWithClasses(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		User    model.PublicProfile `json:"user"`
		Classes []model.Class       `json:"classes"`
	}{User: user.Public(), Classes: classes})
}

// HandleUpdateProfile applies partial edits to the authenticated
// user's record. Absent fields stay untouched.
//
// HTTP: PUT /v1/profile
// BODY: {"name"?, "surname"?, "email"?, "whatsapp"?, "bio"?}
func (h *UserHandler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("authentication required"))
		return
	}

	var in service.UpdateProfileInput
	if !decodeJSON(w, r, &in) {
		return
	}

	user, err := h.users.UpdateProfile(r.Context(), userID, in)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"user": user.Public()})
}
