package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baraus/tutorhub/internal/config"
)

// newTestServer stands up the whole application against a throwaway
// database, with mail and object storage left unconfigured. Exercising
// the real router catches wiring mistakes unit tests can't.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := &config.Config{
		Env:         "dev",
		StoragePath: filepath.Join(t.TempDir(), "test.db"),
		JWTSecret:   "integration-test-secret-0123456789",
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	srv, err := New(cfg, logger)
	require.NoError(t, err)
	t.Cleanup(func() { srv.Close() })

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

// doJSON sends a JSON request and decodes the JSON response body.
func doJSON(t *testing.T, client *http.Client, method, url, token string, body any) (int, map[string]json.RawMessage) {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, url, reqBody)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	fields := map[string]json.RawMessage{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &fields), "body: %s", raw)
	}
	return resp.StatusCode, fields
}

// register creates an account and returns the session token.
func register(t *testing.T, ts *httptest.Server, email string) string {
	t.Helper()

	status, fields := doJSON(t, ts.Client(), http.MethodPost, ts.URL+"/v1/register", "", map[string]any{
		"name":     "Bruno",
		"surname":  "Silva",
		"email":    email,
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, status)

	var token string
	require.NoError(t, json.Unmarshal(fields["token"], &token))
	require.NotEmpty(t, token)
	return token
}

func TestRegisterAuthenticateProfile(t *testing.T) {
	ts := newTestServer(t)
	register(t, ts, "bruno@example.com")

	// Log in with the new account
	status, fields := doJSON(t, ts.Client(), http.MethodPost, ts.URL+"/v1/authenticate", "", map[string]any{
		"email":    "bruno@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, status)

	var token string
	require.NoError(t, json.Unmarshal(fields["token"], &token))

	// The token opens the profile
	status, fields = doJSON(t, ts.Client(), http.MethodGet, ts.URL+"/v1/profile", token, nil)
	require.Equal(t, http.StatusOK, status)

	var user struct {
		Email  string `json:"email"`
		Avatar string `json:"avatar"`
	}
	require.NoError(t, json.Unmarshal(fields["user"], &user))
	assert.Equal(t, "bruno@example.com", user.Email)
	assert.Contains(t, user.Avatar, "bruno", "new accounts get a name-derived placeholder avatar")
}

func TestAuthenticate_BadCredentials(t *testing.T) {
	ts := newTestServer(t)
	register(t, ts, "bruno@example.com")

	tests := []struct {
		name       string
		email      string
		password   string
		wantStatus int
		wantKind   string
	}{
		{"wrong password", "bruno@example.com", "nope12345", http.StatusUnauthorized, "invalid_credential"},
		{"unknown email", "ghost@example.com", "secret123", http.StatusNotFound, "not_found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, fields := doJSON(t, ts.Client(), http.MethodPost, ts.URL+"/v1/authenticate", "", map[string]any{
				"email":    tt.email,
				"password": tt.password,
			})
			assert.Equal(t, tt.wantStatus, status)

			var kind string
			require.NoError(t, json.Unmarshal(fields["error"], &kind))
			assert.Equal(t, tt.wantKind, kind)
		})
	}
}

func TestRegister_DuplicateEmailConflict(t *testing.T) {
	ts := newTestServer(t)
	register(t, ts, "dup@example.com")

	status, _ := doJSON(t, ts.Client(), http.MethodPost, ts.URL+"/v1/register", "", map[string]any{
		"name": "Diego", "surname": "Souza", "email": "dup@example.com", "password": "secret123",
	})
	assert.Equal(t, http.StatusConflict, status)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	ts := newTestServer(t)

	for _, route := range []struct{ method, path string }{
		{http.MethodGet, "/v1/profile"},
		{http.MethodPut, "/v1/profile"},
		{http.MethodGet, "/v1/classes"},
		{http.MethodPost, "/v1/classes"},
		{http.MethodPost, "/v1/connections"},
		{http.MethodPost, "/v1/avatar"},
		{http.MethodGet, "/v1/users/1"},
	} {
		status, _ := doJSON(t, ts.Client(), route.method, ts.URL+route.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, status, "%s %s", route.method, route.path)
	}
}

func TestClassLifecycle(t *testing.T) {
	ts := newTestServer(t)
	token := register(t, ts, "teacher@example.com")

	// The taxonomy is public and pre-seeded
	status, fields := doJSON(t, ts.Client(), http.MethodGet, ts.URL+"/v1/subjects", "", nil)
	require.Equal(t, http.StatusOK, status)

	var subjects []struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}
	require.NoError(t, json.Unmarshal(fields["subjects"], &subjects))
	require.Len(t, subjects, 10)

	status, fields = doJSON(t, ts.Client(), http.MethodPost, ts.URL+"/v1/classes", token, map[string]any{
		"subject_id": subjects[0].ID,
		"cost":       80,
		"summary":    "Evening lessons, online or in person.",
		"schedule": []map[string]any{
			{"week_day": 1, "from": "18:00", "to": "20:00"},
		},
	})
	require.Equal(t, http.StatusCreated, status, "body: %v", fields)

	// It shows up in the public listing, annotated with the teacher
	status, fields = doJSON(t, ts.Client(), http.MethodGet,
		fmt.Sprintf("%s/v1/classes?subject_id=%d&week_day=1", ts.URL, subjects[0].ID), token, nil)
	require.Equal(t, http.StatusOK, status)

	var classes []struct {
		Subject     string `json:"subject"`
		TeacherName string `json:"teacherName"`
	}
	require.NoError(t, json.Unmarshal(fields["classes"], &classes))
	require.Len(t, classes, 1)
	assert.Equal(t, subjects[0].Name, classes[0].Subject)
	assert.Equal(t, "Bruno", classes[0].TeacherName)

	// Filtering by a day with no slots finds nothing
	status, fields = doJSON(t, ts.Client(), http.MethodGet, ts.URL+"/v1/classes?week_day=3", token, nil)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(fields["classes"], &classes))
	assert.Empty(t, classes)
}

func TestCreateClass_BadSchedule(t *testing.T) {
	ts := newTestServer(t)
	token := register(t, ts, "teacher@example.com")

	status, fields := doJSON(t, ts.Client(), http.MethodPost, ts.URL+"/v1/classes", token, map[string]any{
		"subject_id": 1,
		"cost":       80,
		"summary":    "Lessons.",
		"schedule": []map[string]any{
			{"week_day": 1, "from": "20:00", "to": "18:00"},
		},
	})
	assert.Equal(t, http.StatusBadRequest, status)

	var kind string
	require.NoError(t, json.Unmarshal(fields["error"], &kind))
	assert.Equal(t, "validation_error", kind)
}

func TestConnections(t *testing.T) {
	ts := newTestServer(t)
	token := register(t, ts, "student@example.com")

	// Recording requires auth
	status, _ := doJSON(t, ts.Client(), http.MethodPost, ts.URL+"/v1/connections", token, map[string]any{})
	require.Equal(t, http.StatusCreated, status)

	// The total is public
	status, fields := doJSON(t, ts.Client(), http.MethodGet, ts.URL+"/v1/connections", "", nil)
	require.Equal(t, http.StatusOK, status)

	var total int
	require.NoError(t, json.Unmarshal(fields["total"], &total))
	assert.Equal(t, 1, total)
}

func TestUpdateProfile(t *testing.T) {
	ts := newTestServer(t)
	token := register(t, ts, "bruno@example.com")

	status, fields := doJSON(t, ts.Client(), http.MethodPut, ts.URL+"/v1/profile", token, map[string]any{
		"bio":      "Ten years teaching physics.",
		"whatsapp": "+5511999999999",
	})
	require.Equal(t, http.StatusOK, status)

	var user struct {
		Name     string `json:"name"`
		Bio      string `json:"bio"`
		Whatsapp string `json:"whatsapp"`
	}
	require.NoError(t, json.Unmarshal(fields["user"], &user))
	assert.Equal(t, "Bruno", user.Name, "untouched fields survive a partial update")
	assert.Equal(t, "Ten years teaching physics.", user.Bio)
	assert.Equal(t, "+5511999999999", user.Whatsapp)
}

func TestPasswordResetFlow(t *testing.T) {
	ts := newTestServer(t)
	register(t, ts, "bruno@example.com")

	// Without SMTP the server logs the token; drive the flow through
	// the endpoints anyway and assert at the HTTP level.
	status, _ := doJSON(t, ts.Client(), http.MethodPost, ts.URL+"/v1/forgot_password", "", map[string]any{
		"email": "bruno@example.com",
	})
	require.Equal(t, http.StatusNoContent, status)

	// A made-up token must not pass
	status, fields := doJSON(t, ts.Client(), http.MethodPost, ts.URL+"/v1/reset_password", "", map[string]any{
		"email":    "bruno@example.com",
		"token":    "deadbeef",
		"password": "newpass123",
	})
	assert.Equal(t, http.StatusUnauthorized, status)

	var kind string
	require.NoError(t, json.Unmarshal(fields["error"], &kind))
	assert.Equal(t, "invalid_credential", kind)

	// Unknown account answers 404
	status, _ = doJSON(t, ts.Client(), http.MethodPost, ts.URL+"/v1/forgot_password", "", map[string]any{
		"email": "ghost@example.com",
	})
	assert.Equal(t, http.StatusNotFound, status)
}

func TestGetUser(t *testing.T) {
	ts := newTestServer(t)
	token := register(t, ts, "bruno@example.com")

	status, fields := doJSON(t, ts.Client(), http.MethodGet, ts.URL+"/v1/users/1", token, nil)
	require.Equal(t, http.StatusOK, status)

	var user struct {
		Email string `json:"email"`
	}
	require.NoError(t, json.Unmarshal(fields["user"], &user))
	assert.Equal(t, "bruno@example.com", user.Email)

	status, _ = doJSON(t, ts.Client(), http.MethodGet, ts.URL+"/v1/users/999", token, nil)
	assert.Equal(t, http.StatusNotFound, status)
}
