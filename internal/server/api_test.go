package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// apiClient wraps a test server with a cookie jar so the session cookie set
// at login rides along on later requests.
type apiClient struct {
	t    *testing.T
	srv  *httptest.Server
	http *http.Client
}

func newAPIClient(t *testing.T, handler http.Handler) *apiClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &apiClient{t: t, srv: srv, http: &http.Client{Jar: jar}}
}

func (c *apiClient) do(method, path string, body any) *http.Response {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, c.srv.URL+path, &buf)
	require.NoError(c.t, err)
	resp, err := c.http.Do(req)
	require.NoError(c.t, err)
	c.t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func setupAPI(t *testing.T) (*apiClient, sqlmock.Sqlmock) {
	t.Helper()
	t.Setenv("STICKPAD_JWT_SECRET", "test-secret")

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	hub := NewHub()
	go hub.Run()

	return newAPIClient(t, Setup(db, hub)), mock
}

func TestRegisterSetsSession(t *testing.T) {
	client, mock := setupAPI(t)

	mock.ExpectExec("INSERT INTO users").
		WillReturnResult(sqlmock.NewResult(0, 1))

	resp := client.do(http.MethodPost, "/api/auth/register", CredentialsRequest{Username: "ada", Password: "hunter2"})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var acc AccountResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&acc))
	assert.Equal(t, "ada", acc.Username)
	assert.NotEmpty(t, acc.ID)

	// The session cookie should now authenticate /api/auth/me.
	mock.ExpectQuery("SELECT id, username, password_hash, created_at FROM users WHERE id = \\$1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password_hash", "created_at"}).
			AddRow(acc.ID, "ada", "hash", time.Now()))

	resp = client.do(http.MethodGet, "/api/auth/me", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var status AuthStatusResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&status))
	assert.True(t, status.Authenticated)
	require.NotNil(t, status.User)
	assert.Equal(t, "ada", status.User.Username)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMeWithoutSessionAnswersOK(t *testing.T) {
	client, _ := setupAPI(t)

	resp := client.do(http.MethodGet, "/api/auth/me", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var status AuthStatusResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&status))
	assert.False(t, status.Authenticated)
	assert.Nil(t, status.User)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	client, mock := setupAPI(t)

	mock.ExpectExec("INSERT INTO users").
		WillReturnError(ErrUsernameTaken)

	resp := client.do(http.MethodPost, "/api/auth/register", CredentialsRequest{Username: "ada", Password: "pw"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestLoginRejectsBadPassword(t *testing.T) {
	client, mock := setupAPI(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("right"), bcrypt.MinCost)
	require.NoError(t, err)
	mock.ExpectQuery("SELECT id, username, password_hash, created_at FROM users WHERE username = \\$1").
		WithArgs("ada").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password_hash", "created_at"}).
			AddRow("u1", "ada", string(hash), time.Now()))

	resp := client.do(http.MethodPost, "/api/auth/login", CredentialsRequest{Username: "ada", Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestNotesRequireSession(t *testing.T) {
	client, _ := setupAPI(t)

	resp := client.do(http.MethodGet, "/api/notes", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func login(t *testing.T, client *apiClient, mock sqlmock.Sqlmock, userID string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.MinCost)
	require.NoError(t, err)
	mock.ExpectQuery("SELECT id, username, password_hash, created_at FROM users WHERE username = \\$1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password_hash", "created_at"}).
			AddRow(userID, "ada", string(hash), time.Now()))

	resp := client.do(http.MethodPost, "/api/auth/login", CredentialsRequest{Username: "ada", Password: "pw"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCreateNoteAssignsIdentity(t *testing.T) {
	client, mock := setupAPI(t)
	login(t, client, mock, "u1")

	mock.ExpectExec("INSERT INTO notes").
		WillReturnResult(sqlmock.NewResult(0, 1))

	resp := client.do(http.MethodPost, "/api/notes", map[string]any{
		"title":    "remote",
		"position": map[string]float64{"x": 10, "y": 20},
		"color":    "blue",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var n struct {
		ID   string `json:"id"`
		Size struct {
			Width float64 `json:"width"`
		} `json:"size"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&n))
	assert.NotEmpty(t, n.ID)
	assert.Equal(t, 220.0, n.Size.Width)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func noteRow(ownerID, noteID string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"owner_id", "id", "title", "content", "position_x", "position_y",
		"width", "height", "color", "z_index", "created_at", "updated_at",
	}).AddRow(ownerID, noteID, "t", "c", 10.0, 20.0, 220.0, 200.0, "yellow", 11, now, now)
}

func TestUpdateForeignNoteForbidden(t *testing.T) {
	client, mock := setupAPI(t)
	login(t, client, mock, "u1")

	mock.ExpectQuery("SELECT owner_id, .* FROM notes WHERE id = \\$1").
		WithArgs("n9").
		WillReturnRows(noteRow("someone-else", "n9"))

	resp := client.do(http.MethodPut, "/api/notes/n9", map[string]any{"title": "mine now"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestUpdateMissingNote(t *testing.T) {
	client, mock := setupAPI(t)
	login(t, client, mock, "u1")

	mock.ExpectQuery("SELECT owner_id, .* FROM notes WHERE id = \\$1").
		WithArgs("gone").
		WillReturnRows(sqlmock.NewRows([]string{"owner_id"}))

	resp := client.do(http.MethodPut, "/api/notes/gone", map[string]any{"title": "x"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUpdateMergesPatch(t *testing.T) {
	client, mock := setupAPI(t)
	login(t, client, mock, "u1")

	mock.ExpectQuery("SELECT owner_id, .* FROM notes WHERE id = \\$1").
		WithArgs("n1").
		WillReturnRows(noteRow("u1", "n1"))
	mock.ExpectExec("UPDATE notes SET").
		WillReturnResult(sqlmock.NewResult(0, 1))

	resp := client.do(http.MethodPut, "/api/notes/n1", map[string]any{
		"position": map[string]float64{"x": 99, "y": 88},
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var n struct {
		Title    string `json:"title"`
		Position struct {
			X float64 `json:"x"`
		} `json:"position"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&n))
	assert.Equal(t, "t", n.Title)
	assert.Equal(t, 99.0, n.Position.X)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteNote(t *testing.T) {
	client, mock := setupAPI(t)
	login(t, client, mock, "u1")

	mock.ExpectQuery("SELECT owner_id, .* FROM notes WHERE id = \\$1").
		WithArgs("n1").
		WillReturnRows(noteRow("u1", "n1"))
	mock.ExpectExec("DELETE FROM notes WHERE id = \\$1").
		WithArgs("n1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	resp := client.do(http.MethodDelete, "/api/notes/n1", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}
