package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"github.com/taskdeck-dev/taskdeck/db"
	"github.com/taskdeck-dev/taskdeck/internal/auth"
	"github.com/taskdeck-dev/taskdeck/internal/router"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// setupRouter points the global DB at a fresh in-memory store and returns
// the full API router, so tests exercise the same middleware chain as
// production.
func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	// In-memory sqlite is per-connection; keep the pool at one.
	sqlDB.SetMaxOpenConns(1)

	db.DB = gdb
	require.NoError(t, db.MigrateDatabase())

	require.NoError(t, auth.InitJWTSecret("handlers-test-secret"))

	return router.NewRouter()
}

// doJSON performs a request against the router. A nil cookie means an
// unauthenticated request.
func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader

	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	if cookie != nil {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}

func tokenCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()

	for _, c := range w.Result().Cookies() {
		if c.Name == auth.CookieName {
			return c
		}
	}

	t.Fatalf("no %q cookie in response", auth.CookieName)
	return nil
}

type userEnvelope struct {
	User struct {
		ID    uint   `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

// registerUser creates an account through the API and returns its ID with
// the session cookie from the registration response.
func registerUser(t *testing.T, r *gin.Engine, email, password string) (uint, *http.Cookie) {
	t.Helper()

	w := doJSON(t, r, http.MethodPost, "/api/auth/register", gin.H{
		"email":    email,
		"password": password,
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code, "register %s: %s", email, w.Body.String())

	var body userEnvelope
	decodeBody(t, w, &body)

	return body.User.ID, tokenCookie(t, w)
}

type projectBody struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	OwnerID   uint   `json:"owner_id"`
	CreatedAt string `json:"created_at"`
}

func createProject(t *testing.T, r *gin.Engine, cookie *http.Cookie, name string) projectBody {
	t.Helper()

	w := doJSON(t, r, http.MethodPost, "/api/projects", gin.H{"name": name}, cookie)
	require.Equal(t, http.StatusCreated, w.Code, "create project %q: %s", name, w.Body.String())

	var body projectBody
	decodeBody(t, w, &body)
	return body
}

func projectPath(id uint) string {
	return fmt.Sprintf("/api/projects/%d", id)
}

func membersPath(id uint) string {
	return fmt.Sprintf("/api/projects/%d/members", id)
}

func tasksPath(id uint) string {
	return fmt.Sprintf("/api/projects/%d/tasks", id)
}

func taskPath(projectID, taskID uint) string {
	return fmt.Sprintf("/api/projects/%d/tasks/%d", projectID, taskID)
}

func exportPath(id uint) string {
	return fmt.Sprintf("/api/projects/%d/export", id)
}

type taskBody struct {
	ID          uint   `json:"id"`
	ProjectID   uint   `json:"project_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	AssigneeID  *uint  `json:"assignee_id"`
	Assignee    *struct {
		ID    uint   `json:"id"`
		Email string `json:"email"`
	} `json:"assignee"`
}
