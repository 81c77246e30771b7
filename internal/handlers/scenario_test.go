package handlers_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Two collaborators share a board end to end: A owns "Sprint" and invites
// B; B files a task; A moves it to done; both can export the result.
func TestScenario_SharedBoard(t *testing.T) {
	r := setupRouter(t)

	aID, aCookie := registerUser(t, r, "a@x.com", "pw1")
	bID, bCookie := registerUser(t, r, "b@x.com", "pw2")

	project := createProject(t, r, aCookie, "Sprint")

	w := doJSON(t, r, http.MethodPost, membersPath(project.ID), gin.H{"email": "b@x.com"}, aCookie)
	require.Equal(t, http.StatusCreated, w.Code)

	list := doJSON(t, r, http.MethodGet, membersPath(project.ID), nil, bCookie)
	require.Equal(t, http.StatusOK, list.Code)

	var members []struct {
		ID uint `json:"id"`
	}
	decodeBody(t, list, &members)
	require.Len(t, members, 2)
	assert.Equal(t, aID, members[0].ID)
	assert.Equal(t, bID, members[1].ID)

	// B, a non-owner, creates the task.
	w = doJSON(t, r, http.MethodPost, tasksPath(project.ID), gin.H{
		"title": "Fix bug", "status": "todo",
	}, bCookie)
	require.Equal(t, http.StatusCreated, w.Code)

	var task taskBody
	decodeBody(t, w, &task)

	// A moves it to done.
	w = doJSON(t, r, http.MethodPatch, taskPath(project.ID, task.ID), gin.H{
		"status": "done",
	}, aCookie)
	require.Equal(t, http.StatusOK, w.Code)

	// Both members see the same snapshot.
	for name, cookie := range map[string]*http.Cookie{"owner": aCookie, "member": bCookie} {
		res := doJSON(t, r, http.MethodGet, exportPath(project.ID), nil, cookie)
		require.Equal(t, http.StatusOK, res.Code, "export as %s", name)

		var snapshot exportBody
		decodeBody(t, res, &snapshot)

		require.Len(t, snapshot.Tasks, 1, "export as %s", name)
		assert.Equal(t, "done", snapshot.Tasks[0].Status)
		assert.Len(t, snapshot.Memberships, 2)
	}
}

// A registered user who was never invited is locked out of every
// project-scoped endpoint, and never learns whether the resources exist.
func TestScenario_OutsiderIsForbiddenEverywhere(t *testing.T) {
	r := setupRouter(t)

	_, aCookie := registerUser(t, r, "a@x.com", "pw1")
	_, cCookie := registerUser(t, r, "c@x.com", "pw3")

	project := createProject(t, r, aCookie, "Sprint")

	w := doJSON(t, r, http.MethodPost, tasksPath(project.ID), gin.H{
		"title": "Fix bug", "status": "todo",
	}, aCookie)
	require.Equal(t, http.StatusCreated, w.Code)

	var task taskBody
	decodeBody(t, w, &task)

	attempts := []struct {
		method string
		path   string
		body   interface{}
	}{
		{http.MethodGet, projectPath(project.ID), nil},
		{http.MethodGet, membersPath(project.ID), nil},
		{http.MethodGet, tasksPath(project.ID), nil},
		{http.MethodPost, tasksPath(project.ID), gin.H{"title": "X", "status": "todo"}},
		{http.MethodPatch, taskPath(project.ID, task.ID), gin.H{"status": "done"}},
		{http.MethodDelete, taskPath(project.ID, task.ID), nil},
		{http.MethodGet, exportPath(project.ID), nil},
	}

	for _, a := range attempts {
		res := doJSON(t, r, a.method, a.path, a.body, cCookie)
		assert.Equal(t, http.StatusForbidden, res.Code, "%s %s", a.method, a.path)
	}

	// Tasks survived the outsider's attempts.
	tasks := doJSON(t, r, http.MethodGet, tasksPath(project.ID), nil, aCookie)
	require.Equal(t, http.StatusOK, tasks.Code)

	var remaining []taskBody
	decodeBody(t, tasks, &remaining)
	assert.Len(t, remaining, 1)
}
