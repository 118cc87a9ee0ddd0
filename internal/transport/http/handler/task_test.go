package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskdeck/internal/model"
)

func signupAndLogin(t *testing.T, router *gin.Engine, username string) string {
	t.Helper()
	body := fmt.Sprintf(`{"username":%q,"password":"test1234"}`, username)
	rec := doJSON(t, router, http.MethodPost, "/api/v1/auth/signup", body, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doForm(t, router, "/api/v1/auth/login", loginForm(username, "test1234"))
	require.Equal(t, http.StatusOK, rec.Code)

	var token struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &token))
	return token.AccessToken
}

func createTask(t *testing.T, router *gin.Engine, token, title, dueDate string) model.Task {
	t.Helper()
	body := fmt.Sprintf(`{"title":%q,"content":"some content","due_date":%q,"completed":false}`, title, dueDate)
	rec := doJSON(t, router, http.MethodPost, "/api/v1/tasks", body, token)
	require.Equal(t, http.StatusCreated, rec.Code)

	var task model.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &task))
	return task
}

func TestTaskCRUDOverHTTP(t *testing.T) {
	router := newTestRouter(20 * time.Minute)
	token := signupAndLogin(t, router, "user1")

	created := createTask(t, router, token, "buy groceries", "2025-10-26")
	assert.Equal(t, uint(1), created.ID)
	assert.Equal(t, "buy groceries", created.Title)
	assert.Equal(t, "2025-10-26", created.DueDate.String())

	rec := doJSON(t, router, http.MethodGet, "/api/v1/tasks/1", "", token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"due_date":"2025-10-26"`)

	rec = doJSON(t, router, http.MethodPut, "/api/v1/tasks/1", `{"completed":true}`, token)
	require.Equal(t, http.StatusOK, rec.Code)
	var updated model.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.True(t, updated.Completed)
	assert.Equal(t, "buy groceries", updated.Title)

	rec = doJSON(t, router, http.MethodDelete, "/api/v1/tasks/1", "", token)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/tasks/1", "", token)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTaskListScopedToUser(t *testing.T) {
	router := newTestRouter(20 * time.Minute)
	token1 := signupAndLogin(t, router, "user1")
	token2 := signupAndLogin(t, router, "user2")

	createTask(t, router, token1, "mine", "2025-10-26")

	rec := doJSON(t, router, http.MethodGet, "/api/v1/tasks", "", token1)
	require.Equal(t, http.StatusOK, rec.Code)
	var tasks []model.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tasks))
	assert.Len(t, tasks, 1)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/tasks", "", token2)
	require.Equal(t, http.StatusOK, rec.Code)
	tasks = nil
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tasks))
	assert.Empty(t, tasks)

	// Another user's task id: 404, not someone else's data.
	rec = doJSON(t, router, http.MethodGet, "/api/v1/tasks/1", "", token2)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTaskFindByDueOverHTTP(t *testing.T) {
	router := newTestRouter(20 * time.Minute)
	token := signupAndLogin(t, router, "user1")

	createTask(t, router, token, "due 26th", "2025-10-26")
	createTask(t, router, token, "due 30th", "2025-10-30")

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantCount  int
	}{
		{name: "exact", path: "/api/v1/tasks/due?due_date=2025-10-30", wantStatus: http.StatusOK, wantCount: 1},
		{name: "range", path: "/api/v1/tasks/due?due_date=2025-10-26&end=7", wantStatus: http.StatusOK, wantCount: 2},
		{name: "nothing due", path: "/api/v1/tasks/due?due_date=2025-12-01", wantStatus: http.StatusNotFound},
		{name: "bad date", path: "/api/v1/tasks/due?due_date=not-a-date", wantStatus: http.StatusBadRequest},
		{name: "bad end", path: "/api/v1/tasks/due?due_date=2025-10-26&end=soon", wantStatus: http.StatusBadRequest},
		{name: "missing due_date", path: "/api/v1/tasks/due", wantStatus: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, router, http.MethodGet, tt.path, "", token)
			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				var tasks []model.Task
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tasks))
				assert.Len(t, tasks, tt.wantCount)
			}
		})
	}
}

func TestTaskFindDueTodayOverHTTP(t *testing.T) {
	router := newTestRouter(20 * time.Minute)
	token := signupAndLogin(t, router, "user1")

	createTask(t, router, token, "due today", model.Today().String())

	rec := doJSON(t, router, http.MethodGet, "/api/v1/tasks/today", "", token)
	require.Equal(t, http.StatusOK, rec.Code)
	var tasks []model.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tasks))
	assert.Len(t, tasks, 1)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/tasks/today?end=7", "", token)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestTaskCreateValidationOverHTTP(t *testing.T) {
	router := newTestRouter(20 * time.Minute)
	token := signupAndLogin(t, router, "user1")

	tests := []struct {
		name string
		body string
	}{
		{name: "short title", body: `{"title":"x","content":"some content","due_date":"2025-10-26"}`},
		{name: "missing due_date", body: `{"title":"fine title","content":"some content"}`},
		{name: "malformed due_date", body: `{"title":"fine title","content":"some content","due_date":"26/10/2025"}`},
		{name: "not json", body: `title=shopping`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, router, http.MethodPost, "/api/v1/tasks", tt.body, token)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestTaskMutationsRequireAuth(t *testing.T) {
	router := newTestRouter(20 * time.Minute)

	paths := []struct {
		method string
		path   string
	}{
		{method: http.MethodGet, path: "/api/v1/tasks"},
		{method: http.MethodPost, path: "/api/v1/tasks"},
		{method: http.MethodGet, path: "/api/v1/tasks/1"},
		{method: http.MethodPut, path: "/api/v1/tasks/1"},
		{method: http.MethodDelete, path: "/api/v1/tasks/1"},
		{method: http.MethodGet, path: "/api/v1/tasks/due?due_date=2025-10-26"},
		{method: http.MethodGet, path: "/api/v1/tasks/today"},
	}
	for _, p := range paths {
		t.Run(p.method+" "+p.path, func(t *testing.T) {
			rec := doJSON(t, router, p.method, p.path, "", "")
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}
