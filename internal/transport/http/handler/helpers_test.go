package handler

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"taskdeck/internal/app"
	"taskdeck/internal/model"
	"taskdeck/internal/pkg/passhash"
	"taskdeck/internal/repository"
	"taskdeck/internal/transport/http/middleware"
)

const testSecret = "handler-test-secret"

type memUserStore struct {
	mu     sync.Mutex
	nextID uint
	byName map[string]*model.User
	byID   map[uint]*model.User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{
		byName: make(map[string]*model.User),
		byID:   make(map[uint]*model.User),
	}
}

func (s *memUserStore) Create(user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byName[user.Username]; exists {
		return repository.ErrDuplicateUsername
	}
	s.nextID++
	user.ID = s.nextID
	stored := *user
	s.byName[user.Username] = &stored
	s.byID[user.ID] = &stored
	return nil
}

func (s *memUserStore) GetByUsername(username string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.byName[username]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, nil
}

func (s *memUserStore) GetByID(id uint) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.byID[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, nil
}

type memTaskStore struct {
	mu     sync.Mutex
	nextID uint
	tasks  map[uint]*model.Task
}

func newMemTaskStore() *memTaskStore {
	return &memTaskStore{tasks: make(map[uint]*model.Task)}
}

func (s *memTaskStore) Create(task *model.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	task.ID = s.nextID
	stored := *task
	s.tasks[task.ID] = &stored
	return nil
}

func (s *memTaskStore) ListByUserID(userID uint) ([]model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Task
	for id := uint(1); id <= s.nextID; id++ {
		if t, ok := s.tasks[id]; ok && t.UserID == userID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (s *memTaskStore) ListByDueRange(userID uint, from, to model.Date) ([]model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Task
	for id := uint(1); id <= s.nextID; id++ {
		t, ok := s.tasks[id]
		if !ok || t.UserID != userID || t.DueDate == nil {
			continue
		}
		due := t.DueDate.Time
		if !due.Before(from.Time) && !due.After(to.Time) {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (s *memTaskStore) GetByIDAndUserID(taskID, userID uint) (*model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.tasks[taskID]; ok && t.UserID == userID {
		copied := *t
		return &copied, nil
	}
	return nil, nil
}

func (s *memTaskStore) Update(task *model.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *task
	s.tasks[task.ID] = &stored
	return nil
}

func (s *memTaskStore) DeleteByIDAndUserID(taskID, userID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.tasks[taskID]; ok && t.UserID == userID {
		delete(s.tasks, taskID)
	}
	return nil
}

// newTestRouter wires real services over in-memory stores with the same
// route layout as the production router.
func newTestRouter(jwtTTL time.Duration) *gin.Engine {
	gin.SetMode(gin.TestMode)

	hasher := passhash.New(passhash.Params{Time: 1, MemoryKiB: 1024, Threads: 1, KeyLen: 32})
	authService := app.NewAuthService(newMemUserStore(), hasher, nil, testSecret, jwtTTL)
	taskService := app.NewTaskService(newMemTaskStore(), nil)

	authHandler := NewAuthHandler(authService)
	taskHandler := NewTaskHandler(taskService)

	router := gin.New()
	v1 := router.Group("/api/v1")

	authGroup := v1.Group("/auth")
	authGroup.POST("/signup", authHandler.Signup)
	authGroup.POST("/login", authHandler.Login)

	taskGroup := v1.Group("/tasks")
	taskGroup.Use(middleware.AuthJWT(testSecret))
	taskGroup.GET("", taskHandler.List)
	taskGroup.GET("/due", taskHandler.FindByDue)
	taskGroup.GET("/today", taskHandler.FindDueFromToday)
	taskGroup.GET("/:id", taskHandler.Get)
	taskGroup.POST("", taskHandler.Create)
	taskGroup.PUT("/:id", taskHandler.Update)
	taskGroup.DELETE("/:id", taskHandler.Delete)

	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func doForm(t *testing.T, router *gin.Engine, path, form string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}
