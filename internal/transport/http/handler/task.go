package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"taskdeck/internal/app"
	"taskdeck/internal/model"
	"taskdeck/internal/transport/http/middleware"
	"taskdeck/internal/transport/http/response"
)

type TaskHandler struct {
	taskService *app.TaskService
}

type CreateTaskRequest struct {
	Title     string `json:"title" binding:"required,min=2,max=100"`
	Content   string `json:"content" binding:"required,min=2,max=100"`
	DueDate   string `json:"due_date" binding:"required"`
	Completed bool   `json:"completed"`
}

type UpdateTaskRequest struct {
	Title     *string `json:"title" binding:"omitempty,min=2,max=100"`
	Content   *string `json:"content" binding:"omitempty,min=2,max=100"`
	DueDate   *string `json:"due_date"`
	Completed *bool   `json:"completed"`
}

func NewTaskHandler(taskService *app.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

func (h *TaskHandler) List(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "user not found in token")
		return
	}

	tasks, err := h.taskService.List(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "list tasks failed")
		return
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	c.JSON(http.StatusOK, tasks)
}

// FindByDue handles ?due_date=YYYY-MM-DD with an optional ?end=N meaning
// "up to N days past due_date".
func (h *TaskHandler) FindByDue(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "user not found in token")
		return
	}

	dueDate := c.Query("due_date")
	if dueDate == "" {
		response.Error(c, http.StatusBadRequest, "due_date is required")
		return
	}
	endDays, err := optionalIntQuery(c, "end")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "end must be an integer")
		return
	}

	tasks, err := h.taskService.FindByDue(userID, dueDate, endDays)
	if err != nil {
		h.writeFindError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (h *TaskHandler) FindDueFromToday(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "user not found in token")
		return
	}

	endDays, err := optionalIntQuery(c, "end")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "end must be an integer")
		return
	}

	tasks, err := h.taskService.FindDueFromToday(userID, endDays)
	if err != nil {
		h.writeFindError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (h *TaskHandler) Get(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "user not found in token")
		return
	}
	taskID, err := pathID(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid task id")
		return
	}

	task, err := h.taskService.Get(userID, taskID)
	if err != nil {
		if errors.Is(err, app.ErrTaskNotFound) {
			response.Error(c, http.StatusNotFound, app.ErrTaskNotFound.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, "get task failed")
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *TaskHandler) Create(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "user not found in token")
		return
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request payload")
		return
	}
	due, err := model.ParseDate(req.DueDate)
	if err != nil {
		response.Error(c, http.StatusBadRequest, app.ErrInvalidDate.Error())
		return
	}

	task, err := h.taskService.Create(c.Request.Context(), app.CreateTaskInput{
		UserID:    userID,
		Title:     req.Title,
		Content:   req.Content,
		DueDate:   &due,
		Completed: req.Completed,
	})
	if err != nil {
		if errors.Is(err, app.ErrInvalidInput) {
			response.Error(c, http.StatusBadRequest, err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, "create task failed")
		return
	}
	c.JSON(http.StatusCreated, task)
}

// Update applies a partial update: absent fields keep their stored values.
func (h *TaskHandler) Update(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "user not found in token")
		return
	}
	taskID, err := pathID(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid task id")
		return
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	input := app.UpdateTaskInput{
		Title:     req.Title,
		Content:   req.Content,
		Completed: req.Completed,
	}
	if req.DueDate != nil {
		due, err := model.ParseDate(*req.DueDate)
		if err != nil {
			response.Error(c, http.StatusBadRequest, app.ErrInvalidDate.Error())
			return
		}
		input.DueDate = &due
	}

	task, err := h.taskService.Update(c.Request.Context(), userID, taskID, input)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrTaskNotFound):
			response.Error(c, http.StatusNotFound, app.ErrTaskNotFound.Error())
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, "update task failed")
		}
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *TaskHandler) Delete(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "user not found in token")
		return
	}
	taskID, err := pathID(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid task id")
		return
	}

	task, err := h.taskService.Delete(c.Request.Context(), userID, taskID)
	if err != nil {
		if errors.Is(err, app.ErrTaskNotFound) {
			response.Error(c, http.StatusNotFound, app.ErrTaskNotFound.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, "delete task failed")
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *TaskHandler) writeFindError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, app.ErrInvalidDate):
		response.Error(c, http.StatusBadRequest, app.ErrInvalidDate.Error())
	case errors.Is(err, app.ErrTaskNotFound):
		response.Error(c, http.StatusNotFound, app.ErrTaskNotFound.Error())
	default:
		response.Error(c, http.StatusInternalServerError, "find tasks failed")
	}
}

func pathID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(id), nil
}

func optionalIntQuery(c *gin.Context, key string) (*int, error) {
	raw, ok := c.GetQuery(key)
	if !ok || raw == "" {
		return nil, nil
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
