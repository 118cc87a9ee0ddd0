package app

import (
	"context"
	"errors"
	"strings"

	"taskdeck/internal/model"
)

var (
	ErrTaskNotFound = errors.New("task not found")
	ErrInvalidDate  = errors.New("invalid date format, use YYYY-MM-DD")
)

// TaskStore is the slice of the task repository the service needs.
type TaskStore interface {
	Create(task *model.Task) error
	ListByUserID(userID uint) ([]model.Task, error)
	ListByDueRange(userID uint, from, to model.Date) ([]model.Task, error)
	GetByIDAndUserID(taskID, userID uint) (*model.Task, error)
	Update(task *model.Task) error
	DeleteByIDAndUserID(taskID, userID uint) error
}

// TaskCache holds a user's full task list. Mutations invalidate; reads fall
// through to the store on a miss.
type TaskCache interface {
	GetList(ctx context.Context, userID uint) ([]model.Task, bool, error)
	SetList(ctx context.Context, userID uint, tasks []model.Task) error
	DeleteList(ctx context.Context, userID uint) error
}

type TaskService struct {
	tasks TaskStore
	cache TaskCache
}

type CreateTaskInput struct {
	UserID    uint
	Title     string
	Content   string
	DueDate   *model.Date
	Completed bool
}

// UpdateTaskInput is a partial update: nil fields keep their stored value.
type UpdateTaskInput struct {
	Title     *string
	Content   *string
	DueDate   *model.Date
	Completed *bool
}

func NewTaskService(tasks TaskStore, cache TaskCache) *TaskService {
	return &TaskService{tasks: tasks, cache: cache}
}

func (s *TaskService) List(ctx context.Context, userID uint) ([]model.Task, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}

	if s.cache != nil {
		cached, hit, err := s.cache.GetList(ctx, userID)
		if err == nil && hit {
			return cached, nil
		}
	}

	tasks, err := s.tasks.ListByUserID(userID)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetList(ctx, userID, tasks)
	}
	return tasks, nil
}

// FindByDue returns the user's tasks due on dueDate, or, when endDays is
// set, due within [dueDate, dueDate+endDays] ordered by due date.
func (s *TaskService) FindByDue(userID uint, dueDate string, endDays *int) ([]model.Task, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}
	from, err := model.ParseDate(dueDate)
	if err != nil {
		return nil, ErrInvalidDate
	}
	return s.findInRange(userID, from, endDays)
}

// FindDueFromToday is FindByDue anchored at the current day.
func (s *TaskService) FindDueFromToday(userID uint, endDays *int) ([]model.Task, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}
	return s.findInRange(userID, model.Today(), endDays)
}

func (s *TaskService) findInRange(userID uint, from model.Date, endDays *int) ([]model.Task, error) {
	to := from
	if endDays != nil {
		to = from.AddDays(*endDays)
	}
	tasks, err := s.tasks.ListByDueRange(userID, from, to)
	if err != nil {
		return nil, err
	}
	if len(tasks) == 0 {
		return nil, ErrTaskNotFound
	}
	return tasks, nil
}

func (s *TaskService) Get(userID, taskID uint) (*model.Task, error) {
	if userID == 0 || taskID == 0 {
		return nil, ErrInvalidInput
	}
	task, err := s.tasks.GetByIDAndUserID(taskID, userID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, ErrTaskNotFound
	}
	return task, nil
}

func (s *TaskService) Create(ctx context.Context, input CreateTaskInput) (*model.Task, error) {
	if input.UserID == 0 {
		return nil, ErrInvalidInput
	}
	title := strings.TrimSpace(input.Title)
	content := strings.TrimSpace(input.Content)
	if len(title) < 2 || len(title) > 100 || len(content) < 2 || len(content) > 100 {
		return nil, ErrInvalidInput
	}

	task := &model.Task{
		UserID:    input.UserID,
		Title:     title,
		Content:   content,
		DueDate:   input.DueDate,
		Completed: input.Completed,
	}
	if err := s.tasks.Create(task); err != nil {
		return nil, err
	}
	s.invalidate(ctx, input.UserID)
	return task, nil
}

// Update merges the supplied fields into the stored task. Fields left nil in
// the input keep their current value.
func (s *TaskService) Update(ctx context.Context, userID, taskID uint, input UpdateTaskInput) (*model.Task, error) {
	task, err := s.Get(userID, taskID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if len(title) < 2 || len(title) > 100 {
			return nil, ErrInvalidInput
		}
		task.Title = title
	}
	if input.Content != nil {
		content := strings.TrimSpace(*input.Content)
		if len(content) < 2 || len(content) > 100 {
			return nil, ErrInvalidInput
		}
		task.Content = content
	}
	if input.DueDate != nil {
		task.DueDate = input.DueDate
	}
	if input.Completed != nil {
		task.Completed = *input.Completed
	}

	if err := s.tasks.Update(task); err != nil {
		return nil, err
	}
	s.invalidate(ctx, userID)
	return task, nil
}

// Delete removes the task and returns the record that was deleted.
func (s *TaskService) Delete(ctx context.Context, userID, taskID uint) (*model.Task, error) {
	task, err := s.Get(userID, taskID)
	if err != nil {
		return nil, err
	}
	if err := s.tasks.DeleteByIDAndUserID(taskID, userID); err != nil {
		return nil, err
	}
	s.invalidate(ctx, userID)
	return task, nil
}

func (s *TaskService) invalidate(ctx context.Context, userID uint) {
	if s.cache != nil {
		_ = s.cache.DeleteList(ctx, userID)
	}
}
