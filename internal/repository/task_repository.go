package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"taskdeck/internal/model"
)

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(task *model.Task) error {
	if err := r.db.Create(task).Error; err != nil {
		return fmt.Errorf("create task failed: %w", err)
	}
	return nil
}

func (r *TaskRepository) ListByUserID(userID uint) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.Where("user_id = ?", userID).Order("id ASC").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list tasks failed: %w", err)
	}
	return tasks, nil
}

// ListByDueRange returns the user's tasks due between from and to inclusive,
// ordered by due date. With from == to it is an exact-day match.
func (r *TaskRepository) ListByDueRange(userID uint, from, to model.Date) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.
		Where("user_id = ? AND due_date BETWEEN ? AND ?", userID, from, to).
		Order("due_date ASC").
		Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("list tasks by due date failed: %w", err)
	}
	return tasks, nil
}

func (r *TaskRepository) GetByIDAndUserID(taskID, userID uint) (*model.Task, error) {
	var task model.Task
	if err := r.db.Where("id = ? AND user_id = ?", taskID, userID).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get task failed: %w", err)
	}
	return &task, nil
}

func (r *TaskRepository) Update(task *model.Task) error {
	if err := r.db.Save(task).Error; err != nil {
		return fmt.Errorf("update task failed: %w", err)
	}
	return nil
}

func (r *TaskRepository) DeleteByIDAndUserID(taskID, userID uint) error {
	if err := r.db.Where("id = ? AND user_id = ?", taskID, userID).Delete(&model.Task{}).Error; err != nil {
		return fmt.Errorf("delete task failed: %w", err)
	}
	return nil
}
