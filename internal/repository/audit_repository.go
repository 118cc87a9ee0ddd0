package repository

import (
	"fmt"

	"gorm.io/gorm"

	"taskdeck/internal/model"
)

type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Create(event *model.AuthEvent) error {
	if err := r.db.Create(event).Error; err != nil {
		return fmt.Errorf("create auth event failed: %w", err)
	}
	return nil
}

func (r *AuditRepository) ListByUserID(userID uint, limit int) ([]model.AuthEvent, error) {
	if limit <= 0 {
		limit = 100
	}
	var events []model.AuthEvent
	if err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Limit(limit).Find(&events).Error; err != nil {
		return nil, fmt.Errorf("list auth events failed: %w", err)
	}
	return events, nil
}
