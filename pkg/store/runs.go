package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/vunguyen00/Netflix/internal/models"
)

// RunStore records warranty run audits
type RunStore struct {
	db *gorm.DB
}

// Save inserts or updates a run
func (s *RunStore) Save(ctx context.Context, run *models.WarrantyRun) error {
	return s.db.WithContext(ctx).Save(run).Error
}

// RunFilter narrows List
type RunFilter struct {
	OrderID string
	Outcome string
	Limit   int
}

// List returns runs newest first
func (s *RunStore) List(ctx context.Context, f RunFilter) ([]models.WarrantyRun, error) {
	q := s.db.WithContext(ctx).Order("started_at DESC")
	if f.OrderID != "" {
		q = q.Where("order_id = ?", f.OrderID)
	}
	if f.Outcome != "" {
		q = q.Where("outcome = ?", f.Outcome)
	}
	limit := f.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	var runs []models.WarrantyRun
	if err := q.Limit(limit).Find(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}
