package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/vunguyen00/Netflix/internal/models"
)

// CustomerStore manages customers and their balances
type CustomerStore struct {
	db *gorm.DB
}

// Get returns a customer by ID
func (s *CustomerStore) Get(ctx context.Context, id string) (*models.Customer, error) {
	var c models.Customer
	if err := s.db.WithContext(ctx).Where("id = ?", id).Take(&c).Error; err != nil {
		return nil, notFound(err, "customer "+id)
	}
	return &c, nil
}

// Create inserts a customer
func (s *CustomerStore) Create(ctx context.Context, c *models.Customer) error {
	return s.db.WithContext(ctx).Create(c).Error
}

// debit subtracts amount only when the balance covers it
func debit(tx *gorm.DB, customerID string, amount int64) error {
	res := tx.Model(&models.Customer{}).
		Where("id = ? AND balance >= ?", customerID, amount).
		Update("balance", gorm.Expr("balance - ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 1 {
		return nil
	}

	var n int64
	if err := tx.Model(&models.Customer{}).Where("id = ?", customerID).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return notFound(gorm.ErrRecordNotFound, "customer "+customerID)
	}
	return ErrInsufficientBalance
}
