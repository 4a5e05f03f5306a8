package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/vunguyen00/Netflix/internal/models"
	"github.com/vunguyen00/Netflix/pkg/clock"
)

// OrderStore manages orders and their history
type OrderStore struct {
	db    *gorm.DB
	clock clock.Clock
}

// Get returns an order with its history in insertion order
func (s *OrderStore) Get(ctx context.Context, id string) (*models.Order, error) {
	var o models.Order
	err := s.db.WithContext(ctx).
		Preload("History", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		Where("id = ?", id).
		Take(&o).Error
	if err != nil {
		return nil, notFound(err, "order "+id)
	}
	return &o, nil
}

// ListByCustomer returns a customer's orders, newest first
func (s *OrderStore) ListByCustomer(ctx context.Context, customerID string) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

// Create inserts an order together with any history it carries
func (s *OrderStore) Create(ctx context.Context, o *models.Order) error {
	return s.db.WithContext(ctx).Create(o).Error
}

// ReplaceCredential points the order at cred, removes cred from the pool and
// records message in its history. The writes commit together or not at all;
// cred must still be reserved, otherwise ErrNotAvailable is returned.
func (s *OrderStore) ReplaceCredential(ctx context.Context, orderID string, cred *models.Credential, message string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.Order{}).Where("id = ?", orderID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("%w: order %s", ErrNotFound, orderID)
		}

		res := tx.Where("id = ? AND status = ? AND assigned_at IS NULL", cred.ID, models.CredentialInUse).
			Delete(&models.Credential{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: %s", ErrNotAvailable, cred.Username)
		}

		err := tx.Model(&models.Order{}).
			Where("id = ?", orderID).
			Updates(map[string]interface{}{
				"account_email":    cred.Username,
				"account_password": cred.Password,
				"account_cookies":  cred.Cookies,
			}).Error
		if err != nil {
			return err
		}
		return appendHistory(tx, orderID, message)
	})
}

// UpdateExpiration moves the order's expiry to expiresAt and logs the change.
// Paid and expired orders take the status matching the new expiry.
func (s *OrderStore) UpdateExpiration(ctx context.Context, orderID string, expiresAt time.Time) (*models.Order, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var o models.Order
		if err := tx.Where("id = ?", orderID).Take(&o).Error; err != nil {
			return notFound(err, "order "+orderID)
		}

		updates := map[string]interface{}{"expires_at": expiresAt}
		if o.Status == models.OrderPaid || o.Status == models.OrderExpired {
			status := models.OrderExpired
			if s.clock.Now().Before(expiresAt) {
				status = models.OrderPaid
			}
			updates["status"] = status
		}

		if err := tx.Model(&models.Order{}).Where("id = ?", orderID).Updates(updates).Error; err != nil {
			return err
		}
		return appendHistory(tx, orderID, fmt.Sprintf("Expiration changed from %s to %s",
			o.ExpiresAt.Format(time.DateOnly), expiresAt.Format(time.DateOnly)))
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, orderID)
}

func appendHistory(tx *gorm.DB, orderID, message string) error {
	return tx.Create(&models.OrderHistory{OrderID: orderID, Message: message}).Error
}

// ExpireOverdue marks paid orders past their expiry as expired
func (s *OrderStore) ExpireOverdue(ctx context.Context, now time.Time) (int64, error) {
	res := s.db.WithContext(ctx).Model(&models.Order{}).
		Where("status = ? AND expires_at < ?", models.OrderPaid, now).
		Update("status", models.OrderExpired)
	return res.RowsAffected, res.Error
}
