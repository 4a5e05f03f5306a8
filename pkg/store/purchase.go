package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/vunguyen00/Netflix/internal/models"
)

// Purchase charges the customer for plan and hands them the oldest available
// credential. Balance, pool and order change in one transaction.
func (s *Store) Purchase(ctx context.Context, customerID string, plan models.Plan) (*models.Order, error) {
	var order *models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var customer models.Customer
		if err := tx.Where("id = ?", customerID).Take(&customer).Error; err != nil {
			return notFound(err, "customer "+customerID)
		}
		if err := debit(tx, customerID, plan.Price); err != nil {
			return err
		}

		now := s.clock.Now()
		cred, err := claimNext(tx, now)
		if err != nil {
			return err
		}

		expires := now.AddDate(0, 0, plan.Days)
		if err := markInUse(tx, cred.ID, customer.Phone, now, &expires); err != nil {
			return err
		}

		order = newOrder(customerID, plan, cred, now, expires, fmt.Sprintf("Purchased %s", plan.Name()))
		return tx.Create(order).Error
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// Sell assigns the named pool credential to a customer for plan without
// touching their balance, for sales settled outside the service.
func (s *Store) Sell(ctx context.Context, credentialID, customerID string, plan models.Plan) (*models.Order, error) {
	var order *models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var customer models.Customer
		if err := tx.Where("id = ?", customerID).Take(&customer).Error; err != nil {
			return notFound(err, "customer "+customerID)
		}
		var cred models.Credential
		if err := tx.Where("id = ?", credentialID).Take(&cred).Error; err != nil {
			return notFound(err, "credential "+credentialID)
		}

		now := s.clock.Now()
		ok, err := claim(tx, cred.ID, now)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: %s", ErrNotAvailable, cred.Username)
		}

		expires := now.AddDate(0, 0, plan.Days)
		if err := markInUse(tx, cred.ID, customer.Phone, now, &expires); err != nil {
			return err
		}

		order = newOrder(customerID, plan, &cred, now, expires, fmt.Sprintf("Sold %s by admin", plan.Name()))
		return tx.Create(order).Error
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func newOrder(customerID string, plan models.Plan, cred *models.Credential, now, expires time.Time, message string) *models.Order {
	return &models.Order{
		CustomerID:      customerID,
		Plan:            plan.Name(),
		Duration:        plan.Days,
		Amount:          plan.Price,
		AccountEmail:    cred.Username,
		AccountPassword: cred.Password,
		AccountCookies:  cred.Cookies,
		Status:          models.OrderPaid,
		PurchaseDate:    now,
		ExpiresAt:       expires,
		History:         []models.OrderHistory{{Message: message}},
	}
}

// Extend charges the customer for plan and pushes the order's expiry out by
// its length, counting from now if the order already lapsed.
func (s *Store) Extend(ctx context.Context, customerID, orderID string, plan models.Plan) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND customer_id = ?", orderID, customerID).Take(&order).Error; err != nil {
			return notFound(err, "order "+orderID)
		}
		if err := debit(tx, customerID, plan.Price); err != nil {
			return err
		}

		now := s.clock.Now()
		base := order.ExpiresAt
		if base.Before(now) {
			base = now
		}
		order.ExpiresAt = base.AddDate(0, 0, plan.Days)
		order.Duration += plan.Days
		order.Amount += plan.Price
		order.Status = models.OrderPaid

		err := tx.Model(&models.Order{}).Where("id = ?", order.ID).Updates(map[string]interface{}{
			"expires_at": order.ExpiresAt,
			"duration":   order.Duration,
			"amount":     order.Amount,
			"status":     order.Status,
		}).Error
		if err != nil {
			return err
		}
		return appendHistory(tx, order.ID, fmt.Sprintf("Extended by %d days (%d)", plan.Days, plan.Price))
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}
