package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vunguyen00/Netflix/internal/models"
	"github.com/vunguyen00/Netflix/pkg/clock"
)

// maxClaimAttempts bounds retries when another claimer wins the same row
const maxClaimAttempts = 5

// CredentialStore manages the credential pool
type CredentialStore struct {
	db    *gorm.DB
	clock clock.Clock
}

// Get returns a credential by ID
func (s *CredentialStore) Get(ctx context.Context, id string) (*models.Credential, error) {
	var c models.Credential
	if err := s.db.WithContext(ctx).Where("id = ?", id).Take(&c).Error; err != nil {
		return nil, notFound(err, "credential "+id)
	}
	return &c, nil
}

// ClaimNext atomically reserves the oldest available credential so that no
// other caller can be handed the same record. It returns ErrPoolEmpty when
// nothing is available.
func (s *CredentialStore) ClaimNext(ctx context.Context) (*models.Credential, error) {
	var claimed *models.Credential
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := claimNext(tx, s.clock.Now())
		claimed = c
		return err
	})
	if err != nil {
		return nil, err
	}
	return claimed, nil
}

func claimNext(tx *gorm.DB, now time.Time) (*models.Credential, error) {
	for attempt := 0; attempt < maxClaimAttempts; attempt++ {
		var c models.Credential
		err := tx.Where("status = ?", models.CredentialAvailable).
			Order("created_at ASC, id ASC").
			Take(&c).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPoolEmpty
		}
		if err != nil {
			return nil, err
		}

		ok, err := claim(tx, c.ID, now)
		if err != nil {
			return nil, err
		}
		if ok {
			c.Status = models.CredentialInUse
			c.ClaimedAt = &now
			return &c, nil
		}
	}
	return nil, ErrConflict
}

// claim moves an available credential to in_use; false means it was not available
func claim(tx *gorm.DB, id string, now time.Time) (bool, error) {
	res := tx.Model(&models.Credential{}).
		Where("id = ? AND status = ?", id, models.CredentialAvailable).
		Updates(map[string]interface{}{
			"status":     models.CredentialInUse,
			"claimed_at": now,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// Release returns a reserved credential to the pool
func (s *CredentialStore) Release(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Model(&models.Credential{}).
		Where("id = ? AND status = ? AND assigned_at IS NULL", id, models.CredentialInUse).
		Updates(map[string]interface{}{
			"status":     models.CredentialAvailable,
			"claimed_at": nil,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: credential %s is not reserved", ErrNotFound, id)
	}
	return nil
}

// ReleaseStale returns credentials claimed before cutoff and never assigned
// to an order to the pool. Such claims belong to runs that died midway.
func (s *CredentialStore) ReleaseStale(ctx context.Context, cutoff time.Time) (int64, error) {
	res := s.db.WithContext(ctx).Model(&models.Credential{}).
		Where("status = ? AND assigned_at IS NULL AND (claimed_at IS NULL OR claimed_at < ?)", models.CredentialInUse, cutoff).
		Updates(map[string]interface{}{
			"status":     models.CredentialAvailable,
			"claimed_at": nil,
		})
	return res.RowsAffected, res.Error
}

func markInUse(tx *gorm.DB, id, phone string, now time.Time, expires *time.Time) error {
	updates := map[string]interface{}{
		"status":      models.CredentialInUse,
		"phone":       phone,
		"assigned_at": now,
	}
	if expires != nil {
		updates["purchase_date"] = now
		updates["expiration_date"] = *expires
	}

	res := tx.Model(&models.Credential{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: credential %s", ErrNotFound, id)
	}
	return nil
}

// CredentialUpdate holds the fields an admin may change; nil fields are kept
type CredentialUpdate struct {
	Username       *string
	Password       *string
	Cookies        *string
	PurchaseDate   *time.Time
	ExpirationDate *time.Time
}

// Update changes the given fields of a credential and returns it
func (s *CredentialStore) Update(ctx context.Context, id string, u CredentialUpdate) (*models.Credential, error) {
	updates := map[string]interface{}{}
	if u.Username != nil {
		name := strings.TrimSpace(*u.Username)
		if name == "" {
			return nil, fmt.Errorf("username is required")
		}
		updates["username"] = name
	}
	if u.Password != nil {
		updates["password"] = *u.Password
	}
	if u.Cookies != nil {
		updates["cookies"] = *u.Cookies
	}
	if u.PurchaseDate != nil {
		updates["purchase_date"] = *u.PurchaseDate
	}
	if u.ExpirationDate != nil {
		updates["expiration_date"] = *u.ExpirationDate
	}

	if len(updates) > 0 {
		res := s.db.WithContext(ctx).Model(&models.Credential{}).Where("id = ?", id).Updates(updates)
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: credential %s", ErrDuplicate, updates["username"])
		}
		if res.Error != nil {
			return nil, res.Error
		}
	}
	return s.Get(ctx, id)
}

// Delete permanently removes a credential
func (s *CredentialStore) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Credential{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: credential %s", ErrNotFound, id)
	}
	return nil
}

// Create adds one credential to the pool
func (s *CredentialStore) Create(ctx context.Context, c *models.Credential) error {
	c.Username = strings.TrimSpace(c.Username)
	if c.Username == "" {
		return fmt.Errorf("username is required")
	}
	err := s.db.WithContext(ctx).Create(c).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: credential %s", ErrDuplicate, c.Username)
	}
	return err
}

// ImportResult counts the outcome of a bulk import
type ImportResult struct {
	Created int `json:"created"`
	Skipped int `json:"skipped"`
}

// Import adds credentials in order, skipping blank and already known usernames
func (s *CredentialStore) Import(ctx context.Context, creds []models.Credential) (ImportResult, error) {
	var result ImportResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range creds {
			c := creds[i]
			c.Username = strings.TrimSpace(c.Username)
			if c.Username == "" {
				result.Skipped++
				continue
			}

			res := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "username"}},
				DoNothing: true,
			}).Create(&c)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				result.Skipped++
				continue
			}
			result.Created++
		}
		return nil
	})
	return result, err
}

// ListAvailable returns available credentials, newest first
func (s *CredentialStore) ListAvailable(ctx context.Context, limit int) ([]models.Credential, error) {
	var creds []models.Credential
	q := s.db.WithContext(ctx).
		Where("status = ?", models.CredentialAvailable).
		Order("created_at DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&creds).Error; err != nil {
		return nil, err
	}
	return creds, nil
}

// CountAvailable returns the pool size
func (s *CredentialStore) CountAvailable(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Credential{}).
		Where("status = ?", models.CredentialAvailable).
		Count(&n).Error
	return n, err
}
