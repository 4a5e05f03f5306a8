package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CredentialStatus is the pool state of a credential
type CredentialStatus string

const (
	CredentialAvailable CredentialStatus = "available"
	CredentialInUse     CredentialStatus = "in_use"
	CredentialDead      CredentialStatus = "dead"
)

// Credential is one sellable streaming account. Available credentials form
// the replacement pool, consumed in creation order.
type Credential struct {
	ID             string           `gorm:"primaryKey;size:36" json:"id"`
	Username       string           `gorm:"uniqueIndex;size:255;not null" json:"username"`
	Password       string           `gorm:"size:255" json:"-"`
	Cookies        string           `gorm:"type:text" json:"-"` // serialized session state
	Status         CredentialStatus `gorm:"size:16;index:idx_credentials_pool,priority:1;default:available" json:"status"`
	Phone          string           `gorm:"size:32" json:"phone,omitempty"`
	PurchaseDate   *time.Time       `json:"purchase_date,omitempty"`
	ExpirationDate *time.Time       `json:"expiration_date,omitempty"`
	AssignedAt     *time.Time       `json:"assigned_at,omitempty"`
	ClaimedAt      *time.Time       `json:"claimed_at,omitempty"` // set while a run holds it
	CreatedAt      time.Time        `gorm:"index:idx_credentials_pool,priority:2" json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// TableName returns the table name for Credential model
func (Credential) TableName() string {
	return "credentials"
}

// BeforeCreate assigns a UUID when none is set
func (c *Credential) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Status == "" {
		c.Status = CredentialAvailable
	}
	return nil
}
