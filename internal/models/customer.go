package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Customer is a buyer with a prepaid balance in minor currency units
type Customer struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Phone     string    `gorm:"uniqueIndex;size:32;not null" json:"phone"`
	Name      string    `gorm:"size:128" json:"name"`
	Balance   int64     `gorm:"not null;default:0" json:"balance"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the table name for Customer model
func (Customer) TableName() string {
	return "customers"
}

// BeforeCreate assigns a UUID when none is set
func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
