package models

import (
	"time"

	"gorm.io/datatypes"
)

// RunMode distinguishes a customer warranty claim from an admin switch
type RunMode string

const (
	RunModeWarranty RunMode = "warranty"
	RunModeSwitch   RunMode = "switch"
)

// WarrantyRun is the audit record of one orchestrator run
type WarrantyRun struct {
	ID            string         `gorm:"primaryKey;size:36" json:"id"`
	OrderID       string         `gorm:"size:36;index;not null" json:"order_id"`
	Mode          RunMode        `gorm:"size:16" json:"mode"`
	Outcome       string         `gorm:"size:16;index" json:"outcome"`
	NewIdentifier string         `gorm:"size:255" json:"new_identifier,omitempty"`
	Steps         datatypes.JSON `json:"steps"` // progress messages in emit order
	Inspected     int            `json:"inspected"`
	StartedAt     time.Time      `gorm:"index" json:"started_at"`
	FinishedAt    *time.Time     `json:"finished_at"`
	Duration      int64          `json:"duration"` // milliseconds
}

// TableName returns the table name for WarrantyRun model
func (WarrantyRun) TableName() string {
	return "warranty_runs"
}

// All returns every model managed by auto-migration
func All() []interface{} {
	return []interface{}{
		&Credential{},
		&Customer{},
		&Order{},
		&OrderHistory{},
		&WarrantyRun{},
	}
}
