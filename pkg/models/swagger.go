package models

import "time"

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string                 `json:"status" example:"healthy"`
	Timestamp time.Time              `json:"timestamp" example:"2026-01-15T10:00:00Z"`
	Service   string                 `json:"service" example:"netflix-warranty"`
	Version   string                 `json:"version" example:"1.0.0"`
	Checks    map[string]string      `json:"checks"`
	Scheduler map[string]interface{} `json:"scheduler,omitempty"`
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error   bool   `json:"error" example:"true"`
	Message string `json:"message" example:"Resource not found"`
	Code    int    `json:"code" example:"404"`
}

// BuyRequest purchases a plan
type BuyRequest struct {
	PlanDays int `json:"plan_days" binding:"required" example:"30"`
}

// ExtendRequest renews an order by a plan
type ExtendRequest struct {
	PlanDays int `json:"plan_days" binding:"required" example:"90"`
}

// OrderHistoryEntry is one line of an order's history
type OrderHistoryEntry struct {
	Message   string    `json:"message" example:"Warranty replaced a@example.com with b@example.com"`
	CreatedAt time.Time `json:"created_at" example:"2026-01-15T10:00:00Z"`
}

// OrderResponse is an order as shown to its owner
type OrderResponse struct {
	ID              string              `json:"id" example:"6f1c2d9e-3f7a-4d7e-9c51-2f0e8f3a1b2c"`
	OrderCode       string              `json:"order_code" example:"NF1a2b3c4d"`
	Plan            string              `json:"plan" example:"Netflix 30 days"`
	Duration        int                 `json:"duration" example:"30"`
	Amount          int64               `json:"amount" example:"50000"`
	AccountEmail    string              `json:"account_email" example:"user@example.com"`
	AccountPassword string              `json:"account_password" example:"secret"`
	Status          string              `json:"status" example:"PAID"`
	PurchaseDate    time.Time           `json:"purchase_date" example:"2026-01-15T10:00:00Z"`
	ExpiresAt       time.Time           `json:"expires_at" example:"2026-02-14T10:00:00Z"`
	History         []OrderHistoryEntry `json:"history,omitempty"`
}

// WarrantyResponse is the outcome of a warranty run
type WarrantyResponse struct {
	Outcome     string   `json:"outcome" example:"replaced"`
	Message     string   `json:"message" example:"Your account has been replaced with a working one."`
	NewUsername string   `json:"new_username,omitempty" example:"fresh@example.com"`
	Steps       []string `json:"steps,omitempty"`
}

// ProgressEvent is the data of an SSE progress event
type ProgressEvent struct {
	Message string `json:"message" example:"checking old account"`
}

// AccountRequest adds one account to the pool
type AccountRequest struct {
	Username       string     `json:"username" binding:"required" example:"user@example.com"`
	Password       string     `json:"password" example:"secret"`
	Cookies        string     `json:"cookies" binding:"required" example:"NetflixId=...; SecureNetflixId=..."`
	PurchaseDate   *time.Time `json:"purchase_date,omitempty"`
	ExpirationDate *time.Time `json:"expiration_date,omitempty"`
}

// BulkImportRequest adds many accounts at once
type BulkImportRequest struct {
	Accounts []AccountRequest `json:"accounts" binding:"required"`
}

// BulkImportResponse reports an import
type BulkImportResponse struct {
	Created int `json:"created" example:"10"`
	Skipped int `json:"skipped" example:"2"`
}

// AccountResponse is a pool account without its secrets
type AccountResponse struct {
	ID             string     `json:"id" example:"0b7e1c4e-9a51-4bde-8d5c-1d0e2f3a4b5c"`
	Username       string     `json:"username" example:"user@example.com"`
	Status         string     `json:"status" example:"available"`
	PurchaseDate   *time.Time `json:"purchase_date,omitempty"`
	ExpirationDate *time.Time `json:"expiration_date,omitempty"`
	CreatedAt      time.Time  `json:"created_at" example:"2026-01-15T10:00:00Z"`
}

// AccountDetailResponse is a pool account as shown to admins
type AccountDetailResponse struct {
	AccountResponse
	Password   string     `json:"password" example:"secret"`
	Cookies    string     `json:"cookies" example:"NetflixId=...; SecureNetflixId=..."`
	Phone      string     `json:"phone,omitempty" example:"0900000001"`
	AssignedAt *time.Time `json:"assigned_at,omitempty"`
}

// AccountUpdateRequest changes an account; absent fields are kept
type AccountUpdateRequest struct {
	Username       *string    `json:"username,omitempty" example:"user@example.com"`
	Password       *string    `json:"password,omitempty" example:"secret"`
	Cookies        *string    `json:"cookies,omitempty"`
	PurchaseDate   *time.Time `json:"purchase_date,omitempty"`
	ExpirationDate *time.Time `json:"expiration_date,omitempty"`
}

// SellRequest assigns an account to a customer
type SellRequest struct {
	CustomerID string `json:"customer_id" binding:"required" example:"6f1c2d9e-3f7a-4d7e-9c51-2f0e8f3a1b2c"`
	PlanDays   int    `json:"plan_days" binding:"required" example:"30"`
}

// ExpirationRequest sets an order's expiry
type ExpirationRequest struct {
	ExpiresAt time.Time `json:"expires_at" binding:"required" example:"2026-03-01T00:00:00Z"`
}

// AccountListResponse lists available pool accounts
type AccountListResponse struct {
	Accounts  []AccountResponse `json:"accounts"`
	Available int64             `json:"available" example:"42"`
}

// WarrantyRunResponse is one audited warranty run
type WarrantyRunResponse struct {
	ID            string     `json:"id"`
	OrderID       string     `json:"order_id"`
	Mode          string     `json:"mode" example:"warranty"`
	Outcome       string     `json:"outcome" example:"replaced"`
	NewIdentifier string     `json:"new_username,omitempty"`
	Steps         []string   `json:"steps"`
	Inspected     int        `json:"inspected" example:"2"`
	StartedAt     time.Time  `json:"started_at"`
	FinishedAt    *time.Time `json:"finished_at,omitempty"`
	DurationMS    int64      `json:"duration_ms" example:"41250"`
}

// ScheduledJobResponse describes a scheduler job
type ScheduledJobResponse struct {
	ID      string    `json:"id" example:"expire_orders"`
	Name    string    `json:"name" example:"Expire overdue orders"`
	Cron    string    `json:"cron" example:"0 0 * * *"`
	NextRun time.Time `json:"next_run"`
	LastRun time.Time `json:"last_run"`
	Status  string    `json:"status" example:"completed"`
}
