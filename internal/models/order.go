package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderStatus represents the status of an order
type OrderStatus string

const (
	OrderPending OrderStatus = "PENDING"
	OrderPaid    OrderStatus = "PAID"
	OrderFailed  OrderStatus = "FAILED"
	OrderExpired OrderStatus = "EXPIRED"
)

// Order is a customer's purchase. The account fields are a copy of the
// credential currently assigned to it.
type Order struct {
	ID              string         `gorm:"primaryKey;size:36" json:"id"`
	CustomerID      string         `gorm:"size:36;index;not null" json:"customer_id"`
	OrderCode       string         `gorm:"uniqueIndex;size:32" json:"order_code"`
	Plan            string         `gorm:"size:64" json:"plan"`
	Duration        int            `json:"duration"` // days
	Amount          int64          `json:"amount"`
	AccountEmail    string         `gorm:"size:255" json:"account_email"`
	AccountPassword string         `gorm:"size:255" json:"account_password"`
	AccountCookies  string         `gorm:"type:text" json:"-"`
	Status          OrderStatus    `gorm:"size:16;index;default:PENDING" json:"status"`
	PurchaseDate    time.Time      `json:"purchase_date"`
	ExpiresAt       time.Time      `gorm:"index" json:"expires_at"`
	History         []OrderHistory `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"history,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// TableName returns the table name for Order model
func (Order) TableName() string {
	return "orders"
}

// BeforeCreate assigns the ID and order code
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	if o.OrderCode == "" {
		o.OrderCode = "NF" + uuid.NewString()[:8]
	}
	return nil
}

// Active reports whether the order still entitles the customer to an account
func (o *Order) Active(now time.Time) bool {
	return o.Status == OrderPaid && now.Before(o.ExpiresAt)
}

// OrderHistory is an append-only log line attached to an order
type OrderHistory struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	OrderID   string    `gorm:"size:36;index;not null" json:"order_id"`
	Message   string    `gorm:"type:text" json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the table name for OrderHistory model
func (OrderHistory) TableName() string {
	return "order_history"
}

// Plan is a purchasable subscription length
type Plan struct {
	Days  int
	Price int64
}

// Plans lists the purchasable plans, shortest first
var Plans = []Plan{
	{Days: 30, Price: 50000},
	{Days: 90, Price: 140000},
	{Days: 180, Price: 270000},
	{Days: 365, Price: 500000},
}

// PlanForDays returns the plan with the given length
func PlanForDays(days int) (Plan, error) {
	for _, p := range Plans {
		if p.Days == days {
			return p, nil
		}
	}
	return Plan{}, fmt.Errorf("unknown plan: %d days", days)
}

// Name is the display name stored on orders
func (p Plan) Name() string {
	return fmt.Sprintf("Netflix %d days", p.Days)
}
