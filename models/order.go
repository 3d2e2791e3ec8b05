package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusConfirmed  OrderStatus = "confirmed"
	StatusPreparing  OrderStatus = "preparing"
	StatusDelivering OrderStatus = "delivering"
	StatusCompleted  OrderStatus = "completed"
	StatusCancelled  OrderStatus = "cancelled"
)

// OrderStatuses lists every fulfillment state in display order.
var OrderStatuses = []OrderStatus{
	StatusPending,
	StatusConfirmed,
	StatusPreparing,
	StatusDelivering,
	StatusCompleted,
	StatusCancelled,
}

func (s OrderStatus) IsValid() bool {
	for _, st := range OrderStatuses {
		if s == st {
			return true
		}
	}
	return false
}

func ParseOrderStatus(value string) (OrderStatus, error) {
	s := OrderStatus(strings.ToLower(strings.TrimSpace(value)))
	if !s.IsValid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}

type Order struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	OrderNumber    string          `gorm:"type:varchar(20);uniqueIndex;not null" json:"order_number"`
	IdempotencyKey *string         `gorm:"type:varchar(100);uniqueIndex" json:"-"`
	CustomerName   string          `gorm:"type:varchar(255);not null" json:"customer_name"`
	Phone          string          `gorm:"type:varchar(30);not null" json:"phone"`
	Province       string          `gorm:"type:varchar(100)" json:"province"`
	District       string          `gorm:"type:varchar(100)" json:"district"`
	Ward           string          `gorm:"type:varchar(100)" json:"ward"`
	Address        string          `gorm:"type:varchar(500);not null" json:"address"`
	DeliveryDate   string          `gorm:"type:varchar(10);not null;index" json:"delivery_date"`
	DeliveryTime   string          `gorm:"type:varchar(20);not null" json:"delivery_time"`
	DeliveryDay    string          `gorm:"type:varchar(20)" json:"delivery_day"`
	WeekID         string          `gorm:"type:varchar(10);index" json:"week_id"`
	Notes          string          `gorm:"type:text" json:"notes"`
	Items          []OrderItem     `gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"items"`
	TotalAmount    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	Status         OrderStatus     `gorm:"type:varchar(20);not null;index" json:"status"`
	CreatedAt      time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"not null" json:"updated_at"`
}

// FullAddress joins street address, ward, district and province, skipping empty parts.
func (o *Order) FullAddress() string {
	parts := make([]string, 0, 4)
	for _, p := range []string{o.Address, o.Ward, o.District, o.Province} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// OrderItem is a snapshot of a cart line at submission time.
type OrderItem struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	OrderID      uint            `gorm:"not null;index" json:"order_id"`
	OfferingID   uint            `gorm:"not null" json:"offering_id"`
	Name         string          `gorm:"type:varchar(255);not null" json:"name"`
	SelectedSize SizeOption      `gorm:"embedded;embeddedPrefix:size_" json:"selected_size"`
	Quantity     int             `gorm:"not null" json:"quantity"`
	Subtotal     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"subtotal"`
}
