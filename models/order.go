package models

import "time"

// OrderStatus represents all possible states of a delivery order
type OrderStatus string

const (
	StatusPending        OrderStatus = "pending"
	StatusAssigned       OrderStatus = "assigned"
	StatusPickedUp       OrderStatus = "picked_up"
	StatusOutForDelivery OrderStatus = "out_for_delivery"
	StatusDelivered      OrderStatus = "delivered"
	StatusCancelled      OrderStatus = "cancelled"
)

type Order struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	DisplayID string `json:"display_id" gorm:"uniqueIndex;not null"` // short human-facing id

	// Customer snapshot — copied at placement so the order survives profile edits
	CustomerID      uint   `json:"customer_id" gorm:"not null"`
	Customer        User   `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	CustomerName    string `json:"customer_name"`
	CustomerPhone   string `json:"customer_phone"`
	DeliveryAddress string `json:"delivery_address" gorm:"not null"`

	// Business snapshot
	BusinessID  uint     `json:"business_id" gorm:"not null"`
	Business    Business `json:"business,omitempty" gorm:"foreignKey:BusinessID"`
	ShopName    string   `json:"shop_name"`
	ShopAddress string   `json:"shop_address"`
	ShopPhone   string   `json:"shop_phone"`

	// Product snapshot
	ProductID    uint    `json:"product_id" gorm:"not null"`
	ProductTitle string  `json:"product_title"`
	ProductPrice float64 `json:"product_price"`

	// Rider fields — nil until a delivery user claims the order
	DeliveryBoyID    *uint  `json:"delivery_boy_id"`
	DeliveryBoy      *User  `json:"delivery_boy,omitempty" gorm:"foreignKey:DeliveryBoyID"`
	DeliveryBoyName  string `json:"delivery_boy_name"`
	DeliveryBoyPhone string `json:"delivery_boy_phone"`

	Status OrderStatus `json:"status" gorm:"not null;default:'pending'"`

	// Proof photos — data-URL encoded, captured at pickup and delivery
	PickupPhoto   string `json:"pickup_photo"`
	DeliveryPhoto string `json:"delivery_photo"`

	StatusHistory []OrderStatusHistory `json:"status_history,omitempty" gorm:"foreignKey:OrderID"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

// OrderStatusHistory tracks every status change made to an order
type OrderStatusHistory struct {
	ID         uint        `json:"id" gorm:"primaryKey"`
	OrderID    uint        `json:"order_id" gorm:"not null"`
	FromStatus OrderStatus `json:"from_status"`
	ToStatus   OrderStatus `json:"to_status" gorm:"not null"`
	ChangedBy  uint        `json:"changed_by"` // user ID who triggered the transition
	Note       string      `json:"note"`
	CreatedAt  time.Time   `json:"created_at"`
}
