package models

import "time"

// Announcement is an admin-authored broadcast, optionally targeted by pincode
type Announcement struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Title     string    `json:"title" gorm:"not null"`
	Message   string    `json:"message" gorm:"not null"`
	Pincode   string    `json:"pincode"` // empty = platform-wide
	VideoLink string    `json:"video_link"`
	Active    bool      `json:"active" gorm:"default:true"`
	CreatedBy uint      `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PremiumPayment records a premium-subscription order placed with the
// payment gateway and its verification outcome.
type PremiumPayment struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	BusinessID     uint      `json:"business_id" gorm:"not null"`
	GatewayOrderID string    `json:"gateway_order_id" gorm:"uniqueIndex;not null"`
	Amount         float64   `json:"amount"`
	State          string    `json:"state"` // created, paid, failed
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
