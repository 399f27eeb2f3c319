package models

import "time"

// ProductStatus is the moderation state of a listed product
type ProductStatus string

const (
	ProductPending  ProductStatus = "pending"
	ProductApproved ProductStatus = "approved"
	ProductRejected ProductStatus = "rejected"
)

type Business struct {
	ID            uint       `json:"id" gorm:"primaryKey"`
	OwnerID       uint       `json:"owner_id" gorm:"not null"`
	Owner         User       `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
	Name          string     `json:"name" gorm:"not null"`
	Category      string     `json:"category"`
	Address       string     `json:"address"`
	Phone         string     `json:"phone"`
	WhatsappLink  string     `json:"whatsapp_link"`
	Latitude      *float64   `json:"latitude"`
	Longitude     *float64   `json:"longitude"`
	PhotoData     string     `json:"photo_data"` // data-URL encoded shop photo
	Description   string     `json:"description"`
	Verified      bool       `json:"verified" gorm:"default:false"`
	IsPaid        bool       `json:"is_paid" gorm:"default:false"`
	PremiumStatus string     `json:"premium_status"` // "active", "expired", or empty
	PremiumUntil  *time.Time `json:"premium_until"`
	Views         int        `json:"views" gorm:"default:0"`
	Leads         int        `json:"leads" gorm:"default:0"`
	Products      []Product  `json:"products,omitempty" gorm:"foreignKey:BusinessID"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// HasLocation reports whether the business can participate in radius filtering
func (b *Business) HasLocation() bool {
	return b.Latitude != nil && b.Longitude != nil
}

// IsPremiumAt reports whether the premium entitlement is valid at the given
// instant: paid, marked active, and not yet expired. All three must hold.
func (b *Business) IsPremiumAt(now time.Time) bool {
	if !b.IsPaid || b.PremiumStatus != "active" {
		return false
	}
	return b.PremiumUntil != nil && b.PremiumUntil.After(now)
}

// IsPremium is IsPremiumAt against the wall clock
func (b *Business) IsPremium() bool {
	return b.IsPremiumAt(time.Now())
}

type Product struct {
	ID          uint          `json:"id" gorm:"primaryKey"`
	BusinessID  uint          `json:"business_id" gorm:"not null"`
	Business    Business      `json:"business,omitempty" gorm:"foreignKey:BusinessID"`
	Title       string        `json:"title" gorm:"not null"`
	Price       float64       `json:"price" gorm:"not null"`
	Description string        `json:"description"`
	PhotoData   string        `json:"photo_data"`
	Status      ProductStatus `json:"status" gorm:"not null;default:'pending'"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}
