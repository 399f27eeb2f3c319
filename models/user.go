package models

import (
	"time"
)

// UserRole defines allowed roles in the system
type UserRole string

const (
	RoleCustomer  UserRole = "customer"
	RoleBusiness  UserRole = "business"
	RoleDelivery  UserRole = "delivery"
	RoleAdmin     UserRole = "admin"
	RoleModerator UserRole = "moderator"
)

type User struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	Name         string     `json:"name" gorm:"not null"`
	Email        string     `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string     `json:"-" gorm:"not null"`
	Role         UserRole   `json:"role" gorm:"not null;default:'customer'"`
	Phone        string     `json:"phone"`
	House        string     `json:"house"`
	Street       string     `json:"street"`
	Landmark     string     `json:"landmark"`
	City         string     `json:"city"`
	State        string     `json:"state"`
	Pincode      string     `json:"pincode"`
	Country      string     `json:"country"`
	AreaCode     string     `json:"area_code"`
	PhotoData    string     `json:"photo_data"` // data-URL encoded profile photo
	Favorites    []Business `json:"favorites,omitempty" gorm:"many2many:user_favorites"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// FullAddress joins the structured address fields for order snapshots
func (u *User) FullAddress() string {
	addr := ""
	for _, p := range []string{u.House, u.Street, u.Landmark, u.City, u.State, u.Pincode, u.Country} {
		if p == "" {
			continue
		}
		if addr != "" {
			addr += ", "
		}
		addr += p
	}
	return addr
}
