package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Address is the structured postal address stored on a user record and
// mirrored into session token claims.
type Address struct {
	Street  string `gorm:"size:255" json:"street"`
	City    string `gorm:"size:100" json:"city"`
	State   string `gorm:"size:100" json:"state"`
	Country string `gorm:"size:100" json:"country"`
}

// User is a doctor account. Email is stored lowercased and is the unique
// lookup key. ResetPasswordOTP and OTPExpiry are either both set (a reset
// is pending) or both NULL.
type User struct {
	ID               uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserName         string         `gorm:"size:100;not null" json:"userName"`
	LastName         string         `gorm:"size:100;not null" json:"lastName"`
	Email            string         `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Password         string         `gorm:"not null" json:"-"`
	Age              int            `json:"age"`
	Gender           string         `gorm:"size:20" json:"gender"`
	Phone            string         `gorm:"size:30" json:"phone"`
	Address          Address        `gorm:"embedded;embeddedPrefix:address_" json:"address"`
	Role             string         `gorm:"size:20;default:'user'" json:"role"`
	ResetPasswordOTP *int           `json:"-"`
	OTPExpiry        *time.Time     `json:"-"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}
