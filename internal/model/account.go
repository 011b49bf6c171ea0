// Package model defines database models
package model

import "time"

const RoleUser = "USER"

// Account is a registrant. Exactly one of Email and Phone is set.
type Account struct {
	ID           string  `gorm:"primaryKey;size:16" json:"id"`
	Name         string  `gorm:"not null" json:"name"`
	Email        *string `gorm:"uniqueIndex" json:"email,omitempty"`
	Phone        *string `gorm:"uniqueIndex" json:"phone,omitempty"`
	PasswordHash string  `gorm:"not null" json:"-"`
	Role         string  `gorm:"size:16;default:USER" json:"role"`
	// Nil until the identifier is proven. Phone accounts get it at creation
	VerifiedAt       *time.Time `json:"verified_at,omitempty"`
	VerificationCode *string    `gorm:"size:16" json:"-"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

func (a *Account) Verified() bool {
	return a.VerifiedAt != nil
}
