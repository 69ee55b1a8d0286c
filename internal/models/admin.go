package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Role enum for staff accounts
type Role string

const (
	RoleAdmin Role = "admin"
	RoleStaff Role = "staff"
)

// Admin represents a clinic staff account with access to the admin API
type Admin struct {
	BaseModel
	Email     string     `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password  string     `gorm:"size:255;not null" json:"-"` // Never send password in JSON
	Role      Role       `gorm:"size:20;default:'staff'" json:"role"`
	LastLogin *time.Time `json:"lastLogin,omitempty"`

	// Relations (not always preloaded)
	RefreshTokens []RefreshToken `gorm:"foreignKey:AdminID" json:"-"`
}

// AdminSanitized represents the admin data that is safe to send in API responses.
type AdminSanitized struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	Role      Role       `json:"role"`
	LastLogin *time.Time `json:"lastLogin,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// SetPassword hashes a password and sets it on the admin
func (a *Admin) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	a.Password = string(hashedPassword)
	return nil
}

// CheckPassword compares a password with the admin's hashed password
func (a *Admin) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(a.Password), []byte(password))
	return err == nil
}

// Sanitize creates an AdminSanitized struct from an Admin model, excluding sensitive data.
func (a *Admin) Sanitize() AdminSanitized {
	return AdminSanitized{
		ID:        a.ID,
		Email:     a.Email,
		Role:      a.Role,
		LastLogin: a.LastLogin,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}
