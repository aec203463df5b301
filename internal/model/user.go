package model

import (
	"errors"
	"time"
)

// User represents a registered user. GovID is the government-issued
// identifier used as the stable natural key throughout the system; the
// numeric ID is internal to the database.
type User struct {
	ID           int64      `json:"id"`
	GovID        string     `json:"govId"`
	Name         string     `json:"name"`
	Email        string     `json:"email,omitempty"`
	Username     string     `json:"username"`
	PasswordHash string     `json:"-"`
	Role         string     `json:"role"`
	Location     string     `json:"location,omitempty"`
	Stars        *int64     `json:"stars"`
	CreatedAt    time.Time  `json:"created_at"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty"`
}

// Roles.
const (
	RoleAdmin    = "admin"
	RoleUser     = "user"
	RoleIncharge = "incharge"
)

// ValidRole reports whether role is one of the known roles.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleUser, RoleIncharge:
		return true
	}
	return false
}

// ValidatePassword checks password requirements for new passwords.
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	return nil
}
