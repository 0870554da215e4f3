package domain

import "time"

// RoleAdmin is the role required to edit rated listings.
const RoleAdmin = "admin"

// User represents an operator account.
type User struct {
	ID           string
	Email        string
	PasswordHash []byte
	CreatedAt    time.Time
}
