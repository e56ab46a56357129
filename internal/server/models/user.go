// Package models contains the server-side domain records persisted by the
// repositories.
package models

import "time"

// User is a registered account. PasswordHash holds a bcrypt digest of the
// password; the plaintext is never stored. The hash must not leave the
// service layer: transport DTOs strip it before responding.
type User struct {
	ID           string
	Username     string
	FirstName    string
	LastName     string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
