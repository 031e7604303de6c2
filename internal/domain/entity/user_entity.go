package entity

import (
	"strings"
	"time"
)

// User is the aggregate root for the account domain.
// Password holds the bcrypt hash; it must never be serialized in responses.
type User struct {
	ID        string
	Username  string
	Email     string
	Password  string
	Age       *int
	AvatarURL string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NormalizeEmail lowercases and trims an email address. Every email entering
// the system (registration, login, invites) goes through this first.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
