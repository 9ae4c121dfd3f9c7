// Package identity holds the user and tenant records exchanged with the
// remote auth gateway, plus the request and response bodies of its API.
package identity

import (
	"slices"
	"strings"
)

// UserStatus is the account status reported by the gateway.
type UserStatus string

const (
	// StatusActive marks an account that can sign in.
	StatusActive UserStatus = "ACTIVE"
	// StatusPending marks an account waiting for email confirmation.
	StatusPending UserStatus = "PENDING"
	// StatusInactive marks a disabled account.
	StatusInactive UserStatus = "INACTIVE"
)

// User is the identity record returned by login and /auth/me.
// Timestamps are kept as sent by the gateway; they are only displayed.
type User struct {
	ID            string     `json:"id"`
	FirstName     string     `json:"firstName"`
	LastName      string     `json:"lastName"`
	Email         string     `json:"email"`
	PhoneNumber   string     `json:"phoneNumber,omitempty"`
	EmailVerified bool       `json:"emailVerified"`
	Status        UserStatus `json:"status"`
	Roles         []string   `json:"roles"`
	CreatedAt     string     `json:"createdAt"`
	UpdatedAt     string     `json:"updatedAt"`
}

// FullName returns first and last name joined by a space.
func (u *User) FullName() string {
	if u == nil {
		return ""
	}

	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// HasRole reports whether the user carries the given role identifier.
func (u *User) HasRole(role string) bool {
	if u == nil {
		return false
	}

	return slices.Contains(u.Roles, role)
}

// Tenant is the organisational scope a session was issued for.
type Tenant struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName,omitempty"`
}

// Label returns the display name, falling back to the name.
func (t *Tenant) Label() string {
	if t == nil {
		return ""
	}

	if t.DisplayName != "" {
		return t.DisplayName
	}

	return t.Name
}
