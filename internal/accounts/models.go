package accounts

import "time"

// Profile is a telecaller or admin account.
//
// Role is data-driven: routing after login and all authorization checks key
// off this field, never off a hardcoded email. Active controls whether the
// profile is eligible to receive newly imported tasks; it does not block login.
type Profile struct {
	ID           string    `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         string    `json:"role" db:"role"`
	Active       bool      `json:"active" db:"active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
