package model

import (
	"errors"
	"time"
)

// User represents a registered account.
type User struct {
	ID             int64     `db:"id" json:"id"`
	Username       string    `db:"username" json:"username"`
	PasswordHashed string    `db:"password_hashed" json:"-"` // "-" hides from JSON output
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// UserProfile holds the optional per-user profile extras.
// Description and picture are updated by independent operations, each
// touching only its own column.
type UserProfile struct {
	UserID        int64     `db:"user_id" json:"user_id"`
	Description   string    `db:"description" json:"description"`
	ProfilePicURL *string   `db:"profile_pic_url" json:"profile_pic_url"`
	ProfilePicKey *string   `db:"profile_pic_key" json:"-"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// RegisterRequest represents the data needed to register a new user
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginRequest represents the data needed to log in
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ProfileResponse is a user together with their profile extras.
type ProfileResponse struct {
	User    *User        `json:"user"`
	Profile *UserProfile `json:"profile"`
}

var (
	// ErrUserNotFound is returned when a user cannot be found
	ErrUserNotFound = errors.New("user not found")

	// ErrUsernameExists is returned when attempting to create a user with a taken username
	ErrUsernameExists = errors.New("username already exists")

	// ErrInvalidCredentials is returned when login credentials are incorrect.
	// Unknown username and wrong password both collapse into this error so
	// responses never reveal which one it was.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
