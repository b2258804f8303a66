package model

import (
	"errors"
	"time"
)

// Identity is the authenticated user bound to a session token.
// One canonical shape, passed explicitly; there is no process-wide
// current-user state.
type Identity struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
}

// Session is the server-side record behind an opaque session token.
// Sessions live in redis with a TTL; a token with no record is anonymous.
type Session struct {
	Token     string    `json:"token"`
	UserID    int64     `json:"user_id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

var (
	// ErrUnauthenticated is returned when a protected operation is
	// attempted without a valid session.
	ErrUnauthenticated = errors.New("not authenticated")
)
