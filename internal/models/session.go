package models

import "time"

// Session is the server-side half of authorization: a token is only honored
// while its session is still alive, so logout revokes without a blocklist.
type Session struct {
	ID           string    `json:"session_id"`
	Email        string    `json:"email"`
	CreatedAt    time.Time `json:"created_at"`
	LastActivity time.Time `json:"last_activity"`
}
