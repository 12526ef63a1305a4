package models

import "time"

// OTPEntry — the pending verification challenge for one email.
// At most one live entry per email: a new request replaces the old one.
type OTPEntry struct {
	Email     string    `json:"email"`
	Code      string    `json:"-"` // the secret; never echoed
	ExpiresAt time.Time `json:"expires_at"`
	Attempts  int       `json:"attempts"`
}

type SendOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type VerifyOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
	OTP   string `json:"otp" binding:"required"`
}
