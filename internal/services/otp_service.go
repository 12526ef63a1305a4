package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"redline/internal/models"
	"redline/internal/repositories"
	"redline/internal/utils"
)

var (
	ErrCodeNotFound    = errors.New("no code requested")
	ErrTooManyAttempts = errors.New("too many attempts")
	ErrCodeExpired     = errors.New("code expired")
	ErrCodeInvalid     = errors.New("code invalid")
	ErrDelivery        = errors.New("delivery failed")
)

const (
	codeTTL            = 5 * time.Minute
	maxConfirmAttempts = 3
	sweepInterval      = 5 * time.Minute
)

// VerifyResult is what a successful code verification hands back to the handler.
type VerifyResult struct {
	Token     string
	SessionID string
	Email     string
}

type OTPService struct {
	repo     repositories.OTPRepository
	emails   EmailService
	sessions SessionService
	tokens   TokenService
}

func NewOTPService(repo repositories.OTPRepository, emails EmailService, sessions SessionService, tokens TokenService) *OTPService {
	return &OTPService{
		repo:     repo,
		emails:   emails,
		sessions: sessions,
		tokens:   tokens,
	}
}

// RequestCode issues a fresh 6-digit code for the email, replacing any live
// entry, and mails it. The entry is stored before the send: a failed delivery
// still leaves a retriable state, and re-requesting overwrites it anyway.
// Returns the expiry window in seconds.
func (s *OTPService) RequestCode(email string) (int, error) {
	code, err := utils.NewOTPCode()
	if err != nil {
		return 0, fmt.Errorf("generate code: %w", err)
	}

	s.repo.Put(&models.OTPEntry{
		Email:     email,
		Code:      code,
		ExpiresAt: time.Now().Add(codeTTL),
		Attempts:  0,
	})

	if err := s.emails.SendOTPEmail(email, code); err != nil {
		log.Printf("[otp][send] delivery failed for %s: %v", email, err)
		return 0, fmt.Errorf("%w: %v", ErrDelivery, err)
	}

	log.Printf("[otp][send] code sent to %s", email)
	return int(codeTTL / time.Second), nil
}

// VerifyCode checks a submitted code against the stored entry. The check order
// is fixed policy: existence, attempt limit, expiry, equality. A caller who has
// burned all attempts hears that first, even if the code has also expired.
// Remaining is only meaningful alongside ErrCodeInvalid.
func (s *OTPService) VerifyCode(email, submitted string) (*VerifyResult, int, error) {
	entry := s.repo.Get(email)
	if entry == nil {
		return nil, 0, ErrCodeNotFound
	}

	if entry.Attempts >= maxConfirmAttempts {
		s.repo.Delete(email)
		return nil, 0, ErrTooManyAttempts
	}

	if time.Now().After(entry.ExpiresAt) {
		s.repo.Delete(email)
		return nil, 0, ErrCodeExpired
	}

	if submitted != entry.Code {
		attempts := s.repo.IncrementAttempts(email)
		remaining := maxConfirmAttempts - attempts
		if remaining < 0 {
			remaining = 0
		}
		log.Printf("[otp][verify] mismatch for %s, %d attempts remaining", email, remaining)
		return nil, remaining, ErrCodeInvalid
	}

	// Single use: the entry is gone before the session exists.
	s.repo.Delete(email)

	sess, err := s.sessions.Create(email)
	if err != nil {
		return nil, 0, err
	}
	token, err := s.tokens.Issue(email, sess.ID)
	if err != nil {
		return nil, 0, err
	}

	log.Printf("[otp][verify] OK for %s session=%s", email, utils.ShortID(sess.ID))
	return &VerifyResult{Token: token, SessionID: sess.ID, Email: email}, 0, nil
}

// StartSweeper purges expired entries on a fixed interval. Verification already
// enforces expiry lazily, so this only bounds memory, it is not needed for
// correctness. The returned func stops the sweeper.
func (s *OTPService) StartSweeper() func() {
	ticker := time.NewTicker(sweepInterval)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-ticker.C:
				if n := s.repo.Sweep(time.Now()); n > 0 {
					log.Printf("[otp][sweep] removed %d expired entries", n)
				}
			case <-done:
				return
			}
		}
	}()
	return func() {
		ticker.Stop()
		close(done)
	}
}
