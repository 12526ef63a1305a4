package repositories

import (
	"sync"
	"time"

	"redline/internal/models"
)

// OTPRepository keeps pending verification codes. The in-memory map is fine
// for a single instance; run more than one and this must move to a shared
// keyed store, or two instances will each think they own an email's entry.
type OTPRepository interface {
	Get(email string) *models.OTPEntry
	Put(entry *models.OTPEntry)
	Delete(email string)
	IncrementAttempts(email string) int
	Sweep(now time.Time) int
}

type memoryOTPRepository struct {
	mu      sync.Mutex
	entries map[string]*models.OTPEntry
}

func NewMemoryOTPRepository() OTPRepository {
	return &memoryOTPRepository{entries: make(map[string]*models.OTPEntry)}
}

func (r *memoryOTPRepository) Get(email string) *models.OTPEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[email]
	if !ok {
		return nil
	}
	cp := *e
	return &cp
}

// Put replaces any previous entry for the same email.
func (r *memoryOTPRepository) Put(entry *models.OTPEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *entry
	r.entries[entry.Email] = &cp
}

func (r *memoryOTPRepository) Delete(email string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, email)
}

func (r *memoryOTPRepository) IncrementAttempts(email string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[email]
	if !ok {
		return 0
	}
	e.Attempts++
	return e.Attempts
}

// Sweep drops expired entries and reports how many were removed.
func (r *memoryOTPRepository) Sweep(now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for email, e := range r.entries {
		if now.After(e.ExpiresAt) {
			delete(r.entries, email)
			removed++
		}
	}
	return removed
}
