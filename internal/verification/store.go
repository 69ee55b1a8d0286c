package verification

import (
	"context"
	"crypto/rand"
	"errors"
	"log"
	"math/big"
	"strconv"
	"sync"
	"time"
)

// Verification errors returned by Verify.
var (
	ErrNotFound = errors.New("no verification code found for this email")
	ErrExpired  = errors.New("verification code has expired")
	ErrMismatch = errors.New("invalid verification code")
)

type entry struct {
	code      string
	expiresAt time.Time
}

// Store issues, validates, and expires single-use numeric verification
// codes keyed by email address. All operations are safe for concurrent use;
// a successful Verify removes the entry under the same lock that checked it,
// so a code can never be consumed twice.
type Store struct {
	mu      sync.Mutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time
}

// NewStore creates a Store whose codes expire after ttl.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Issue generates a random 6-digit code for email and stores it with a
// fresh expiry, overwriting any existing entry for that email. The returned
// code is for delivery to the patient only and must never appear in an API
// response.
func (s *Store) Issue(email string) (string, error) {
	code, err := generateCode()
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.entries[email] = entry{code: code, expiresAt: s.now().Add(s.ttl)}
	s.mu.Unlock()

	return code, nil
}

// Verify checks submittedCode against the stored code for email.
// It returns ErrNotFound when no code exists, ErrExpired when the code is
// past its TTL (the entry is removed), ErrMismatch when the code is wrong
// (the entry is kept), and nil on success (the entry is removed, codes are
// single-use).
func (s *Store) Verify(email, submittedCode string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[email]
	if !ok {
		return ErrNotFound
	}
	if s.now().After(e.expiresAt) {
		delete(s.entries, email)
		return ErrExpired
	}
	if e.code != submittedCode {
		return ErrMismatch
	}

	delete(s.entries, email)
	return nil
}

// Delete removes any stored code for email. Used by the resend flow to
// invalidate the previous code before issuing a new one.
func (s *Store) Delete(email string) {
	s.mu.Lock()
	delete(s.entries, email)
	s.mu.Unlock()
}

// Sweep removes every expired entry and returns how many were removed.
// Expiry is also checked lazily in Verify; sweeping only bounds memory
// growth from codes that are never verified.
func (s *Store) Sweep() int {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for email, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, email)
			removed++
		}
	}
	return removed
}

// Run sweeps the store on the given interval until ctx is cancelled.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := s.Sweep(); removed > 0 {
				log.Printf("Removed %d expired verification code(s)", removed)
			}
		}
	}
}

// generateCode returns a uniformly random 6-digit numeric string
// (100000-999999 inclusive).
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+100000, 10), nil
}
