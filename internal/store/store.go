package store

import (
	"sync"

	"github.com/cruxlabs/cruxd/internal/models"
)

// Claims is a process-lifetime, append-only list of processed claims.
// Handlers share one instance by handle; a mutex guards concurrent appends.
// There is no eviction and no persistence, contents are lost on restart.
type Claims struct {
	mu     sync.RWMutex
	claims []models.Claim
}

// NewClaims creates an empty claim store
func NewClaims() *Claims {
	return &Claims{}
}

// Append adds a claim to the end of the list
func (s *Claims) Append(claim models.Claim) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.claims = append(s.claims, claim)
}

// All returns a copy of the stored claims in insertion order
func (s *Claims) All() []models.Claim {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Claim, len(s.claims))
	copy(out, s.claims)
	return out
}

// Len returns the number of stored claims
func (s *Claims) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.claims)
}
