package memory

import (
	"context"
	"sync"
	"time"
)

// Revocations is the fallback token revocation list used when Redis is not
// configured. Expired entries are pruned on write.
type Revocations struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

func NewRevocations() *Revocations {
	return &Revocations{entries: make(map[string]time.Time), now: time.Now}
}

func (r *Revocations) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	for id, until := range r.entries {
		if !now.Before(until) {
			delete(r.entries, id)
		}
	}
	r.entries[tokenID] = now.Add(ttl)
	return nil
}

func (r *Revocations) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	until, ok := r.entries[tokenID]
	return ok && r.now().Before(until), nil
}
