package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryDenylist é a versão em processo do RedisDenylist
type MemoryDenylist struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

// NewMemoryDenylist cria um MemoryDenylist vazio
func NewMemoryDenylist() *MemoryDenylist {
	return &MemoryDenylist{
		entries: make(map[string]time.Time),
		now:     time.Now,
	}
}

func (d *MemoryDenylist) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.entries[tokenID] = d.now().Add(ttl)
	return nil
}

func (d *MemoryDenylist) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	expiresAt, ok := d.entries[tokenID]
	if !ok {
		return false, nil
	}
	if !d.now().Before(expiresAt) {
		delete(d.entries, tokenID)
		return false, nil
	}
	return true, nil
}
