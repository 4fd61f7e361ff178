package revocation

import (
	"context"
	"sync"
	"time"
)

// MemoryList is a process-local List used when Redis is not configured.
// Entries are purged lazily once expired.
type MemoryList struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

func NewMemoryList() *MemoryList {
	return &MemoryList{entries: make(map[string]time.Time), now: time.Now}
}

func (l *MemoryList) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	if jti == "" || ttl <= 0 {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for k, exp := range l.entries {
		if !now.Before(exp) {
			delete(l.entries, k)
		}
	}
	l.entries[jti] = now.Add(ttl)
	return nil
}

func (l *MemoryList) IsRevoked(_ context.Context, jti string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	exp, ok := l.entries[jti]
	if !ok {
		return false, nil
	}
	if !l.now().Before(exp) {
		delete(l.entries, jti)
		return false, nil
	}
	return true, nil
}
