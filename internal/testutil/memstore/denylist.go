package memstore

import (
	"context"
	"sync"
	"time"
)

// Denylist is an in-memory token denylist.
type Denylist struct {
	mu      sync.Mutex
	revoked map[string]time.Time

	// Err, when set, is returned by every method.
	Err error
}

// NewDenylist returns an empty Denylist.
func NewDenylist() *Denylist {
	return &Denylist{revoked: make(map[string]time.Time)}
}

// RevokeToken records token until expiresAt.
func (d *Denylist) RevokeToken(ctx context.Context, token string, expiresAt time.Time) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.Err != nil {
		return d.Err
	}
	d.revoked[token] = expiresAt
	return nil
}

// IsTokenRevoked reports whether token is revoked and not yet expired.
func (d *Denylist) IsTokenRevoked(ctx context.Context, token string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.Err != nil {
		return false, d.Err
	}
	exp, ok := d.revoked[token]
	return ok && time.Now().Before(exp), nil
}
