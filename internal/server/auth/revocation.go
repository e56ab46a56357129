package auth

import (
	"sync"
	"time"
)

// nowFunc is a test seam for time.Now.
var nowFunc = time.Now

// RevocationList is a process-wide deny-list of tokens invalidated before
// their natural expiry (logout). It is safe for concurrent use and is not
// durable: a restart empties it, which is acceptable because entries would
// only outlive the access-token TTL anyway.
type RevocationList struct {
	mu      sync.RWMutex
	revoked map[string]time.Time
}

func NewRevocationList() *RevocationList {
	return &RevocationList{revoked: make(map[string]time.Time)}
}

// Revoke adds the raw token to the list until exp, after which the token is
// rejected by expiry alone and the entry can be dropped. Revoking the same
// token twice is a no-op.
func (r *RevocationList) Revoke(token string, exp time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.revoked[token] = exp
	r.prune()
}

// IsRevoked reports whether token was revoked and has not yet passed its
// natural expiry.
func (r *RevocationList) IsRevoked(token string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	exp, ok := r.revoked[token]
	return ok && nowFunc().Before(exp)
}

// prune drops entries whose tokens have expired on their own.
// Caller must hold the write lock.
func (r *RevocationList) prune() {
	now := nowFunc()
	for token, exp := range r.revoked {
		if !now.Before(exp) {
			delete(r.revoked, token)
		}
	}
}
