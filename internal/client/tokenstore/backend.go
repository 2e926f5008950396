package tokenstore

import (
	"context"
	"time"
)

// Kind names a persisted token. The values double as cookie names.
type Kind string

const (
	KindAccess  Kind = "accessToken"
	KindRefresh Kind = "refreshToken"
	KindCSRF    Kind = "csrfToken"
)

// AllKinds lists every token the store manages.
var AllKinds = []Kind{KindAccess, KindRefresh, KindCSRF}

// Backend is the raw persistence used by Store.
type Backend interface {
	// Set stores value under name, replacing any previous value.
	Set(ctx context.Context, name, value string, ttl time.Duration) error
	// Get returns the value and true, or false when absent or expired.
	Get(ctx context.Context, name string) (string, bool, error)
	// Delete removes name. Deleting an absent name is not an error.
	Delete(ctx context.Context, name string) error
	// Clear removes every name in AllKinds.
	Clear(ctx context.Context) error
	Close() error
}

// Entry is one value of a batch write.
type Entry struct {
	Name  string
	Value string
	TTL   time.Duration
}

// BatchSetter is implemented by backends that can write several entries
// atomically.
type BatchSetter interface {
	SetMany(ctx context.Context, entries []Entry) error
}

func expiry(now time.Time, ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return now.Add(ttl)
}

func expired(now, expiresAt time.Time) bool {
	return !expiresAt.IsZero() && !expiresAt.After(now)
}
