package tokenstore

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/policyinsight/internal/logging"
)

// Policy holds token lifetimes and cookie attributes.
type Policy struct {
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	CSRFTTL    time.Duration
	// Secure marks cookies Secure; set in production.
	Secure bool
}

// DefaultPolicy returns access 1 day, refresh 7 days, CSRF 1 day.
func DefaultPolicy() Policy {
	return Policy{
		AccessTTL:  24 * time.Hour,
		RefreshTTL: 7 * 24 * time.Hour,
		CSRFTTL:    24 * time.Hour,
	}
}

// TTL returns the lifetime configured for kind.
func (p Policy) TTL(kind Kind) time.Duration {
	switch kind {
	case KindAccess:
		return p.AccessTTL
	case KindRefresh:
		return p.RefreshTTL
	case KindCSRF:
		return p.CSRFTTL
	default:
		return 0
	}
}

// Store is the credential store.
type Store struct {
	backend Backend
	policy  Policy
	logger  logging.Logger
}

func New(backend Backend, policy Policy, logger logging.Logger) *Store {
	return &Store{backend: backend, policy: policy, logger: logger}
}

func (s *Store) Policy() Policy {
	return s.policy
}

// Set persists value for kind with the given ttl, overwriting any previous value.
func (s *Store) Set(ctx context.Context, kind Kind, value string, ttl time.Duration) error {
	if err := s.backend.Set(ctx, string(kind), value, ttl); err != nil {
		return fmt.Errorf("store %s: %w", kind, err)
	}
	return nil
}

// Get returns the stored value for kind. Backend failures are logged and
// reported as absent.
func (s *Store) Get(ctx context.Context, kind Kind) (string, bool) {
	v, ok, err := s.backend.Get(ctx, string(kind))
	if err != nil {
		s.logger.Warn(ctx, "credential read failed", "kind", string(kind), "error", err)
		return "", false
	}
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// Clear removes the value for kind.
func (s *Store) Clear(ctx context.Context, kind Kind) error {
	if err := s.backend.Delete(ctx, string(kind)); err != nil {
		return fmt.Errorf("clear %s: %w", kind, err)
	}
	return nil
}

// ClearAll removes every persisted token.
func (s *Store) ClearAll(ctx context.Context) error {
	if err := s.backend.Clear(ctx); err != nil {
		return fmt.Errorf("clear credentials: %w", err)
	}
	return nil
}

// SetTokens stores the access and refresh tokens with the policy lifetimes.
// An empty refresh token keeps the one already stored, which is what a
// refresh response without rotation needs.
func (s *Store) SetTokens(ctx context.Context, access, refresh string) error {
	entries := []Entry{{Name: string(KindAccess), Value: access, TTL: s.policy.AccessTTL}}
	if refresh != "" {
		entries = append(entries, Entry{Name: string(KindRefresh), Value: refresh, TTL: s.policy.RefreshTTL})
	}

	if bs, ok := s.backend.(BatchSetter); ok {
		if err := bs.SetMany(ctx, entries); err != nil {
			return fmt.Errorf("store tokens: %w", err)
		}
		return nil
	}

	for _, e := range entries {
		if err := s.backend.Set(ctx, e.Name, e.Value, e.TTL); err != nil {
			return fmt.Errorf("store %s: %w", e.Name, err)
		}
	}
	return nil
}

func (s *Store) SetCSRFToken(ctx context.Context, token string) error {
	return s.Set(ctx, KindCSRF, token, s.policy.CSRFTTL)
}

func (s *Store) AccessToken(ctx context.Context) (string, bool) {
	return s.Get(ctx, KindAccess)
}

func (s *Store) RefreshToken(ctx context.Context) (string, bool) {
	return s.Get(ctx, KindRefresh)
}

func (s *Store) CSRFToken(ctx context.Context) (string, bool) {
	return s.Get(ctx, KindCSRF)
}

// HasSession reports whether both the access and the refresh token are
// present. It makes no network call.
func (s *Store) HasSession(ctx context.Context) bool {
	if _, ok := s.AccessToken(ctx); !ok {
		return false
	}
	_, ok := s.RefreshToken(ctx)
	return ok
}

func (s *Store) Close() error {
	return s.backend.Close()
}
