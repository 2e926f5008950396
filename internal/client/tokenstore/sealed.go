package tokenstore

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/policyinsight/internal/cryptox"
)

// sealSalt is fixed so that a passphrase always opens the same store.
var sealSalt = []byte("policyinsight/credentials/v1")

// SealedBackend encrypts values before handing them to the wrapped backend.
// Each value is bound to its name, so a ciphertext copied to another name
// does not open.
type SealedBackend struct {
	inner Backend
	key   []byte
}

// NewSealedBackend wraps inner with a key derived from passphrase.
func NewSealedBackend(inner Backend, passphrase string) *SealedBackend {
	return &SealedBackend{inner: inner, key: cryptox.DeriveKey([]byte(passphrase), sealSalt)}
}

func (s *SealedBackend) Set(ctx context.Context, name, value string, ttl time.Duration) error {
	sealed, err := cryptox.Seal([]byte(value), []byte(name), s.key)
	if err != nil {
		return fmt.Errorf("seal %s: %w", name, err)
	}
	return s.inner.Set(ctx, name, sealed, ttl)
}

// SetMany seals every entry and keeps the inner backend's atomicity when it
// has one.
func (s *SealedBackend) SetMany(ctx context.Context, entries []Entry) error {
	sealed := make([]Entry, 0, len(entries))
	for _, e := range entries {
		v, err := cryptox.Seal([]byte(e.Value), []byte(e.Name), s.key)
		if err != nil {
			return fmt.Errorf("seal %s: %w", e.Name, err)
		}
		sealed = append(sealed, Entry{Name: e.Name, Value: v, TTL: e.TTL})
	}

	if bs, ok := s.inner.(BatchSetter); ok {
		return bs.SetMany(ctx, sealed)
	}
	for _, e := range sealed {
		if err := s.inner.Set(ctx, e.Name, e.Value, e.TTL); err != nil {
			return err
		}
	}
	return nil
}

// Get returns an error, not absence, for values that do not open.
func (s *SealedBackend) Get(ctx context.Context, name string) (string, bool, error) {
	v, ok, err := s.inner.Get(ctx, name)
	if err != nil || !ok {
		return "", ok, err
	}
	plain, err := cryptox.Open(v, []byte(name), s.key)
	if err != nil {
		return "", false, fmt.Errorf("open %s: %w", name, err)
	}
	return string(plain), true, nil
}

func (s *SealedBackend) Delete(ctx context.Context, name string) error {
	return s.inner.Delete(ctx, name)
}

func (s *SealedBackend) Clear(ctx context.Context) error {
	return s.inner.Clear(ctx)
}

func (s *SealedBackend) Close() error {
	return s.inner.Close()
}
