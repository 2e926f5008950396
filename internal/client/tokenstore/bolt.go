package tokenstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/policyinsight/internal/filex"
	bolt "go.etcd.io/bbolt"
)

var credentialsBucket = []byte("credentials")

type boltRecord struct {
	Value     string    `json:"value"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
}

// BoltBackend stores credentials as JSON records in a bbolt bucket.
type BoltBackend struct {
	db  *bolt.DB
	now func() time.Time
}

// OpenBolt opens (creating if needed) the bbolt file at path.
func OpenBolt(path string) (*BoltBackend, error) {
	if err := filex.EnsureParentDir(path); err != nil {
		return nil, err
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt %s: %w", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(credentialsBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create bucket: %w", err)
	}

	return &BoltBackend{db: db, now: time.Now}, nil
}

func putRecord(tx *bolt.Tx, name, value string, expiresAt time.Time) error {
	data, err := json.Marshal(boltRecord{Value: value, ExpiresAt: expiresAt})
	if err != nil {
		return err
	}
	if err := tx.Bucket(credentialsBucket).Put([]byte(name), data); err != nil {
		return fmt.Errorf("failed to set credential[%s]: %w", name, err)
	}
	return nil
}

func (b *BoltBackend) Set(_ context.Context, name, value string, ttl time.Duration) error {
	expiresAt := expiry(b.now(), ttl)
	return b.db.Update(func(tx *bolt.Tx) error {
		return putRecord(tx, name, value, expiresAt)
	})
}

func (b *BoltBackend) SetMany(_ context.Context, entries []Entry) error {
	now := b.now()
	return b.db.Update(func(tx *bolt.Tx) error {
		for _, e := range entries {
			if err := putRecord(tx, e.Name, e.Value, expiry(now, e.TTL)); err != nil {
				return err
			}
		}
		return nil
	})
}

func (b *BoltBackend) Get(ctx context.Context, name string) (string, bool, error) {
	var (
		rec   boltRecord
		found bool
	)
	err := b.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(credentialsBucket).Get([]byte(name))
		if data == nil {
			return nil
		}
		found = true
		return json.Unmarshal(data, &rec)
	})
	if err != nil {
		return "", false, fmt.Errorf("failed to get credential[%s]: %w", name, err)
	}
	if !found {
		return "", false, nil
	}

	if expired(b.now(), rec.ExpiresAt) {
		if err := b.Delete(ctx, name); err != nil {
			return "", false, err
		}
		return "", false, nil
	}
	return rec.Value, true, nil
}

func (b *BoltBackend) Delete(_ context.Context, name string) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(credentialsBucket).Delete([]byte(name))
	})
}

func (b *BoltBackend) Clear(_ context.Context) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(credentialsBucket)
		for _, k := range AllKinds {
			if err := bucket.Delete([]byte(k)); err != nil {
				return err
			}
		}
		return nil
	})
}

func (b *BoltBackend) Close() error {
	return b.db.Close()
}
