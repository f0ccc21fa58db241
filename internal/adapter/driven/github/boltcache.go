package github

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gregjones/httpcache"
	"go.etcd.io/bbolt"
)

var cacheBucket = []byte("http_cache")

// Compile-time interface satisfaction check.
var _ httpcache.Cache = (*BoltCache)(nil)

// BoltCache is an httpcache.Cache stored in a single bbolt bucket, so cached
// ETags outlive the process.
type BoltCache struct {
	db *bbolt.DB
}

// OpenBoltCache opens (or creates) the cache file at path.
func OpenBoltCache(path string) (*BoltCache, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open http cache %s: %w", path, err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(cacheBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create http cache bucket: %w", err)
	}

	return &BoltCache{db: db}, nil
}

// Get returns the cached response bytes for key.
func (c *BoltCache) Get(key string) ([]byte, bool) {
	var out []byte
	err := c.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(cacheBucket).Get([]byte(key))
		if v != nil {
			// bbolt values are only valid inside the transaction.
			out = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		slog.Warn("http cache read failed", "key", key, "error", err)
		return nil, false
	}
	return out, out != nil
}

// Set stores resp under key. Failures are logged; the cache is best effort.
func (c *BoltCache) Set(key string, resp []byte) {
	err := c.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(cacheBucket).Put([]byte(key), resp)
	})
	if err != nil {
		slog.Warn("http cache write failed", "key", key, "error", err)
	}
}

// Delete removes key from the cache.
func (c *BoltCache) Delete(key string) {
	err := c.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(cacheBucket).Delete([]byte(key))
	})
	if err != nil {
		slog.Warn("http cache delete failed", "key", key, "error", err)
	}
}

// Close releases the underlying file.
func (c *BoltCache) Close() error {
	return c.db.Close()
}
