// ABOUTME: Badger-backed cache for computed dashboard results.
// ABOUTME: JSON values with TTL; day-keyed entries invalidated by prefix.
package cache

import (
	"encoding/json"
	"fmt"
	"time"

	badger "github.com/dgraph-io/badger/v3"
)

// Cache stores computed results keyed by concern and day so repeated
// dashboard renders do not recompute 28-day windows. Logging a day
// invalidates every derived entry; the store is never the source of
// truth for anything.
type Cache struct {
	db *badger.DB
}

// DefaultTTL bounds staleness even if invalidation is missed.
const DefaultTTL = 24 * time.Hour

// Open opens or creates the cache at dir.
func Open(dir string) (*Cache, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	return &Cache{db: db}, nil
}

// Close closes the underlying store.
func (c *Cache) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// Set stores v as JSON under key with the default TTL.
func (c *Cache) Set(key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal cache value: %w", err)
	}
	return c.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry([]byte(key), data).WithTTL(DefaultTTL)
		return txn.SetEntry(e)
	})
}

// Get loads the JSON value under key into v. Returns false when the key
// is absent or expired.
func (c *Cache) Get(key string, v interface{}) (bool, error) {
	var data []byte
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if err == badger.ErrKeyNotFound {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get cache value: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("unmarshal cache value: %w", err)
	}
	return true, nil
}

// InvalidatePrefix deletes every key under prefix. Called when a day is
// re-logged so derived results recompute.
func (c *Cache) InvalidatePrefix(prefix string) error {
	return c.db.Update(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		p := []byte(prefix)
		var keys [][]byte
		for it.Seek(p); it.ValidForPrefix(p); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		for _, k := range keys {
			if err := txn.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
}

// Key builds a cache key from a concern and its parts.
func Key(concern string, parts ...string) string {
	key := concern
	for _, p := range parts {
		key += ":" + p
	}
	return key
}
