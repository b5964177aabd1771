// Package store persists flat-encoded programs in an on-disk cache keyed
// by a caller-supplied 28-byte script hash.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

var bucketPrograms = []byte("programs_by_hash")

func ensureDir(path string) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("store: mkdir %s: %w", path, err)
	}
	return nil
}

// ProgramCache is a blake2b-224-keyed store of flat-encoded program bytes,
// backed by a single-file bbolt database.
type ProgramCache struct {
	db *bolt.DB
}

// Open creates or opens a program cache rooted at dir. dir is created if it
// does not already exist.
func Open(dir string) (*ProgramCache, error) {
	if dir == "" {
		return nil, fmt.Errorf("store: cache dir required")
	}
	if err := ensureDir(dir); err != nil {
		return nil, err
	}
	path := filepath.Join(dir, "programs.db")
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("store: open bbolt: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketPrograms)
		return err
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: create bucket: %w", err)
	}
	return &ProgramCache{db: db}, nil
}

// Close releases the underlying database file.
func (c *ProgramCache) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Put stores flatBytes under hash, overwriting any existing entry.
func (c *ProgramCache) Put(hash [28]byte, flatBytes []byte) error {
	return c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketPrograms).Put(hash[:], flatBytes)
	})
}

// Get returns the flat-encoded bytes stored under hash, and whether an
// entry was found.
func (c *ProgramCache) Get(hash [28]byte) ([]byte, bool, error) {
	var out []byte
	found := false
	err := c.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketPrograms).Get(hash[:])
		if v == nil {
			return nil
		}
		found = true
		out = append([]byte(nil), v...)
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return out, found, nil
}

// Delete removes the entry stored under hash, if any.
func (c *ProgramCache) Delete(hash [28]byte) error {
	return c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketPrograms).Delete(hash[:])
	})
}
