package storage

import (
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

const bucketName = "storage"

// BoltStore implements the Store interface using BoltDB
type BoltStore struct {
	db    *bbolt.DB
	quota int64
}

// NewBoltStore opens (or creates) the bolt file at path. quota limits the
// size of a single value in bytes; zero means unlimited.
func NewBoltStore(path string, quota int64) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening boltdb: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating bucket: %w", err)
	}

	return &BoltStore{db: db, quota: quota}, nil
}

// Read retrieves the value stored under key
func (b *BoltStore) Read(key string) (string, bool, error) {
	var (
		value string
		ok    bool
	)
	err := b.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket([]byte(bucketName)).Get([]byte(key))
		if data == nil {
			return nil
		}
		// data is only valid for the life of the transaction
		value, ok = string(data), true
		return nil
	})
	if err != nil {
		return "", false, fmt.Errorf("reading %q: %w", key, err)
	}
	return value, ok, nil
}

// Write stores value under key
func (b *BoltStore) Write(key, value string) error {
	if err := checkQuota(b.quota, key, value); err != nil {
		return err
	}
	err := b.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).Put([]byte(key), []byte(value))
	})
	if err != nil {
		return fmt.Errorf("writing %q: %w", key, err)
	}
	return nil
}

// Close closes the database connection
func (b *BoltStore) Close() error {
	return b.db.Close()
}
