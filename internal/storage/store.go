// Package storage provides the synchronous key-value area the reimbursement
// collection is persisted in. It plays the part browser localStorage plays in
// a client-only deployment: string keys, string values, last write wins.
package storage

import (
	"errors"
	"fmt"
)

// ErrQuotaExceeded is returned by Write when a value does not fit in the
// store's configured quota.
var ErrQuotaExceeded = errors.New("storage quota exceeded")

// DefaultQuota matches the practical localStorage limit of 5MB.
const DefaultQuota = 5 << 20

// Store defines the interface for key-value storage operations
type Store interface {
	// Read returns the value stored under key. ok is false when the key
	// has never been written.
	Read(key string) (value string, ok bool, err error)

	// Write replaces the value stored under key.
	Write(key, value string) error
}

// checkQuota returns ErrQuotaExceeded when value is larger than quota.
// A quota of zero or less disables the check.
func checkQuota(quota int64, key, value string) error {
	if quota > 0 && int64(len(value)) > quota {
		return fmt.Errorf("writing %q (%d bytes, quota %d): %w", key, len(value), quota, ErrQuotaExceeded)
	}
	return nil
}
