package receipt

import (
	"sync"

	"github.com/google/uuid"
)

const objectURLPrefix = "blob:"

// ObjectStore hands out object URLs for blobs and releases them
type ObjectStore interface {
	CreateObjectURL(blob *Blob) string
	RevokeObjectURL(url string)
}

// Registry is an in-process ObjectStore. Every URL it creates holds its
// blob in memory until revoked.
type Registry struct {
	mu    sync.RWMutex
	blobs map[string]*Blob
}

// NewRegistry creates an empty Registry
func NewRegistry() *Registry {
	return &Registry{blobs: make(map[string]*Blob)}
}

// CreateObjectURL registers blob and returns its URL
func (r *Registry) CreateObjectURL(blob *Blob) string {
	url := objectURLPrefix + uuid.NewString()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.blobs[url] = blob
	return url
}

// RevokeObjectURL releases url. Unknown URLs are ignored.
func (r *Registry) RevokeObjectURL(url string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.blobs, url)
}

// Lookup returns the blob behind a live URL
func (r *Registry) Lookup(url string) (*Blob, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	blob, ok := r.blobs[url]
	return blob, ok
}

// Live returns the number of unreleased URLs
func (r *Registry) Live() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.blobs)
}
