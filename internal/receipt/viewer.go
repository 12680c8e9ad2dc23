package receipt

import (
	"fmt"
	"sync"
)

// Handle is a live object URL and the mode it should be shown in
type Handle struct {
	URL       string `json:"url"`
	Mode      Mode   `json:"mode"`
	MediaType string `json:"media_type"`
}

// Viewer shows one receipt at a time and owns at most one live handle
type Viewer struct {
	mu      sync.Mutex
	store   ObjectStore
	current *Handle
}

// NewViewer creates a Viewer backed by store
func NewViewer(store ObjectStore) *Viewer {
	return &Viewer{store: store}
}

// Open decodes encoded and makes it the viewer's current handle, releasing
// the previous one. On a decode failure the previous handle is still
// released and the viewer is left empty.
func (v *Viewer) Open(encoded string) (*Handle, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	blob, err := Decode(encoded)
	if err != nil {
		v.release()
		return nil, fmt.Errorf("opening receipt: %w", err)
	}

	next := &Handle{
		URL:       v.store.CreateObjectURL(blob),
		Mode:      ModeOf(blob.MediaType),
		MediaType: blob.MediaType,
	}
	v.release()
	v.current = next

	h := *next
	return &h, nil
}

// Current returns the live handle, or nil when nothing is open
func (v *Viewer) Current() *Handle {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.current == nil {
		return nil
	}
	h := *v.current
	return &h
}

// Close releases the current handle
func (v *Viewer) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.release()
}

// release revokes the current handle. Callers hold v.mu.
func (v *Viewer) release() {
	if v.current == nil {
		return
	}
	v.store.RevokeObjectURL(v.current.URL)
	v.current = nil
}
