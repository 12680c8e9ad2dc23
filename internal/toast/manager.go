package toast

import (
	"strconv"
	"sync"
	"time"
)

const (
	// DefaultLimit is the number of toasts kept in the sequence
	DefaultLimit = 1

	// DefaultRemoveDelay is how long a dismissed toast stays in the
	// sequence before it is removed.
	DefaultRemoveDelay = 1000000 * time.Millisecond

	// maxSafeInteger is the largest integer a float64 represents exactly.
	// IDs wrap back to zero when the counter reaches it, so an ID can be
	// reused after 2^53-1 toasts.
	maxSafeInteger = 1<<53 - 1
)

// Listener receives the full toast sequence after every change
type Listener func(toasts []Toast)

// Manager owns the toast state. Build one at startup and share it.
type Manager struct {
	mu          sync.Mutex
	state       State
	limit       int
	removeDelay time.Duration
	scheduler   Scheduler
	counter     int64
	timers      map[string]Timer
	listeners   map[int]Listener
	nextListen  int
}

// Option configures a Manager
type Option func(*Manager)

// WithLimit sets how many toasts are kept; the oldest are evicted first
func WithLimit(limit int) Option {
	return func(m *Manager) { m.limit = limit }
}

// WithRemoveDelay sets the delay between dismissal and removal
func WithRemoveDelay(d time.Duration) Option {
	return func(m *Manager) { m.removeDelay = d }
}

// WithScheduler replaces the wall-clock scheduler
func WithScheduler(s Scheduler) Option {
	return func(m *Manager) { m.scheduler = s }
}

// WithInitialState seeds the toast sequence
func WithInitialState(state State) Option {
	return func(m *Manager) { m.state = State{Toasts: clone(state.Toasts)} }
}

// WithCounter sets the last issued ID counter value
func WithCounter(n int64) Option {
	return func(m *Manager) { m.counter = n }
}

// NewManager creates a Manager with the given options
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		state:       State{Toasts: []Toast{}},
		limit:       DefaultLimit,
		removeDelay: DefaultRemoveDelay,
		scheduler:   realScheduler{},
		timers:      make(map[string]Timer),
		listeners:   make(map[int]Listener),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Handle controls a toast created by Toast
type Handle struct {
	ID string
	m  *Manager
}

// Update merges patch into the toast
func (h *Handle) Update(patch Patch) {
	h.m.Dispatch(UpdateToast{ID: h.ID, Patch: patch})
}

// Dismiss closes the toast
func (h *Handle) Dismiss() {
	h.m.Dispatch(DismissToast{ID: h.ID})
}

// Toast adds a new open toast and returns its handle
func (m *Manager) Toast(props Props) *Handle {
	variant := props.Variant
	if variant == "" {
		variant = VariantDefault
	}

	id := m.genID()
	m.Dispatch(AddToast{Toast: Toast{
		ID:          id,
		Title:       props.Title,
		Description: props.Description,
		Open:        true,
		Variant:     variant,
	}})

	return &Handle{ID: id, m: m}
}

// Dismiss closes the toast with the given id, or all toasts when id is empty
func (m *Manager) Dismiss(id string) {
	m.Dispatch(DismissToast{ID: id})
}

// Toasts returns a copy of the current sequence
func (m *Manager) Toasts() []Toast {
	m.mu.Lock()
	defer m.mu.Unlock()
	return clone(m.state.Toasts)
}

// Subscribe registers l for change notifications. The returned function
// unregisters it.
func (m *Manager) Subscribe(l Listener) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := m.nextListen
	m.nextListen++
	m.listeners[key] = l
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.listeners, key)
	}
}

// Dispatch applies action and notifies subscribers before returning.
func (m *Manager) Dispatch(action Action) {
	m.mu.Lock()
	prev := m.state
	m.state = Reduce(m.state, action, m.limit)

	switch a := action.(type) {
	case DismissToast:
		for _, t := range prev.Toasts {
			if a.ID == "" || t.ID == a.ID {
				m.queueRemoval(t.ID)
			}
		}
	case RemoveToast:
		if a.ID == "" {
			for id := range m.timers {
				m.cancelRemoval(id)
			}
		} else {
			m.cancelRemoval(a.ID)
		}
	}

	snapshot := clone(m.state.Toasts)
	listeners := make([]Listener, 0, len(m.listeners))
	for i := 0; i < m.nextListen; i++ {
		if l, ok := m.listeners[i]; ok {
			listeners = append(listeners, l)
		}
	}
	m.mu.Unlock()

	for _, l := range listeners {
		l(snapshot)
	}
}

// queueRemoval schedules a RemoveToast for id unless one is already
// pending. Callers hold m.mu.
func (m *Manager) queueRemoval(id string) {
	if _, ok := m.timers[id]; ok {
		return
	}
	m.timers[id] = m.scheduler.AfterFunc(m.removeDelay, func() {
		m.Dispatch(RemoveToast{ID: id})
	})
}

// cancelRemoval forgets the pending removal for id. Callers hold m.mu.
func (m *Manager) cancelRemoval(id string) {
	if t, ok := m.timers[id]; ok {
		t.Stop()
		delete(m.timers, id)
	}
}

func (m *Manager) genID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter = (m.counter + 1) % maxSafeInteger
	return strconv.FormatInt(m.counter, 10)
}
