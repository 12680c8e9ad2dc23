package reimbursement

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/cases"

	"github.com/zombor/reimburse-tracker/internal/storage"
)

const (
	// StorageKey is the key the whole collection is stored under
	StorageKey = "reimbursements"

	// DefaultLimit is the page size used when none is given
	DefaultLimit = 6

	// createdAtLayout matches JavaScript's Date.toISOString
	createdAtLayout = "2006-01-02T15:04:05.000Z"
)

// Delays are the artificial latencies applied before each operation
type Delays struct {
	List   time.Duration
	Get    time.Duration
	Create time.Duration
	Delete time.Duration
}

// DefaultDelays simulate a network round trip
var DefaultDelays = Delays{
	List:   300 * time.Millisecond,
	Get:    200 * time.Millisecond,
	Create: 500 * time.Millisecond,
	Delete: 300 * time.Millisecond,
}

// IDGenerator generates unique IDs for reimbursements
type IDGenerator interface {
	Generate() string
}

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

// defaultIDGenerator generates IDs from the millisecond clock, bumping the
// value when two calls land in the same millisecond
type defaultIDGenerator struct {
	mu   sync.Mutex
	last int64
}

func (g *defaultIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := time.Now().UnixMilli()
	if n <= g.last {
		n = g.last + 1
	}
	g.last = n
	return fmt.Sprintf("%d", n)
}

// defaultTimeSource provides the current time
type defaultTimeSource struct{}

func (t *defaultTimeSource) Now() time.Time {
	return time.Now()
}

// Service handles reimbursement operations over a key-value store
type Service struct {
	store       storage.Store
	idGenerator IDGenerator
	timeSource  TimeSource
	delays      Delays
	sleep       func(time.Duration)

	// mu serializes read-modify-write cycles on the collection
	mu sync.Mutex
}

// NewService creates a new Service with default ID generator and time source
func NewService(store storage.Store, delays Delays) *Service {
	return NewServiceWithDeps(store, &defaultIDGenerator{}, &defaultTimeSource{}, delays, time.Sleep)
}

// NewServiceWithDeps creates a new Service with custom dependencies for testing
func NewServiceWithDeps(store storage.Store, idGen IDGenerator, timeSrc TimeSource, delays Delays, sleep func(time.Duration)) *Service {
	return &Service{
		store:       store,
		idGenerator: idGen,
		timeSource:  timeSrc,
		delays:      delays,
		sleep:       sleep,
	}
}

// Initialize seeds the store with sample data when the collection has never
// been written. Calling it again is a no-op.
func (s *Service) Initialize() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initialize()
}

func (s *Service) initialize() error {
	stored, ok, err := s.store.Read(StorageKey)
	if err != nil {
		return fmt.Errorf("reading reimbursements: %w", err)
	}
	if ok && stored != "" {
		return nil
	}
	if err := s.save(SeedData()); err != nil {
		return fmt.Errorf("seeding reimbursements: %w", err)
	}
	return nil
}

// load returns the whole collection. Callers hold s.mu.
func (s *Service) load() ([]Reimbursement, error) {
	if err := s.initialize(); err != nil {
		return nil, err
	}
	stored, ok, err := s.store.Read(StorageKey)
	if err != nil {
		return nil, fmt.Errorf("reading reimbursements: %w", err)
	}
	reimbursements := make([]Reimbursement, 0)
	if !ok || stored == "" {
		return reimbursements, nil
	}
	if err := json.Unmarshal([]byte(stored), &reimbursements); err != nil {
		return nil, fmt.Errorf("unmarshaling reimbursements: %w", err)
	}
	if reimbursements == nil {
		reimbursements = make([]Reimbursement, 0)
	}
	return reimbursements, nil
}

// save rewrites the whole collection. Callers hold s.mu.
func (s *Service) save(reimbursements []Reimbursement) error {
	data, err := json.Marshal(reimbursements)
	if err != nil {
		return fmt.Errorf("marshaling reimbursements: %w", err)
	}
	if err := s.store.Write(StorageKey, string(data)); err != nil {
		return fmt.Errorf("writing reimbursements: %w", err)
	}
	return nil
}

// List returns one page of reimbursements whose name contains search,
// ignoring case. An empty search matches everything.
func (s *Service) List(page, limit int, search string) (*Page, error) {
	s.sleep(s.delays.List)

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultLimit
	}

	s.mu.Lock()
	reimbursements, err := s.load()
	s.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("listing reimbursements: %w", err)
	}

	if search != "" {
		fold := cases.Fold()
		needle := fold.String(search)
		filtered := make([]Reimbursement, 0, len(reimbursements))
		for _, r := range reimbursements {
			if strings.Contains(fold.String(r.Name), needle) {
				filtered = append(filtered, r)
			}
		}
		reimbursements = filtered
	}

	total := len(reimbursements)

	// Compare before multiplying so huge page or limit values cannot overflow
	start := total
	if page-1 <= total/limit {
		start = min((page-1)*limit, total)
	}
	end := start + min(limit, total-start)

	data := make([]Reimbursement, end-start)
	copy(data, reimbursements[start:end])

	pages := total / limit
	if total%limit != 0 {
		pages++
	}

	return &Page{
		Data:  data,
		Total: total,
		Pages: pages,
	}, nil
}

// GetByID retrieves a reimbursement by ID. It returns nil without an error
// when no reimbursement has that ID.
func (s *Service) GetByID(id string) (*Reimbursement, error) {
	s.sleep(s.delays.Get)

	s.mu.Lock()
	reimbursements, err := s.load()
	s.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("getting reimbursement: %w", err)
	}

	for i := range reimbursements {
		if reimbursements[i].ID == id {
			return &reimbursements[i], nil
		}
	}
	return nil, nil
}

// Create stores a new reimbursement at the front of the collection
func (s *Service) Create(input NewReimbursement) (*Reimbursement, error) {
	s.sleep(s.delays.Create)

	s.mu.Lock()
	defer s.mu.Unlock()

	reimbursements, err := s.load()
	if err != nil {
		return nil, fmt.Errorf("creating reimbursement: %w", err)
	}

	reimbursement := Reimbursement{
		ID:          s.idGenerator.Generate(),
		Name:        input.Name,
		Category:    input.Category,
		Amount:      input.Amount,
		Receipt:     input.Receipt,
		ReceiptName: input.ReceiptName,
		CreatedAt:   s.timeSource.Now().UTC().Format(createdAtLayout),
	}

	reimbursements = append([]Reimbursement{reimbursement}, reimbursements...)
	if err := s.save(reimbursements); err != nil {
		return nil, fmt.Errorf("creating reimbursement: %w", err)
	}

	return &reimbursement, nil
}

// Delete removes the reimbursement with the given ID. Deleting an unknown
// ID is not an error.
func (s *Service) Delete(id string) error {
	s.sleep(s.delays.Delete)

	s.mu.Lock()
	defer s.mu.Unlock()

	reimbursements, err := s.load()
	if err != nil {
		return fmt.Errorf("deleting reimbursement: %w", err)
	}

	remaining := make([]Reimbursement, 0, len(reimbursements))
	for _, r := range reimbursements {
		if r.ID != id {
			remaining = append(remaining, r)
		}
	}

	if err := s.save(remaining); err != nil {
		return fmt.Errorf("deleting reimbursement: %w", err)
	}
	return nil
}
