package scenario

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/corytimmons1688/operations-dashboard-v2-sub000/internal/models"
)

// Store is the process-wide keyed collection of named scenarios. A single
// mutex guards all read-modify-write sequences so concurrent sessions
// cannot lose updates; approval is a pointer into the map, not a flag on
// the scenario, so approving a new scenario silently supersedes the old.
type Store struct {
	mu       sync.RWMutex
	items    map[string]*models.Scenario
	approved string
}

// NewStore creates an empty scenario store.
func NewStore() *Store {
	return &Store{items: make(map[string]*models.Scenario)}
}

// Save inserts or replaces a scenario by name (name is the idempotency
// key). Missing ID and CreatedAt are filled in.
func (s *Store) Save(sc models.Scenario) models.Scenario {
	if sc.ID == "" {
		sc.ID = uuid.New().String()
	}
	if sc.CreatedAt.IsZero() {
		sc.CreatedAt = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	stored := sc.Clone()
	s.items[sc.Name] = &stored
	return sc
}

// Get returns the scenario with the given name.
func (s *Store) Get(name string) (*models.Scenario, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sc, ok := s.items[name]
	if !ok {
		return nil, &NotFoundError{Name: name}
	}
	copied := sc.Clone()
	return &copied, nil
}

// List returns all scenarios ordered by creation time.
func (s *Store) List() []models.Scenario {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Scenario, 0, len(s.items))
	for _, sc := range s.items {
		out = append(out, sc.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].Name < out[j].Name
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Delete removes a scenario. Deleting the approved scenario clears the
// approval pointer.
func (s *Store) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[name]; !ok {
		return &NotFoundError{Name: name}
	}
	delete(s.items, name)
	if s.approved == name {
		s.approved = ""
	}
	return nil
}

// Approve marks the named scenario as the single approved one. At most one
// scenario is approved at a time; approvals are last-write-wins.
func (s *Store) Approve(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[name]; !ok {
		return &NotFoundError{Name: name}
	}
	s.approved = name
	return nil
}

// Approved returns the currently approved scenario, or nil when none is.
func (s *Store) Approved() *models.Scenario {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.approved == "" {
		return nil
	}
	sc, ok := s.items[s.approved]
	if !ok {
		return nil
	}
	copied := sc.Clone()
	return &copied
}

// Len returns the number of stored scenarios.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
