package persona

import (
	"context"
	"sort"
	"sync"
)

// InMemoryStore is a thread-safe, in-memory implementation of Store.
// Used in tests and when no persistent backend is configured.
type InMemoryStore struct {
	mu       sync.RWMutex
	nextID   int64
	personas map[int64]Persona
}

// Compile-time interface check.
var _ Store = (*InMemoryStore)(nil)

// NewInMemoryStore creates an empty in-memory persona store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{nextID: 1, personas: make(map[int64]Persona)}
}

// Put inserts or replaces a persona, assigning an ID when unset, and
// returns the stored value.
func (s *InMemoryStore) Put(p Persona) Persona {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == 0 {
		p.ID = s.nextID
		s.nextID++
	}
	s.personas[p.ID] = p
	return p
}

// GetByID returns the persona with the given ID.
func (s *InMemoryStore) GetByID(_ context.Context, id int64) (*Persona, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.personas[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

// GetByName returns the persona with the given name and version.
func (s *InMemoryStore) GetByName(_ context.Context, name, version string) (*Persona, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.personas {
		if p.Name == name && p.Version == version {
			return &p, nil
		}
	}
	return nil, ErrNotFound
}

// List returns personas sorted by name, hiding restricted ones unless
// includeRestricted is set.
func (s *InMemoryStore) List(_ context.Context, includeRestricted bool) ([]Persona, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Persona
	for _, p := range s.personas {
		if p.Restricted && !includeRestricted {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// AppendExperience appends a text fragment to the persona's experience log.
func (s *InMemoryStore) AppendExperience(_ context.Context, name, version, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, p := range s.personas {
		if p.Name == name && p.Version == version {
			p.Experiences = MergeExperience(p.Experiences, text)
			s.personas[id] = p
			return nil
		}
	}
	return ErrNotFound
}
