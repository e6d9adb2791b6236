package catalog

import (
	"errors"
	"strings"
	"sync"

	"grocery-planner/internal/shared"
)

// ErrNotFound is returned when a product id is unknown.
var ErrNotFound = errors.New("product not found")

// Store is the session's append-only product cache. Safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	products []Product
	byID     map[int]int
	ids      shared.IDGenerator
	dedup    bool
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithDedup makes Append skip drafts whose (name, category) is already cached.
func WithDedup() StoreOption {
	return func(s *Store) {
		s.dedup = true
	}
}

// NewStore creates an empty store drawing ids from ids.
func NewStore(ids shared.IDGenerator, opts ...StoreOption) *Store {
	s := &Store{
		byID: make(map[int]int),
		ids:  ids,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Append assigns ids to drafts and adds them to the cache. It returns the
// stored products. With dedup enabled, an existing entry is returned in place
// of a duplicate draft.
func (s *Store) Append(drafts ...Product) []Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Product, 0, len(drafts))
	for _, p := range drafts {
		if s.dedup {
			if existing, ok := s.findLocked(p.Name, p.Category); ok {
				out = append(out, existing)
				continue
			}
		}
		p.ID = s.ids.Next()
		s.byID[p.ID] = len(s.products)
		s.products = append(s.products, p)
		out = append(out, p)
	}
	return out
}

func (s *Store) findLocked(name string, category Department) (Product, bool) {
	for _, p := range s.products {
		if p.Category == category && strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return Product{}, false
}

// Match returns every product whose name contains term, case-insensitively,
// in catalog order.
func (s *Store) Match(term string) []Product {
	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" {
		return nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Product
	for _, p := range s.products {
		if strings.Contains(strings.ToLower(p.Name), needle) {
			out = append(out, p)
		}
	}
	return out
}

// Product returns the product with the given id.
func (s *Store) Product(id int) (Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx, ok := s.byID[id]
	if !ok {
		return Product{}, false
	}
	return s.products[idx], true
}

// Get is Product with an error for unknown ids.
func (s *Store) Get(id int) (Product, error) {
	p, ok := s.Product(id)
	if !ok {
		return Product{}, ErrNotFound
	}
	return p, nil
}

// All returns a copy of the catalog in insertion order.
func (s *Store) All() []Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Product, len(s.products))
	copy(out, s.products)
	return out
}

// Len returns the number of cached products.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.products)
}
