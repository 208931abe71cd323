package store

import (
	"sort"
	"sync"

	"go-storefront/models"
)

// FavoriteSet is one session's favorite product ids. Favorites never touch
// the catalog's product data.
type FavoriteSet struct {
	mu  sync.Mutex
	ids map[models.ID]struct{}
}

func NewFavoriteSet() *FavoriteSet {
	return &FavoriteSet{ids: make(map[models.ID]struct{})}
}

// Toggle adds id if absent or removes it if present, returning the new membership
func (s *FavoriteSet) Toggle(id models.ID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ids[id]; ok {
		delete(s.ids, id)
		return false
	}
	s.ids[id] = struct{}{}
	return true
}

func (s *FavoriteSet) Has(id models.ID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.ids[id]
	return ok
}

// IDs returns the members sorted for stable output
func (s *FavoriteSet) IDs() []models.ID {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.ID, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (s *FavoriteSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ids)
}
