package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/rotisserie/eris"

	"github.com/JamieAtGit/shipping-emissions-project/internal/model"
)

// MemoryStore is the degraded fallback used when no persistent backend is
// available. It keeps the full Store contract, mutex-guarded, but loses all
// learning on process exit.
type MemoryStore struct {
	mu       sync.RWMutex
	brands   map[string]model.BrandOriginRecord
	priority map[string]model.Product
}

// NewMemory creates an empty in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{
		brands:   make(map[string]model.BrandOriginRecord),
		priority: make(map[string]model.Product),
	}
}

func (s *MemoryStore) Migrate(context.Context) error { return nil }
func (s *MemoryStore) Close() error                  { return nil }

func (s *MemoryStore) GetBrandOrigin(_ context.Context, brandKey string) (*model.BrandOriginRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if rec, ok := s.brands[brandKey]; ok {
		return &rec, nil
	}
	return nil, nil
}

func (s *MemoryStore) UpsertBrandOrigin(_ context.Context, rec model.BrandOriginRecord) error {
	if skipBrandUpsert(rec) {
		return nil
	}
	if rec.City == "" {
		rec.City = model.CountryUnknown
	}
	if rec.Tier == "" {
		rec.Tier = model.TierLearned
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.brands[rec.BrandKey]; ok && strings.EqualFold(existing.Country, rec.Country) {
		return nil
	}
	s.brands[rec.BrandKey] = rec
	return nil
}

func (s *MemoryStore) ListBrandOrigins(context.Context) ([]model.BrandOriginRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.BrandOriginRecord, 0, len(s.brands))
	for _, rec := range s.brands {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BrandKey < out[j].BrandKey })
	return out, nil
}

func (s *MemoryStore) DeleteBrandOrigin(_ context.Context, brandKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.brands, brandKey)
	return nil
}

func (s *MemoryStore) GetPriorityProduct(_ context.Context, identifier string) (*model.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.priority[identifier]; ok {
		return &p, nil
	}
	return nil, nil
}

func (s *MemoryStore) PutPriorityProduct(_ context.Context, p model.Product) error {
	if p.Identifier == "" {
		return eris.New("memory: priority product missing identifier")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.priority[p.Identifier]; ok {
		return nil
	}
	s.priority[p.Identifier] = p
	return nil
}

func (s *MemoryStore) ListPriorityProducts(context.Context) ([]model.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Product, 0, len(s.priority))
	for _, p := range s.priority {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Identifier < out[j].Identifier })
	return out, nil
}
