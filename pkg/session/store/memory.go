package store

import (
	"context"
	"sync"
	"time"

	"github.com/matzehuels/cfgview/pkg/session"
)

// MemoryStore keeps records in a map. Records are lost on restart.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]session.Record
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]session.Record)}
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*session.Record, error) {
	s.mu.RLock()
	rec, ok := s.records[id]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	if rec.IsExpired() {
		s.mu.Lock()
		delete(s.records, id)
		s.mu.Unlock()
		return nil, nil
	}
	rec.Input = append([]byte(nil), rec.Input...)
	return &rec, nil
}

func (s *MemoryStore) Set(ctx context.Context, rec *session.Record) error {
	if err := validID(rec.ID); err != nil {
		return err
	}
	cp := *rec
	cp.Input = append([]byte(nil), rec.Input...)
	s.mu.Lock()
	s.records[rec.ID] = cp
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	delete(s.records, id)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Cleanup(ctx context.Context) error {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, rec := range s.records {
		if now.After(rec.ExpiresAt) {
			delete(s.records, id)
		}
	}
	return nil
}

func (s *MemoryStore) Close() error { return nil }

// Len returns the number of stored records, expired ones included.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

var _ session.Store = (*MemoryStore)(nil)
