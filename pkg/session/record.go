package session

import (
	"context"
	"encoding/json"
	"time"
)

// Record is the persisted form of a session: the raw input and the detail
// setting. Layouts are recomputed on restore, never stored.
type Record struct {
	ID          string          `json:"id" bson:"_id"`
	Name        string          `json:"name,omitempty" bson:"name,omitempty"`
	Input       json.RawMessage `json:"input" bson:"input"`
	ShowDetails bool            `json:"show_details" bson:"show_details"`
	CreatedAt   time.Time       `json:"created_at" bson:"created_at"`
	ExpiresAt   time.Time       `json:"expires_at" bson:"expires_at"`
}

// IsExpired returns true if the record has outlived its TTL.
func (r *Record) IsExpired() bool {
	return time.Now().After(r.ExpiresAt)
}

// Store is the interface for session storage backends.
type Store interface {
	// Get retrieves a record by session id.
	// Returns nil, nil if the record doesn't exist or has expired.
	Get(ctx context.Context, id string) (*Record, error)

	// Set stores a record, replacing any previous one with the same id.
	Set(ctx context.Context, rec *Record) error

	// Delete removes a record. Deleting a missing record is not an error.
	Delete(ctx context.Context, id string) error

	// Cleanup removes expired records (may be a no-op for backends with native TTL).
	Cleanup(ctx context.Context) error

	// Close releases backend connections.
	Close() error
}

// Record captures the session for persistence with the given TTL.
func (s *Session) Record(ttl time.Duration) (*Record, error) {
	raw, err := s.RawInput()
	if err != nil {
		return nil, err
	}
	rec := &Record{
		ID:          s.id,
		Input:       raw,
		ShowDetails: s.ShowDetails(),
		CreatedAt:   s.createdAt,
		ExpiresAt:   time.Now().Add(ttl),
	}
	if g := s.Graph(); g != nil {
		rec.Name = g.Name()
	}
	return rec, nil
}

// Restore rebuilds a session from rec and lays its graph out from scratch.
func Restore(ctx context.Context, rec *Record, opts ...Option) (*Session, error) {
	opts = append(opts, WithID(rec.ID), WithShowDetails(rec.ShowDetails))
	s := New(opts...)
	s.createdAt = rec.CreatedAt
	if err := s.LoadBytes(ctx, "store:"+rec.ID, rec.Input); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}
