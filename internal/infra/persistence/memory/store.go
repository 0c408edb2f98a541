// Package memory provides an in-memory persistent store used for tests and
// ephemeral sessions.
package memory

import (
	"context"
	"sync"

	"fopmanager/pkg/domain"
)

var _ domain.PersistentStore = (*Store)(nil)

// Store keeps the last saved snapshot in process memory.
type Store struct {
	mu       sync.RWMutex
	snapshot domain.Snapshot
	saved    bool
}

// NewStore returns an empty store.
func NewStore() *Store { return &Store{} }

// Load returns a copy of the last saved snapshot.
func (s *Store) Load(ctx context.Context) (domain.Snapshot, bool, error) {
	if err := ctx.Err(); err != nil {
		return domain.Snapshot{}, false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.saved {
		return domain.Snapshot{}, false, nil
	}
	return cloneSnapshot(s.snapshot), true, nil
}

// Save replaces the stored snapshot with a copy of snapshot.
func (s *Store) Save(ctx context.Context, snapshot domain.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = cloneSnapshot(snapshot)
	s.saved = true
	return nil
}

// Close is a no-op.
func (s *Store) Close() error { return nil }

func cloneSnapshot(in domain.Snapshot) domain.Snapshot {
	out := domain.Snapshot{
		Persons: make([]domain.Person, len(in.Persons)),
		Groups:  append([]domain.Group(nil), in.Groups...),
		Houses:  append([]domain.House(nil), in.Houses...),
	}
	for i, p := range in.Persons {
		p.Tags = append([]string(nil), p.Tags...)
		out.Persons[i] = p
	}
	return out
}
