// Package session keeps estimator state between requests. Persistence is
// injected so the state store works the same over Redis, memory or a test fake.
package session

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	"github.com/google/uuid"

	"printcost/internal/domain"
)

var ErrInvalidID = errors.New("session id must be a uuid")

type Persistence struct {
	Load   func(ctx context.Context, id string) (*domain.Snapshot, bool, error)
	Save   func(ctx context.Context, id string, snapshot domain.Snapshot) error
	Delete func(ctx context.Context, id string) error
}

type Store struct {
	persist Persistence
	now     func() time.Time
	locks   [32]sync.Mutex
}

func New(persist Persistence) *Store {
	return &Store{persist: persist, now: func() time.Time { return time.Now().UTC() }}
}

func validID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return nil
}

func (s *Store) lock(id string) *sync.Mutex {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	return &s.locks[h.Sum32()%uint32(len(s.locks))]
}

// Get returns the saved snapshot, or an empty one for an unknown session.
func (s *Store) Get(ctx context.Context, id string) (domain.Snapshot, error) {
	if err := validID(id); err != nil {
		return domain.Snapshot{}, err
	}
	snap, ok, err := s.persist.Load(ctx, id)
	if err != nil {
		return domain.Snapshot{}, err
	}
	if !ok || snap == nil {
		return emptySnapshot(), nil
	}
	return normalize(*snap), nil
}

// Update loads, applies fn and saves under a per-session lock. Nothing is
// saved when fn fails.
func (s *Store) Update(ctx context.Context, id string, fn func(*domain.Snapshot) error) (domain.Snapshot, error) {
	if err := validID(id); err != nil {
		return domain.Snapshot{}, err
	}
	mu := s.lock(id)
	mu.Lock()
	defer mu.Unlock()

	current := emptySnapshot()
	loaded, ok, err := s.persist.Load(ctx, id)
	if err != nil {
		return domain.Snapshot{}, err
	}
	if ok && loaded != nil {
		current = normalize(*loaded)
	}

	if err := fn(&current); err != nil {
		return domain.Snapshot{}, err
	}
	current = normalize(current)
	current.SavedAt = s.now()
	if err := s.persist.Save(ctx, id, current); err != nil {
		return domain.Snapshot{}, err
	}
	return current, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	if err := validID(id); err != nil {
		return err
	}
	return s.persist.Delete(ctx, id)
}

func emptySnapshot() domain.Snapshot {
	return domain.Snapshot{
		Items:   []domain.OrderDetail{},
		Designs: []domain.PrintDesign{},
	}
}

func normalize(snap domain.Snapshot) domain.Snapshot {
	if snap.Items == nil {
		snap.Items = []domain.OrderDetail{}
	}
	if snap.Designs == nil {
		snap.Designs = []domain.PrintDesign{}
	}
	return snap
}
