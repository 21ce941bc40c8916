package cache

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	redis "github.com/redis/go-redis/v9"

	"printcost/internal/domain"
)

// SnapshotStore persists estimator sessions between visits.
type SnapshotStore interface {
	Load(ctx context.Context, id string) (*domain.Snapshot, bool, error)
	Save(ctx context.Context, id string, snapshot domain.Snapshot) error
	Delete(ctx context.Context, id string) error
}

// RedisSnapshotStore shares its key prefix with RedisCache so both live in
// one namespace on the same client.
type RedisSnapshotStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisSnapshotStore(client *redis.Client, prefix string, ttl time.Duration) *RedisSnapshotStore {
	return &RedisSnapshotStore{client: client, prefix: prefix, ttl: ttl}
}

func (s *RedisSnapshotStore) key(id string) string {
	return s.prefix + "session:" + id
}

func (s *RedisSnapshotStore) Load(ctx context.Context, id string) (*domain.Snapshot, bool, error) {
	val, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var snap domain.Snapshot
	if err := json.Unmarshal(val, &snap); err != nil {
		return nil, false, err
	}
	return &snap, true, nil
}

func (s *RedisSnapshotStore) Save(ctx context.Context, id string, snapshot domain.Snapshot) error {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(id), payload, s.ttl).Err()
}

func (s *RedisSnapshotStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, s.key(id)).Err()
}

// MemorySnapshotStore keeps snapshots in process. Used when Redis is not configured.
type MemorySnapshotStore struct {
	mu        sync.RWMutex
	snapshots map[string][]byte
}

func NewMemorySnapshotStore() *MemorySnapshotStore {
	return &MemorySnapshotStore{snapshots: make(map[string][]byte)}
}

func (s *MemorySnapshotStore) Load(_ context.Context, id string) (*domain.Snapshot, bool, error) {
	s.mu.RLock()
	payload, ok := s.snapshots[id]
	s.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	var snap domain.Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return nil, false, err
	}
	return &snap, true, nil
}

func (s *MemorySnapshotStore) Save(_ context.Context, id string, snapshot domain.Snapshot) error {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.snapshots[id] = payload
	s.mu.Unlock()
	return nil
}

func (s *MemorySnapshotStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.snapshots, id)
	s.mu.Unlock()
	return nil
}
