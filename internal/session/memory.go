package session

import (
	"context"
	"hash/fnv"
	"sync"
	"time"
)

// shardCount must be a power of two. 32 shards keeps unrelated sessions from
// serializing on one mutex without meaningful memory cost.
const shardCount = 32

type shard struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

// MemoryStore is the process-local session table: a sharded, mutex-guarded
// map with idle-TTL eviction. Sessions idle past the TTL are evicted
// opportunistically during lookups, the same discipline the rate limiter
// uses for its visitor buckets.
type MemoryStore struct {
	shards [shardCount]*shard
	ttl    time.Duration

	cleanupMu sync.Mutex
	cleanupN  uint64
}

// NewMemoryStore builds an in-memory store. Sessions idle longer than ttl
// are treated as expired; ttl <= 0 disables eviction.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	ms := &MemoryStore{ttl: ttl}
	for i := range ms.shards {
		ms.shards[i] = &shard{sessions: make(map[string]*Session)}
	}
	return ms
}

func (ms *MemoryStore) shardFor(id string) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	return ms.shards[h.Sum32()&(shardCount-1)]
}

// maybeSweep evicts idle sessions after a threshold of lookups.
func (ms *MemoryStore) maybeSweep(now time.Time) {
	if ms.ttl <= 0 {
		return
	}
	ms.cleanupMu.Lock()
	ms.cleanupN++
	run := ms.cleanupN >= 1000
	if run {
		ms.cleanupN = 0
	}
	ms.cleanupMu.Unlock()
	if !run {
		return
	}

	for _, sh := range ms.shards {
		sh.mu.Lock()
		for id, s := range sh.sessions {
			if now.Sub(s.LastSeen) >= ms.ttl {
				delete(sh.sessions, id)
			}
		}
		sh.mu.Unlock()
	}
}

// Get returns a copy of the tracked session, or nil when the id is unknown
// or has idled out.
func (ms *MemoryStore) Get(_ context.Context, id string) (*Session, error) {
	now := time.Now().UTC()
	ms.maybeSweep(now)

	sh := ms.shardFor(id)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	s, ok := sh.sessions[id]
	if !ok {
		return nil, nil
	}
	if ms.ttl > 0 && now.Sub(s.LastSeen) >= ms.ttl {
		delete(sh.sessions, id)
		return nil, nil
	}

	cp := *s
	cp.History = append([]Turn(nil), s.History...)
	return &cp, nil
}

// Put stores a copy of the session and bumps its revision.
func (ms *MemoryStore) Put(_ context.Context, s *Session) error {
	sh := ms.shardFor(s.ID)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	s.Rev++
	cp := *s
	cp.History = append([]Turn(nil), s.History...)
	sh.sessions[s.ID] = &cp
	return nil
}

// Delete removes the session, reporting whether it existed.
func (ms *MemoryStore) Delete(_ context.Context, id string) (bool, error) {
	sh := ms.shardFor(id)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	if _, ok := sh.sessions[id]; !ok {
		return false, nil
	}
	delete(sh.sessions, id)
	return true, nil
}

// CompareAndDelete removes the session only when its revision is unchanged.
func (ms *MemoryStore) CompareAndDelete(_ context.Context, id string, rev int64) (bool, error) {
	sh := ms.shardFor(id)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	s, ok := sh.sessions[id]
	if !ok || s.Rev != rev {
		return false, nil
	}
	delete(sh.sessions, id)
	return true, nil
}

var _ Store = (*MemoryStore)(nil)
