package sessions

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"
)

type memoryNamespace struct {
	values    map[string][]byte
	updatedAt time.Time
}

// MemoryRepository is process-local. Sessions do not survive a restart.
type MemoryRepository struct {
	mu   sync.RWMutex
	data map[string]*memoryNamespace
	now  func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{data: make(map[string]*memoryNamespace), now: time.Now}
}

func (r *MemoryRepository) Get(_ context.Context, namespace, key string) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ns, ok := r.data[namespace]
	if !ok {
		return nil, nil
	}
	v, ok := ns.values[key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), v...), nil
}

func (r *MemoryRepository) Set(_ context.Context, namespace, key string, value []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ns, ok := r.data[namespace]
	if !ok {
		ns = &memoryNamespace{values: make(map[string][]byte)}
		r.data[namespace] = ns
	}
	ns.values[key] = append([]byte(nil), value...)
	ns.updatedAt = r.now()
	return nil
}

func (r *MemoryRepository) SetAll(_ context.Context, namespace string, values map[string][]byte) error {
	ns := &memoryNamespace{values: make(map[string][]byte, len(values))}
	for k, v := range values {
		ns.values[k] = append([]byte(nil), v...)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	ns.updatedAt = r.now()
	r.data[namespace] = ns
	return nil
}

func (r *MemoryRepository) List(_ context.Context, namespace string) (map[string][]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make(map[string][]byte)
	if ns, ok := r.data[namespace]; ok {
		for k, v := range ns.values {
			result[k] = append([]byte(nil), v...)
		}
	}
	return result, nil
}

func (r *MemoryRepository) Clear(_ context.Context, namespace string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.data, namespace)
	return nil
}

func (r *MemoryRepository) Purge(_ context.Context, before time.Time, keep ...string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	for _, name := range keep {
		if ns, ok := r.data[name]; ok {
			ns.updatedAt = now
		}
	}
	var n int64
	for name, ns := range r.data {
		if ns.updatedAt.Before(before) && !slices.Contains(keep, name) {
			n += int64(len(ns.values))
			delete(r.data, name)
		}
	}
	return n, nil
}

func (r *MemoryRepository) Close() error { return nil }

func sortedKeys(m map[string][]byte) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
