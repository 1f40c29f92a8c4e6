// Package memory provides a thread-safe in-memory implementation of storage.Repository.
package memory

import (
	"sync"

	"github.com/ceciliaos/ceciliad/storage"
)

// Repository is a thread-safe in-memory implementation of storage.Repository.
// Suitable for tests and single-process demos; everything is lost on exit.
type Repository struct {
	mu   sync.RWMutex
	data map[string]map[string][]byte
}

var _ storage.Repository = (*Repository)(nil)

// NewRepository creates a new empty in-memory Repository.
func NewRepository() *Repository {
	return &Repository{data: make(map[string]map[string][]byte)}
}

func (r *Repository) Put(collection, recordID string, data []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[collection]; !ok {
		r.data[collection] = make(map[string][]byte)
	}
	r.data[collection][recordID] = append([]byte(nil), data...)
	return nil
}

func (r *Repository) Get(collection, recordID string) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	records, ok := r.data[collection]
	if !ok {
		return nil, storage.ErrCollectionNotFound
	}
	data, ok := records[recordID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return append([]byte(nil), data...), nil
}

func (r *Repository) Delete(collection, recordID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	records, ok := r.data[collection]
	if !ok {
		return storage.ErrCollectionNotFound
	}
	if _, ok := records[recordID]; !ok {
		return storage.ErrNotFound
	}
	delete(records, recordID)
	return nil
}

func (r *Repository) List(collection string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var ids []string
	for id := range r.data[collection] {
		ids = append(ids, id)
	}
	return ids, nil
}
