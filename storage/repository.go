// Package storage provides the storage abstraction layer for server records.
//
// Records are opaque byte blobs (JSON in practice) keyed by a collection
// name and a record ID. The interface is deliberately small so the embedded
// BBolt backend, the in-memory backend used by tests, and the PostgreSQL
// backend stay interchangeable.
package storage

import "errors"

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrCollectionNotFound is returned when the collection has never been written to.
	ErrCollectionNotFound = errors.New("collection not found")
)

// Repository defines the interface for record storage.
type Repository interface {
	Put(collection string, recordID string, data []byte) error
	Get(collection string, recordID string) ([]byte, error)
	Delete(collection string, recordID string) error
	List(collection string) ([]string, error)
}

// Well-known collections.
const (
	CollectionUsers    = "users"
	CollectionSessions = "sessions"
	CollectionAudit    = "audit"
)
