package session

// Store abstracts session CRUD so that sessions can be kept in-memory
// (default) or in persistent backing storage across restarts.
type Store interface {
	// Get retrieves a session by token. Returns false if the token is unknown.
	// Expiry is the Manager's concern, not the store's.
	Get(token string) (Session, bool)
	// Put creates or updates the session keyed by its token.
	Put(s Session) error
	// Delete removes a session by token. Deleting a missing token is a no-op.
	Delete(token string)
}
