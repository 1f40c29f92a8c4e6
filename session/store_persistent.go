package session

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/ceciliaos/ceciliad/storage"
)

const sweepInterval = 5 * time.Minute

// PersistentStore keeps sessions in a storage.Repository so they survive
// server restarts. A background loop sweeps expired records; the sweep is
// hygiene only — validation never resurrects an expired session.
type PersistentStore struct {
	repo     storage.Repository
	stopOnce sync.Once
	stopCh   chan struct{}
}

var _ Store = (*PersistentStore)(nil)

// NewPersistentStore creates a session store backed by the given repository.
func NewPersistentStore(repo storage.Repository) *PersistentStore {
	s := &PersistentStore{
		repo:   repo,
		stopCh: make(chan struct{}),
	}
	go s.sweepLoop()
	return s
}

// Close stops the background sweep goroutine.
func (s *PersistentStore) Close() {
	s.stopOnce.Do(func() { close(s.stopCh) })
}

func (s *PersistentStore) Get(token string) (Session, bool) {
	data, err := s.repo.Get(storage.CollectionSessions, token)
	if err != nil {
		return Session{}, false
	}
	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return Session{}, false
	}
	return sess, true
}

func (s *PersistentStore) Put(sess Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.repo.Put(storage.CollectionSessions, sess.Token, data)
}

func (s *PersistentStore) Delete(token string) {
	_ = s.repo.Delete(storage.CollectionSessions, token)
}

func (s *PersistentStore) sweepLoop() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.sweepExpired()
		}
	}
}

func (s *PersistentStore) sweepExpired() {
	tokens, err := s.repo.List(storage.CollectionSessions)
	if err != nil {
		return
	}
	now := time.Now()
	for _, token := range tokens {
		data, err := s.repo.Get(storage.CollectionSessions, token)
		if err != nil {
			continue
		}
		var sess Session
		if err := json.Unmarshal(data, &sess); err != nil {
			// Corrupt entry — remove it.
			_ = s.repo.Delete(storage.CollectionSessions, token)
			continue
		}
		if now.After(sess.ExpiresAt) {
			_ = s.repo.Delete(storage.CollectionSessions, token)
		}
	}
}
