package session

import (
	"testing"
	"time"

	"github.com/ceciliaos/ceciliad/storage"
	"github.com/ceciliaos/ceciliad/storage/memory"
)

// storeTests runs the common suite against any Store implementation.
func storeTests(t *testing.T, store Store) {
	t.Helper()

	t.Run("PutAndGet", func(t *testing.T) {
		s := Session{
			Token:     "tok-1",
			Username:  "alice",
			IssuedAt:  time.Now(),
			ExpiresAt: time.Now().Add(time.Hour),
		}
		if err := store.Put(s); err != nil {
			t.Fatalf("Put: %v", err)
		}
		got, ok := store.Get("tok-1")
		if !ok {
			t.Fatal("expected to find session")
		}
		if got.Username != "alice" {
			t.Fatalf("got Username %q, want %q", got.Username, "alice")
		}
	})

	t.Run("GetMissing", func(t *testing.T) {
		_, ok := store.Get("no-such-token")
		if ok {
			t.Fatal("expected not found for missing token")
		}
	})

	t.Run("Delete", func(t *testing.T) {
		store.Put(Session{Token: "tok-del", Username: "bob", ExpiresAt: time.Now().Add(time.Hour)})
		store.Delete("tok-del")
		if _, ok := store.Get("tok-del"); ok {
			t.Fatal("expected session to be deleted")
		}
	})

	t.Run("DeleteMissing", func(t *testing.T) {
		// Should not panic and not error.
		store.Delete("never-existed")
	})

	t.Run("Overwrite", func(t *testing.T) {
		store.Put(Session{Token: "tok-ow", Username: "v1", ExpiresAt: time.Now().Add(time.Hour)})
		store.Put(Session{Token: "tok-ow", Username: "v2", ExpiresAt: time.Now().Add(time.Hour)})
		got, ok := store.Get("tok-ow")
		if !ok {
			t.Fatal("expected session after overwrite")
		}
		if got.Username != "v2" {
			t.Fatalf("got Username %q, want %q", got.Username, "v2")
		}
	})
}

func TestMemoryStore(t *testing.T) {
	storeTests(t, NewMemoryStore())
}

func TestPersistentStore(t *testing.T) {
	repo := memory.NewRepository()
	store := NewPersistentStore(repo)
	defer store.Close()

	storeTests(t, store)

	t.Run("SurvivesReopen", func(t *testing.T) {
		repo2 := memory.NewRepository()
		s1 := NewPersistentStore(repo2)
		s1.Put(Session{Token: "tok-persist", Username: "alice", ExpiresAt: time.Now().Add(time.Hour)})
		s1.Close()

		s2 := NewPersistentStore(repo2)
		defer s2.Close()
		got, ok := s2.Get("tok-persist")
		if !ok {
			t.Fatal("expected session to survive store reopen")
		}
		if got.Username != "alice" {
			t.Fatalf("got Username %q, want %q", got.Username, "alice")
		}
	})

	t.Run("SweepExpired", func(t *testing.T) {
		repo3 := memory.NewRepository()
		s := NewPersistentStore(repo3)
		defer s.Close()

		s.Put(Session{Token: "tok-sweep", Username: "alice", ExpiresAt: time.Now().Add(-time.Hour)})
		s.sweepExpired()

		if _, err := repo3.Get(storage.CollectionSessions, "tok-sweep"); err == nil {
			t.Fatal("expected expired session to be removed by sweep")
		}
	})

	t.Run("SweepRemovesCorrupt", func(t *testing.T) {
		repo4 := memory.NewRepository()
		s := NewPersistentStore(repo4)
		defer s.Close()

		repo4.Put(storage.CollectionSessions, "tok-bad", []byte("{not json"))
		s.sweepExpired()

		if _, err := repo4.Get(storage.CollectionSessions, "tok-bad"); err == nil {
			t.Fatal("expected corrupt session to be removed by sweep")
		}
	})
}
