package bbolt

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/ceciliaos/ceciliad/storage"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewRepositoryFromFile(filepath.Join(t.TempDir(), "test.db"), nil)
	if err != nil {
		t.Fatalf("NewRepositoryFromFile: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore(t *testing.T) {
	s := newTestStore(t)

	t.Run("PutAndGet", func(t *testing.T) {
		if err := s.Put("users", "alice", []byte("payload")); err != nil {
			t.Fatalf("Put: %v", err)
		}
		data, err := s.Get("users", "alice")
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if string(data) != "payload" {
			t.Fatalf("got %q", data)
		}
	})

	t.Run("GetMissing", func(t *testing.T) {
		_, err := s.Get("users", "nobody")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Fatalf("got %v, want ErrNotFound", err)
		}
	})

	t.Run("GetMissingCollection", func(t *testing.T) {
		_, err := s.Get("ghosts", "x")
		if !errors.Is(err, storage.ErrCollectionNotFound) {
			t.Fatalf("got %v, want ErrCollectionNotFound", err)
		}
	})

	t.Run("DeleteMissing", func(t *testing.T) {
		s.Put("sessions", "seed", []byte("x"))
		if err := s.Delete("sessions", "never"); !errors.Is(err, storage.ErrNotFound) {
			t.Fatalf("got %v, want ErrNotFound", err)
		}
	})

	t.Run("DeleteAndList", func(t *testing.T) {
		st := newTestStore(t)
		st.Put("sessions", "t1", []byte("a"))
		st.Put("sessions", "t2", []byte("b"))
		if err := st.Delete("sessions", "t1"); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		ids, err := st.List("sessions")
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(ids) != 1 || ids[0] != "t2" {
			t.Fatalf("got %v, want [t2]", ids)
		}
	})

	t.Run("ListEmptyCollection", func(t *testing.T) {
		ids, err := s.List("nothing-here")
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(ids) != 0 {
			t.Fatalf("got %v, want empty", ids)
		}
	})

	t.Run("SurvivesReopen", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "reopen.db")
		s1, err := NewRepositoryFromFile(path, nil)
		if err != nil {
			t.Fatalf("open: %v", err)
		}
		s1.Put("users", "persist", []byte("kept"))
		s1.Close()

		s2, err := NewRepositoryFromFile(path, nil)
		if err != nil {
			t.Fatalf("reopen: %v", err)
		}
		defer s2.Close()
		data, err := s2.Get("users", "persist")
		if err != nil {
			t.Fatalf("Get after reopen: %v", err)
		}
		if string(data) != "kept" {
			t.Fatalf("got %q, want kept", data)
		}
	})
}
