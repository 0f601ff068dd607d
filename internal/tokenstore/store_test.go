package tokenstore

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMemory_AuthRoundTrip(t *testing.T) {
	s := NewMemory()
	if s.Auth() != "" {
		t.Errorf("fresh store Auth() = %q, want empty", s.Auth())
	}
	s.SetAuth("jwt-token")
	if s.Auth() != "jwt-token" {
		t.Errorf("Auth() = %q, want jwt-token", s.Auth())
	}
	s.ClearAuth()
	if s.Auth() != "" {
		t.Errorf("Auth() after clear = %q, want empty", s.Auth())
	}
	// Clearing an absent key is a no-op.
	s.ClearAuth()
}

func TestMemory_QueueRoundTrip(t *testing.T) {
	s := NewMemory()
	s.SetQueue(1, "x")
	if got := s.Queue(1); got != "x" {
		t.Errorf("Queue(1) = %q, want x", got)
	}
	s.ClearQueue(1)
	if got := s.Queue(1); got != "" {
		t.Errorf("Queue(1) after clear = %q, want empty", got)
	}
	s.ClearQueue(1)
}

func TestMemory_QueueIsolationAcrossEvents(t *testing.T) {
	s := NewMemory()
	s.SetQueue(1, "queue-token-1")
	s.SetQueue(2, "queue-token-2")

	s.ClearQueue(1)

	if got := s.Queue(1); got != "" {
		t.Errorf("Queue(1) = %q, want empty", got)
	}
	if got := s.Queue(2); got != "queue-token-2" {
		t.Errorf("Queue(2) = %q, want queue-token-2 (untouched)", got)
	}
}

func TestMemory_ClearAllQueue(t *testing.T) {
	s := NewMemory()
	s.SetAuth("jwt")
	s.SetQueue(1, "a")
	s.SetQueue(2, "b")

	s.ClearAllQueue()

	if s.Queue(1) != "" || s.Queue(2) != "" {
		t.Error("queue tokens survived ClearAllQueue")
	}
	if s.Auth() != "jwt" {
		t.Error("ClearAllQueue must not touch the auth token")
	}
}

func TestFile_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.toml")

	s, err := OpenFile(path, nil)
	if err != nil {
		t.Fatalf("OpenFile() error = %v", err)
	}
	s.SetAuth("jwt")
	s.SetQueue(1, "q1")
	s.SetQueue(42, "q42")

	reopened, err := OpenFile(path, nil)
	if err != nil {
		t.Fatalf("OpenFile() (reopen) error = %v", err)
	}
	if got := reopened.Auth(); got != "jwt" {
		t.Errorf("Auth() = %q, want jwt", got)
	}
	if got := reopened.Queue(1); got != "q1" {
		t.Errorf("Queue(1) = %q, want q1", got)
	}
	if got := reopened.Queue(42); got != "q42" {
		t.Errorf("Queue(42) = %q, want q42", got)
	}
	if got := reopened.Queue(2); got != "" {
		t.Errorf("Queue(2) = %q, want empty", got)
	}
}

func TestFile_ClearQueueIsScopedToEvent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.toml")
	s, err := OpenFile(path, nil)
	if err != nil {
		t.Fatalf("OpenFile() error = %v", err)
	}
	s.SetQueue(1, "a")
	s.SetQueue(2, "b")
	s.ClearQueue(1)

	reopened, err := OpenFile(path, nil)
	if err != nil {
		t.Fatalf("OpenFile() (reopen) error = %v", err)
	}
	if got := reopened.Queue(1); got != "" {
		t.Errorf("Queue(1) = %q, want empty", got)
	}
	if got := reopened.Queue(2); got != "b" {
		t.Errorf("Queue(2) = %q, want b", got)
	}
}

func TestFile_MissingFileIsEmptyStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "does-not-exist.toml")
	s, err := OpenFile(path, nil)
	if err != nil {
		t.Fatalf("OpenFile() error = %v", err)
	}
	if s.Auth() != "" || s.Queue(1) != "" {
		t.Error("missing file should behave as an empty store")
	}
}

func TestFile_CorruptFileIsAnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.toml")
	if err := os.WriteFile(path, []byte("= not toml ="), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := OpenFile(path, nil); err == nil {
		t.Error("OpenFile() on corrupt file = nil error, want error")
	}
}
