package store

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/cfgview/pkg/errors"
	"github.com/matzehuels/cfgview/pkg/session"
)

func record(id string, ttl time.Duration) *session.Record {
	now := time.Now()
	return &session.Record{
		ID:          id,
		Name:        "demo",
		Input:       json.RawMessage(`{"nodes":[{"id":0,"text":"x"}],"edges":[]}`),
		ShowDetails: true,
		CreatedAt:   now,
		ExpiresAt:   now.Add(ttl),
	}
}

// testContract runs the behavior every backend shares.
func testContract(t *testing.T, s session.Store) {
	t.Helper()
	ctx := context.Background()

	got, err := s.Get(ctx, "missing")
	if err != nil || got != nil {
		t.Fatalf("Get(missing) = %v, %v; want nil, nil", got, err)
	}

	if err := s.Set(ctx, record("a", time.Hour)); err != nil {
		t.Fatal(err)
	}
	got, err = s.Get(ctx, "a")
	if err != nil || got == nil {
		t.Fatalf("Get(a) = %v, %v", got, err)
	}
	if string(got.Input) != `{"nodes":[{"id":0,"text":"x"}],"edges":[]}` || !got.ShowDetails || got.Name != "demo" {
		t.Errorf("record not round-tripped: %+v", got)
	}

	if err := s.Set(ctx, record("old", -time.Minute)); err != nil {
		t.Fatal(err)
	}
	if got, _ := s.Get(ctx, "old"); got != nil {
		t.Error("expired record returned")
	}
	if err := s.Cleanup(ctx); err != nil {
		t.Fatal(err)
	}

	if err := s.Delete(ctx, "a"); err != nil {
		t.Fatal(err)
	}
	if got, _ := s.Get(ctx, "a"); got != nil {
		t.Error("deleted record returned")
	}
	if err := s.Delete(ctx, "a"); err != nil {
		t.Errorf("second Delete = %v", err)
	}

	if err := s.Set(ctx, record("../escape", time.Hour)); !errors.IsValidation(err) {
		t.Errorf("Set(../escape) = %v, want validation error", err)
	}
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	testContract(t, s)
}

func TestMemoryStoreCleanup(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	_ = s.Set(ctx, record("x", -time.Second))
	_ = s.Set(ctx, record("y", time.Hour))
	_ = s.Cleanup(ctx)
	if s.Len() != 1 {
		t.Errorf("Len = %d after cleanup, want 1", s.Len())
	}
}

func TestMemoryStoreCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	rec := record("c", time.Hour)
	_ = s.Set(ctx, rec)
	rec.Input[0] = '['
	got, _ := s.Get(ctx, "c")
	if got.Input[0] != '{' {
		t.Error("store shares the caller's input buffer")
	}
}

func TestFileStore(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	testContract(t, s)
}

func TestFileStoreCleanupRemovesFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, _ := NewFileStore(dir)
	_ = s.Set(ctx, record("gone", -time.Second))
	_ = s.Set(ctx, record("kept", time.Hour))
	if err := s.Cleanup(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, "gone.json")); !os.IsNotExist(err) {
		t.Error("expired file not removed")
	}
	if _, err := os.Stat(filepath.Join(dir, "kept.json")); err != nil {
		t.Error("live file removed")
	}
}

func TestFileStoreCorrupt(t *testing.T) {
	dir := t.TempDir()
	s, _ := NewFileStore(dir)
	_ = os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{"), 0600)
	if _, err := s.Get(context.Background(), "bad"); !errors.IsParse(err) {
		t.Errorf("Get(bad) = %v, want parse error", err)
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, Config{})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.(*MemoryStore); !ok {
		t.Errorf("Open(empty) = %T, want *MemoryStore", s)
	}
	s, err = Open(ctx, Config{Backend: "file", FileDir: t.TempDir()})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.(*FileStore); !ok {
		t.Errorf("Open(file) = %T, want *FileStore", s)
	}
	if _, err := Open(ctx, Config{Backend: "etcd"}); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("Open(etcd) = %v, want INVALID_CONFIG", err)
	}
}

func TestRetryWithBackoff(t *testing.T) {
	ctx := context.Background()
	boom := stderrors.New("boom")

	calls := 0
	err := RetryWithBackoff(ctx, 3, time.Millisecond, func() error {
		calls++
		if calls < 2 {
			return Retryable(boom)
		}
		return nil
	})
	if err != nil || calls != 2 {
		t.Errorf("err = %v, calls = %d; want nil, 2", err, calls)
	}

	calls = 0
	err = RetryWithBackoff(ctx, 3, time.Millisecond, func() error {
		calls++
		return boom
	})
	if err != boom || calls != 1 {
		t.Errorf("non-retryable: err = %v, calls = %d", err, calls)
	}

	calls = 0
	err = RetryWithBackoff(ctx, 3, time.Millisecond, func() error {
		calls++
		return Retryable(boom)
	})
	if !stderrors.Is(err, boom) || calls != 3 {
		t.Errorf("exhausted: err = %v, calls = %d", err, calls)
	}

	cctx, cancel := context.WithCancel(ctx)
	cancel()
	if err := RetryWithBackoff(cctx, 3, time.Hour, func() error { return Retryable(boom) }); err != context.Canceled {
		t.Errorf("cancelled: err = %v", err)
	}
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) != nil")
	}
}

func TestOpenWithRetryNonRetryable(t *testing.T) {
	if _, err := OpenWithRetry(context.Background(), Config{Backend: "etcd"}); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("err = %v, want INVALID_CONFIG", err)
	}
}
