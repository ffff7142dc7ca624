package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/libreassistant/poc/internal/poc/store"
)

func TestAppendThenFetchReturnsOldestFirst(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	ctx := context.Background()
	turns := []store.HistoryTurn{
		{Role: "user", Content: "hello"},
		{Role: "assistant", Content: "hi there"},
		{Role: "user", Content: "how are you"},
	}
	for _, turn := range turns {
		if err := s.AppendTurn(ctx, "session-1", turn); err != nil {
			t.Fatalf("AppendTurn: %v", err)
		}
	}

	got, err := s.FetchHistory(ctx, "session-1")
	if err != nil {
		t.Fatalf("FetchHistory: %v", err)
	}
	if len(got) != len(turns) {
		t.Fatalf("expected %d turns, got %d", len(turns), len(got))
	}
	for i, turn := range turns {
		if got[i] != turn {
			t.Fatalf("turn %d: expected %+v, got %+v", i, turn, got[i])
		}
	}
}

func TestFetchHistoryIsolatesSessions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	ctx := context.Background()
	if err := s.AppendTurn(ctx, "a", store.HistoryTurn{Role: "user", Content: "for a"}); err != nil {
		t.Fatal(err)
	}
	if err := s.AppendTurn(ctx, "b", store.HistoryTurn{Role: "user", Content: "for b"}); err != nil {
		t.Fatal(err)
	}

	got, err := s.FetchHistory(ctx, "a")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Content != "for a" {
		t.Fatalf("expected session a to see only its own turn, got %+v", got)
	}
}

func TestFetchHistoryUnknownSessionReturnsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	got, err := s.FetchHistory(context.Background(), "nobody")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no turns for unknown session, got %d", len(got))
	}
}

func TestReopenSamePathPreservesHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	s1, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s1.AppendTurn(context.Background(), "persist", store.HistoryTurn{Role: "user", Content: "remember me"}); err != nil {
		t.Fatal(err)
	}
	if err := s1.Close(); err != nil {
		t.Fatal(err)
	}

	s2, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()

	got, err := s2.FetchHistory(context.Background(), "persist")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Content != "remember me" {
		t.Fatalf("expected reopened db to retain history, got %+v", got)
	}
}
