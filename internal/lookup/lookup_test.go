package lookup

import (
	"path/filepath"
	"testing"

	"github.com/anath2/pinyin-lsp/internal/migrations"
	"github.com/anath2/pinyin-lsp/internal/store"
)

func newTestStore(t *testing.T, entries []store.Entry) *store.Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "dict.db")
	migrationsDir := filepath.Join("..", "..", "migrations")
	if err := migrations.RunUp(dbPath, migrationsDir); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if _, err := s.BulkInsert(entries, nil); err != nil {
		t.Fatalf("seed entries: %v", err)
	}
	return s
}

func TestQueryDictExactOnly(t *testing.T) {
	s := newTestStore(t, []store.Entry{
		{Pinyin: "ni", Hanzi: "你", Priority: 100},
		{Pinyin: "nihao", Hanzi: "你好", Priority: 90},
	})
	defer s.Close()

	got, err := QueryDict(s, "ni", 50, true)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 1 || got[0].Hanzi != "你" {
		t.Fatalf("expected only exact match, got %+v", got)
	}
}

func TestQueryDictFallsBackToPrefix(t *testing.T) {
	s := newTestStore(t, []store.Entry{
		{Pinyin: "ni", Hanzi: "你", Priority: 100},
		{Pinyin: "nihao", Hanzi: "你好", Priority: 90},
		{Pinyin: "nimen", Hanzi: "你们", Priority: 80},
	})
	defer s.Close()

	got, err := QueryDict(s, "ni", 50, false)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected exact + prefix entries, got %+v", got)
	}
	if got[0].Hanzi != "你" {
		t.Fatalf("expected exact match first, got %+v", got[0])
	}
}

func TestQueryDictRespectsLimit(t *testing.T) {
	s := newTestStore(t, []store.Entry{
		{Pinyin: "ni", Hanzi: "你", Priority: 100},
		{Pinyin: "nihao", Hanzi: "你好", Priority: 90},
		{Pinyin: "nimen", Hanzi: "你们", Priority: 80},
	})
	defer s.Close()

	got, err := QueryDict(s, "ni", 2, false)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected limit of 2, got %d", len(got))
	}
}

func TestQueryDictExactOnlyIsSubsetOfFull(t *testing.T) {
	s := newTestStore(t, []store.Entry{
		{Pinyin: "ni", Hanzi: "你", Priority: 100},
		{Pinyin: "ni", Hanzi: "尼", Priority: 50},
		{Pinyin: "nihao", Hanzi: "你好", Priority: 90},
	})
	defer s.Close()

	exactOnly, err := QueryDict(s, "ni", 50, true)
	if err != nil {
		t.Fatalf("query exact-only: %v", err)
	}
	full, err := QueryDict(s, "ni", 50, false)
	if err != nil {
		t.Fatalf("query full: %v", err)
	}

	fullSet := map[string]int{}
	for _, e := range full {
		fullSet[e.Hanzi]++
	}
	for _, e := range exactOnly {
		if e.Pinyin != "ni" {
			t.Fatalf("exact-only entry has non-exact pinyin: %+v", e)
		}
		if fullSet[e.Hanzi] == 0 {
			t.Fatalf("exact-only entry %+v missing from full result", e)
		}
		fullSet[e.Hanzi]--
	}
}
