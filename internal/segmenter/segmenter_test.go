package segmenter

import (
	"path/filepath"
	"strings"
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

func TestSegmentPrefersLongestExactMatch(t *testing.T) {
	s := newTestStore(t, []store.Entry{
		{Pinyin: "ni", Hanzi: "你", Priority: 100},
		{Pinyin: "nihao", Hanzi: "你好", Priority: 90},
		{Pinyin: "hao", Hanzi: "好", Priority: 50},
	})
	defer s.Close()

	got, ok := Segment(s, "nihao", false)
	if !ok {
		t.Fatal("expected a decomposition")
	}
	if len(got) != 1 || got[0].Hanzi != "你好" {
		t.Fatalf("expected greedy longest match [你好], got %+v", got)
	}
}

func TestSegmentFallsBackToShorterExactPieces(t *testing.T) {
	s := newTestStore(t, []store.Entry{
		{Pinyin: "ni", Hanzi: "你", Priority: 100},
		{Pinyin: "hao", Hanzi: "好", Priority: 50},
	})
	defer s.Close()

	got, ok := Segment(s, "nihao", true)
	if !ok {
		t.Fatal("expected a decomposition")
	}
	if len(got) != 2 || got[0].Hanzi != "你" || got[1].Hanzi != "好" {
		t.Fatalf("expected [你 好], got %+v", got)
	}
}

func TestSegmentExactOnlyFailsWithoutFullCoverage(t *testing.T) {
	s := newTestStore(t, []store.Entry{
		{Pinyin: "ni", Hanzi: "你", Priority: 100},
	})
	defer s.Close()

	_, ok := Segment(s, "nihao", true)
	if ok {
		t.Fatal("expected no decomposition when a suffix has no exact match and exactOnly is set")
	}
}

func TestSegmentSoundnessConcatenationEqualsInput(t *testing.T) {
	s := newTestStore(t, []store.Entry{
		{Pinyin: "ni", Hanzi: "你", Priority: 100},
		{Pinyin: "hao", Hanzi: "好", Priority: 50},
		{Pinyin: "ma", Hanzi: "吗", Priority: 10},
	})
	defer s.Close()

	got, ok := Segment(s, "nihaoma", true)
	if !ok {
		t.Fatal("expected a decomposition")
	}
	var concat strings.Builder
	for _, e := range got {
		concat.WriteString(e.Pinyin)
	}
	if concat.String() != "nihaoma" {
		t.Fatalf("segmenter soundness violated: got concat %q", concat.String())
	}
}

func TestSegmentTotalityWhenEverySingleLetterHasExactMatch(t *testing.T) {
	s := newTestStore(t, []store.Entry{
		{Pinyin: "n", Hanzi: "n", Priority: 1},
		{Pinyin: "i", Hanzi: "i", Priority: 1},
		{Pinyin: "h", Hanzi: "h", Priority: 1},
		{Pinyin: "a", Hanzi: "a", Priority: 1},
		{Pinyin: "o", Hanzi: "o", Priority: 1},
	})
	defer s.Close()

	_, ok := Segment(s, "nihao", true)
	if !ok {
		t.Fatal("expected segmenter totality: single-letter coverage must decompose")
	}
}

func TestSegmentNoDecompositionReturnsFalse(t *testing.T) {
	s := newTestStore(t, nil)
	defer s.Close()

	_, ok := Segment(s, "zzz", false)
	if ok {
		t.Fatal("expected no decomposition against an empty store")
	}
}
