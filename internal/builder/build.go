package builder

import (
	"fmt"
	"log"

	"github.com/anath2/pinyin-lsp/internal/migrations"
	"github.com/anath2/pinyin-lsp/internal/store"
)

// dictTableMigrationVersion is the goose version that creates the dict
// table. Build stops migrating here before it inserts any row, then
// finishes the remaining migrations (the pinyin index) once the insert
// transaction has committed, per the build procedure: create the table,
// open a single write transaction, insert every entry, commit, then
// create the pinyin index.
const dictTableMigrationVersion = 1

// Build creates the dict table, parses every source in order and
// bulk-inserts the normalized entries of all sources under a single
// transaction, then creates the pinyin index. It returns the total number
// of rows inserted across all sources.
func Build(dbPath, migrationsDir string, sources []Source) (int, error) {
	if err := migrations.RunUpTo(dbPath, migrationsDir, dictTableMigrationVersion); err != nil {
		return 0, err
	}

	s, err := store.Open(dbPath)
	if err != nil {
		return 0, err
	}

	var all []store.Entry
	for _, src := range sources {
		log.Printf("builder: parsing %s", src.Path)
		entries := ParseFile(src)
		log.Printf("builder: parsed %d entries from %s", len(entries), src.Path)
		all = append(all, entries...)
	}

	total, err := s.BulkInsert(all, func(e store.Entry, rowErr error) {
		log.Printf("builder: insert [%s, %s, %d] error: %v", e.Pinyin, e.Hanzi, e.Priority, rowErr)
	})
	if err != nil {
		s.Close()
		return total, err
	}
	log.Printf("builder: inserted %d/%d entries", total, len(all))
	s.Close()

	if err := migrations.RunUp(dbPath, migrationsDir); err != nil {
		return total, fmt.Errorf("builder: create pinyin index: %w", err)
	}

	return total, nil
}
