// Command dict-builder loads dictionary source files into the pinyin
// index database, and can query a built database directly without
// spinning up the editor server.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/anath2/pinyin-lsp/internal/builder"
	"github.com/anath2/pinyin-lsp/internal/config"
	"github.com/anath2/pinyin-lsp/internal/lookup"
	"github.com/anath2/pinyin-lsp/internal/store"
)

// manifestEntry is one {path, kind} record of the JSON manifest file that
// drives a build, mirroring the original dict_paths table of
// (path, table, kind) triples.
type manifestEntry struct {
	Path string `json:"path"`
	Kind string `json:"kind"`
}

func main() {
	_ = godotenv.Load()

	dbFlag := flag.String("db", "", "override the db path from config")
	migrationsFlag := flag.String("migrations", "", "override the migrations directory from config")
	manifestFlag := flag.String("manifest", "", "path to a JSON manifest of {path, kind} dictionary sources")
	queryFlag := flag.String("query", "", "look up a pinyin string against an existing db instead of building")
	limitFlag := flag.Uint64("limit", 10, "max results for -query")
	exactFlag := flag.Bool("exact", false, "restrict -query to exact matches only")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if *dbFlag != "" {
		cfg.DBPath = *dbFlag
	}
	if *migrationsFlag != "" {
		cfg.MigrationsDir = *migrationsFlag
	}

	if *queryFlag != "" {
		runQuery(cfg.DBPath, *queryFlag, *limitFlag, *exactFlag)
		return
	}

	if *manifestFlag == "" {
		log.Fatal("one of -manifest or -query is required")
	}
	runBuild(cfg.DBPath, cfg.MigrationsDir, *manifestFlag)
}

func runBuild(dbPath, migrationsDir, manifestPath string) {
	sources, err := loadManifest(manifestPath)
	if err != nil {
		log.Fatalf("failed to load manifest: %v", err)
	}

	inserted, err := builder.Build(dbPath, migrationsDir, sources)
	if err != nil {
		log.Fatalf("failed to build dictionary: %v", err)
	}
	log.Printf("dict-builder: built %s, %d entries inserted from %d sources", dbPath, inserted, len(sources))
}

func loadManifest(path string) ([]builder.Source, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var entries []manifestEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}

	sources := make([]builder.Source, 0, len(entries))
	for _, e := range entries {
		kind := builder.Structured
		if e.Kind == "supplementary" {
			kind = builder.Supplementary
		}
		sources = append(sources, builder.Source{Path: e.Path, Kind: kind})
	}
	return sources, nil
}

func runQuery(dbPath, pinyin string, limit uint64, exactOnly bool) {
	s, err := store.Open(dbPath)
	if err != nil {
		log.Fatalf("failed to open db %s: %v", dbPath, err)
	}
	defer s.Close()

	entries, err := lookup.QueryDict(s, pinyin, limit, exactOnly)
	if err != nil {
		log.Fatalf("query failed: %v", err)
	}
	if len(entries) == 0 {
		fmt.Println("(no matches)")
		return
	}
	for _, e := range entries {
		fmt.Printf("%s\t%s\t%d\n", e.Pinyin, e.Hanzi, e.Priority)
	}
}
