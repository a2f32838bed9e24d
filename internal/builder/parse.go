// Package builder parses heterogeneous dictionary source files and bulk
// loads their normalized entries into an Index Store.
package builder

import (
	"bufio"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/anath2/pinyin-lsp/internal/pinyinderive"
	"github.com/anath2/pinyin-lsp/internal/store"
)

// Kind distinguishes the two supported dictionary source formats.
type Kind int

const (
	// Structured is a header-then-"..."-sentinel format where each record
	// line is `<hanzi> <py1> ... <pyk> <priority?>`.
	Structured Kind = iota
	// Supplementary is a plain `<hanzi> ... <priority>` line with no
	// header and no sentinel; pinyin is always derived from hanzi.
	Supplementary
)

// Source names one dictionary file and how to parse it.
type Source struct {
	Path string
	Kind Kind
}

const defaultPriority = 1

// ParseFile reads path according to kind and returns its normalized
// entries. A file-read failure logs a diagnostic and returns an empty,
// non-error result so one bad source does not abort a build.
func ParseFile(src Source) []store.Entry {
	f, err := os.Open(src.Path)
	if err != nil {
		log.Printf("builder: read %s: %v (treating as empty)", src.Path, err)
		return nil
	}
	defer f.Close()

	switch src.Kind {
	case Supplementary:
		return parseSupplementary(f)
	default:
		return parseStructured(f)
	}
}

func parseStructured(f *os.File) []store.Entry {
	var entries []store.Entry
	scanner := bufio.NewScanner(f)
	pastHeader := false

	for scanner.Scan() {
		line := scanner.Text()

		if !pastHeader {
			if strings.TrimSpace(line) == "..." {
				pastHeader = true
			}
			continue
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}

		hanzi := fields[0]
		if hanzi == "" {
			continue
		}

		var pinyin string
		if len(fields) >= 3 {
			pinyin = strings.Join(fields[1:len(fields)-1], "")
		} else {
			pinyin = pinyinderive.FromHanzi(hanzi)
		}
		if pinyin == "" {
			continue
		}

		priority := parsePriority(fields[len(fields)-1])
		entries = append(entries, store.Entry{Pinyin: pinyin, Hanzi: hanzi, Priority: priority})
	}
	if err := scanner.Err(); err != nil {
		log.Printf("builder: scan structured source: %v", err)
	}
	return entries
}

func parseSupplementary(f *os.File) []store.Entry {
	var entries []store.Entry
	scanner := bufio.NewScanner(f)

	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 1 {
			continue
		}

		hanzi := fields[0]
		if hanzi == "" {
			continue
		}
		pinyin := pinyinderive.FromHanzi(hanzi)
		if pinyin == "" {
			continue
		}

		priority := uint64(defaultPriority)
		if len(fields) > 1 {
			priority = parsePriority(fields[len(fields)-1])
		}
		entries = append(entries, store.Entry{Pinyin: pinyin, Hanzi: hanzi, Priority: priority})
	}
	if err := scanner.Err(); err != nil {
		log.Printf("builder: scan supplementary source: %v", err)
	}
	return entries
}

func parsePriority(field string) uint64 {
	v, err := strconv.ParseUint(field, 10, 64)
	if err != nil {
		return defaultPriority
	}
	return v
}
