// Package segmenter implements greedy longest-match decomposition of an
// uninterrupted pinyin string into a sequence of dictionary entries.
package segmenter

import "github.com/anath2/pinyin-lsp/internal/store"

// Segment decomposes s into a sequence of entries whose pinyin fields
// concatenate back to s. It runs a two-phase greedy longest-match: for
// each remaining suffix it first searches for the longest prefix with an
// exact dictionary hit, and only when exactOnly is false and no exact hit
// exists at any length does it fall back to the longest prefix with a
// prefix-range hit. This ordering is deliberate: exact matches at shorter
// lengths are preferred over prefix-range matches at longer lengths.
//
// Segment returns ok == false if no decomposition of s exists.
func Segment(s *store.Store, pinyin string, exactOnly bool) (entries []store.Entry, ok bool) {
	remain := pinyin
	for len(remain) > 0 {
		entry, matchedLen, found, err := longestMatch(s, remain, exactOnly)
		if err != nil || !found {
			return nil, false
		}
		entries = append(entries, entry)
		remain = remain[matchedLen:]
	}
	return entries, true
}

func longestMatch(s *store.Store, remain string, exactOnly bool) (store.Entry, int, bool, error) {
	for length := len(remain); length >= 1; length-- {
		prefix := remain[:length]
		hits, err := s.Exact(prefix, 1)
		if err != nil {
			return store.Entry{}, 0, false, err
		}
		if len(hits) > 0 {
			return hits[0], length, true, nil
		}
	}

	if exactOnly {
		return store.Entry{}, 0, false, nil
	}

	for length := len(remain); length >= 1; length-- {
		prefix := remain[:length]
		hits, err := s.PrefixInclusive(prefix, 1)
		if err != nil {
			return store.Entry{}, 0, false, err
		}
		if len(hits) > 0 {
			return hits[0], length, true, nil
		}
	}

	return store.Entry{}, 0, false, nil
}
