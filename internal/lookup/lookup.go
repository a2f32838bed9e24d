// Package lookup implements the composite exact+prefix dictionary query
// used to build completion suggestion lists.
package lookup

import "github.com/anath2/pinyin-lsp/internal/store"

// QueryDict returns entries matching pinyin k: an exact match pass first,
// then (unless exactOnly or the exact pass already filled limit) a
// prefix-range pass excluding pinyin == k, appended without re-ranking
// across the two subqueries.
func QueryDict(s *store.Store, k string, limit uint64, exactOnly bool) ([]store.Entry, error) {
	exact, err := s.Exact(k, limit)
	if err != nil {
		return nil, err
	}
	if exactOnly || uint64(len(exact)) >= limit {
		return exact, nil
	}

	remaining := limit - uint64(len(exact))
	prefix, err := s.Prefix(k, remaining)
	if err != nil {
		// Per the error handling design, a failed prefix pass is treated
		// as "no results" for that branch rather than failing the whole
		// lookup; the exact results still stand.
		return exact, nil
	}
	return append(exact, prefix...), nil
}
