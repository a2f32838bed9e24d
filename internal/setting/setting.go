// Package setting holds the server's mutable, process-global
// configuration behind a single mutex, following the same
// mutex-guarded-struct idiom the server uses for its other shared state
// (compare internal/document's per-URI map).
package setting

import "sync"

const (
	defaultMaxSuggest = 50
)

// Setting is the server's configuration, mutated by initialize /
// workspace/didChangeConfiguration / $/turn/completion and read by every
// completion request.
type Setting struct {
	CompletionOn                 bool
	CompletionAroundMode          bool
	CompletionTriggerCharacters   string
	ShowSymbols                   bool
	ShowSymbolsOnlyFollowByHanzi  bool
	ShowSymbolsByNTimes           uint64
	MatchAsSameAsInput            bool
	MatchLongInput                bool
	DBPath                        string
	MaxSuggest                    uint64
}

// Default returns the setting's documented default values.
func Default() Setting {
	return Setting{
		CompletionOn:                true,
		CompletionAroundMode:        false,
		CompletionTriggerCharacters: "",
		ShowSymbols:                 true,
		ShowSymbolsOnlyFollowByHanzi: false,
		ShowSymbolsByNTimes:         0,
		MatchAsSameAsInput:          false,
		MatchLongInput:              true,
		DBPath:                      "",
		MaxSuggest:                  defaultMaxSuggest,
	}
}

// Store wraps a Setting behind a mutex. Completion handlers take a
// consistent snapshot at entry via Get; mutation handlers (initialize,
// didChangeConfiguration, $/turn/completion) use Update.
type Store struct {
	mu      sync.RWMutex
	current Setting
}

// NewStore returns a Store seeded with the documented defaults.
func NewStore() *Store {
	return &Store{current: Default()}
}

// Get returns a consistent snapshot of the current setting.
func (s *Store) Get() Setting {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Update applies fn to a copy of the current setting and stores the
// result, returning the new value.
func (s *Store) Update(fn func(Setting) Setting) Setting {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = fn(s.current)
	return s.current
}

// ToggleCompletionOn flips CompletionOn, or sets it explicitly when set is
// non-nil, implementing the $/turn/completion notification semantics.
func (s *Store) ToggleCompletionOn(set *bool) Setting {
	return s.Update(func(cur Setting) Setting {
		if set != nil {
			cur.CompletionOn = *set
		} else {
			cur.CompletionOn = !cur.CompletionOn
		}
		return cur
	})
}
