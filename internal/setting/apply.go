package setting

import "log"

// ApplyOptions merges a free-form configuration object (as received from
// initialize's initializationOptions or workspace/didChangeConfiguration)
// into the store. Keys with the wrong value type are logged and the prior
// value is retained, per the Configuration Store's error handling design.
// It returns the resulting setting and whether db_path changed to a
// non-empty, different value, so the caller can decide to reopen the
// Index Store.
func (s *Store) ApplyOptions(raw map[string]any) (updated Setting, dbPathChanged bool) {
	before := s.Get()

	updated = s.Update(func(cur Setting) Setting {
		if v, present := raw["db_path"]; present {
			if str, ok := v.(string); ok {
				cur.DBPath = str
			} else {
				log.Printf("setting: db_path has wrong type %T, retaining previous value", v)
			}
		}
		if v, present := raw["completion_on"]; present {
			if b, ok := v.(bool); ok {
				cur.CompletionOn = b
			} else {
				log.Printf("setting: completion_on has wrong type %T, retaining previous value", v)
			}
		}
		if v, present := raw["completion_around_mode"]; present {
			if b, ok := v.(bool); ok {
				cur.CompletionAroundMode = b
			} else {
				log.Printf("setting: completion_around_mode has wrong type %T, retaining previous value", v)
			}
		}
		if v, present := raw["completion_trigger_characters"]; present {
			if str, ok := v.(string); ok {
				cur.CompletionTriggerCharacters = str
			} else {
				log.Printf("setting: completion_trigger_characters has wrong type %T, retaining previous value", v)
			}
		}
		if v, present := raw["show_symbols"]; present {
			if b, ok := v.(bool); ok {
				cur.ShowSymbols = b
			} else {
				log.Printf("setting: show_symbols has wrong type %T, retaining previous value", v)
			}
		}
		if v, present := raw["show_symbols_only_follow_by_hanzi"]; present {
			if b, ok := v.(bool); ok {
				cur.ShowSymbolsOnlyFollowByHanzi = b
			} else {
				log.Printf("setting: show_symbols_only_follow_by_hanzi has wrong type %T, retaining previous value", v)
			}
		}
		if v, present := raw["show_symbols_by_n_times"]; present {
			if n, ok := asUint64(v); ok {
				cur.ShowSymbolsByNTimes = n
			} else {
				log.Printf("setting: show_symbols_by_n_times has wrong type %T, retaining previous value", v)
			}
		}
		if v, present := raw["match_as_same_as_input"]; present {
			if b, ok := v.(bool); ok {
				cur.MatchAsSameAsInput = b
			} else {
				log.Printf("setting: match_as_same_as_input has wrong type %T, retaining previous value", v)
			}
		}
		if v, present := raw["match_long_input"]; present {
			if b, ok := v.(bool); ok {
				cur.MatchLongInput = b
			} else {
				log.Printf("setting: match_long_input has wrong type %T, retaining previous value", v)
			}
		}
		if v, present := raw["max_suggest"]; present {
			if n, ok := asUint64(v); ok {
				cur.MaxSuggest = n
			} else {
				log.Printf("setting: max_suggest has wrong type %T, retaining previous value", v)
			}
		}
		return cur
	})

	dbPathChanged = updated.DBPath != "" && updated.DBPath != before.DBPath
	return updated, dbPathChanged
}

// asUint64 accepts the numeric shapes encoding/json produces for an
// untyped interface{} (float64) as well as already-typed integers, since
// initializationOptions arrives as decoded JSON.
func asUint64(v any) (uint64, bool) {
	switch n := v.(type) {
	case float64:
		if n < 0 {
			return 0, false
		}
		return uint64(n), true
	case int:
		if n < 0 {
			return 0, false
		}
		return uint64(n), true
	case uint64:
		return n, true
	default:
		return 0, false
	}
}
