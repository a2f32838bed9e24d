// Package symbols holds the fixed, immutable mapping from ASCII
// punctuation to Chinese punctuation replacement candidates. Its keyset
// doubles as the server's advertised LSP completion trigger characters.
package symbols

import "sort"

// Table maps an ASCII punctuation rune to an ordered, non-empty sequence
// of Chinese-symbol replacement candidates, highest preference first.
var Table = map[rune][]string{
	'.':  {"。", "……"},
	',':  {"，"},
	'?':  {"？"},
	'!':  {"！"},
	':':  {"："},
	';':  {"；"},
	'\\': {"、"},
	'(':  {"（"},
	')':  {"）"},
	'<':  {"《"},
	'>':  {"》"},
	'[':  {"【"},
	']':  {"】"},
	'"':  {"“", "”"},
	'\'': {"‘", "’"},
	'$':  {"￥"},
	'_':  {"——"},
	'~':  {"～"},
}

// TriggerCharacters returns the table's keys as the ASCII strings the LSP
// completion provider advertises, in a stable, sorted order.
func TriggerCharacters() []string {
	keys := make([]rune, 0, len(Table))
	for k := range Table {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, string(k))
	}
	return out
}

// AllChineseSymbols returns every Chinese-symbol replacement string across
// the whole table, used to build the around-mode regex alternation.
func AllChineseSymbols() []string {
	keys := make([]rune, 0, len(Table))
	for k := range Table {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	var out []string
	for _, k := range keys {
		out = append(out, Table[k]...)
	}
	return out
}
