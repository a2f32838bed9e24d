// Package pinyinderive derives canonical, tone-free pinyin from hanzi for
// dictionary source records that omit it.
package pinyinderive

import (
	"strings"

	"github.com/mozillazg/go-pinyin"
)

var args = newArgs()

func newArgs() pinyin.Args {
	a := pinyin.NewArgs()
	a.Style = pinyin.Normal
	a.Fallback = func(r rune, a pinyin.Args) []string {
		return []string{""}
	}
	return a
}

// FromHanzi returns the concatenated, tone-free, lowercase pinyin for every
// character in hanzi. Characters that have no mapping (not Han, or absent
// from the underlying table) contribute zero length, per the derivation
// determinism invariant.
func FromHanzi(hanzi string) string {
	var b strings.Builder
	for _, r := range hanzi {
		for _, syllable := range pinyin.SinglePinyin(r, args) {
			b.WriteString(strings.ToLower(syllable))
		}
	}
	return b.String()
}
