// Package classifier decides, for a given document/cursor/setting, whether
// and how to offer a completion: plain pinyin completion, Chinese-symbol
// expansion, or none at all.
package classifier

import (
	"regexp"
	"strings"
	"sync"
	"unicode"

	"github.com/anath2/pinyin-lsp/internal/document"
	"github.com/anath2/pinyin-lsp/internal/setting"
	"github.com/anath2/pinyin-lsp/internal/symbols"
)

// Kind distinguishes the three classifier outcomes.
type Kind int

const (
	NoCompletion Kind = iota
	SymbolExpansion
	PinyinCompletion
)

// Result is the classifier's decision for one completion request.
type Result struct {
	Kind Kind

	// SymbolExpansion fields.
	SymbolChar rune
	RepeatN    int

	// PinyinCompletion fields.
	Pinyin          string
	UseLongSentence bool

	// ReplacementRange is the span of the cursor's line to replace with
	// the chosen completion, in UTF-16 columns.
	ReplacementRange document.Range
}

var trailingPinyin = regexp.MustCompile(`[A-Za-z]+$`)

// Classify inspects doc at pos under setting s and returns the decision.
func Classify(doc *document.Document, pos document.Position, s setting.Setting) Result {
	backward := doc.BackwardLine(pos)
	forward := doc.ForwardLine(pos)

	pinyin := extractTrailingPinyin(backward)
	if pinyin == "" {
		return classifySymbol(backward, s, pos)
	}

	triggerCompletion := false
	triggerLen := 0
	if s.CompletionTriggerCharacters != "" {
		beforePinyin := backward[:len(backward)-len(pinyin)]
		if strings.HasSuffix(beforePinyin, s.CompletionTriggerCharacters) {
			triggerCompletion = true
			triggerLen = len([]rune(s.CompletionTriggerCharacters))
		}
	}

	aroundCompletion := isAroundCompletion(backward, forward)

	if s.CompletionAroundMode && !aroundCompletion && !triggerCompletion {
		return Result{Kind: NoCompletion}
	}

	pinyinUnits := uint32(len([]rune(pinyin)))
	startCol := pos.Character - pinyinUnits
	if triggerCompletion {
		startCol -= uint32(triggerLen)
	}

	return Result{
		Kind:            PinyinCompletion,
		Pinyin:          pinyin,
		UseLongSentence: s.MatchLongInput,
		ReplacementRange: document.Range{
			Start: document.Position{Line: pos.Line, Character: startCol},
			End:   document.Position{Line: pos.Line, Character: pos.Character},
		},
	}
}

func extractTrailingPinyin(backward string) string {
	return trailingPinyin.FindString(backward)
}

func classifySymbol(backward string, s setting.Setting, pos document.Position) Result {
	if !s.ShowSymbols {
		return Result{Kind: NoCompletion}
	}
	if backward == "" {
		return Result{Kind: NoCompletion}
	}

	runes := []rune(backward)
	last := runes[len(runes)-1]
	if _, ok := symbols.Table[last]; !ok {
		return Result{Kind: NoCompletion}
	}

	if s.ShowSymbolsByNTimes > 0 {
		n := int(s.ShowSymbolsByNTimes)
		if repeatCountAtEnd(runes, last) >= n {
			return Result{
				Kind:       SymbolExpansion,
				SymbolChar: last,
				RepeatN:    n,
				ReplacementRange: document.Range{
					Start: document.Position{Line: pos.Line, Character: pos.Character - uint32(n)},
					End:   document.Position{Line: pos.Line, Character: pos.Character},
				},
			}
		}
	}

	if !s.ShowSymbolsOnlyFollowByHanzi || precededByHan(runes) {
		return Result{
			Kind:       SymbolExpansion,
			SymbolChar: last,
			RepeatN:    1,
			ReplacementRange: document.Range{
				Start: document.Position{Line: pos.Line, Character: pos.Character - 1},
				End:   document.Position{Line: pos.Line, Character: pos.Character},
			},
		}
	}

	return Result{Kind: NoCompletion}
}

func repeatCountAtEnd(runes []rune, target rune) int {
	count := 0
	for i := len(runes) - 1; i >= 0 && runes[i] == target; i-- {
		count++
	}
	return count
}

func precededByHan(runes []rune) bool {
	if len(runes) < 2 {
		return false
	}
	return unicode.Is(unicode.Han, runes[len(runes)-2])
}

var (
	aroundRegexOnce sync.Once
	backwardAround  *regexp.Regexp
	forwardAround   *regexp.Regexp
)

func aroundRegexes() (*regexp.Regexp, *regexp.Regexp) {
	aroundRegexOnce.Do(func() {
		symbolAlternation := buildSymbolAlternation()
		hanOrSymbol := `(\p{Han}|` + symbolAlternation + `)`
		backwardAround = regexp.MustCompile(hanOrSymbol + `(\s*\w+\s+)*[A-Za-z]+$`)
		forwardAround = regexp.MustCompile(`^(\s*\w+\s*)*` + hanOrSymbol)
	})
	return backwardAround, forwardAround
}

func buildSymbolAlternation() string {
	all := symbols.AllChineseSymbols()
	quoted := make([]string, len(all))
	for i, sym := range all {
		quoted[i] = regexp.QuoteMeta(sym)
	}
	return strings.Join(quoted, "|")
}

func isAroundCompletion(backward, forward string) bool {
	back, fwd := aroundRegexes()
	return back.MatchString(backward) || fwd.MatchString(forward)
}
