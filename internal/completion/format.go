// Package completion converts suggestions produced by the lookup engine,
// segmenter, and symbol table into LSP completion items.
package completion

import (
	"strings"

	"go.lsp.dev/protocol"

	"github.com/anath2/pinyin-lsp/internal/document"
	"github.com/anath2/pinyin-lsp/internal/store"
	"github.com/anath2/pinyin-lsp/internal/symbols"
)

// placeholderFilterText is an invisible character (U+200D, ZERO WIDTH
// JOINER) used so editors keep sending completion requests as the user
// types more letters against an as-yet-empty result.
const placeholderFilterText = "‍"

func toProtocolRange(r document.Range) protocol.Range {
	return protocol.Range{
		Start: protocol.Position{Line: r.Start.Line, Character: r.Start.Character},
		End:   protocol.Position{Line: r.End.Line, Character: r.End.Character},
	}
}

// FromSuggestions formats a plain prefix/exact dictionary result list.
func FromSuggestions(entries []store.Entry, r document.Range) []protocol.CompletionItem {
	pr := toProtocolRange(r)
	items := make([]protocol.CompletionItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, protocol.CompletionItem{
			Label:      e.Hanzi,
			Kind:       protocol.CompletionItemKindText,
			FilterText: e.Pinyin,
			TextEdit: &protocol.TextEdit{
				Range:   pr,
				NewText: e.Hanzi,
			},
		})
	}
	return items
}

// FromSegmentation formats a long-sentence decomposition: one leading item
// whose label/replacement is the full concatenated hanzi, then (when there
// is more than one piece) one item per individual entry, all sharing the
// concatenated filter text.
func FromSegmentation(entries []store.Entry, r document.Range) []protocol.CompletionItem {
	if len(entries) == 0 {
		return nil
	}
	pr := toProtocolRange(r)

	var hanziBuf, pinyinBuf strings.Builder
	for _, e := range entries {
		hanziBuf.WriteString(e.Hanzi)
		pinyinBuf.WriteString(e.Pinyin)
	}
	fullHanzi := hanziBuf.String()
	fullFilter := pinyinBuf.String()

	items := make([]protocol.CompletionItem, 0, len(entries)+1)
	items = append(items, protocol.CompletionItem{
		Label:      fullHanzi,
		Kind:       protocol.CompletionItemKindText,
		FilterText: fullFilter,
		TextEdit: &protocol.TextEdit{
			Range:   pr,
			NewText: fullHanzi,
		},
	})

	if len(entries) > 1 {
		for _, e := range entries {
			items = append(items, protocol.CompletionItem{
				Label:      e.Hanzi,
				Kind:       protocol.CompletionItemKindText,
				FilterText: fullFilter,
				TextEdit: &protocol.TextEdit{
					Range:   pr,
					NewText: e.Hanzi,
				},
			})
		}
	}
	return items
}

// FromSymbolExpansion formats one item per Chinese-symbol replacement
// candidate for the ASCII key c.
func FromSymbolExpansion(c rune, replacementRange document.Range) []protocol.CompletionItem {
	candidates := symbols.Table[c]
	pr := toProtocolRange(replacementRange)

	items := make([]protocol.CompletionItem, 0, len(candidates))
	for _, sym := range candidates {
		items = append(items, protocol.CompletionItem{
			Label:      sym,
			Kind:       protocol.CompletionItemKindOperator,
			FilterText: string(c),
			TextEdit: &protocol.TextEdit{
				Range:   pr,
				NewText: sym,
			},
		})
	}
	return items
}

// Placeholder returns the single placeholder item emitted when no branch
// produced any completions, forcing the editor to keep issuing completion
// requests as the user types more letters.
func Placeholder() protocol.CompletionItem {
	return protocol.CompletionItem{
		Label:      "Pinyin Placeholder",
		Kind:       protocol.CompletionItemKindText,
		FilterText: placeholderFilterText,
	}
}

// List wraps items into a CompletionList, applying the empty-result
// placeholder fallback and marking the list incomplete when the
// placeholder is used. Use this only after a branch (symbol expansion or
// dictionary lookup) was actually attempted; when the classifier decided
// not to complete at all, or completion is turned off, use EmptyList
// instead so the editor sees a genuinely empty array, not a ghost item.
func List(items []protocol.CompletionItem) *protocol.CompletionList {
	if len(items) == 0 {
		return &protocol.CompletionList{
			IsIncomplete: true,
			Items:        []protocol.CompletionItem{Placeholder()},
		}
	}
	return &protocol.CompletionList{
		IsIncomplete: false,
		Items:        items,
	}
}

// EmptyList returns a CompletionList with no items and no placeholder,
// for requests where no completion was attempted at all (completion
// turned off, unknown document, or the classifier decided NoCompletion).
func EmptyList() *protocol.CompletionList {
	return &protocol.CompletionList{
		IsIncomplete: false,
		Items:        []protocol.CompletionItem{},
	}
}
