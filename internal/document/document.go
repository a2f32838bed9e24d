// Package document mirrors each open editor buffer as an immutable
// snapshot string, replaced wholesale on every incremental change and
// indexed by line/UTF-16 column so the server can slice out the text
// surrounding a cursor position without re-parsing the whole buffer.
package document

import (
	"strings"
	"sync"

	lspuri "go.lsp.dev/uri"
)

// Position is a zero-based line/character position using UTF-16 code
// units for character, matching the LSP wire format.
type Position struct {
	Line      uint32
	Character uint32
}

// Range is a half-open [Start, End) span within a document.
type Range struct {
	Start Position
	End   Position
}

// ContentChange is one incremental edit: replace the text inside Range
// with NewText. A ContentChange with a nil Range (use HasRange) replaces
// the entire document.
type ContentChange struct {
	Range    Range
	HasRange bool
	NewText  string
}

// Document is an immutable snapshot of one open buffer plus its line
// index, built once per snapshot so fetching a line is a single slice
// index; converting a position to a byte offset walks the preceding lines.
type Document struct {
	text  string
	lines []string // text split on "\n", newlines stripped
}

// New builds a Document snapshot from raw text.
func New(text string) *Document {
	return &Document{text: text, lines: splitLines(text)}
}

func splitLines(text string) []string {
	return strings.Split(text, "\n")
}

// Text returns the full snapshot content.
func (d *Document) Text() string {
	return d.text
}

// Line returns the content of the given zero-based line, or "" if out of
// range.
func (d *Document) Line(line uint32) string {
	if int(line) >= len(d.lines) {
		return ""
	}
	return d.lines[line]
}

// BackwardLine returns the substring of the cursor's line from column 0 up
// to (not including) the cursor column.
func (d *Document) BackwardLine(pos Position) string {
	line := d.Line(pos.Line)
	return sliceUTF16(line, 0, pos.Character)
}

// ForwardLine returns the substring of the cursor's line from the cursor
// column to the end of the line.
func (d *Document) ForwardLine(pos Position) string {
	line := d.Line(pos.Line)
	return sliceUTF16(line, pos.Character, utf16Len(line))
}

// sliceUTF16 returns the substring of s spanning UTF-16 code units
// [startUnits, endUnits). LSP positions are UTF-16 code-unit offsets; for
// the ASCII pinyin/punctuation runs this server cares about, UTF-16 units
// and bytes coincide, but surrounding Hanzi text (U+4E00-U+9FFF) still
// only costs one UTF-16 unit per character, so counting one unit per rune
// (two for astral runes) stays correct.
func sliceUTF16(s string, startUnits, endUnits uint32) string {
	start := utf16ColumnToByteOffset(s, startUnits)
	end := utf16ColumnToByteOffset(s, endUnits)
	return s[start:end]
}

func utf16Len(s string) uint32 {
	var n uint32
	for _, r := range s {
		if r > 0xFFFF {
			n += 2
		} else {
			n++
		}
	}
	return n
}

// Apply applies change to d and returns the resulting new snapshot. d is
// left unmodified; callers replace their stored snapshot with the result.
func (d *Document) Apply(change ContentChange) *Document {
	if !change.HasRange {
		return New(change.NewText)
	}

	startOffset := d.positionToByteOffset(change.Range.Start)
	endOffset := d.positionToByteOffset(change.Range.End)

	var b strings.Builder
	b.WriteString(d.text[:startOffset])
	b.WriteString(change.NewText)
	b.WriteString(d.text[endOffset:])
	return New(b.String())
}

// positionToByteOffset converts a line/UTF-16-column position into a byte
// offset into the full document text.
func (d *Document) positionToByteOffset(pos Position) int {
	offset := 0
	for i := uint32(0); i < pos.Line && i < uint32(len(d.lines)); i++ {
		offset += len(d.lines[i]) + 1 // +1 for the stripped "\n"
	}
	if int(pos.Line) >= len(d.lines) {
		return len(d.text)
	}
	line := d.lines[pos.Line]
	offset += utf16ColumnToByteOffset(line, pos.Character)
	return offset
}

func utf16ColumnToByteOffset(line string, column uint32) int {
	var unit uint32
	for i, r := range line {
		if unit >= column {
			return i
		}
		if r > 0xFFFF {
			unit += 2
		} else {
			unit++
		}
	}
	return len(line)
}

// Mirror is a concurrent map of open documents keyed by normalized URI.
// Per-entry mutation during didChange is exclusive; reads from
// completion proceed concurrently across different URIs.
type Mirror struct {
	mu    sync.RWMutex
	byURI map[string]*Document
}

// NewMirror returns an empty document mirror.
func NewMirror() *Mirror {
	return &Mirror{byURI: make(map[string]*Document)}
}

// normalizeURI canonicalizes a raw LSP DocumentURI so textually different
// URIs the client sends for the same resource (e.g. differing percent-
// encoding) still resolve to the same Mirror entry, rather than treating
// the wire string as an opaque map key.
func normalizeURI(raw string) string {
	return string(lspuri.New(raw))
}

// Open stores the initial snapshot for uri.
func (m *Mirror) Open(uri string, text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byURI[normalizeURI(uri)] = New(text)
}

// Get returns the current snapshot for uri, or nil if not open.
func (m *Mirror) Get(uri string) *Document {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.byURI[normalizeURI(uri)]
}

// ApplyChanges applies each change in order to uri's stored snapshot,
// replacing it atomically.
func (m *Mirror) ApplyChanges(uri string, changes []ContentChange) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := normalizeURI(uri)
	doc, ok := m.byURI[key]
	if !ok {
		doc = New("")
	}
	for _, c := range changes {
		doc = doc.Apply(c)
	}
	m.byURI[key] = doc
}

// Close removes uri's snapshot.
func (m *Mirror) Close(uri string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.byURI, normalizeURI(uri))
}
