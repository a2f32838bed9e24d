package document

import "testing"

func TestBackwardForwardLine(t *testing.T) {
	d := New("hello nihao world\nsecond line")
	pos := Position{Line: 0, Character: 11} // after "hello nihao"
	if got := d.BackwardLine(pos); got != "hello nihao" {
		t.Fatalf("expected 'hello nihao', got %q", got)
	}
	if got := d.ForwardLine(pos); got != " world" {
		t.Fatalf("expected ' world', got %q", got)
	}
}

func TestBackwardLineWithHanziPrefix(t *testing.T) {
	d := New("你好ni")
	pos := Position{Line: 0, Character: 4} // 你(1) 好(1) n(1) i(1) = 4 units
	if got := d.BackwardLine(pos); got != "你好ni" {
		t.Fatalf("expected full prefix, got %q", got)
	}
}

func TestApplyFullReplacement(t *testing.T) {
	d := New("old text")
	d2 := d.Apply(ContentChange{NewText: "new text"})
	if d2.Text() != "new text" {
		t.Fatalf("expected full replace, got %q", d2.Text())
	}
	if d.Text() != "old text" {
		t.Fatal("original snapshot must remain unmodified")
	}
}

func TestApplyIncrementalRangeReplace(t *testing.T) {
	d := New("hello world")
	// replace "world" (chars 6..11) with "there"
	d2 := d.Apply(ContentChange{
		HasRange: true,
		Range: Range{
			Start: Position{Line: 0, Character: 6},
			End:   Position{Line: 0, Character: 11},
		},
		NewText: "there",
	})
	if d2.Text() != "hello there" {
		t.Fatalf("expected 'hello there', got %q", d2.Text())
	}
}

func TestApplySequenceOfDeltasMatchesDirectConstruction(t *testing.T) {
	// Document replay invariant: applying a sequence of didChange deltas to
	// an empty document yields the same snapshot as directly constructing
	// it from the concatenation of edits.
	d := New("")
	d = d.Apply(ContentChange{NewText: "hello"})
	d = d.Apply(ContentChange{
		HasRange: true,
		Range: Range{
			Start: Position{Line: 0, Character: 5},
			End:   Position{Line: 0, Character: 5},
		},
		NewText: " world",
	})

	direct := New("hello world")
	if d.Text() != direct.Text() {
		t.Fatalf("replay mismatch: got %q, want %q", d.Text(), direct.Text())
	}
}

func TestMirrorOpenChangeClose(t *testing.T) {
	m := NewMirror()
	m.Open("file:///a.txt", "nihao")
	if m.Get("file:///a.txt").Text() != "nihao" {
		t.Fatal("expected opened content")
	}

	m.ApplyChanges("file:///a.txt", []ContentChange{{
		HasRange: true,
		Range: Range{
			Start: Position{Line: 0, Character: 5},
			End:   Position{Line: 0, Character: 5},
		},
		NewText: " ma",
	}})
	if m.Get("file:///a.txt").Text() != "nihao ma" {
		t.Fatalf("expected 'nihao ma', got %q", m.Get("file:///a.txt").Text())
	}

	m.Close("file:///a.txt")
	if m.Get("file:///a.txt") != nil {
		t.Fatal("expected document removed after close")
	}
}

func TestMirrorConcurrentReadsOnDifferentURIsDoNotRace(t *testing.T) {
	m := NewMirror()
	m.Open("file:///a.txt", "a")
	m.Open("file:///b.txt", "b")

	done := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			m.Get("file:///a.txt")
		}
		close(done)
	}()
	for i := 0; i < 1000; i++ {
		m.Get("file:///b.txt")
	}
	<-done
}
