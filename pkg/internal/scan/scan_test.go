package scan_test

import (
	"testing"

	"github.com/appcanvas/genparse/pkg/internal/scan"
)

func TestBalancedObject(t *testing.T) {
	b := scan.Check(`{"a": [1, 2], "b": "x"}`, scan.ModeJSON)
	if !b.Balanced {
		t.Errorf("expected balanced, got open=%q inString=%v", b.Open, b.InString)
	}
}

func TestOpenStackOrder(t *testing.T) {
	b := scan.Check(`{"a": [1, {"b": (`, scan.ModeCode)
	if b.Balanced {
		t.Fatal("expected unbalanced")
	}
	if got := string(b.Open); got != "{[{(" {
		t.Errorf("open stack = %q, want %q", got, "{[{(")
	}
	if got := scan.Closers(b.Open); got != ")}]}" {
		t.Errorf("closers = %q, want %q", got, ")}]}")
	}
}

func TestBracketsInsideStringIgnored(t *testing.T) {
	b := scan.Check(`{"a": "}}]]))"}`, scan.ModeJSON)
	if !b.Balanced {
		t.Errorf("brackets inside string should not count, open=%q", b.Open)
	}
}

func TestEscapedQuoteDoesNotClose(t *testing.T) {
	b := scan.Check(`{"a": "he said \"hi`, scan.ModeJSON)
	if !b.InString {
		t.Error("escaped quote must not terminate the string")
	}
	if b.Quote != '"' {
		t.Errorf("quote = %q, want double quote", b.Quote)
	}
}

func TestEscapedBackslashThenQuoteCloses(t *testing.T) {
	b := scan.Check(`{"a": "c:\\"}`, scan.ModeJSON)
	if !b.Balanced {
		t.Errorf("\\\\ escapes the backslash, not the quote; open=%q inString=%v", b.Open, b.InString)
	}
}

func TestSingleQuoteOnlyInCodeMode(t *testing.T) {
	if b := scan.Check(`const a = 'x{`, scan.ModeCode); !b.InString {
		t.Error("code mode should track single quotes")
	}
	if b := scan.Check(`{"it's": 1}`, scan.ModeJSON); !b.Balanced {
		t.Error("JSON mode should ignore apostrophes")
	}
}

func TestTemplateLiteral(t *testing.T) {
	b := scan.Check("const s = `hello {world", scan.ModeCode)
	if !b.InString || b.Quote != '`' {
		t.Errorf("expected open template literal, quote=%q", b.Quote)
	}
	if len(b.Open) != 0 {
		t.Errorf("brace inside template literal counted: %q", b.Open)
	}
}

func TestStrayCloserIgnored(t *testing.T) {
	b := scan.Check(`}`, scan.ModeJSON)
	if len(b.Open) != 0 {
		t.Errorf("stray closer must not corrupt the stack: %q", b.Open)
	}
}

func TestScannerStepIncremental(t *testing.T) {
	s := scan.New(scan.ModeJSON)
	s.WriteString(`{"key": "val`)
	if !s.InString() {
		t.Fatal("expected to be mid-string")
	}
	s.WriteString(`ue"}`)
	if s.InString() || s.Depth() != 0 {
		t.Errorf("expected balanced after remainder, depth=%d", s.Depth())
	}
}
