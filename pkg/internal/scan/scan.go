// Package scan implements the string/escape-aware bracket scanner shared by
// the JSON repair and code repair passes. Every component that needs to know
// "am I inside a string literal" or "which brackets are still open" steps
// this scanner instead of re-deriving string state with its own regex.
package scan

// Mode selects which quote characters toggle string state.
type Mode int

const (
	// ModeJSON tracks double quotes only, as JSON has no other string form.
	ModeJSON Mode = iota
	// ModeCode tracks single, double and backtick (template) quotes.
	ModeCode
)

// Scanner is a small state machine advanced one byte at a time. Bracket and
// quote characters are ASCII, so UTF-8 continuation bytes pass through
// without affecting state.
type Scanner struct {
	mode    Mode
	quote   byte // active quote character, 0 when outside strings
	escaped bool
	open    []byte // open brackets seen outside strings, in order
}

// New returns a scanner in the given mode, positioned before any input.
func New(mode Mode) *Scanner {
	return &Scanner{mode: mode}
}

// Step advances the scanner by one byte.
func (s *Scanner) Step(ch byte) {
	if s.quote != 0 {
		if s.escaped {
			s.escaped = false
			return
		}
		switch ch {
		case '\\':
			s.escaped = true
		case s.quote:
			s.quote = 0
		}
		return
	}

	switch ch {
	case '"':
		s.quote = ch
	case '\'', '`':
		if s.mode == ModeCode {
			s.quote = ch
		}
	case '{', '[', '(':
		s.open = append(s.open, ch)
	case '}', ']', ')':
		if n := len(s.open); n > 0 && closerFor(s.open[n-1]) == ch {
			s.open = s.open[:n-1]
		}
	}
}

// WriteString advances the scanner over every byte of text.
func (s *Scanner) WriteString(text string) {
	for i := 0; i < len(text); i++ {
		s.Step(text[i])
	}
}

// InString reports whether the scanner is currently inside a string literal.
func (s *Scanner) InString() bool { return s.quote != 0 }

// Quote returns the active quote character, or 0 outside strings.
func (s *Scanner) Quote() byte { return s.quote }

// Open returns a copy of the open-bracket stack, oldest first.
func (s *Scanner) Open() []byte {
	out := make([]byte, len(s.open))
	copy(out, s.open)
	return out
}

// Depth returns the number of unclosed brackets.
func (s *Scanner) Depth() int { return len(s.open) }

// Balance is the end-of-text snapshot produced by Check.
type Balance struct {
	Balanced bool
	InString bool
	Quote    byte
	Open     []byte // oldest first
}

// Check scans the whole text and reports its balance state.
func Check(text string, mode Mode) Balance {
	s := New(mode)
	s.WriteString(text)
	return Balance{
		Balanced: !s.InString() && s.Depth() == 0,
		InString: s.InString(),
		Quote:    s.Quote(),
		Open:     s.Open(),
	}
}

// Closers returns the closing brackets for an open stack, last opened first,
// so appending the result to the scanned text balances it.
func Closers(open []byte) string {
	out := make([]byte, len(open))
	for i, ch := range open {
		out[len(open)-1-i] = closerFor(ch)
	}
	return string(out)
}

func closerFor(open byte) byte {
	switch open {
	case '{':
		return '}'
	case '[':
		return ']'
	case '(':
		return ')'
	}
	return 0
}
