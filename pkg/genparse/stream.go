package genparse

import "sync"

// StreamParser accumulates streamed response chunks and re-parses the whole
// buffer on every feed. Re-parsing from scratch keeps results monotonic: a
// file that was complete at chunk N stays complete and identical at chunk
// N+1 unless the stream itself reopens it.
type StreamParser struct {
	opts   []Option
	buffer []byte
	mu     sync.Mutex
}

// NewStreamParser creates a parser for streamed responses. Options apply to
// every Feed call.
//
// Example:
//
//	parser := genparse.NewStreamParser()
//
//	// Feed chunks as they arrive
//	res, err := parser.Feed(`<!-- FILE:src/App.tsx -->`)
//	res, err = parser.Feed("export default function App() {}\n")
//	res, err = parser.Feed(`<!-- /FILE:src/App.tsx -->`)
//
//	if !res.Truncated {
//	    // Everything opened so far has closed
//	}
func NewStreamParser(opts ...Option) *StreamParser {
	return &StreamParser{
		opts:   opts,
		buffer: make([]byte, 0, 1024),
	}
}

// Feed appends a chunk and parses the accumulated buffer. The buffer grows
// across calls, so pass each delta, not the full text.
func (sp *StreamParser) Feed(chunk string) (*ParseResult, error) {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	sp.buffer = append(sp.buffer, chunk...)
	return Parse(string(sp.buffer), sp.opts...)
}

// Reset clears the buffer and starts fresh.
func (sp *StreamParser) Reset() {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	sp.buffer = sp.buffer[:0]
}

// Buffer returns a copy of the accumulated text.
func (sp *StreamParser) Buffer() string {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	return string(sp.buffer)
}
