package genparse

import (
	"github.com/appcanvas/genparse/pkg/internal/codeclean"
)

// DefaultMaxInputSize is the ceiling above which Parse refuses to scan.
const DefaultMaxInputSize = 500_000

// DefaultMinFileLength is the minimum cleaned content length; shorter
// extractions are discarded rather than stored as junk files.
const DefaultMinFileLength = 10

// Option configures a parse call.
type Option func(*options)

type options struct {
	maxInputSize       int
	minFileLength      int
	aggressiveRecovery bool
	autoRepair         bool
	ignorePath         func(string) bool
	cleaner            func(path, content string) string
}

func defaultOptions() *options {
	return &options{
		maxInputSize:       DefaultMaxInputSize,
		minFileLength:      DefaultMinFileLength,
		aggressiveRecovery: true,
		autoRepair:         true,
		ignorePath:         codeclean.IsIgnoredPath,
		cleaner:            codeclean.Clean,
	}
}

// WithMaxInputSize overrides the input size ceiling. Zero disables the guard.
func WithMaxInputSize(n int) Option {
	return func(o *options) { o.maxInputSize = n }
}

// WithMinFileLength overrides the minimum cleaned content length.
func WithMinFileLength(n int) Option {
	return func(o *options) { o.minFileLength = n }
}

// WithAggressiveRecovery controls whether a parse that yields zero files
// retries with the remaining extractors. Enabled by default.
func WithAggressiveRecovery(enabled bool) Option {
	return func(o *options) { o.aggressiveRecovery = enabled }
}

// WithAutoRepair controls whether extracted code files run through the
// syntax auto-repair pipeline. Enabled by default.
func WithAutoRepair(enabled bool) Option {
	return func(o *options) { o.autoRepair = enabled }
}

// WithIgnorePath replaces the predicate that drops VCS/build-artifact paths.
func WithIgnorePath(fn func(path string) bool) Option {
	return func(o *options) {
		if fn != nil {
			o.ignorePath = fn
		}
	}
}

// WithCleaner replaces the content cleaner applied to every extracted file.
func WithCleaner(fn func(path, content string) string) Option {
	return func(o *options) {
		if fn != nil {
			o.cleaner = fn
		}
	}
}
