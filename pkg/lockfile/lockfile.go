package lockfile

import (
	"github.com/lockgraph/lockgraph/pkg/errors"
	"github.com/lockgraph/lockgraph/pkg/graph"
	"github.com/lockgraph/lockgraph/pkg/lockfile/npm"
	"github.com/lockgraph/lockgraph/pkg/lockfile/pnpm"
	"github.com/lockgraph/lockgraph/pkg/lockfile/yarn"
)

// Recognized format selectors.
const (
	FormatNPM  = npm.Format  // package-lock.json
	FormatYarn = yarn.Format // yarn.lock
	FormatPnpm = pnpm.Format // pnpm-lock.yaml
)

// Parser parses one lockfile grammar into the normalized graph.
type Parser interface {
	// Format returns the format selector this parser implements.
	Format() string
	// Supports reports whether the filename names this grammar.
	Supports(filename string) bool
	// Sniff reports whether the content looks like this grammar.
	Sniff(content []byte) bool
	// Parse builds the graph from an already-materialized document.
	Parse(content []byte) (*graph.Graph, error)
}

// parsers returns the parser set in sniffing order. The block-text parser
// claims anything the two table formats do not, so it goes last.
func parsers() []Parser {
	return []Parser{npm.New(), pnpm.New(), yarn.New()}
}

// Formats returns the recognized format selectors.
func Formats() []string {
	return []string{FormatNPM, FormatYarn, FormatPnpm}
}

// Detect chooses the parser for the given content and optional filename.
// A filename matching one of the recognized selectors is authoritative;
// otherwise the content is sniffed, falling back to the block-text grammar.
// Detect always makes a best-effort choice and never fails.
func Detect(content []byte, filename string) Parser {
	all := parsers()

	if filename != "" {
		for _, p := range all {
			if p.Supports(filename) {
				return p
			}
		}
	}

	for _, p := range all {
		if p.Sniff(content) {
			return p
		}
	}

	// Unreachable: the block-text parser sniffs everything.
	return yarn.New()
}

// Parse is the single entry point for every consumer: it detects the format
// from the filename hint and content, parses the document, and returns the
// normalized graph or a failure. No partial graph is ever returned on
// failure.
func Parse(content []byte, filename string) (*graph.Graph, error) {
	return Detect(content, filename).Parse(content)
}

// ParseFormat parses with an explicit format selector (the legacy call
// shape). A selector outside the three recognized values fails with
// UNSUPPORTED_FORMAT.
func ParseFormat(content []byte, format string) (*graph.Graph, error) {
	for _, p := range parsers() {
		if p.Format() == format {
			return p.Parse(content)
		}
	}
	return nil, errors.New(errors.ErrCodeUnsupportedFormat, "unsupported lockfile format: %q", format)
}
