// Package yarn parses the block-structured plain-text lockfile grammar
// (yarn.lock) into the normalized dependency graph.
//
// The grammar has no reliable way to distinguish direct from transitive
// dependencies, so every parsed package is conservatively linked from a
// synthetic root in addition to any discovered parent links. Dependency
// entries carry only a version range, not the resolved version; the parser
// links to the first already-known node sharing the dependency name. This
// first-match resolution can mis-link when multiple versions of the same
// package coexist - a precision loss inherent to the format, kept on
// purpose.
package yarn

import (
	"bufio"
	"bytes"
	"strings"

	"github.com/lockgraph/lockgraph/pkg/errors"
	"github.com/lockgraph/lockgraph/pkg/graph"
)

// Format is the selector for this grammar.
const Format = "yarn.lock"

const (
	rootName    = "root"
	rootVersion = "1.0.0"
)

// Parser parses yarn.lock lockfiles.
type Parser struct{}

// New creates a yarn.lock parser.
func New() *Parser { return &Parser{} }

// Format returns the format selector for this parser.
func (p *Parser) Format() string { return Format }

// Supports reports whether the filename names a yarn.lock document.
func (p *Parser) Supports(filename string) bool {
	return strings.Contains(strings.ToLower(filename), Format)
}

// Sniff always claims the content: the block-text grammar is the fallback
// for anything the JSON and YAML table formats do not recognize.
func (p *Parser) Sniff(content []byte) bool { return true }

// Parse builds the dependency graph from a yarn.lock document. It fails
// with NO_DEPENDENCIES when no package block yields both a name and a
// version, leaving only the synthetic root.
func (p *Parser) Parse(content []byte) (*graph.Graph, error) {
	b := graph.NewBuilder()
	root := b.AddNode(rootName, rootVersion, graph.KindProduction)

	// First node created per package name, for first-match dependency links.
	known := map[string]string{rootName: root.ID}

	for _, block := range splitBlocks(content) {
		pkg, ok := parseBlock(block)
		if !ok {
			continue
		}

		node := b.AddNode(pkg.name, pkg.version, graph.KindProduction)
		if _, seen := known[pkg.name]; !seen {
			known[pkg.name] = node.ID
		}
		b.AddEdge(root.ID, node.ID, graph.KindProduction)

		for _, dep := range pkg.deps {
			if id, seen := known[dep]; seen {
				b.AddEdge(node.ID, id, graph.KindProduction)
			}
		}
	}

	if b.NodeCount() <= 1 {
		return nil, errors.New(errors.ErrCodeNoDependencies, "no dependencies found in %s", Format)
	}

	return b.Build(), nil
}

// blockPackage is the content of one parsed block.
type blockPackage struct {
	name    string
	version string
	deps    []string
}

// splitBlocks splits the document into blocks separated by blank lines.
func splitBlocks(content []byte) [][]string {
	var blocks [][]string
	var cur []string

	sc := bufio.NewScanner(bytes.NewReader(content))
	for sc.Scan() {
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			if len(cur) > 0 {
				blocks = append(blocks, cur)
				cur = nil
			}
			continue
		}
		cur = append(cur, line)
	}
	if len(cur) > 0 {
		blocks = append(blocks, cur)
	}
	return blocks
}

// parseBlock extracts the package name, resolved version, and declared
// dependency names from one block. Comment lines are skipped; a block
// without both a header and a version line is not a package.
func parseBlock(lines []string) (blockPackage, bool) {
	var pkg blockPackage

	i := 0
	for i < len(lines) && strings.HasPrefix(strings.TrimSpace(lines[i]), "#") {
		i++
	}
	if i >= len(lines) {
		return pkg, false
	}

	header := strings.TrimSpace(lines[i])
	if !strings.HasSuffix(header, ":") {
		return pkg, false
	}
	pkg.name = headerName(header)

	inDeps := false
	for _, line := range lines[i+1:] {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "version "):
			pkg.version = unquote(strings.TrimPrefix(trimmed, "version "))
			inDeps = false
		case strings.HasSuffix(trimmed, ":"):
			// A new nested section; only dependencies: is consumed.
			inDeps = trimmed == "dependencies:"
		case inDeps:
			if fields := strings.Fields(trimmed); len(fields) > 0 {
				pkg.deps = append(pkg.deps, unquote(fields[0]))
			}
		}
	}

	return pkg, pkg.name != "" && pkg.version != ""
}

// headerName extracts the package name from a block header like
// `foo@^1.0.0, foo@^1.2.0:` or `"@scope/bar@^2.0.0":`. The name is the text
// before the version delimiter; a leading @ belongs to the scope and never
// delimits.
func headerName(header string) string {
	spec := strings.TrimSuffix(header, ":")
	if i := strings.Index(spec, ","); i >= 0 {
		spec = spec[:i]
	}
	spec = unquote(strings.TrimSpace(spec))

	start := 0
	if strings.HasPrefix(spec, "@") {
		start = 1
	}
	if i := strings.Index(spec[start:], "@"); i >= 0 {
		return spec[:start+i]
	}
	return spec
}

// unquote strips surrounding double quotes, if any.
func unquote(s string) string {
	return strings.Trim(s, `"`)
}
