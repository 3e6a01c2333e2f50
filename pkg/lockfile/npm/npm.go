// Package npm parses package-lock.json documents into the normalized
// dependency graph. Real-world lockfiles may carry the legacy nested
// dependency tree, the modern flat package table, or both; both shapes are
// merged against one root node.
package npm

import (
	"bytes"
	"encoding/json"
	"maps"
	"slices"
	"strings"

	"github.com/lockgraph/lockgraph/pkg/errors"
	"github.com/lockgraph/lockgraph/pkg/graph"
)

// Format is the selector for this grammar.
const Format = "package-lock.json"

const (
	defaultRootName    = "root"
	defaultRootVersion = "0.0.0"
)

// Parser parses package-lock.json lockfiles.
type Parser struct{}

// New creates a package-lock.json parser.
func New() *Parser { return &Parser{} }

// Format returns the format selector for this parser.
func (p *Parser) Format() string { return Format }

// Supports reports whether the filename names a package-lock.json document.
func (p *Parser) Supports(filename string) bool {
	return strings.Contains(strings.ToLower(filename), Format)
}

// Sniff reports whether the content looks like a package-lock.json document:
// a JSON object carrying a lockfileVersion key.
func (p *Parser) Sniff(content []byte) bool {
	trimmed := bytes.TrimLeft(content, " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == '{' &&
		bytes.Contains(content, []byte(`"lockfileVersion"`))
}

// document is the package-lock.json schema. The two dependency shapes are
// decided once here and dispatched to their own walkers; no ad hoc shape
// probing happens later.
type document struct {
	Name         string                 `json:"name"`
	Version      string                 `json:"version"`
	Dependencies map[string]legacyEntry `json:"dependencies"`
	Packages     map[string]tableEntry  `json:"packages"`
}

// legacyEntry is one entry of the legacy nested dependency tree
// (lockfileVersion 1, and the compatibility section of version 2).
type legacyEntry struct {
	Version      string                 `json:"version"`
	Dev          bool                   `json:"dev"`
	Peer         bool                   `json:"peer"`
	Optional     bool                   `json:"optional"`
	Dependencies map[string]legacyEntry `json:"dependencies"`
}

// tableEntry is one entry of the modern flat package table
// (lockfileVersion 2 and 3), keyed by a node_modules path.
type tableEntry struct {
	Version      string            `json:"version"`
	Dev          bool              `json:"dev"`
	Peer         bool              `json:"peer"`
	Optional     bool              `json:"optional"`
	Dependencies map[string]string `json:"dependencies"`
}

// Parse builds the dependency graph from a package-lock.json document.
// It fails with MALFORMED_INPUT on invalid JSON and NO_DEPENDENCIES when
// the document yields no nodes beyond the project root.
func (p *Parser) Parse(content []byte) (*graph.Graph, error) {
	var doc document
	if err := json.Unmarshal(content, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeMalformedInput, err, "parse %s", Format)
	}

	b := graph.NewBuilder()

	rootName := doc.Name
	if rootName == "" {
		rootName = defaultRootName
	}
	rootVersion := doc.Version
	if rootVersion == "" {
		rootVersion = defaultRootVersion
	}
	root := b.AddNode(rootName, rootVersion, graph.KindProduction)

	walkLegacy(b, root.ID, doc.Dependencies, false)
	parseTable(b, root.ID, doc.Packages)

	if b.NodeCount() <= 1 {
		return nil, errors.New(errors.ErrCodeNoDependencies, "no dependencies found in %s", Format)
	}

	return b.Build(), nil
}

// walkLegacy flattens the legacy nested dependency tree depth-first. A dev
// classification is sticky downward: every descendant of a dev entry is
// development regardless of its own flags. Peer and optional are evaluated
// per entry. Every visited entry creates exactly one edge from its
// immediate parent.
func walkLegacy(b *graph.Builder, parentID string, deps map[string]legacyEntry, parentDev bool) {
	for _, name := range slices.Sorted(maps.Keys(deps)) {
		entry := deps[name]
		dev := parentDev || entry.Dev
		kind := classify(dev, entry.Peer, entry.Optional)

		node := b.AddNode(name, entry.Version, kind)
		b.AddEdge(parentID, node.ID, kind)

		walkLegacy(b, node.ID, entry.Dependencies, dev)
	}
}

// parseTable flattens the modern flat package table. Node names are the path
// segment after the last node_modules marker, which keeps organization
// scopes intact. Edge targets are reconstructed as name@declaredVersion;
// targets that never materialize as nodes are dropped by the assembler.
// Entries nested exactly one node_modules deep are direct children of the
// root and get an extra root edge of the same kind.
func parseTable(b *graph.Builder, rootID string, packages map[string]tableEntry) {
	keys := slices.Sorted(maps.Keys(packages))

	// Nodes first, so edge kinds can read the target's classification.
	for _, key := range keys {
		if key == "" {
			continue // the root project's own table entry
		}
		entry := packages[key]
		b.AddNode(pathName(key), entry.Version, classify(entry.Dev, entry.Peer, entry.Optional))
	}

	for _, key := range keys {
		if key == "" {
			continue
		}
		entry := packages[key]
		srcID := nodeID(pathName(key), entry.Version)

		for _, depName := range slices.Sorted(maps.Keys(entry.Dependencies)) {
			targetID := graph.NodeID(depName, entry.Dependencies[depName])
			kind := graph.KindProduction
			if target, ok := b.Node(targetID); ok {
				kind = target.Kind
			}
			b.AddEdge(srcID, targetID, kind)
		}

		if strings.Count(key, "node_modules") == 1 {
			b.AddEdge(rootID, srcID, classify(entry.Dev, entry.Peer, entry.Optional))
		}
	}
}

// classify maps entry flags to a dependency kind with the precedence
// dev > peer > optional > production.
func classify(dev, peer, optional bool) graph.DependencyKind {
	switch {
	case dev:
		return graph.KindDevelopment
	case peer:
		return graph.KindPeer
	case optional:
		return graph.KindOptional
	default:
		return graph.KindProduction
	}
}

// pathName extracts the package name from a table path like
// "node_modules/@scope/name" or "node_modules/a/node_modules/b".
func pathName(key string) string {
	const marker = "node_modules/"
	if i := strings.LastIndex(key, marker); i >= 0 {
		return key[i+len(marker):]
	}
	return key
}

// nodeID mirrors the builder's empty-version fallback so table edges line up
// with their source nodes.
func nodeID(name, version string) string {
	if version == "" {
		version = graph.VersionUnknown
	}
	return graph.NodeID(name, version)
}
