// Package pnpm parses pnpm-lock.yaml documents into the normalized
// dependency graph. This is the only format for which graph distances from
// the root are computed: every table node starts at an unreachable
// placeholder, and a breadth-first pass after edge discovery assigns the
// minimum hop count to every node the root can reach.
package pnpm

import (
	"maps"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lockgraph/lockgraph/pkg/errors"
	"github.com/lockgraph/lockgraph/pkg/graph"
)

// Format is the selector for this grammar.
const Format = "pnpm-lock.yaml"

const (
	defaultRootName    = "root"
	defaultRootVersion = "0.0.0"
)

// Parser parses pnpm-lock.yaml lockfiles.
type Parser struct{}

// New creates a pnpm-lock.yaml parser.
func New() *Parser { return &Parser{} }

// Format returns the format selector for this parser.
func (p *Parser) Format() string { return Format }

// Supports reports whether the filename names a pnpm-lock.yaml document.
func (p *Parser) Supports(filename string) bool {
	return strings.Contains(strings.ToLower(filename), Format)
}

// Sniff reports whether the content opens with a YAML lockfileVersion key.
func (p *Parser) Sniff(content []byte) bool {
	for _, line := range strings.Split(string(content), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		return strings.HasPrefix(trimmed, "lockfileVersion:")
	}
	return false
}

// document is the pnpm-lock.yaml schema.
type document struct {
	Name            string                    `yaml:"name"`
	Version         string                    `yaml:"version"`
	Dependencies    map[string]rootDependency `yaml:"dependencies"`
	DevDependencies map[string]rootDependency `yaml:"devDependencies"`
	Packages        map[string]entry          `yaml:"packages"`
}

// rootDependency accepts both the scalar shape of lockfileVersion 5
// ("4.17.21") and the object shape of version 6 ({specifier, version}).
type rootDependency struct {
	Version string
}

// UnmarshalYAML implements custom decoding for the two shapes.
func (d *rootDependency) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		return value.Decode(&d.Version)
	}
	var obj struct {
		Version string `yaml:"version"`
	}
	if err := value.Decode(&obj); err != nil {
		return err
	}
	d.Version = obj.Version
	return nil
}

// entry is one flat package table entry, keyed by a /name@version path.
type entry struct {
	Dev          bool              `yaml:"dev"`
	Optional     bool              `yaml:"optional"`
	Dependencies map[string]string `yaml:"dependencies"`
}

// Parse builds the dependency graph from a pnpm-lock.yaml document. Unlike
// the other two families, an empty or root-only result is returned as-is
// rather than raising NO_DEPENDENCIES.
func (p *Parser) Parse(content []byte) (*graph.Graph, error) {
	var doc document
	if err := yaml.Unmarshal(content, &doc); err != nil {
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
	zero := 0
	root.GraphDistance = &zero

	keys := slices.Sorted(maps.Keys(doc.Packages))

	for _, key := range keys {
		name, version, ok := parseKey(key)
		if !ok {
			continue
		}
		e := doc.Packages[key]
		node := b.AddNode(name, version, classify(e))
		initDistance(node)
	}

	for _, key := range keys {
		name, version, ok := parseKey(key)
		if !ok {
			continue
		}
		e := doc.Packages[key]
		srcID := graph.NodeID(name, version)

		for _, depName := range slices.Sorted(maps.Keys(e.Dependencies)) {
			dep := b.AddNode(depName, concreteVersion(e.Dependencies[depName]), graph.KindProduction)
			initDistance(dep)
			b.AddEdge(srcID, dep.ID, dep.Kind)
		}

		// Entries named in the document's top-level dependency maps hang
		// directly off the root.
		if _, isProd := doc.Dependencies[name]; isProd {
			b.AddEdge(root.ID, srcID, graph.KindProduction)
		}
		if _, isDev := doc.DevDependencies[name]; isDev {
			b.AddEdge(root.ID, srcID, graph.KindDevelopment)
		}
	}

	b.ComputeDistances(root.ID)

	return b.Build(), nil
}

// classify maps entry flags to a dependency kind. The table grammar has no
// peer flag; dev wins over optional.
func classify(e entry) graph.DependencyKind {
	switch {
	case e.Dev:
		return graph.KindDevelopment
	case e.Optional:
		return graph.KindOptional
	default:
		return graph.KindProduction
	}
}

// parseKey splits a table key like "/lodash@4.17.21" or
// "/@scope/name@1.0.0(react@18.2.0)" into name and version. The root
// project's own entry and malformed keys report false.
func parseKey(key string) (name, version string, ok bool) {
	if !strings.HasPrefix(key, "/") {
		return "", "", false
	}
	spec := key[1:]
	if i := strings.Index(spec, "("); i >= 0 {
		spec = spec[:i]
	}

	i := strings.LastIndex(spec, "@")
	if i <= 0 {
		return "", "", false
	}
	return spec[:i], spec[i+1:], true
}

// concreteVersion strips range prefixes from a declared dependency version
// and drops any peer-resolution suffix.
func concreteVersion(v string) string {
	v = strings.TrimPrefix(v, "^")
	v = strings.TrimPrefix(v, "~")
	if i := strings.Index(v, "("); i >= 0 {
		v = v[:i]
	}
	return v
}

// initDistance seeds a table node with the unreachable placeholder. Nodes
// the breadth-first pass never reaches keep it.
func initDistance(n *graph.Node) {
	if n.GraphDistance == nil {
		d := graph.DistanceUnreachable
		n.GraphDistance = &d
	}
}
