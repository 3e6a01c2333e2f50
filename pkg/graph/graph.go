package graph

import (
	"slices"
	"sort"
)

// DependencyKind classifies a package as a production, development, peer, or
// optional dependency. An absent kind is treated as production.
type DependencyKind string

// Dependency kinds.
const (
	KindProduction  DependencyKind = "production"
	KindDevelopment DependencyKind = "development"
	KindPeer        DependencyKind = "peer"
	KindOptional    DependencyKind = "optional"
)

// VersionUnknown is the sentinel version used when a lockfile entry omits
// the resolved version.
const VersionUnknown = "unknown"

// Node is a resolved package instance in the dependency graph.
//
// The field names are the wire contract consumed by visualization frontends;
// do not rename the JSON tags.
type Node struct {
	ID                 string         `json:"id"`      // canonical form "name@version"
	Name               string         `json:"name"`    // may contain an organization scope segment
	Version            string         `json:"version"` // resolved version, or VersionUnknown
	Kind               DependencyKind `json:"dependencyKind,omitempty"`
	HasVersionConflict bool           `json:"hasVersionConflict,omitempty"`

	// GraphDistance is the shortest number of edges from the root node.
	// It is computed only for the pnpm table format and nil otherwise.
	GraphDistance *int `json:"graphDistance,omitempty"`
}

// Edge is a directed depends-on relationship, parent → dependency.
// Parallel edges between the same pair with different kinds are permitted.
type Edge struct {
	SourceID string         `json:"sourceId"`
	TargetID string         `json:"targetId"`
	Kind     DependencyKind `json:"dependencyKind,omitempty"`
}

// Graph is the normalized dependency graph produced by a single parse call.
// It is immutable output: downstream filtering operates on copies.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// NodeID returns the canonical node identifier for a (name, version) pair.
func NodeID(name, version string) string {
	return name + "@" + version
}

// Node returns the node with the given ID and true, or a zero Node and false.
func (g *Graph) Node(id string) (Node, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int { return len(g.Nodes) }

// EdgeCount returns the number of edges in the graph.
func (g *Graph) EdgeCount() int { return len(g.Edges) }

// Conflicts returns the package names that resolve to more than one version,
// sorted by name, each with its sorted list of distinct versions.
func (g *Graph) Conflicts() []Conflict {
	versions := make(map[string][]string)
	for _, n := range g.Nodes {
		if !slices.Contains(versions[n.Name], n.Version) {
			versions[n.Name] = append(versions[n.Name], n.Version)
		}
	}

	var out []Conflict
	for name, vs := range versions {
		if len(vs) < 2 {
			continue
		}
		sort.Strings(vs)
		out = append(out, Conflict{Name: name, Versions: vs})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Conflict reports a package name resolving to multiple distinct versions.
type Conflict struct {
	Name     string   `json:"name"`
	Versions []string `json:"versions"`
}
