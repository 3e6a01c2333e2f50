package graph

// Builder accumulates nodes and edges during a single parse call and
// assembles them into a Graph. Each parser owns exactly one Builder, so
// parsing stays a pure function of its input document.
//
// The Builder enforces the assembler invariants:
//   - nodes are deduplicated by ID (first occurrence wins)
//   - edges whose endpoints were never materialized as nodes are dropped
//   - every node sharing a name with another node of a different version is
//     flagged with a version conflict
//
// The zero value is not usable - use NewBuilder.
type Builder struct {
	nodes    map[string]*Node
	order    []string // node IDs in insertion order, for deterministic output
	edges    []Edge
	versions map[string]map[string]struct{} // name -> distinct versions seen
}

// NewBuilder creates an empty Builder.
func NewBuilder() *Builder {
	return &Builder{
		nodes:    make(map[string]*Node),
		versions: make(map[string]map[string]struct{}),
	}
}

// AddNode adds a node for the (name, version) pair and returns it. When a
// node with the same ID already exists, the existing node is returned
// unchanged: deduplication by ID, first occurrence wins. An empty version
// falls back to VersionUnknown.
func (b *Builder) AddNode(name, version string, kind DependencyKind) *Node {
	if version == "" {
		version = VersionUnknown
	}
	id := NodeID(name, version)
	if n, ok := b.nodes[id]; ok {
		return n
	}

	n := &Node{ID: id, Name: name, Version: version, Kind: kind}
	b.nodes[id] = n
	b.order = append(b.order, id)

	if b.versions[name] == nil {
		b.versions[name] = make(map[string]struct{})
	}
	b.versions[name][version] = struct{}{}

	return n
}

// Node returns the node with the given ID and true, or nil and false.
// The returned pointer refers to the builder's node, so mutations
// (e.g. distance assignment) are visible in the built graph.
func (b *Builder) Node(id string) (*Node, bool) {
	n, ok := b.nodes[id]
	return n, ok
}

// AddEdge records a depends-on edge. Endpoints are not checked here;
// Build drops edges whose endpoints never became nodes.
func (b *Builder) AddEdge(sourceID, targetID string, kind DependencyKind) {
	b.edges = append(b.edges, Edge{SourceID: sourceID, TargetID: targetID, Kind: kind})
}

// NodeCount returns the number of distinct nodes added so far.
func (b *Builder) NodeCount() int { return len(b.nodes) }

// VersionsOf returns the distinct versions recorded for a package name.
func (b *Builder) VersionsOf(name string) int { return len(b.versions[name]) }

// Build assembles the final graph: flags version conflicts, filters edges
// with dangling endpoints, and emits nodes in insertion order.
func (b *Builder) Build() *Graph {
	g := &Graph{
		Nodes: make([]Node, 0, len(b.order)),
		Edges: make([]Edge, 0, len(b.edges)),
	}

	for _, id := range b.order {
		n := b.nodes[id]
		n.HasVersionConflict = len(b.versions[n.Name]) > 1
		g.Nodes = append(g.Nodes, *n)
	}

	for _, e := range b.edges {
		if _, ok := b.nodes[e.SourceID]; !ok {
			continue
		}
		if _, ok := b.nodes[e.TargetID]; !ok {
			continue
		}
		g.Edges = append(g.Edges, e)
	}

	return g
}
