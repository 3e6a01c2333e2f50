package pnpm

import (
	"testing"

	"github.com/lockgraph/lockgraph/pkg/errors"
	"github.com/lockgraph/lockgraph/pkg/graph"
)

func TestParser_Supports(t *testing.T) {
	parser := New()

	tests := []struct {
		filename string
		want     bool
	}{
		{"pnpm-lock.yaml", true},
		{"/repo/pnpm-lock.yaml", true},
		{"yarn.lock", false},
		{"pnpm-workspace.yaml", false},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			if got := parser.Supports(tt.filename); got != tt.want {
				t.Errorf("Supports(%q) = %v, want %v", tt.filename, got, tt.want)
			}
		})
	}
}

func TestParser_Sniff(t *testing.T) {
	parser := New()

	tests := []struct {
		name    string
		content string
		want    bool
	}{
		{"version line first", "lockfileVersion: '6.0'\n", true},
		{"after comment", "# header\nlockfileVersion: 5.4\n", true},
		{"json", `{"lockfileVersion": 3}`, false},
		{"yarn", "foo@^1.0.0:\n  version \"1.2.3\"\n", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parser.Sniff([]byte(tt.content)); got != tt.want {
				t.Errorf("Sniff() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParse_TableWithRootEdges(t *testing.T) {
	content := `lockfileVersion: '6.0'

dependencies:
  lodash:
    specifier: ^4.17.0
    version: 4.17.21

devDependencies:
  typescript:
    specifier: ^5.0.0
    version: 5.2.2

packages:

  /lodash@4.17.21:
    resolution: {integrity: sha512-x}

  /typescript@5.2.2:
    resolution: {integrity: sha512-y}
    dev: true
`

	g, err := New().Parse([]byte(content))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	root, ok := g.Node("root@0.0.0")
	if !ok {
		t.Fatal("root node not found")
	}
	if root.GraphDistance == nil || *root.GraphDistance != 0 {
		t.Errorf("root GraphDistance = %v, want 0", root.GraphDistance)
	}

	lodash, ok := g.Node("lodash@4.17.21")
	if !ok {
		t.Fatal("lodash node not found")
	}
	if *lodash.GraphDistance != 1 {
		t.Errorf("lodash GraphDistance = %d, want 1", *lodash.GraphDistance)
	}

	ts, ok := g.Node("typescript@5.2.2")
	if !ok {
		t.Fatal("typescript node not found")
	}
	if ts.Kind != graph.KindDevelopment {
		t.Errorf("typescript Kind = %v, want development", ts.Kind)
	}

	kinds := make(map[string]graph.DependencyKind)
	for _, e := range g.Edges {
		if e.SourceID == root.ID {
			kinds[e.TargetID] = e.Kind
		}
	}
	if kinds["lodash@4.17.21"] != graph.KindProduction {
		t.Errorf("root->lodash kind = %v, want production", kinds["lodash@4.17.21"])
	}
	if kinds["typescript@5.2.2"] != graph.KindDevelopment {
		t.Errorf("root->typescript kind = %v, want development", kinds["typescript@5.2.2"])
	}
}

func TestParse_TransitiveDistances(t *testing.T) {
	content := `lockfileVersion: '6.0'

dependencies:
  a:
    specifier: ^1.0.0
    version: 1.0.0

packages:

  /a@1.0.0:
    dependencies:
      b: 2.0.0

  /b@2.0.0:
    dependencies:
      c: ^3.0.0

  /c@3.0.0: {}
`

	g, err := New().Parse([]byte(content))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	want := map[string]int{
		"a@1.0.0": 1,
		"b@2.0.0": 2,
		"c@3.0.0": 3,
	}
	for id, dist := range want {
		n, ok := g.Node(id)
		if !ok {
			t.Fatalf("node %s not found", id)
		}
		if n.GraphDistance == nil || *n.GraphDistance != dist {
			t.Errorf("%s: GraphDistance = %v, want %d", id, n.GraphDistance, dist)
		}
	}
}

func TestParse_UnreachableKeepsPlaceholder(t *testing.T) {
	// No root reference and no inbound edge: lodash keeps the placeholder.
	content := `lockfileVersion: '6.0'

packages:

  /lodash@4.17.21: {}
`

	g, err := New().Parse([]byte(content))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	n, ok := g.Node("lodash@4.17.21")
	if !ok {
		t.Fatal("lodash node not found")
	}
	if n.GraphDistance == nil || *n.GraphDistance != graph.DistanceUnreachable {
		t.Errorf("GraphDistance = %v, want placeholder %d", n.GraphDistance, graph.DistanceUnreachable)
	}
}

func TestParse_ScalarRootDependencies(t *testing.T) {
	// lockfileVersion 5 uses plain scalars in the top-level maps.
	content := `lockfileVersion: 5.4

dependencies:
  lodash: 4.17.21

packages:

  /lodash@4.17.21: {}
`

	g, err := New().Parse([]byte(content))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	found := false
	for _, e := range g.Edges {
		if e.SourceID == "root@0.0.0" && e.TargetID == "lodash@4.17.21" {
			found = true
		}
	}
	if !found {
		t.Error("missing root edge to lodash@4.17.21")
	}
}

func TestParse_ScopedKeysAndPeerSuffix(t *testing.T) {
	content := `lockfileVersion: '6.0'

packages:

  /@scope/a@1.0.0(react@18.2.0):
    dependencies:
      b: ~2.0.0(react@18.2.0)

  /b@2.0.0: {}
`

	g, err := New().Parse([]byte(content))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if _, ok := g.Node("@scope/a@1.0.0"); !ok {
		t.Error("scoped node @scope/a@1.0.0 not found")
	}

	found := false
	for _, e := range g.Edges {
		if e.SourceID == "@scope/a@1.0.0" && e.TargetID == "b@2.0.0" {
			found = true
		}
	}
	if !found {
		t.Error("missing edge @scope/a@1.0.0 -> b@2.0.0 (range prefix and peer suffix must be stripped)")
	}
}

func TestParse_EmptyDocumentReturnsRootOnly(t *testing.T) {
	// Intentional asymmetry: this family never raises NO_DEPENDENCIES.
	g, err := New().Parse([]byte("lockfileVersion: '6.0'\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if g.NodeCount() != 1 {
		t.Errorf("NodeCount = %d, want 1 (root only)", g.NodeCount())
	}
	if _, ok := g.Node("root@0.0.0"); !ok {
		t.Error("root node not found")
	}
}

func TestParse_MalformedYAML(t *testing.T) {
	_, err := New().Parse([]byte("lockfileVersion: '6.0'\npackages:\n  bad\n  indent: x"))
	if !errors.Is(err, errors.ErrCodeMalformedInput) {
		t.Errorf("err = %v, want MALFORMED_INPUT", err)
	}
}
