package yarn

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
		{"yarn.lock", true},
		{"/repo/yarn.lock", true},
		{"package-lock.json", false},
		{"pnpm-lock.yaml", false},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			if got := parser.Supports(tt.filename); got != tt.want {
				t.Errorf("Supports(%q) = %v, want %v", tt.filename, got, tt.want)
			}
		})
	}
}

func TestParse_TwoBlocks(t *testing.T) {
	content := `# yarn lockfile v1


foo@^1.0.0:
  version "1.2.3"

bar@^2.0.0:
  version "2.0.0"
  dependencies:
    foo "^1.0.0"
`

	g, err := New().Parse([]byte(content))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	for _, id := range []string{"root@1.0.0", "foo@1.2.3", "bar@2.0.0"} {
		if _, ok := g.Node(id); !ok {
			t.Errorf("node %s not found", id)
		}
	}

	type edge struct{ src, dst string }
	edges := make(map[edge]bool)
	for _, e := range g.Edges {
		edges[edge{e.SourceID, e.TargetID}] = true
	}
	for _, want := range []edge{
		{"root@1.0.0", "foo@1.2.3"},
		{"root@1.0.0", "bar@2.0.0"},
		{"bar@2.0.0", "foo@1.2.3"},
	} {
		if !edges[want] {
			t.Errorf("missing edge %s -> %s", want.src, want.dst)
		}
	}
	if g.EdgeCount() != 3 {
		t.Errorf("EdgeCount = %d, want 3", g.EdgeCount())
	}
}

func TestParse_ScopedHeader(t *testing.T) {
	content := `"@babel/core@^7.0.0":
  version "7.23.0"

"@babel/helper@^7.0.0", "@babel/helper@^7.1.0":
  version "7.23.1"
`

	g, err := New().Parse([]byte(content))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if _, ok := g.Node("@babel/core@7.23.0"); !ok {
		t.Error("node @babel/core@7.23.0 not found")
	}
	if _, ok := g.Node("@babel/helper@7.23.1"); !ok {
		t.Error("node @babel/helper@7.23.1 not found")
	}
}

func TestParse_FirstMatchLinking(t *testing.T) {
	// Two versions of foo exist; bar's dependency on foo links to the first
	// one parsed. This imprecision is part of the grammar's contract.
	content := `foo@^1.0.0:
  version "1.2.3"

foo@^2.0.0:
  version "2.0.1"

bar@^1.0.0:
  version "1.0.0"
  dependencies:
    foo "^2.0.0"
`

	g, err := New().Parse([]byte(content))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	var linked []string
	for _, e := range g.Edges {
		if e.SourceID == "bar@1.0.0" {
			linked = append(linked, e.TargetID)
		}
	}
	if len(linked) != 1 || linked[0] != "foo@1.2.3" {
		t.Errorf("bar links = %v, want [foo@1.2.3]", linked)
	}

	// Both foo versions exist, so the conflict flag is set on each.
	for _, id := range []string{"foo@1.2.3", "foo@2.0.1"} {
		n, _ := g.Node(id)
		if !n.HasVersionConflict {
			t.Errorf("%s: HasVersionConflict = false, want true", id)
		}
	}
}

func TestParse_ForwardReferenceProducesNoEdge(t *testing.T) {
	// baz depends on qux, but qux's block comes later: single-pass
	// resolution only links already-known nodes.
	content := `baz@^1.0.0:
  version "1.0.0"
  dependencies:
    qux "^3.0.0"

qux@^3.0.0:
  version "3.1.4"
`

	g, err := New().Parse([]byte(content))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	for _, e := range g.Edges {
		if e.SourceID == "baz@1.0.0" && e.TargetID == "qux@3.1.4" {
			t.Error("forward reference produced an edge")
		}
	}
}

func TestParse_OtherSectionsIgnored(t *testing.T) {
	content := `foo@^1.0.0:
  version "1.2.3"
  optionalDependencies:
    fsevents "^2.0.0"
  dependencies:
    bar "^1.0.0"
`

	g, err := New().Parse([]byte(content))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	// fsevents is in optionalDependencies, which the block grammar walker
	// does not consume; no node or edge may appear for it.
	for _, n := range g.Nodes {
		if n.Name == "fsevents" {
			t.Error("optionalDependencies entry materialized as a node")
		}
	}
}

func TestParse_EmptyDocument(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty", ""},
		{"comments only", "# yarn lockfile v1\n"},
		{"header without version", "foo@^1.0.0:\n  resolved \"https://example.invalid\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New().Parse([]byte(tt.content))
			if !errors.Is(err, errors.ErrCodeNoDependencies) {
				t.Errorf("err = %v, want NO_DEPENDENCIES", err)
			}
		})
	}
}

func TestParse_RootKindProduction(t *testing.T) {
	content := "foo@^1.0.0:\n  version \"1.2.3\"\n"

	g, err := New().Parse([]byte(content))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	root, ok := g.Node("root@1.0.0")
	if !ok {
		t.Fatal("root node not found")
	}
	if root.Kind != graph.KindProduction {
		t.Errorf("root Kind = %v, want production", root.Kind)
	}
}
