package traversal_test

import (
	"testing"

	"workflow-core/graph"
	"workflow-core/traversal"
)

type node struct {
	graph.BaseNode
	name string
}

func newNode(name string) *node {
	return &node{BaseNode: graph.NewBaseNode(), name: name}
}

func (n *node) Validate() bool { return n.BaseNode.Validate(n) }

// port builds one connector of the given direction on n, attaches it, and
// returns it, so tests can wire an arbitrary edge list without repeating
// connector plumbing.
func port(t *testing.T, n *node, dir graph.Direction) *graph.Connector {
	t.Helper()
	c, err := graph.NewConnector(n, dir, graph.Any)
	if err != nil {
		t.Fatalf("NewConnector: %v", err)
	}
	if dir == graph.DirectionInput {
		if err := n.AddInputConnector(c); err != nil {
			t.Fatalf("AddInputConnector: %v", err)
		}
	} else {
		if err := n.AddOutputConnector(c); err != nil {
			t.Fatalf("AddOutputConnector: %v", err)
		}
	}
	return c
}

func link(t *testing.T, g *graph.Graph, from, to *node) {
	t.Helper()
	out := port(t, from, graph.DirectionOutput)
	in := port(t, to, graph.DirectionInput)
	if res := g.TryAddConnection(out, in); !res.Success {
		t.Fatalf("link %v->%v: %s", from.name, to.name, res.ErrorMessage)
	}
}

func names(nodes []graph.Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.(*node).name
	}
	return out
}

func contains(all []string, name string) bool {
	for _, a := range all {
		if a == name {
			return true
		}
	}
	return false
}

func indexOf(all []string, name string) int {
	for i, a := range all {
		if a == name {
			return i
		}
	}
	return -1
}

func TestDepthFirst_VisitsReachableOnce(t *testing.T) {
	t.Parallel()
	g := graph.New()
	a, b, c := newNode("a"), newNode("b"), newNode("c")
	g.AddNode(a)
	g.AddNode(b)
	g.AddNode(c)
	link(t, g, a, b)
	link(t, g, a, c)

	var visited []string
	traversal.DepthFirst(a, func(n graph.Node) bool {
		visited = append(visited, n.(*node).name)
		return true
	})

	if len(visited) != 3 || visited[0] != "a" {
		t.Fatalf("expected 3 nodes starting with a, got %v", visited)
	}
}

func TestDepthFirst_StopsEarly(t *testing.T) {
	t.Parallel()
	g := graph.New()
	a, b, c := newNode("a"), newNode("b"), newNode("c")
	g.AddNode(a)
	g.AddNode(b)
	g.AddNode(c)
	link(t, g, a, b)
	link(t, g, b, c)

	var visited []string
	traversal.DepthFirst(a, func(n graph.Node) bool {
		visited = append(visited, n.(*node).name)
		return n.(*node).name != "b"
	})

	if contains(visited, "c") {
		t.Fatal("expected traversal to stop before reaching c")
	}
}

func TestBreadthFirst_Order(t *testing.T) {
	t.Parallel()
	g := graph.New()
	a, b, c, d := newNode("a"), newNode("b"), newNode("c"), newNode("d")
	g.AddNode(a)
	g.AddNode(b)
	g.AddNode(c)
	g.AddNode(d)
	link(t, g, a, b)
	link(t, g, a, c)
	link(t, g, b, d)

	var visited []string
	traversal.BreadthFirst(a, func(n graph.Node) bool {
		visited = append(visited, n.(*node).name)
		return true
	})

	if indexOf(visited, "d") < indexOf(visited, "b") {
		t.Fatalf("expected b before d in BFS order, got %v", visited)
	}
	if indexOf(visited, "d") < indexOf(visited, "c") && indexOf(visited, "c") > indexOf(visited, "d") {
		t.Fatalf("unexpected order %v", visited)
	}
}

func TestFindNodeByID(t *testing.T) {
	t.Parallel()
	g := graph.New()
	a, b := newNode("a"), newNode("b")
	g.AddNode(a)
	g.AddNode(b)
	link(t, g, a, b)

	found, ok := traversal.FindNodeByID(a, b.ID())
	if !ok || found.(*node).name != "b" {
		t.Fatal("expected to find b from a")
	}

	_, ok = traversal.FindNodeByID(a, graph.NewID())
	if ok {
		t.Fatal("expected lookup of unknown id to fail")
	}
}

func TestFindShortestPath_SameStartEnd(t *testing.T) {
	t.Parallel()
	a := newNode("a")
	path := traversal.FindShortestPath(a, a)
	if len(path) != 1 || path[0].(*node).name != "a" {
		t.Fatalf("expected single-element path, got %v", names(path))
	}
}

func TestFindShortestPath_Unreachable(t *testing.T) {
	t.Parallel()
	a, b := newNode("a"), newNode("b")
	path := traversal.FindShortestPath(a, b)
	if len(path) != 0 {
		t.Fatalf("expected empty path for unreachable end, got %v", names(path))
	}
}

func TestFindShortestPath_PicksMinimumLength(t *testing.T) {
	t.Parallel()
	g := graph.New()
	a, b, c, d := newNode("a"), newNode("b"), newNode("c"), newNode("d")
	for _, n := range []*node{a, b, c, d} {
		g.AddNode(n)
	}
	link(t, g, a, b)
	link(t, g, b, d)
	link(t, g, a, c)
	link(t, g, c, d)
	// a->b->d and a->c->d both have two edges (three nodes); the shortest
	// path must be one of them, never longer.
	path := traversal.FindShortestPath(a, d)
	if len(path) != 3 {
		t.Fatalf("expected shortest path of length 3 (a,x,d), got %v", names(path))
	}
	if path[0].(*node).name != "a" || path[2].(*node).name != "d" {
		t.Fatalf("expected path to start at a and end at d, got %v", names(path))
	}
}

func TestFindAllSimplePaths_SameStartEnd(t *testing.T) {
	t.Parallel()
	a := newNode("a")
	paths := traversal.FindAllSimplePaths(a, a)
	if len(paths) != 1 || len(paths[0]) != 1 {
		t.Fatalf("expected a single single-element path, got %v", paths)
	}
}

// TestFindAllSimplePaths_CycleNeverExtendsAPath wires A->B, B->C, C->D, D->B
// and checks that FindAllSimplePaths(A,D) emits exactly [A,B,C,D].
func TestFindAllSimplePaths_CycleNeverExtendsAPath(t *testing.T) {
	t.Parallel()
	g := graph.New()
	a, b, c, d := newNode("a"), newNode("b"), newNode("c"), newNode("d")
	for _, n := range []*node{a, b, c, d} {
		g.AddNode(n)
	}
	link(t, g, a, b)
	link(t, g, b, c)
	link(t, g, c, d)

	// Graph.TryAddConnection would reject d->b as a cycle; wire it directly
	// at the connector level to exercise a traversal input that legitimately
	// contains a cycle in its underlying structure.
	dOut := port(t, d, graph.DirectionOutput)
	bIn2 := port(t, b, graph.DirectionInput)
	if _, err := graph.Connect(dOut, bIn2); err != nil {
		t.Fatalf("Connect: %v", err)
	}

	paths := traversal.FindAllSimplePaths(a, d)
	if len(paths) != 1 {
		t.Fatalf("expected exactly one simple path, got %d: %v", len(paths), paths)
	}
	got := names(paths[0])
	want := []string{"a", "b", "c", "d"}
	for i, w := range want {
		if got[i] != w {
			t.Fatalf("expected path %v, got %v", want, got)
		}
	}
}

func TestTopologicalSort_Diamond(t *testing.T) {
	t.Parallel()
	g := graph.New()
	a, b, c, d, e := newNode("a"), newNode("b"), newNode("c"), newNode("d"), newNode("e")
	for _, n := range []*node{a, b, c, d, e} {
		g.AddNode(n)
	}
	link(t, g, a, b)
	link(t, g, a, c)
	link(t, g, b, d)
	link(t, g, c, d)
	link(t, g, d, e)

	order, err := traversal.TopologicalSort(a)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := names(order)
	if len(got) != 5 {
		t.Fatalf("expected 5 nodes, got %v", got)
	}
	if indexOf(got, "a") > indexOf(got, "b") || indexOf(got, "a") > indexOf(got, "c") {
		t.Fatalf("a must precede b and c, got %v", got)
	}
	if indexOf(got, "b") > indexOf(got, "d") || indexOf(got, "c") > indexOf(got, "d") {
		t.Fatalf("b and c must precede d, got %v", got)
	}
	if indexOf(got, "d") > indexOf(got, "e") {
		t.Fatalf("d must precede e, got %v", got)
	}
}

func TestTopologicalSort_SingleNode(t *testing.T) {
	t.Parallel()
	a := newNode("a")
	order, err := traversal.TopologicalSort(a)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(order) != 1 || order[0].(*node).name != "a" {
		t.Fatalf("expected [a], got %v", names(order))
	}
}

func TestGetEntryExitPoints(t *testing.T) {
	t.Parallel()
	g := graph.New()
	a, b, c := newNode("a"), newNode("b"), newNode("c")
	g.AddNode(a)
	g.AddNode(b)
	g.AddNode(c)
	link(t, g, a, b)
	link(t, g, b, c)

	entries := names(traversal.GetEntryPoints(a))
	if len(entries) != 1 || entries[0] != "a" {
		t.Fatalf("expected only a to be an entry point, got %v", entries)
	}

	exits := names(traversal.GetExitPoints(a))
	if len(exits) != 1 || exits[0] != "c" {
		t.Fatalf("expected only c to be an exit point, got %v", exits)
	}
}
