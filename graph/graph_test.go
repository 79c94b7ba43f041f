package graph

import (
	"testing"
)

// testNode is the minimal concrete Node used to exercise the graph
// package's own tests, independent of any execution-layer concerns.
type testNode struct {
	BaseNode
}

func newTestNode() *testNode {
	n := &testNode{BaseNode: NewBaseNode()}
	return n
}

func (n *testNode) Validate() bool { return n.BaseNode.Validate(n) }

func addConnector(t *testing.T, n *testNode, dir Direction, dt DataType) *Connector {
	t.Helper()
	c, err := NewConnector(n, dir, dt)
	if err != nil {
		t.Fatalf("NewConnector: %v", err)
	}
	if dir == DirectionInput {
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

func TestTryAddNode(t *testing.T) {
	t.Parallel()
	g := New()
	a := newTestNode()

	res := g.TryAddNode(a)
	if !res.Success {
		t.Fatalf("expected success, got %q", res.ErrorMessage)
	}

	dup := g.TryAddNode(a)
	if dup.Success {
		t.Fatal("expected duplicate add to fail")
	}

	nilRes := g.TryAddNode(nil)
	if nilRes.Success {
		t.Fatal("expected nil node add to fail")
	}
}

func TestTryAddNode_RemoveRoundTrip(t *testing.T) {
	t.Parallel()
	g := New()
	a := newTestNode()

	g.AddNode(a)
	if _, ok := g.GetNodeById(a.ID()); !ok {
		t.Fatal("node should be present after add")
	}

	removed, ok := g.RemoveNode(a)
	if !ok || removed.ID() != a.ID() {
		t.Fatal("expected node to be removed")
	}
	if _, ok := g.GetNodeById(a.ID()); ok {
		t.Fatal("node should be absent after remove")
	}
	if len(g.Nodes()) != 0 {
		t.Fatalf("expected empty graph, got %d nodes", len(g.Nodes()))
	}
}

func TestTryAddConnection_Success(t *testing.T) {
	t.Parallel()
	g := New()
	a, b := newTestNode(), newTestNode()
	g.AddNode(a)
	g.AddNode(b)

	out := addConnector(t, a, DirectionOutput, Any)
	in := addConnector(t, b, DirectionInput, Any)

	res := g.TryAddConnection(out, in)
	if !res.Success {
		t.Fatalf("expected success, got %q", res.ErrorMessage)
	}
	if len(out.Connections()) != 1 || len(in.Connections()) != 1 {
		t.Fatal("expected connection registered on both connectors")
	}
	if len(g.Connections()) != 1 {
		t.Fatal("expected connection registered on graph")
	}
}

func TestTryAddConnection_DirectionMismatch(t *testing.T) {
	t.Parallel()
	g := New()
	a, b := newTestNode(), newTestNode()
	g.AddNode(a)
	g.AddNode(b)

	in1 := addConnector(t, a, DirectionInput, Any)
	in2 := addConnector(t, b, DirectionInput, Any)

	res := g.TryAddConnection(in1, in2)
	if res.Success {
		t.Fatal("expected direction mismatch to fail")
	}
	if !IsKind(&Error{Kind: ErrDirectionMismatch}, ErrDirectionMismatch) {
		t.Fatal("sanity check on IsKind failed")
	}
}

func TestTryAddConnection_TypeIncompatible(t *testing.T) {
	t.Parallel()
	g := New()
	a, b := newTestNode(), newTestNode()
	g.AddNode(a)
	g.AddNode(b)

	out := addConnector(t, a, DirectionOutput, TypeOf(KindString))
	in := addConnector(t, b, DirectionInput, TypeOf(KindNumber))

	res := g.TryAddConnection(out, in)
	if res.Success {
		t.Fatal("expected type-incompatible connection to fail")
	}
}

func TestTryAddConnection_CapacityExceeded(t *testing.T) {
	t.Parallel()
	g := New()
	a, b, c := newTestNode(), newTestNode(), newTestNode()
	g.AddNode(a)
	g.AddNode(b)
	g.AddNode(c)

	outA := addConnector(t, a, DirectionOutput, Any)
	outC := addConnector(t, c, DirectionOutput, Any)
	in := addConnector(t, b, DirectionInput, Any)

	if res := g.TryAddConnection(outA, in); !res.Success {
		t.Fatalf("expected first connection to succeed, got %q", res.ErrorMessage)
	}

	// Re-adding from the same source is accepted (idempotent reconnection).
	if res := g.TryAddConnection(outA, in); !res.Success {
		t.Fatalf("expected idempotent reconnection to succeed, got %q", res.ErrorMessage)
	}
	if len(in.Connections()) != 1 {
		t.Fatalf("expected exactly one connection after idempotent re-add, got %d", len(in.Connections()))
	}

	// A second distinct source is rejected.
	res := g.TryAddConnection(outC, in)
	if res.Success {
		t.Fatal("expected second distinct source to be rejected")
	}
}

func TestTryAddConnection_SelfLoopRejected(t *testing.T) {
	t.Parallel()
	g := New()
	a := newTestNode()
	g.AddNode(a)

	out := addConnector(t, a, DirectionOutput, Any)
	in := addConnector(t, a, DirectionInput, Any)

	res := g.TryAddConnection(out, in)
	if res.Success {
		t.Fatal("expected self-loop to be rejected as a cycle")
	}
}

func TestTryAddConnection_CycleRejected(t *testing.T) {
	t.Parallel()
	g := New()
	a, b := newTestNode(), newTestNode()
	g.AddNode(a)
	g.AddNode(b)

	aOut := addConnector(t, a, DirectionOutput, Any)
	bIn := addConnector(t, b, DirectionInput, Any)
	bOut := addConnector(t, b, DirectionOutput, Any)
	aIn := addConnector(t, a, DirectionInput, Any)

	if res := g.TryAddConnection(aOut, bIn); !res.Success {
		t.Fatalf("expected A->B to succeed, got %q", res.ErrorMessage)
	}

	res := g.TryAddConnection(bOut, aIn)
	if res.Success {
		t.Fatal("expected B->A to be rejected as a cycle")
	}

	if valid := g.TryValidate(); !valid.Success {
		t.Fatalf("expected graph to remain valid, got %q", valid.ErrorMessage)
	}
	if len(g.Connections()) != 1 {
		t.Fatalf("expected only the A->B connection to remain, got %d", len(g.Connections()))
	}
}

func TestTryRemoveNode_CascadesConnections(t *testing.T) {
	t.Parallel()
	g := New()
	a, b := newTestNode(), newTestNode()
	g.AddNode(a)
	g.AddNode(b)

	out := addConnector(t, a, DirectionOutput, Any)
	in := addConnector(t, b, DirectionInput, Any)
	g.AddConnection(out, in)

	g.RemoveNode(a)

	if len(g.Connections()) != 0 {
		t.Fatalf("expected no connections after removing an endpoint node, got %d", len(g.Connections()))
	}
	if len(in.Connections()) != 0 {
		t.Fatalf("expected target connector to be detached, got %d", len(in.Connections()))
	}
}

func TestTryAddConnection_RemoveRoundTrip(t *testing.T) {
	t.Parallel()
	g := New()
	a, b := newTestNode(), newTestNode()
	g.AddNode(a)
	g.AddNode(b)

	out := addConnector(t, a, DirectionOutput, Any)
	in := addConnector(t, b, DirectionInput, Any)

	conn, ok := g.AddConnection(out, in)
	if !ok {
		t.Fatal("expected connection to be added")
	}

	removed, ok := g.RemoveConnection(conn)
	if !ok || removed.ID() != conn.ID() {
		t.Fatal("expected connection to be removed")
	}
	if len(g.Connections()) != 0 || len(out.Connections()) != 0 || len(in.Connections()) != 0 {
		t.Fatal("expected graph and connectors to be back to their pre-connection state")
	}
}

func TestConnectionRemove_Idempotent(t *testing.T) {
	t.Parallel()
	g := New()
	a, b := newTestNode(), newTestNode()
	g.AddNode(a)
	g.AddNode(b)

	out := addConnector(t, a, DirectionOutput, Any)
	in := addConnector(t, b, DirectionInput, Any)
	conn, _ := g.AddConnection(out, in)

	conn.Remove()
	conn.Remove() // must not panic or double-remove

	if len(out.Connections()) != 0 {
		t.Fatal("expected connector to be detached after repeated Remove")
	}
}

func TestTryValidate_EmptyGraph(t *testing.T) {
	t.Parallel()
	g := New()
	if res := g.TryValidate(); !res.Success {
		t.Fatalf("expected empty graph to validate, got %q", res.ErrorMessage)
	}
}

func TestWouldCreateCycle_Predicate(t *testing.T) {
	t.Parallel()
	a, b := newTestNode(), newTestNode()
	aOut := addConnector(t, a, DirectionOutput, Any)
	bIn := addConnector(t, b, DirectionInput, Any)

	if WouldCreateCycle(a, a) != true {
		t.Fatal("a node always closes a cycle with itself")
	}
	if WouldCreateCycle(a, b) {
		t.Fatal("a->b with no existing edges should not be a cycle")
	}

	g := New()
	g.AddNode(a)
	g.AddNode(b)
	g.AddConnection(aOut, bIn)

	if !WouldCreateCycle(b, a) {
		t.Fatal("b->a should close a cycle given the existing a->b edge")
	}
}
