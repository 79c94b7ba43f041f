package graph

import "sync"

// OperationResult is the uniform envelope every Graph mutation returns:
// callers that want the detail get Success/Result/ErrorMessage; callers
// that just want "did it work" use the Try-less wrappers below.
type OperationResult[T any] struct {
	Success      bool
	Result       T
	ErrorMessage string
}

func ok[T any](result T) OperationResult[T] {
	return OperationResult[T]{Success: true, Result: result}
}

func fail[T any](err error) OperationResult[T] {
	return OperationResult[T]{Success: false, ErrorMessage: err.Error()}
}

// Graph is the top-level container of nodes and connections. All mutation
// operations are serialized by a single modification lock; reads take the
// lock in shared mode, giving lock-free-feeling reads over a consistent
// snapshot without ever exposing a torn connection.
type Graph struct {
	mu          sync.RWMutex
	nodes       map[ID]Node
	connections map[ID]*Connection
}

// New creates an empty Graph.
func New() *Graph {
	return &Graph{
		nodes:       make(map[ID]Node),
		connections: make(map[ID]*Connection),
	}
}

// TryAddNode atomically inserts n unless its id already exists.
func (g *Graph) TryAddNode(n Node) OperationResult[Node] {
	if n == nil {
		return fail[Node](newErr(ErrInvalidArgument, "node must not be nil"))
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if _, exists := g.nodes[n.ID()]; exists {
		return fail[Node](newErr(ErrInvalidArgument, "node %s already in graph", n.ID()))
	}
	g.nodes[n.ID()] = n
	return ok(n)
}

// AddNode is the convenience wrapper that strips the error message.
func (g *Graph) AddNode(n Node) (Node, bool) {
	res := g.TryAddNode(n)
	return res.Result, res.Success
}

// TryRemoveNode removes n and every connection incident to it. Node
// removal proceeds even if an individual connection removal reports
// failure (best-effort cleanup); the final state still satisfies every
// invariant since Connection.Remove is idempotent and always succeeds
// mechanically.
func (g *Graph) TryRemoveNode(n Node) OperationResult[Node] {
	if n == nil {
		return fail[Node](newErr(ErrInvalidArgument, "node must not be nil"))
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if _, exists := g.nodes[n.ID()]; !exists {
		return fail[Node](newErr(ErrNotFound, "node %s not in graph", n.ID()))
	}

	for id, conn := range g.connections {
		if conn.Source().Parent().ID() == n.ID() || conn.Target().Parent().ID() == n.ID() {
			conn.Remove()
			delete(g.connections, id)
		}
	}

	delete(g.nodes, n.ID())
	return ok(n)
}

// RemoveNode is the convenience wrapper that strips the error message.
func (g *Graph) RemoveNode(n Node) (Node, bool) {
	res := g.TryRemoveNode(n)
	return res.Result, res.Success
}

// GetNodeById is a pure lookup.
func (g *Graph) GetNodeById(id ID) (Node, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	n, ok := g.nodes[id]
	return n, ok
}

// Nodes returns a defensive copy of every node currently in the graph, in
// no particular order (map iteration order). Traversal functions that need
// a deterministic starting point take an explicit start node instead.
func (g *Graph) Nodes() []Node {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		out = append(out, n)
	}
	return out
}

// Connections returns a defensive copy of every connection in the graph.
func (g *Graph) Connections() []*Connection {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]*Connection, 0, len(g.connections))
	for _, c := range g.connections {
		out = append(out, c)
	}
	return out
}

// TryAddConnection validates and creates a connection from source to
// target:
//  1. null/direction checks
//  2. connector-level type+capacity validation
//  3. both parent nodes must be in the graph
//  4. acyclicity check (outside the lock — a read-only traversal)
//  5. re-verify (3) and a tighter capacity check under the lock; if the
//     graph already holds a connection from source to target, return it
//     unchanged (idempotent reconnection); otherwise construct the
//     Connection (which self-registers with both connectors) and insert it
//     into the id map.
func (g *Graph) TryAddConnection(source, target *Connector) OperationResult[*Connection] {
	if source == nil || target == nil {
		return fail[*Connection](newErr(ErrInvalidArgument, "source and target must not be nil"))
	}
	if source.Direction() != DirectionOutput {
		return fail[*Connection](newErr(ErrDirectionMismatch, "source connector %s is not an output", source.ID()))
	}
	if target.Direction() != DirectionInput {
		return fail[*Connection](newErr(ErrDirectionMismatch, "target connector %s is not an input", target.ID()))
	}

	if !source.ValidateConnection(target) {
		if !target.DataType().IsAssignableFrom(source.DataType()) {
			return fail[*Connection](newErr(ErrTypeIncompatible,
				"target type %s is not assignable from source type %s", target.DataType(), source.DataType()))
		}
		return fail[*Connection](newErr(ErrCapacityExceeded,
			"target connector %s already has a connection from a different source", target.ID()))
	}

	if _, exists := g.GetNodeById(source.Parent().ID()); !exists {
		return fail[*Connection](newErr(ErrNotFound, "source node %s not in graph", source.Parent().ID()))
	}
	if _, exists := g.GetNodeById(target.Parent().ID()); !exists {
		return fail[*Connection](newErr(ErrNotFound, "target node %s not in graph", target.Parent().ID()))
	}

	if wouldCreateCycle(source.Parent(), target.Parent()) {
		return fail[*Connection](newErr(ErrWouldCreateCycle,
			"connecting %s to %s would create a cycle", source.Parent().ID(), target.Parent().ID()))
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if _, exists := g.nodes[source.Parent().ID()]; !exists {
		return fail[*Connection](newErr(ErrConcurrentModification, "source node removed before commit"))
	}
	if _, exists := g.nodes[target.Parent().ID()]; !exists {
		return fail[*Connection](newErr(ErrConcurrentModification, "target node removed before commit"))
	}
	if !source.ValidateConnection(target) {
		return fail[*Connection](newErr(ErrCapacityExceeded, "target connector %s capacity exceeded", target.ID()))
	}

	for _, existing := range target.Connections() {
		if _, inGraph := g.connections[existing.ID()]; inGraph && existing.Source() == source {
			return ok(existing)
		}
	}

	conn, err := newConnection(source, target)
	if err != nil {
		return fail[*Connection](newErr(ErrInvalidState, "%v", err))
	}

	if _, exists := g.connections[conn.ID()]; exists {
		conn.Remove()
		return fail[*Connection](newErr(ErrInvalidState, "connection id collision"))
	}
	g.connections[conn.ID()] = conn
	return ok(conn)
}

// AddConnection is the convenience wrapper that strips the error message.
func (g *Graph) AddConnection(source, target *Connector) (*Connection, bool) {
	res := g.TryAddConnection(source, target)
	return res.Result, res.Success
}

// TryRemoveConnection detaches c from both connectors and removes it from
// the id map.
func (g *Graph) TryRemoveConnection(c *Connection) OperationResult[*Connection] {
	if c == nil {
		return fail[*Connection](newErr(ErrInvalidArgument, "connection must not be nil"))
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if _, exists := g.connections[c.ID()]; !exists {
		return fail[*Connection](newErr(ErrNotFound, "connection %s not in graph", c.ID()))
	}
	c.Remove()
	delete(g.connections, c.ID())
	return ok(c)
}

// RemoveConnection is the convenience wrapper that strips the error message.
func (g *Graph) RemoveConnection(c *Connection) (*Connection, bool) {
	res := g.TryRemoveConnection(c)
	return res.Result, res.Success
}

// TryValidate reports Invalid with details if any node fails Validate(),
// any connection fails Validate(), or the full graph contains a cycle.
func (g *Graph) TryValidate() OperationResult[struct{}] {
	g.mu.RLock()
	defer g.mu.RUnlock()

	nodes := make([]Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		nodes = append(nodes, n)
		if !n.Validate() {
			return fail[struct{}](newErr(ErrInvalidState, "node %s failed validation", n.ID()))
		}
	}
	for _, c := range g.connections {
		if !c.Validate() {
			return fail[struct{}](newErr(ErrInvalidState, "connection %s failed validation", c.ID()))
		}
	}
	if hasCycle(nodes) {
		return fail[struct{}](newErr(ErrWouldCreateCycle, "graph contains a cycle"))
	}
	return ok(struct{}{})
}
