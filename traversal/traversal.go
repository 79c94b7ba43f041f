// Package traversal provides pure, read-only algorithms over a graph
// reachable from a given start node. Nothing here mutates a graph.Node or
// takes a lock; callers traverse whatever snapshot of connector state they
// observe.
package traversal

import "workflow-core/graph"

// DepthFirst walks the nodes reachable from start following outgoing edges
// only, calling visit once per unique node in pre-order. It stops early if
// visit returns false.
func DepthFirst(start graph.Node, visit func(graph.Node) bool) {
	visited := map[graph.ID]bool{}
	var walk func(n graph.Node) bool
	walk = func(n graph.Node) bool {
		if visited[n.ID()] {
			return true
		}
		visited[n.ID()] = true
		if !visit(n) {
			return false
		}
		for _, next := range outgoingNeighbors(n) {
			if !walk(next) {
				return false
			}
		}
		return true
	}
	walk(start)
}

// BreadthFirst walks the nodes reachable from start following outgoing
// edges only, calling visit once per unique node in BFS order. It stops
// early if visit returns false.
func BreadthFirst(start graph.Node, visit func(graph.Node) bool) {
	visited := map[graph.ID]bool{start.ID(): true}
	queue := []graph.Node{start}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if !visit(n) {
			return
		}
		for _, next := range outgoingNeighbors(n) {
			if !visited[next.ID()] {
				visited[next.ID()] = true
				queue = append(queue, next)
			}
		}
	}
}

// FindNodeByID returns the first node with the given id reachable from
// start, following outgoing edges only.
func FindNodeByID(start graph.Node, id graph.ID) (graph.Node, bool) {
	var found graph.Node
	ok := false
	DepthFirst(start, func(n graph.Node) bool {
		if n.ID() == id {
			found, ok = n, true
			return false
		}
		return true
	})
	return found, ok
}

// FindShortestPath returns the shortest sequence of nodes from start to end
// by edge count, following outgoing edges only, or an empty slice if end is
// unreachable. start == end yields a single-element path.
func FindShortestPath(start, end graph.Node) []graph.Node {
	if start.ID() == end.ID() {
		return []graph.Node{start}
	}

	visited := map[graph.ID]bool{start.ID(): true}
	prev := map[graph.ID]graph.Node{}
	queue := []graph.Node{start}

	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		for _, next := range outgoingNeighbors(n) {
			if visited[next.ID()] {
				continue
			}
			visited[next.ID()] = true
			prev[next.ID()] = n
			if next.ID() == end.ID() {
				return reconstructPath(prev, start, end)
			}
			queue = append(queue, next)
		}
	}
	return nil
}

func reconstructPath(prev map[graph.ID]graph.Node, start, end graph.Node) []graph.Node {
	path := []graph.Node{end}
	cur := end
	for cur.ID() != start.ID() {
		cur = prev[cur.ID()]
		path = append(path, cur)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// FindAllSimplePaths enumerates every simple path (no repeated node) from
// start to end, following outgoing edges only. start == end yields a single
// single-element path.
func FindAllSimplePaths(start, end graph.Node) [][]graph.Node {
	var paths [][]graph.Node
	visited := map[graph.ID]bool{start.ID(): true}
	current := []graph.Node{start}

	var walk func(n graph.Node)
	walk = func(n graph.Node) {
		if n.ID() == end.ID() {
			path := make([]graph.Node, len(current))
			copy(path, current)
			paths = append(paths, path)
			return
		}
		for _, next := range outgoingNeighbors(n) {
			if visited[next.ID()] {
				continue
			}
			visited[next.ID()] = true
			current = append(current, next)
			walk(next)
			current = current[:len(current)-1]
			visited[next.ID()] = false
		}
	}
	walk(start)
	return paths
}

// CycleError is returned by TopologicalSort when a back-edge is found
// within the nodes reachable from start.
type CycleError struct{}

func (CycleError) Error() string { return "traversal: cycle detected" }

// TopologicalSort returns a reverse-post-order DFS ordering of every node
// reachable from start such that, for every edge u->v among reachable
// nodes, u precedes v. Only nodes reachable from start are included; it
// returns a CycleError if a back-edge is hit within the recursion stack.
func TopologicalSort(start graph.Node) ([]graph.Node, error) {
	visited := map[graph.ID]bool{}
	onStack := map[graph.ID]bool{}
	var order []graph.Node
	var cycleErr error

	var dfs func(n graph.Node)
	dfs = func(n graph.Node) {
		if cycleErr != nil {
			return
		}
		visited[n.ID()] = true
		onStack[n.ID()] = true
		for _, next := range outgoingNeighbors(n) {
			if onStack[next.ID()] {
				cycleErr = CycleError{}
				return
			}
			if !visited[next.ID()] {
				dfs(next)
				if cycleErr != nil {
					return
				}
			}
		}
		onStack[n.ID()] = false
		order = append(order, n)
	}
	dfs(start)
	if cycleErr != nil {
		return nil, cycleErr
	}

	for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
		order[i], order[j] = order[j], order[i]
	}
	return order, nil
}

// GetEntryPoints returns every node reachable from start via any edge
// (incoming or outgoing) whose every input connector has an empty
// connection set.
func GetEntryPoints(start graph.Node) []graph.Node {
	return filterReachable(start, func(n graph.Node) bool {
		for _, in := range n.InputConnectors() {
			if len(in.Connections()) > 0 {
				return false
			}
		}
		return true
	})
}

// GetExitPoints returns every node reachable from start via any edge
// (incoming or outgoing) whose every output connector has an empty
// connection set.
func GetExitPoints(start graph.Node) []graph.Node {
	return filterReachable(start, func(n graph.Node) bool {
		for _, out := range n.OutputConnectors() {
			if len(out.Connections()) > 0 {
				return false
			}
		}
		return true
	})
}

func filterReachable(start graph.Node, predicate func(graph.Node) bool) []graph.Node {
	var out []graph.Node
	visited := map[graph.ID]bool{}
	queue := []graph.Node{start}
	visited[start.ID()] = true

	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if predicate(n) {
			out = append(out, n)
		}
		for _, next := range anyDirectionNeighbors(n) {
			if !visited[next.ID()] {
				visited[next.ID()] = true
				queue = append(queue, next)
			}
		}
	}
	return out
}

func outgoingNeighbors(n graph.Node) []graph.Node {
	var out []graph.Node
	for _, c := range n.OutputConnectors() {
		for _, conn := range c.Connections() {
			out = append(out, conn.Target().Parent())
		}
	}
	return out
}

func anyDirectionNeighbors(n graph.Node) []graph.Node {
	var out []graph.Node
	for _, c := range n.OutputConnectors() {
		for _, conn := range c.Connections() {
			out = append(out, conn.Target().Parent())
		}
	}
	for _, c := range n.InputConnectors() {
		for _, conn := range c.Connections() {
			out = append(out, conn.Source().Parent())
		}
	}
	return out
}
