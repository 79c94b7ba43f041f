package graph

// wouldCreateCycle reports whether adding a directed edge source→target
// would close a cycle, without assuming the edge already exists. A
// self-loop (source and target belong to the same node) is always a
// cycle. Otherwise it runs a DFS from target following only outgoing
// edges and checks whether source's node is reachable.
func wouldCreateCycle(source, target Node) bool {
	if source.ID() == target.ID() {
		return true
	}

	visited := map[ID]bool{}
	var dfs func(n Node) bool
	dfs = func(n Node) bool {
		if n.ID() == source.ID() {
			return true
		}
		if visited[n.ID()] {
			return false
		}
		visited[n.ID()] = true
		for _, out := range n.OutputConnectors() {
			for _, conn := range out.Connections() {
				if dfs(conn.Target().Parent()) {
					return true
				}
			}
		}
		return false
	}
	return dfs(target)
}

// hasCycle runs a colored DFS over every node in nodes, covering
// disconnected components, and reports whether any directed cycle exists.
func hasCycle(nodes []Node) bool {
	visited := map[ID]bool{}
	onStack := map[ID]bool{}

	var dfs func(n Node) bool
	dfs = func(n Node) bool {
		visited[n.ID()] = true
		onStack[n.ID()] = true
		for _, out := range n.OutputConnectors() {
			for _, conn := range out.Connections() {
				next := conn.Target().Parent()
				if onStack[next.ID()] {
					return true
				}
				if !visited[next.ID()] {
					if dfs(next) {
						return true
					}
				}
			}
		}
		onStack[n.ID()] = false
		return false
	}

	for _, n := range nodes {
		if !visited[n.ID()] {
			if dfs(n) {
				return true
			}
		}
	}
	return false
}
