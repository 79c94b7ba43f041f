package graph

// WouldCreateCycle and HasCycle give tests exported names for the
// unexported cycle-detection internals. As a _test.go file, this is
// compiled only into the graph package's own test binary.

func WouldCreateCycle(source, target Node) bool {
	return wouldCreateCycle(source, target)
}

func HasCycle(nodes []Node) bool {
	return hasCycle(nodes)
}
