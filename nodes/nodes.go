// Package nodes holds concrete node implementations that exercise graph
// and execution as real consumers: every type here embeds graph.BaseNode
// for structure and implements execution.Executable for behavior, exactly
// the split graph.Node's doc comment describes.
package nodes

import (
	"fmt"

	"workflow-core/graph"
)

// mustAddInput panics only on a programming error (wrong direction passed
// to a freshly built connector, which would mean this package itself is
// broken), never on caller input — every exported constructor here builds
// its own connectors internally.
func mustAddInput(n graph.Node, dataType graph.DataType) *graph.Connector {
	c, err := graph.NewConnector(n, graph.DirectionInput, dataType)
	if err != nil {
		panic(fmt.Sprintf("nodes: building input connector: %v", err))
	}
	if err := n.AddInputConnector(c); err != nil {
		panic(fmt.Sprintf("nodes: attaching input connector: %v", err))
	}
	return c
}

func mustAddOutput(n graph.Node, dataType graph.DataType) *graph.Connector {
	c, err := graph.NewConnector(n, graph.DirectionOutput, dataType)
	if err != nil {
		panic(fmt.Sprintf("nodes: building output connector: %v", err))
	}
	if err := n.AddOutputConnector(c); err != nil {
		panic(fmt.Sprintf("nodes: attaching output connector: %v", err))
	}
	return c
}
