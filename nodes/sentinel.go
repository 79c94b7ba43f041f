package nodes

import (
	"context"

	"workflow-core/execution"
	"workflow-core/graph"
)

// SentinelNode is the flow start or end marker: one connector, no branch
// selection, always succeeds, and carries no configuration of its own.
type SentinelNode struct {
	graph.BaseNode
	isStart bool
	output  *graph.Connector
	input   *graph.Connector
}

// NewStartNode builds a sentinel with a single output connector and no
// inputs — the only node type allowed to have none.
func NewStartNode() *SentinelNode {
	n := &SentinelNode{BaseNode: graph.NewBaseNode(), isStart: true}
	n.output = mustAddOutput(n, graph.Any)
	return n
}

// NewEndNode builds a sentinel with a single input connector and no
// outputs.
func NewEndNode() *SentinelNode {
	n := &SentinelNode{BaseNode: graph.NewBaseNode(), isStart: false}
	n.input = mustAddInput(n, graph.Any)
	return n
}

func (n *SentinelNode) Validate() bool { return n.BaseNode.Validate(n) }

func (n *SentinelNode) TypeID() string {
	if n.isStart {
		return "sentinel.start"
	}
	return "sentinel.end"
}

func (n *SentinelNode) Execute(_ context.Context, _ *execution.Context, _ any) execution.NodeExecutionResult {
	return execution.Succeeded()
}
