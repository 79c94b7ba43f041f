package nodes

import (
	"context"
	"encoding/json"
	"fmt"

	"workflow-core/execution"
	"workflow-core/graph"
)

// JSONInputNode parses a configured JSON string and emits the parsed tree
// on its output connector.
type JSONInputNode struct {
	graph.BaseNode
	Source string

	input  *graph.Connector
	output *graph.Connector
}

func NewJSONInputNode(source string) *JSONInputNode {
	n := &JSONInputNode{Source: source, BaseNode: graph.NewBaseNode()}
	n.input = mustAddInput(n, graph.Any)
	n.output = mustAddOutput(n, graph.Any)
	return n
}

func (n *JSONInputNode) Validate() bool { return n.BaseNode.Validate(n) }

func (n *JSONInputNode) TypeID() string { return "json_input" }

func (n *JSONInputNode) Execute(_ context.Context, execCtx *execution.Context, _ any) execution.NodeExecutionResult {
	var parsed any
	if err := json.Unmarshal([]byte(n.Source), &parsed); err != nil {
		return execution.Failed(fmt.Errorf("nodes: json input: %w", err))
	}
	execCtx.SetOutputConnectorValue(n.output.ID(), parsed)
	return execution.SucceededWithOutput(n.output.ID(), parsed)
}
