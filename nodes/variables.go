package nodes

import (
	"context"
	"fmt"

	"workflow-core/execution"
	"workflow-core/graph"
)

// SetVariableNode writes a configured value to a context variable and
// activates its single flow output.
type SetVariableNode struct {
	graph.BaseNode
	Key   string
	Value any

	input  *graph.Connector
	output *graph.Connector
}

func NewSetVariableNode(key string, value any) *SetVariableNode {
	n := &SetVariableNode{Key: key, Value: value, BaseNode: graph.NewBaseNode()}
	n.input = mustAddInput(n, graph.Any)
	n.output = mustAddOutput(n, graph.Any)
	return n
}

func (n *SetVariableNode) Validate() bool { return n.BaseNode.Validate(n) }

func (n *SetVariableNode) TypeID() string { return "set_variable" }

func (n *SetVariableNode) Execute(_ context.Context, execCtx *execution.Context, _ any) execution.NodeExecutionResult {
	if err := execCtx.SetVariable(n.Key, n.Value); err != nil {
		return execution.Failed(fmt.Errorf("nodes: set variable: %w", err))
	}
	execCtx.SetOutputConnectorValue(n.output.ID(), n.Value)
	return execution.SucceededWithOutput(n.output.ID(), n.Value)
}

// GetVariableNode reads a context variable and exposes it via its single
// output connector's value and OutputData.
type GetVariableNode struct {
	graph.BaseNode
	Key string

	input  *graph.Connector
	output *graph.Connector
}

func NewGetVariableNode(key string) *GetVariableNode {
	n := &GetVariableNode{Key: key, BaseNode: graph.NewBaseNode()}
	n.input = mustAddInput(n, graph.Any)
	n.output = mustAddOutput(n, graph.Any)
	return n
}

func (n *GetVariableNode) Validate() bool { return n.BaseNode.Validate(n) }

func (n *GetVariableNode) TypeID() string { return "get_variable" }

func (n *GetVariableNode) Execute(_ context.Context, execCtx *execution.Context, _ any) execution.NodeExecutionResult {
	value, ok := execCtx.GetVariable(n.Key)
	if !ok {
		return execution.Failed(fmt.Errorf("nodes: variable %q not found", n.Key))
	}
	execCtx.SetOutputConnectorValue(n.output.ID(), value)
	return execution.SucceededWithOutput(n.output.ID(), value)
}

// OutputSinkNode stores the value on its input connector's upstream source
// into a context variable with no further activation — a terminal
// collector node.
type OutputSinkNode struct {
	graph.BaseNode
	Key string

	input *graph.Connector
}

func NewOutputSinkNode(key string) *OutputSinkNode {
	n := &OutputSinkNode{Key: key, BaseNode: graph.NewBaseNode()}
	n.input = mustAddInput(n, graph.Any)
	return n
}

func (n *OutputSinkNode) Validate() bool { return n.BaseNode.Validate(n) }

func (n *OutputSinkNode) TypeID() string { return "output_sink" }

func (n *OutputSinkNode) Execute(_ context.Context, execCtx *execution.Context, _ any) execution.NodeExecutionResult {
	var value any
	if conns := n.input.Connections(); len(conns) > 0 {
		value, _ = execCtx.GetOutputConnectorValue(conns[0].Source().ID())
	}
	if err := execCtx.SetVariable(n.Key, value); err != nil {
		return execution.Failed(fmt.Errorf("nodes: output sink: %w", err))
	}
	return execution.Succeeded()
}
