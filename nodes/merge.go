package nodes

import (
	"context"

	"golang.org/x/sync/errgroup"

	"workflow-core/execution"
	"workflow-core/graph"
)

// MergeNode joins N upstream branches into one: it reads the value each
// input connector's source produced, concurrently since the upstream
// values are independent, joins before returning, and republishes the
// collected values on its own output connector.
type MergeNode struct {
	graph.BaseNode
	inputs []*graph.Connector
	output *graph.Connector
}

// NewMergeNode builds a merge node with inputCount input connectors (at
// least 1) and a single output connector.
func NewMergeNode(inputCount int) *MergeNode {
	if inputCount < 1 {
		inputCount = 1
	}
	n := &MergeNode{BaseNode: graph.NewBaseNode()}
	n.inputs = make([]*graph.Connector, inputCount)
	for i := range n.inputs {
		n.inputs[i] = mustAddInput(n, graph.Any)
	}
	n.output = mustAddOutput(n, graph.Any)
	return n
}

func (n *MergeNode) Validate() bool { return n.BaseNode.Validate(n) }

func (n *MergeNode) TypeID() string { return "merge" }

func (n *MergeNode) Execute(ctx context.Context, execCtx *execution.Context, _ any) execution.NodeExecutionResult {
	values := make([]any, len(n.inputs))

	g, _ := errgroup.WithContext(ctx)
	for i, in := range n.inputs {
		i, in := i, in
		g.Go(func() error {
			conns := in.Connections()
			if len(conns) == 0 {
				return nil
			}
			v, _ := execCtx.GetOutputConnectorValue(conns[0].Source().ID())
			values[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return execution.Failed(err)
	}

	execCtx.SetOutputConnectorValue(n.output.ID(), values)
	return execution.SucceededWithOutput(n.output.ID(), values)
}
