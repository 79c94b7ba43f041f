package execution

import "workflow-core/graph"

// ResultKind discriminates NodeExecutionResult — Go's substitute for the
// source system's polymorphic execution result.
type ResultKind int

const (
	ResultSucceeded ResultKind = iota
	ResultFailed
)

// NodeExecutionResult is what a node's Execute returns. ActivatedOutput
// names which output connector the node chose to activate (zero value if
// the node has at most one output and activation is implicit); OutputData
// carries whatever payload the node wants to hand the runner; Err is set
// only when Kind is ResultFailed.
type NodeExecutionResult struct {
	Kind            ResultKind
	ActivatedOutput graph.ID
	HasActivated    bool
	OutputData      any
	Err             error
}

// Succeeded builds a successful result with no declared activated output.
func Succeeded() NodeExecutionResult {
	return NodeExecutionResult{Kind: ResultSucceeded}
}

// SucceededWithOutput builds a successful result that declares which
// output connector was activated, e.g. an If/Else node picking True/False.
func SucceededWithOutput(outputID graph.ID, data any) NodeExecutionResult {
	return NodeExecutionResult{
		Kind:            ResultSucceeded,
		ActivatedOutput: outputID,
		HasActivated:    true,
		OutputData:      data,
	}
}

// Failed builds a failed result carrying err.
func Failed(err error) NodeExecutionResult {
	return NodeExecutionResult{Kind: ResultFailed, Err: err}
}

func (r NodeExecutionResult) Succeeded() bool { return r.Kind == ResultSucceeded }
