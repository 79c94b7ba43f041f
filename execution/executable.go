package execution

import "context"

// Executable is the execution-side contract a concrete node type
// implements alongside graph.Node. It is kept separate from graph.Node so
// that the graph package never has to import execution — the structural
// model and execution behavior stay on opposite sides of that boundary.
type Executable interface {
	// Execute runs the node's behavior. inputData is always nil in this
	// core — data flows through Context variables and the per-connector
	// value map, not through direct argument passing (a richer data-flow
	// router is out of scope). Execute must honor ctx cancellation.
	Execute(ctx context.Context, execCtx *Context, inputData any) NodeExecutionResult
}

// NodeExecutor is the thin indirection the runner drives instead of
// depending on Executable directly, so tests can substitute a fake
// executor without constructing real graph nodes.
type NodeExecutor interface {
	Execute(ctx context.Context, execCtx *Context, node Executable, inputData any) NodeExecutionResult
}

// DirectExecutor is the NodeExecutor used in production: it simply calls
// node.Execute.
type DirectExecutor struct{}

func (DirectExecutor) Execute(ctx context.Context, execCtx *Context, node Executable, inputData any) NodeExecutionResult {
	return node.Execute(ctx, execCtx, inputData)
}
