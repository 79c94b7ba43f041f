package execution

import (
	"context"
	"fmt"
	"time"

	"workflow-core/graph"
	"workflow-core/traversal"
)

// RunnerConfig tunes the two-tier timeout the runner wraps around a run:
// NodeTimeout bounds a single node's Execute call, WorkflowTimeout bounds
// the run as a whole. Either may be zero to disable that tier.
type RunnerConfig struct {
	NodeTimeout     time.Duration
	WorkflowTimeout time.Duration
}

// DefaultRunnerConfig returns the production-sane defaults: 10s per node,
// 60s for the whole run.
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		NodeTimeout:     10 * time.Second,
		WorkflowTimeout: 60 * time.Second,
	}
}

// RunnableNode is what the runner needs from a node it drives: the
// structural graph.Node contract plus the Executable behavior contract.
// Every concrete node type implements both.
type RunnableNode interface {
	graph.Node
	Executable
}

// WorkflowRunner drives a workflow to completion: single-threaded,
// cooperative, emitting an ordered lifecycle event stream via Sink. It
// never lets a node's error or a cancellation escape Run as a Go error —
// every terminal condition is translated into an ExecutionContext status
// plus a matching event.
type WorkflowRunner struct {
	Config   RunnerConfig
	Executor NodeExecutor
}

// NewWorkflowRunner builds a runner with the default config and the
// production DirectExecutor.
func NewWorkflowRunner() *WorkflowRunner {
	return &WorkflowRunner{
		Config:   DefaultRunnerConfig(),
		Executor: DirectExecutor{},
	}
}

// Run drives startNode's forward-reachable subgraph to completion. sink
// may be nil, in which case events are simply discarded.
func (r *WorkflowRunner) Run(ctx context.Context, startNode RunnableNode, execCtx *Context, sink Sink) {
	if sink == nil {
		sink = func(Event) {}
	}

	// Pre-start cancellation is a distinguished silent path: no events,
	// status set straight to Cancelled.
	if ctx.Err() != nil {
		execCtx.SetStatus(StatusCancelled)
		return
	}

	if r.Config.WorkflowTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Config.WorkflowTimeout)
		defer cancel()
	}

	execCtx.SetStatus(StatusRunning)
	sink(Event{Kind: EventWorkflowStarted, Context: execCtx})

	order, err := traversal.TopologicalSort(startNode)
	if err != nil {
		execCtx.SetStatus(StatusFailed)
		sink(Event{Kind: EventWorkflowFailed, Context: execCtx, Err: err, FinalStatus: StatusFailed})
		return
	}

	for _, n := range order {
		if ctx.Err() != nil {
			r.cancel(execCtx, sink)
			return
		}

		execCtx.SetCurrentNode(n.ID())
		sink(Event{Kind: EventNodeStarting, Context: execCtx, Node: n})

		rn, ok := n.(RunnableNode)
		if !ok {
			err := fmt.Errorf("execution: node %s does not implement Executable", n.ID())
			execCtx.ClearCurrentNode()
			sink(Event{Kind: EventNodeFailed, Context: execCtx, Node: n, Err: err})
			execCtx.SetStatus(StatusFailed)
			sink(Event{Kind: EventWorkflowFailed, Context: execCtx, Node: n, Err: err, FinalStatus: StatusFailed})
			return
		}

		result := r.execute(ctx, execCtx, rn)
		execCtx.ClearCurrentNode()

		if ctx.Err() != nil {
			r.cancel(execCtx, sink)
			return
		}

		if !result.Succeeded() {
			nodeErr := result.Err
			if nodeErr == nil {
				nodeErr = fmt.Errorf("execution: node %s failed with no error detail", n.ID())
			}
			sink(Event{Kind: EventNodeFailed, Context: execCtx, Node: n, Err: nodeErr})
			execCtx.SetStatus(StatusFailed)
			sink(Event{Kind: EventWorkflowFailed, Context: execCtx, Node: n, Err: nodeErr, FinalStatus: StatusFailed})
			return
		}

		sink(Event{Kind: EventNodeCompleted, Context: execCtx, Node: n})
	}

	execCtx.SetStatus(StatusCompleted)
	sink(Event{Kind: EventWorkflowCompleted, Context: execCtx, FinalStatus: StatusCompleted})
}

func (r *WorkflowRunner) execute(ctx context.Context, execCtx *Context, n RunnableNode) (result NodeExecutionResult) {
	nodeCtx := ctx
	if r.Config.NodeTimeout > 0 {
		var cancel context.CancelFunc
		nodeCtx, cancel = context.WithTimeout(ctx, r.Config.NodeTimeout)
		defer cancel()
	}

	// A panicking node is this core's analogue of a throw from Execute: it
	// must surface as Failed(err), not crash the caller's goroutine.
	defer func() {
		if p := recover(); p != nil {
			result = Failed(fmt.Errorf("execution: node %s panicked: %v", n.ID(), p))
		}
	}()

	return r.Executor.Execute(nodeCtx, execCtx, n, nil)
}

func (r *WorkflowRunner) cancel(execCtx *Context, sink Sink) {
	execCtx.SetStatus(StatusCancelled)
	sink(Event{Kind: EventWorkflowCancelled, Context: execCtx, FinalStatus: StatusCancelled})
}
