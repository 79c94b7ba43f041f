package nodes_test

import (
	"context"
	"testing"

	"workflow-core/execution"
	"workflow-core/graph"
	"workflow-core/nodes"
	"workflow-core/registry"
)

func TestSentinelNode_StartEndShape(t *testing.T) {
	t.Parallel()
	start := nodes.NewStartNode()
	if len(start.OutputConnectors()) != 1 || len(start.InputConnectors()) != 0 {
		t.Fatalf("expected start node to have 1 output, 0 inputs")
	}
	if !start.Validate() {
		t.Fatal("expected fresh start node to validate")
	}

	end := nodes.NewEndNode()
	if len(end.InputConnectors()) != 1 || len(end.OutputConnectors()) != 0 {
		t.Fatalf("expected end node to have 1 input, 0 outputs")
	}

	if res := start.Execute(context.Background(), execution.NewContext(), nil); !res.Succeeded() {
		t.Fatal("expected sentinel Execute to always succeed")
	}
}

func TestConditionNode_EvaluatesDottedPath(t *testing.T) {
	t.Parallel()
	n := nodes.NewConditionNode([]nodes.Rule{
		{Path: "sensor.reading", Op: nodes.OpGreaterThan, Expected: 25},
	}, nodes.CombinatorAnd)

	execCtx := execution.NewContext()
	execCtx.SetVariable("sensor", map[string]any{"reading": 30.0})

	res := n.Execute(context.Background(), execCtx, nil)
	if !res.Succeeded() {
		t.Fatalf("expected success, got %v", res.Err)
	}
	if res.ActivatedOutput != n.TrueOutput().ID() {
		t.Fatal("expected the True output to be activated")
	}
}

func TestConditionNode_CombinatorOr(t *testing.T) {
	t.Parallel()
	n := nodes.NewConditionNode([]nodes.Rule{
		{Path: "a", Op: nodes.OpGreaterThan, Expected: 100},
		{Path: "b", Op: nodes.OpLessThan, Expected: 10},
	}, nodes.CombinatorOr)

	execCtx := execution.NewContext()
	execCtx.SetVariable("a", 0.0)
	execCtx.SetVariable("b", 1.0)

	res := n.Execute(context.Background(), execCtx, nil)
	if !res.Succeeded() || res.ActivatedOutput != n.TrueOutput().ID() {
		t.Fatal("expected Or to activate True when any rule matches")
	}
}

func TestConditionNode_MissingVariableFails(t *testing.T) {
	t.Parallel()
	n := nodes.NewConditionNode([]nodes.Rule{
		{Path: "missing", Op: nodes.OpEqualTo, Expected: 1},
	}, nodes.CombinatorAnd)

	res := n.Execute(context.Background(), execution.NewContext(), nil)
	if res.Succeeded() {
		t.Fatal("expected failure for an unresolved variable path")
	}
}

func TestSetAndGetVariableNode_RoundTrip(t *testing.T) {
	t.Parallel()
	execCtx := execution.NewContext()

	setNode := nodes.NewSetVariableNode("greeting", "hello")
	if res := setNode.Execute(context.Background(), execCtx, nil); !res.Succeeded() {
		t.Fatalf("set: %v", res.Err)
	}

	getNode := nodes.NewGetVariableNode("greeting")
	res := getNode.Execute(context.Background(), execCtx, nil)
	if !res.Succeeded() || res.OutputData != "hello" {
		t.Fatalf("expected to read back 'hello', got %v (err=%v)", res.OutputData, res.Err)
	}
}

func TestGetVariableNode_MissingFails(t *testing.T) {
	t.Parallel()
	n := nodes.NewGetVariableNode("nope")
	res := n.Execute(context.Background(), execution.NewContext(), nil)
	if res.Succeeded() {
		t.Fatal("expected failure reading an unset variable")
	}
}

func TestOutputSinkNode_ReadsUpstreamConnectorValue(t *testing.T) {
	t.Parallel()
	getNode := nodes.NewGetVariableNode("x")
	sinkNode := nodes.NewOutputSinkNode("captured")

	g := graph.New()
	g.AddNode(getNode)
	g.AddNode(sinkNode)
	sourceConn := getNode.OutputConnectors()[0]
	targetConn := sinkNode.InputConnectors()[0]
	if res := g.TryAddConnection(sourceConn, targetConn); !res.Success {
		t.Fatalf("link: %s", res.ErrorMessage)
	}

	execCtx := execution.NewContext()
	execCtx.SetVariable("x", 7.0)
	if res := getNode.Execute(context.Background(), execCtx, nil); !res.Succeeded() {
		t.Fatalf("get: %v", res.Err)
	}

	res := sinkNode.Execute(context.Background(), execCtx, nil)
	if !res.Succeeded() {
		t.Fatalf("sink: %v", res.Err)
	}
	got, ok := execCtx.GetVariable("captured")
	if !ok || got != 7.0 {
		t.Fatalf("expected captured=7.0, got %v, %v", got, ok)
	}
}

func TestMergeNode_JoinsConcurrentUpstreamValues(t *testing.T) {
	t.Parallel()
	a := nodes.NewGetVariableNode("a")
	b := nodes.NewGetVariableNode("b")
	merge := nodes.NewMergeNode(2)

	g := graph.New()
	g.AddNode(a)
	g.AddNode(b)
	g.AddNode(merge)
	if res := g.TryAddConnection(a.OutputConnectors()[0], merge.InputConnectors()[0]); !res.Success {
		t.Fatalf("link a: %s", res.ErrorMessage)
	}
	if res := g.TryAddConnection(b.OutputConnectors()[0], merge.InputConnectors()[1]); !res.Success {
		t.Fatalf("link b: %s", res.ErrorMessage)
	}

	execCtx := execution.NewContext()
	execCtx.SetVariable("a", "x")
	execCtx.SetVariable("b", "y")
	a.Execute(context.Background(), execCtx, nil)
	b.Execute(context.Background(), execCtx, nil)

	res := merge.Execute(context.Background(), execCtx, nil)
	if !res.Succeeded() {
		t.Fatalf("merge: %v", res.Err)
	}
	values, ok := res.OutputData.([]any)
	if !ok || len(values) != 2 {
		t.Fatalf("expected a 2-element slice, got %v", res.OutputData)
	}
	if values[0] != "x" || values[1] != "y" {
		t.Fatalf("expected [x y] in connector order, got %v", values)
	}
}

func TestJSONInputNode_ParsesConfiguredSource(t *testing.T) {
	t.Parallel()
	n := nodes.NewJSONInputNode(`{"a":1,"b":[1,2,3]}`)
	res := n.Execute(context.Background(), execution.NewContext(), nil)
	if !res.Succeeded() {
		t.Fatalf("expected success, got %v", res.Err)
	}
	parsed, ok := res.OutputData.(map[string]any)
	if !ok || parsed["a"] != 1.0 {
		t.Fatalf("expected parsed JSON object, got %v", res.OutputData)
	}
}

func TestJSONInputNode_InvalidSourceFails(t *testing.T) {
	t.Parallel()
	n := nodes.NewJSONInputNode("{not json")
	res := n.Execute(context.Background(), execution.NewContext(), nil)
	if res.Succeeded() {
		t.Fatal("expected failure for invalid JSON")
	}
}

func TestRegister_PopulatesAvailableTypes(t *testing.T) {
	t.Parallel()
	r := registry.New()
	nodes.Register(r)

	available := r.Available()
	if len(available) != 8 {
		t.Fatalf("expected 8 registered node types, got %d", len(available))
	}

	n, err := r.CreateByDisplayName("start")
	if err != nil {
		t.Fatalf("CreateByDisplayName: %v", err)
	}
	if _, ok := n.(*nodes.SentinelNode); !ok {
		t.Fatalf("expected a *SentinelNode, got %T", n)
	}
}
