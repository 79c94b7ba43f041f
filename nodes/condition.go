package nodes

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"workflow-core/execution"
	"workflow-core/graph"
)

// Operator is one comparison a Rule applies between a resolved variable
// and its expected value.
type Operator string

const (
	OpGreaterThan        Operator = "greater_than"
	OpLessThan           Operator = "less_than"
	OpEqualTo            Operator = "equal_to"
	OpGreaterThanOrEqual Operator = "greater_than_or_equal"
	OpLessThanOrEqual    Operator = "less_than_or_equal"
)

// Combinator joins a ConditionNode's rule list into a single boolean.
type Combinator string

const (
	CombinatorAnd Combinator = "and"
	CombinatorOr  Combinator = "or"
)

// Rule compares the context variable resolved by Path (a dotted property
// path, e.g. "sensor.reading.celsius") against Expected using Op.
type Rule struct {
	Path     string
	Op       Operator
	Expected float64
}

// ConditionNode evaluates an ordered rule list against context variables,
// combined with And or Or, and activates its True or False output
// accordingly.
type ConditionNode struct {
	graph.BaseNode
	Rules      []Rule
	Combinator Combinator

	input       *graph.Connector
	trueOutput  *graph.Connector
	falseOutput *graph.Connector
}

// NewConditionNode builds a condition node with one input and two outputs
// (True, False).
func NewConditionNode(rules []Rule, combinator Combinator) *ConditionNode {
	n := &ConditionNode{Rules: rules, Combinator: combinator, BaseNode: graph.NewBaseNode()}
	n.input = mustAddInput(n, graph.Any)
	n.trueOutput = mustAddOutput(n, graph.TypeOf(graph.KindBool))
	n.falseOutput = mustAddOutput(n, graph.TypeOf(graph.KindBool))
	return n
}

func (n *ConditionNode) Validate() bool { return n.BaseNode.Validate(n) }

func (n *ConditionNode) TypeID() string { return "condition" }

// TrueOutput and FalseOutput expose the branch connectors so callers can
// wire downstream nodes without guessing connector order.
func (n *ConditionNode) TrueOutput() *graph.Connector  { return n.trueOutput }
func (n *ConditionNode) FalseOutput() *graph.Connector { return n.falseOutput }

func (n *ConditionNode) Execute(_ context.Context, execCtx *execution.Context, _ any) execution.NodeExecutionResult {
	vars := execCtx.GetAllVariables()

	met, err := n.evaluate(vars)
	if err != nil {
		return execution.Failed(err)
	}

	activated := n.falseOutput
	if met {
		activated = n.trueOutput
	}
	execCtx.SetOutputConnectorValue(activated.ID(), met)
	return execution.SucceededWithOutput(activated.ID(), met)
}

func (n *ConditionNode) evaluate(vars map[string]any) (bool, error) {
	if len(n.Rules) == 0 {
		return false, fmt.Errorf("nodes: condition node has no rules configured")
	}

	results := make([]bool, len(n.Rules))
	for i, rule := range n.Rules {
		raw, ok := resolvePath(vars, rule.Path)
		if !ok {
			return false, fmt.Errorf("nodes: condition variable %q not found", rule.Path)
		}
		value, ok := toFloat64(raw)
		if !ok {
			return false, fmt.Errorf("nodes: condition variable %q is not numeric", rule.Path)
		}
		met, err := applyOperator(value, rule.Op, rule.Expected)
		if err != nil {
			return false, err
		}
		results[i] = met
	}

	switch n.Combinator {
	case CombinatorOr:
		for _, r := range results {
			if r {
				return true, nil
			}
		}
		return false, nil
	case CombinatorAnd, "":
		for _, r := range results {
			if !r {
				return false, nil
			}
		}
		return true, nil
	default:
		return false, fmt.Errorf("nodes: unknown combinator %q", n.Combinator)
	}
}

func applyOperator(value float64, op Operator, expected float64) (bool, error) {
	switch op {
	case OpGreaterThan:
		return value > expected, nil
	case OpLessThan:
		return value < expected, nil
	case OpEqualTo:
		return value == expected, nil
	case OpGreaterThanOrEqual:
		return value >= expected, nil
	case OpLessThanOrEqual:
		return value <= expected, nil
	default:
		return false, fmt.Errorf("nodes: unsupported operator %q", op)
	}
}

// resolvePath walks a dotted property path through nested
// map[string]any values, e.g. "sensor.reading" looks up vars["sensor"]
// then, if that's a map[string]any, its "reading" key.
func resolvePath(vars map[string]any, path string) (any, bool) {
	segments := strings.Split(path, ".")
	var current any = vars
	for _, seg := range segments {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		v, ok := m[seg]
		if !ok {
			return nil, false
		}
		current = v
	}
	return current, true
}

func toFloat64(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case string:
		f, err := strconv.ParseFloat(val, 64)
		return f, err == nil
	default:
		return 0, false
	}
}
