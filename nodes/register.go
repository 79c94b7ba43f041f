package nodes

import (
	"workflow-core/graph"
	"workflow-core/registry"
)

// Register adds every node type in this package to r under its type id
// and display name, with sane zero-value defaults for configurable types.
// Callers that need a specifically
// configured instance (condition rules, a set-variable key/value, ...)
// should construct it directly with the matching New*Node function
// instead of going through the registry.
func Register(r *registry.Registry) {
	r.Register("sentinel.start", registry.Descriptor{
		DisplayName: "Start",
		Category:    "Flow",
		Description: "marks the entry point of a workflow",
	}, func() (graph.Node, error) { return NewStartNode(), nil })

	r.Register("sentinel.end", registry.Descriptor{
		DisplayName: "End",
		Category:    "Flow",
		Description: "marks a terminal point of a workflow",
	}, func() (graph.Node, error) { return NewEndNode(), nil })

	r.Register("merge", registry.Descriptor{
		DisplayName: "Merge",
		Category:    "Flow",
		Description: "joins multiple branches into one, fanning in upstream values",
	}, func() (graph.Node, error) { return NewMergeNode(2), nil })

	r.Register("condition", registry.Descriptor{
		DisplayName: "If/Else",
		Category:    "Logic",
		Description: "evaluates a rule list over context variables and branches True/False",
	}, func() (graph.Node, error) { return NewConditionNode(nil, CombinatorAnd), nil })

	r.Register("set_variable", registry.Descriptor{
		DisplayName: "Set Variable",
		Category:    "Data",
		Description: "writes a configured value to a context variable",
	}, func() (graph.Node, error) { return NewSetVariableNode("", nil), nil })

	r.Register("get_variable", registry.Descriptor{
		DisplayName: "Get Variable",
		Category:    "Data",
		Description: "reads a context variable and exposes it on its output",
	}, func() (graph.Node, error) { return NewGetVariableNode(""), nil })

	r.Register("output_sink", registry.Descriptor{
		DisplayName: "Output Sink",
		Category:    "Data",
		Description: "stores its upstream input value into a context variable",
	}, func() (graph.Node, error) { return NewOutputSinkNode(""), nil })

	r.Register("json_input", registry.Descriptor{
		DisplayName: "JSON Input",
		Category:    "Data",
		Description: "parses a configured JSON string and emits the parsed tree",
	}, func() (graph.Node, error) { return NewJSONInputNode("{}"), nil })
}
