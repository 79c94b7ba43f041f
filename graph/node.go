package graph

// Node is the structural contract the graph model needs from a workflow
// node: an identity and an ordered pair of connector lists. Execution
// behavior (the node's Execute operation) deliberately lives outside this
// interface — in the execution package's Executable — so
// that graph (the model) never depends on execution (the runner). Concrete
// node types implement both.
type Node interface {
	ID() ID
	InputConnectors() []*Connector
	OutputConnectors() []*Connector
	AddInputConnector(c *Connector) error
	AddOutputConnector(c *Connector) error
	RemoveConnector(c *Connector) error
	GetInputConnector(id ID) (*Connector, bool)
	GetOutputConnector(id ID) (*Connector, bool)
	// Validate reports whether every listed connector's parent back-reference
	// equals this node.
	Validate() bool
}

// Position is a node's optional canvas coordinates, carried through for
// editor bindings but unused by the core.
type Position struct {
	X, Y float64
}

// BaseNode is the embeddable struct concrete node types compose to get
// the full Node contract for free.
type BaseNode struct {
	id       ID
	Position Position

	inputs  []*Connector
	outputs []*Connector
}

// NewBaseNode creates a BaseNode with a fresh identifier.
func NewBaseNode() BaseNode {
	return BaseNode{id: NewID()}
}

// NewBaseNodeWithID creates a BaseNode carrying a caller-supplied
// identifier rather than a freshly generated one. It exists for the
// document package, which must reconstruct a previously persisted graph
// with its original node ids intact, not for ordinary node construction.
func NewBaseNodeWithID(id ID) BaseNode {
	return BaseNode{id: id}
}

func (n *BaseNode) ID() ID { return n.id }

// NodePosition reports the node's canvas coordinates, letting callers that
// only hold a Node interface (e.g. the document package) read position
// without a type switch over every concrete node type.
func (n *BaseNode) NodePosition() (x, y float64) { return n.Position.X, n.Position.Y }

func (n *BaseNode) InputConnectors() []*Connector {
	out := make([]*Connector, len(n.inputs))
	copy(out, n.inputs)
	return out
}

func (n *BaseNode) OutputConnectors() []*Connector {
	out := make([]*Connector, len(n.outputs))
	copy(out, n.outputs)
	return out
}

func (n *BaseNode) AddInputConnector(c *Connector) error {
	if c == nil {
		return newErr(ErrInvalidArgument, "connector must not be nil")
	}
	if c.Direction() != DirectionInput {
		return newErr(ErrDirectionMismatch, "connector %s is not an input connector", c.ID())
	}
	n.inputs = append(n.inputs, c)
	return nil
}

func (n *BaseNode) AddOutputConnector(c *Connector) error {
	if c == nil {
		return newErr(ErrInvalidArgument, "connector must not be nil")
	}
	if c.Direction() != DirectionOutput {
		return newErr(ErrDirectionMismatch, "connector %s is not an output connector", c.ID())
	}
	n.outputs = append(n.outputs, c)
	return nil
}

// RemoveConnector removes c from whichever list holds it, first causing
// every connection on c to Remove() so it detaches from its opposite
// endpoint. Returns ErrNotFound if c belongs to neither list.
func (n *BaseNode) RemoveConnector(c *Connector) error {
	if c == nil {
		return newErr(ErrInvalidArgument, "connector must not be nil")
	}
	for i, existing := range n.inputs {
		if existing == c {
			detachAll(c)
			n.inputs = append(n.inputs[:i], n.inputs[i+1:]...)
			return nil
		}
	}
	for i, existing := range n.outputs {
		if existing == c {
			detachAll(c)
			n.outputs = append(n.outputs[:i], n.outputs[i+1:]...)
			return nil
		}
	}
	return newErr(ErrNotFound, "connector %s not found on node", c.ID())
}

func detachAll(c *Connector) {
	for _, conn := range c.Connections() {
		conn.Remove()
	}
}

func (n *BaseNode) GetInputConnector(id ID) (*Connector, bool) {
	for _, c := range n.inputs {
		if c.ID() == id {
			return c, true
		}
	}
	return nil, false
}

func (n *BaseNode) GetOutputConnector(id ID) (*Connector, bool) {
	for _, c := range n.outputs {
		if c.ID() == id {
			return c, true
		}
	}
	return nil, false
}

// Validate reports whether every connector's parent back-reference equals
// self. self must be passed explicitly because BaseNode doesn't know which
// concrete type embeds it.
func (n *BaseNode) Validate(self Node) bool {
	for _, c := range n.inputs {
		if c.Parent() != self {
			return false
		}
	}
	for _, c := range n.outputs {
		if c.Parent() != self {
			return false
		}
	}
	return true
}
