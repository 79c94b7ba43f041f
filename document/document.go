// Package document defines the persisted shape of a graph — the logical
// form a storage layer freezes to durable storage and loads back. It
// knows nothing about node execution behavior, only the structural facts
// (ids, connector data types, connections) needed to reconstruct a
// graph.Graph exactly as it was connected.
package document

import (
	"fmt"
	"sort"

	"workflow-core/graph"
)

const graphTypeTag = "Graph"
const connectorTypeTag = "Connector"

// Document is the root persisted shape: a type tag plus an ordered list
// of node records and an ordered list of connection records.
type Document struct {
	Type        string             `json:"type"`
	Nodes       []NodeRecord       `json:"nodes"`
	Connections []ConnectionRecord `json:"connections"`
}

// NodeRecord captures one node: its registry type tag, its stable id, and
// its ordered connector records.
type NodeRecord struct {
	TypeTag string            `json:"type"`
	ID      graph.ID          `json:"id"`
	X       float64           `json:"x"`
	Y       float64           `json:"y"`
	Inputs  []ConnectorRecord `json:"inputs"`
	Outputs []ConnectorRecord `json:"outputs"`
}

// ConnectorRecord captures one connector: a fixed type tag, its stable
// id, and the data type name needed for a type-compatibility check on
// load.
type ConnectorRecord struct {
	TypeTag  string   `json:"type"`
	ID       graph.ID `json:"id"`
	DataType string   `json:"dataType"`
}

// ConnectionRecord captures one directed edge by its endpoint connector
// ids.
type ConnectionRecord struct {
	Source graph.ID `json:"source"`
	Target graph.ID `json:"target"`
}

// TypeIdentifier is implemented by node types that can report their own
// registry type id, so Encode can tag each NodeRecord. Concrete node
// types are expected to implement this alongside graph.Node.
type TypeIdentifier interface {
	TypeID() string
}

// Encode captures g's current structure into a Document. It returns an
// error if any node in g does not implement TypeIdentifier — a document
// cannot be round-tripped without knowing what to reconstruct on load.
// Node records are ordered by node id and connection records by source,
// then target connector id, so encoding the same structure twice yields
// the same document.
func Encode(g *graph.Graph) (Document, error) {
	doc := Document{Type: graphTypeTag}

	nodes := g.Nodes()
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID().String() < nodes[j].ID().String() })
	for _, n := range nodes {
		tagged, ok := n.(TypeIdentifier)
		if !ok {
			return Document{}, fmt.Errorf("document: node %s does not implement TypeIdentifier", n.ID())
		}

		record := NodeRecord{
			TypeTag: tagged.TypeID(),
			ID:      n.ID(),
			Inputs:  encodeConnectors(n.InputConnectors()),
			Outputs: encodeConnectors(n.OutputConnectors()),
		}
		if positioned, ok := n.(interface{ NodePosition() (float64, float64) }); ok {
			record.X, record.Y = positioned.NodePosition()
		}
		doc.Nodes = append(doc.Nodes, record)
	}

	for _, c := range g.Connections() {
		doc.Connections = append(doc.Connections, ConnectionRecord{
			Source: c.Source().ID(),
			Target: c.Target().ID(),
		})
	}
	sort.Slice(doc.Connections, func(i, j int) bool {
		a, b := doc.Connections[i], doc.Connections[j]
		if a.Source != b.Source {
			return a.Source.String() < b.Source.String()
		}
		return a.Target.String() < b.Target.String()
	})

	return doc, nil
}

func encodeConnectors(connectors []*graph.Connector) []ConnectorRecord {
	out := make([]ConnectorRecord, len(connectors))
	for i, c := range connectors {
		out[i] = ConnectorRecord{
			TypeTag:  connectorTypeTag,
			ID:       c.ID(),
			DataType: c.DataType().String(),
		}
	}
	return out
}

// Factory reports whether the given type tag is known. Decode uses it only
// to confirm each node's tag — structural decode never calls into
// node-specific behavior.
type Factory func(typeTag string) (known bool)

// Decode rebuilds a graph.Graph from doc with every node, connector, and
// connection id preserved exactly as persisted. It fails — without
// partially populating the returned graph — if any node's type tag is
// not recognized by isKnownType.
func Decode(doc Document, isKnownType Factory) (*graph.Graph, error) {
	if doc.Type != graphTypeTag {
		return nil, fmt.Errorf("document: unexpected document type tag %q", doc.Type)
	}

	for _, nr := range doc.Nodes {
		if !isKnownType(nr.TypeTag) {
			return nil, fmt.Errorf("document: unknown node type tag %q", nr.TypeTag)
		}
	}

	g := graph.New()
	connectorsByID := make(map[graph.ID]*graph.Connector)

	for _, nr := range doc.Nodes {
		n := &restoredNode{
			BaseNode: graph.NewBaseNodeWithID(nr.ID),
			typeTag:  nr.TypeTag,
		}
		n.Position = graph.Position{X: nr.X, Y: nr.Y}

		for _, cr := range nr.Inputs {
			c, err := newConnectorFromRecord(cr, n, graph.DirectionInput)
			if err != nil {
				return nil, err
			}
			if err := n.AddInputConnector(c); err != nil {
				return nil, fmt.Errorf("document: restoring input connector %s: %w", cr.ID, err)
			}
			connectorsByID[c.ID()] = c
		}
		for _, cr := range nr.Outputs {
			c, err := newConnectorFromRecord(cr, n, graph.DirectionOutput)
			if err != nil {
				return nil, err
			}
			if err := n.AddOutputConnector(c); err != nil {
				return nil, fmt.Errorf("document: restoring output connector %s: %w", cr.ID, err)
			}
			connectorsByID[c.ID()] = c
		}

		if res := g.TryAddNode(n); !res.Success {
			return nil, fmt.Errorf("document: restoring node %s: %s", nr.ID, res.ErrorMessage)
		}
	}

	for _, cr := range doc.Connections {
		source, ok := connectorsByID[cr.Source]
		if !ok {
			return nil, fmt.Errorf("document: connection references unknown source connector %s", cr.Source)
		}
		target, ok := connectorsByID[cr.Target]
		if !ok {
			return nil, fmt.Errorf("document: connection references unknown target connector %s", cr.Target)
		}
		if res := g.TryAddConnection(source, target); !res.Success {
			return nil, fmt.Errorf("document: restoring connection %s->%s: %s", cr.Source, cr.Target, res.ErrorMessage)
		}
	}

	return g, nil
}

func newConnectorFromRecord(cr ConnectorRecord, parent graph.Node, direction graph.Direction) (*graph.Connector, error) {
	kind, err := graph.ParseKind(cr.DataType)
	if err != nil {
		return nil, fmt.Errorf("document: connector %s: %w", cr.ID, err)
	}
	c, err := graph.NewConnectorWithID(cr.ID, parent, direction, graph.TypeOf(kind))
	if err != nil {
		return nil, fmt.Errorf("document: restoring connector %s: %w", cr.ID, err)
	}
	return c, nil
}

// restoredNode is the structural-only node document.Decode produces: it
// carries exactly the shape a persisted document describes (id, position,
// connectors) and its original type tag, but no node-specific execution
// behavior — reinstating that is the job of whatever layer maps type tags
// back to live node implementations via a registry.
type restoredNode struct {
	graph.BaseNode
	typeTag string
}

func (n *restoredNode) Validate() bool { return n.BaseNode.Validate(n) }

// TypeID reports the type tag this node was restored from, satisfying
// TypeIdentifier so a document round-trips through repeated Encode/Decode
// cycles without losing its tags.
func (n *restoredNode) TypeID() string { return n.typeTag }
