package graph

import "sync"

// Direction is the fixed direction of a Connector: Input accepts at most
// one connection from a distinct source; Output accepts any number.
type Direction int

const (
	DirectionInput Direction = iota
	DirectionOutput
)

func (d Direction) String() string {
	if d == DirectionInput {
		return "input"
	}
	return "output"
}

// Connector is one typed, directed endpoint of a Node.
type Connector struct {
	id        ID
	parent    Node
	direction Direction
	dataType  DataType

	mu          sync.Mutex
	connections []*Connection
}

// NewConnector builds a connector owned by parent. Returns ErrInvalidArgument
// if parent is nil.
func NewConnector(parent Node, direction Direction, dataType DataType) (*Connector, error) {
	if parent == nil {
		return nil, newErr(ErrInvalidArgument, "connector parent must not be nil")
	}
	return &Connector{
		id:        NewID(),
		parent:    parent,
		direction: direction,
		dataType:  dataType,
	}, nil
}

// NewConnectorWithID builds a connector carrying a caller-supplied
// identifier. Used by the document package to restore a connector's
// original id on load, mirroring NewBaseNodeWithID.
func NewConnectorWithID(id ID, parent Node, direction Direction, dataType DataType) (*Connector, error) {
	if parent == nil {
		return nil, newErr(ErrInvalidArgument, "connector parent must not be nil")
	}
	return &Connector{
		id:        id,
		parent:    parent,
		direction: direction,
		dataType:  dataType,
	}, nil
}

func (c *Connector) ID() ID               { return c.id }
func (c *Connector) Parent() Node         { return c.parent }
func (c *Connector) Direction() Direction { return c.direction }
func (c *Connector) DataType() DataType   { return c.dataType }

// Connections returns a defensive copy of the connectors's connection set.
func (c *Connector) Connections() []*Connection {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*Connection, len(c.connections))
	copy(out, c.connections)
	return out
}

// ValidateConnection reports whether other would be an acceptable
// counterpart connector for a new Connection: other must be non-nil, the
// two directions must differ, the target's data type must accept the
// source's, and — when this connector is an Input — its current
// connection set must contain no connection whose source differs from
// the candidate source.
func (c *Connector) ValidateConnection(other *Connector) bool {
	if other == nil {
		return false
	}
	if c.direction == other.direction {
		return false
	}

	var source, target *Connector
	if c.direction == DirectionOutput {
		source, target = c, other
	} else {
		source, target = other, c
	}
	if !target.dataType.IsAssignableFrom(source.dataType) {
		return false
	}

	if c.direction == DirectionInput {
		c.mu.Lock()
		defer c.mu.Unlock()
		for _, existing := range c.connections {
			if existing.Source() != source {
				return false
			}
		}
	}
	return true
}

// AddConnection registers conn with this connector if ValidateConnection
// would accept its counterpart endpoint. Returns whether it was added.
func (c *Connector) AddConnection(conn *Connection) (bool, error) {
	if conn == nil {
		return false, newErr(ErrInvalidArgument, "connection must not be nil")
	}

	counterpart := conn.Target()
	if counterpart == c {
		counterpart = conn.Source()
	}
	if !c.ValidateConnection(counterpart) {
		return false, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, existing := range c.connections {
		if existing == conn {
			return true, nil // idempotent
		}
	}
	c.connections = append(c.connections, conn)
	return true, nil
}

// RemoveConnection removes conn from this connector's set. Tolerant of a
// nil connection or one that is already absent — both report false with
// no error, which lets cascading removal stay idempotent.
func (c *Connector) RemoveConnection(conn *Connection) bool {
	if conn == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, existing := range c.connections {
		if existing == conn {
			c.connections = append(c.connections[:i], c.connections[i+1:]...)
			return true
		}
	}
	return false
}
