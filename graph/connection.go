package graph

// Connection is one directed edge from an Output connector to an Input
// connector. Connections are created by Graph.TryAddConnection (or, without
// the graph's checks, by Connect) and register themselves with both
// endpoint connectors at construction time.
type Connection struct {
	id     ID
	source *Connector
	target *Connector
}

// Connect performs the same connector-level join Graph.TryAddConnection
// uses internally, without Graph's acyclicity check. It exists for callers
// that build a node/connector structure directly — e.g. traversal
// fixtures — where a cycle in the underlying structure is a legitimate
// input rather than a Graph invariant violation.
func Connect(source, target *Connector) (*Connection, error) {
	return newConnection(source, target)
}

// newConnection binds source and target and registers the connection with
// both. The Graph is expected to have already validated direction, type
// compatibility, and acyclicity; this constructor only handles the
// mechanical registration and rolls back if either side refuses it.
func newConnection(source, target *Connector) (*Connection, error) {
	conn := &Connection{id: NewID(), source: source, target: target}

	addedToSource, err := source.AddConnection(conn)
	if err != nil {
		return nil, newErr(ErrInvalidState, "register with source: %v", err)
	}
	if !addedToSource {
		return nil, newErr(ErrInvalidState, "source connector refused connection")
	}

	addedToTarget, err := target.AddConnection(conn)
	if err != nil {
		source.RemoveConnection(conn)
		return nil, newErr(ErrInvalidState, "register with target: %v", err)
	}
	if !addedToTarget {
		source.RemoveConnection(conn)
		return nil, newErr(ErrInvalidState, "target connector refused connection")
	}

	return conn, nil
}

func (c *Connection) ID() ID              { return c.id }
func (c *Connection) Source() *Connector  { return c.source }
func (c *Connection) Target() *Connector  { return c.target }

// Validate reports whether the connection has both endpoints set.
func (c *Connection) Validate() bool {
	return c.source != nil && c.target != nil
}

// Remove idempotently detaches the connection from both connectors. Safe
// to call on a connection that was never fully attached or already removed.
func (c *Connection) Remove() {
	if c.source != nil {
		c.source.RemoveConnection(c)
	}
	if c.target != nil {
		c.target.RemoveConnection(c)
	}
}
