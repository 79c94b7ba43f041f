package graph

import "github.com/google/uuid"

// ID is the opaque 128-bit identifier attached to every node, connector,
// and connection.
type ID = uuid.UUID

// NewID returns a new random identifier.
func NewID() ID {
	return uuid.New()
}
