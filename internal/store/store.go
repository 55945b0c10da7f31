// Package store defines persistence contracts for submitted
// connections and their moderation state. Only approved connections
// are handed to the graph.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/mkirsch/shipgraph/internal/graph"
)

// ErrNotFound indicates a requested connection record is missing.
var ErrNotFound = errors.New("connection not found")

// ModerationStatus tracks where a submitted connection sits in the
// approval workflow.
type ModerationStatus string

const (
	StatusPending  ModerationStatus = "pending"
	StatusApproved ModerationStatus = "approved"
	StatusRejected ModerationStatus = "rejected"
)

// Connection is one claimed link between two named people.
type Connection struct {
	ID          string
	PersonA     string
	PersonB     string
	SubmittedBy string
	Status      ModerationStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ConnectionStore persists submitted connections and their moderation
// state.
type ConnectionStore interface {
	// Submit records a new claimed connection as pending.
	Submit(ctx context.Context, conn Connection) error
	// Get returns one connection by ID, or ErrNotFound.
	Get(ctx context.Context, id string) (Connection, error)
	// SetStatus moves a connection through the moderation workflow.
	SetStatus(ctx context.Context, id string, status ModerationStatus) error
	// ListByStatus returns all connections in the given state, oldest
	// first.
	ListByStatus(ctx context.Context, status ModerationStatus) ([]Connection, error)
	// ApprovedEdges returns the approved connections as a flat edge
	// list, the snapshot the graph is rebuilt from.
	ApprovedEdges(ctx context.Context) ([]graph.Edge, error)
	Close() error
}
