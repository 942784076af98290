// Package events defines the movement change feed. Every create, edit and
// delete of a movement is published as an event, giving downstream consumers
// an append-only log of ledger changes.
package events

import (
	"context"
	"time"

	"github.com/mvargascr/fondo-server/internal/models"
)

// Event types.
const (
	MovementCreated = "movement_created"
	MovementEdited  = "movement_edited"
	MovementDeleted = "movement_deleted"
)

// MovementEvent describes one change to a fund's movement list.
type MovementEvent struct {
	Type     string          `json:"type"`
	Company  string          `json:"company"`
	Account  string          `json:"account"`
	Movement models.Movement `json:"movement"`
	At       time.Time       `json:"at"`
}

// Publisher sends movement events to an external feed.
type Publisher interface {
	Publish(ctx context.Context, event MovementEvent) error
	Close() error
}

// NoopPublisher discards events. Used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, event MovementEvent) error { return nil }

func (NoopPublisher) Close() error { return nil }
