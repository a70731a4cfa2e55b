// Package lifecycle bridges committed entity mutations to derived-value
// cache invalidation. Events are produced synchronously by a manage
// strategy right after a successful repository write and consumed before
// control returns to the caller; they are never queued or persisted.
package lifecycle

import "github.com/atlas-stays/atlas-stays/internal/authz"

// Op names the persistence operation that produced an event.
type Op string

const (
	OpCreated Op = "created"
	OpUpdated Op = "updated"
	OpDeleted Op = "deleted"
)

// Change records the before and after value of a single watched field.
type Change struct {
	Old any
	New any
}

// Event describes one committed entity mutation. Changed is populated only
// for OpUpdated and holds exactly the fields whose new value differs from
// the prior persisted value.
type Event struct {
	Family  authz.Family
	Op      Op
	Changed map[string]Change
}

// Created builds an event for a freshly inserted entity.
func Created(family authz.Family) Event {
	return Event{Family: family, Op: OpCreated}
}

// Updated builds an event carrying the computed field diff.
func Updated(family authz.Family, changed map[string]Change) Event {
	return Event{Family: family, Op: OpUpdated, Changed: changed}
}

// Deleted builds an event for a removed entity.
func Deleted(family authz.Family) Event {
	return Event{Family: family, Op: OpDeleted}
}
