// Copyright 2022-2024 Boris HUISGEN. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package lifecycle

import (
	"github.com/google/uuid"
)

// ServerID identifies a server instance for its whole lifetime.
type ServerID uuid.UUID

// newServerID returns a new random server ID.
func newServerID() ServerID {
	return ServerID(uuid.New())
}

// String returns the canonical form of the ID.
func (id ServerID) String() string {
	return uuid.UUID(id).String()
}

// EventKind is the kind of a lifecycle event.
type EventKind int

const (
	// EventServing is published once a server is bound and about to accept.
	EventServing EventKind = iota + 1
	// EventClosed is published once the listening handle is released.
	EventClosed
)

// String returns the event kind name.
func (k EventKind) String() string {
	switch k {
	case EventServing:
		return "serving"
	case EventClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Event is a lifecycle transition of a server.
type Event interface {
	Kind() EventKind
	ServerID() ServerID
}

// ServingEvent is published after a successful bind. Address holds the
// address actually bound, with the port resolved by the operating system.
type ServingEvent struct {
	Address Address
	Server  ServerID
}

// Kind implements Event.
func (e ServingEvent) Kind() EventKind {
	return EventServing
}

// ServerID implements Event.
func (e ServingEvent) ServerID() ServerID {
	return e.Server
}

// ClosedEvent is published after the listening handle of a server is released.
type ClosedEvent struct {
	Server ServerID
}

// Kind implements Event.
func (e ClosedEvent) Kind() EventKind {
	return EventClosed
}

// ServerID implements Event.
func (e ClosedEvent) ServerID() ServerID {
	return e.Server
}

var (
	_ Event = ServingEvent{}
	_ Event = ClosedEvent{}
)
