// Copyright 2022-2024 Boris HUISGEN. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package lifecycle

import (
	"log/slog"
	"sync"
)

// EventSink receives lifecycle events. A returned error is propagated to the
// operation which triggered the event.
type EventSink func(event Event) error

// EventHub holds the single sink through which lifecycle events are published.
type EventHub struct {
	sink EventSink
	mu   sync.RWMutex
}

// NewEventHub creates a new event hub with a sink logging events to the given
// logger. A nil logger installs a no-op sink.
func NewEventHub(logger *slog.Logger) *EventHub {
	h := &EventHub{}
	if logger == nil {
		h.sink = discardSink
	} else {
		h.sink = logSink(logger)
	}

	return h
}

// SetSink replaces the current sink. A nil sink discards events.
func (h *EventHub) SetSink(sink EventSink) {
	if sink == nil {
		sink = discardSink
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.sink = sink
}

// Sink returns the current sink.
func (h *EventHub) Sink() EventSink {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return h.sink
}

// Publish delivers the event to the current sink on the calling goroutine.
func (h *EventHub) Publish(event Event) error {
	return h.Sink()(event)
}

// discardSink drops events.
func discardSink(Event) error {
	return nil
}

// logSink returns a sink logging events at debug level.
func logSink(logger *slog.Logger) EventSink {
	return func(event Event) error {
		switch e := event.(type) {
		case ServingEvent:
			logger.Debug("Lifecycle event", "event", e.Kind(), "server", e.Server, "addr", e.Address)
		default:
			logger.Debug("Lifecycle event", "event", e.Kind(), "server", e.ServerID())
		}
		return nil
	}
}
