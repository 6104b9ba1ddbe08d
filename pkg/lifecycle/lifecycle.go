// Copyright 2022-2024 Boris HUISGEN. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package lifecycle

import (
	"fmt"
	"log/slog"
)

// Lifecycle starts and stops servers and publishes their transitions.
type Lifecycle struct {
	hub      *EventHub
	resolver *Resolver
	logger   *slog.Logger
}

// New creates a new lifecycle publishing to the given hub.
func New(hub *EventHub, logger *slog.Logger) *Lifecycle {
	if logger == nil {
		logger = slog.Default()
	}
	if hub == nil {
		hub = NewEventHub(logger)
	}

	return &Lifecycle{
		hub:      hub,
		resolver: NewResolver(),
		logger:   logger,
	}
}

// Hub returns the event hub.
func (l *Lifecycle) Hub() *EventHub {
	return l.hub
}

// Start binds the requested address, publishes the serving event and starts
// the accept loop of the service. The server address is updated with the
// bound address unless the requested host is empty.
func (l *Lifecycle) Start(requested Address, service Service) (*Server, error) {
	bound, listener, err := l.resolver.Resolve(requested)
	if err != nil {
		return nil, err
	}

	s := newServer(requested, listener, service, l.hub, l.logger)
	if requested.Host != "" {
		s.addr = bound
	}

	if err := l.hub.Publish(ServingEvent{Address: bound, Server: s.id}); err != nil {
		_ = listener.Close()
		return nil, fmt.Errorf("publish serving event: %w", err)
	}

	s.mu.Lock()
	s.state = serverStateServing
	s.mu.Unlock()

	if service != nil {
		s.group.Go(func() error {
			return service.Serve(listener)
		})
	}

	l.logger.Debug("Server serving", "server", s.id, "addr", bound)

	return s, nil
}

// Stop stops the server.
func (l *Lifecycle) Stop(s *Server) error {
	return s.Stop()
}
