// Copyright 2022-2024 Boris HUISGEN. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package lifecycle

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

// Service accepts connections from a listener until it is closed.
type Service interface {
	// Serve accepts connections until the listener or the service is closed.
	Serve(listener net.Listener) error
	// Close stops accepting connections.
	Close() error
}

// serverState is the state of a server.
type serverState int

const (
	serverStateNew serverState = iota
	serverStateServing
	serverStateStopped
)

// Server is a listening server. It owns its listener which is released by Stop.
type Server struct {
	id       ServerID
	addr     Address
	listener net.Listener
	service  Service
	hub      *EventHub
	logger   *slog.Logger
	group    errgroup.Group
	state    serverState
	mu       sync.RWMutex
}

// newServer creates a new server for the requested address.
func newServer(requested Address, listener net.Listener, service Service, hub *EventHub, logger *slog.Logger) *Server {
	return &Server{
		id:       newServerID(),
		addr:     requested,
		listener: listener,
		service:  service,
		hub:      hub,
		logger:   logger,
	}
}

// ID returns the server ID.
func (s *Server) ID() ServerID {
	return s.id
}

// Addr returns the best-known address of the server. When the server was
// requested on all interfaces, the requested address is returned as is.
func (s *Server) Addr() Address {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.addr
}

// Listener returns the listening handle.
func (s *Server) Listener() net.Listener {
	return s.listener
}

// Wait waits for the accept loop to return and returns its error.
func (s *Server) Wait() error {
	return s.group.Wait()
}

// Stop stops accepting connections, releases the listener and publishes the
// closed event. Stopping a server twice is an error.
func (s *Server) Stop() error {
	s.mu.Lock()
	switch s.state {
	case serverStateNew:
		s.mu.Unlock()
		return ErrServerNotStarted
	case serverStateStopped:
		s.mu.Unlock()
		return ErrServerStopped
	}
	s.state = serverStateStopped
	s.mu.Unlock()

	err := s.release()

	if errPublish := s.hub.Publish(ClosedEvent{Server: s.id}); errPublish != nil {
		err = multierr.Append(err, fmt.Errorf("publish closed event: %w", errPublish))
	}

	if s.logger != nil {
		s.logger.Debug("Server closed", "server", s.id, "addr", s.addr)
	}

	return err
}

// release closes the service and the listener then waits for the accept loop.
func (s *Server) release() error {
	var err error

	if s.service != nil {
		if errClose := s.service.Close(); errClose != nil {
			err = multierr.Append(err, fmt.Errorf("close service: %w", errClose))
		}
	}
	if errClose := s.listener.Close(); errClose != nil && !errors.Is(errClose, net.ErrClosed) {
		err = multierr.Append(err, fmt.Errorf("close listener: %w", errClose))
	}
	if errServe := s.group.Wait(); errServe != nil {
		err = multierr.Append(err, fmt.Errorf("serve: %w", errServe))
	}

	return err
}
