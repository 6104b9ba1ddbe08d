// Copyright 2022-2024 Boris HUISGEN. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package lifecycle

import (
	"errors"
	"net"
	"sync"
)

// testListener is a listener bound to nothing.
type testListener struct {
	addr     net.Addr
	errClose error
	closed   bool
	mu       sync.Mutex
}

func (l *testListener) Accept() (net.Conn, error) {
	return nil, net.ErrClosed
}

func (l *testListener) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.closed = true
	return l.errClose
}

func (l *testListener) Addr() net.Addr {
	return l.addr
}

func (l *testListener) isClosed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.closed
}

var _ net.Listener = (*testListener)(nil)

// testService accepts and closes connections until the listener is closed.
type testService struct {
	errServe error
	errClose error
	accepted int
	serving  chan struct{}
	done     chan struct{}
	mu       sync.Mutex
}

func newTestService() *testService {
	return &testService{
		serving: make(chan struct{}),
		done:    make(chan struct{}),
	}
}

func (s *testService) Serve(listener net.Listener) error {
	close(s.serving)
	defer close(s.done)

	for {
		conn, err := listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return s.errServe
			}
			return err
		}
		s.mu.Lock()
		s.accepted++
		s.mu.Unlock()
		_ = conn.Close()
	}
}

func (s *testService) Close() error {
	return s.errClose
}

func (s *testService) acceptedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.accepted
}

var _ Service = (*testService)(nil)

// recordSink records published events.
type recordSink struct {
	events []Event
	err    map[EventKind]error
	mu     sync.Mutex
}

func (r *recordSink) sink(event Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, event)
	return r.err[event.Kind()]
}

func (r *recordSink) recorded() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]Event(nil), r.events...)
}
