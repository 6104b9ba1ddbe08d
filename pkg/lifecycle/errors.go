// Copyright 2022-2024 Boris HUISGEN. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package lifecycle

import "errors"

var (
	// ErrInvalidPort is returned when a port is outside the 0-65535 range.
	ErrInvalidPort = errors.New("invalid port")
	// ErrUnsupportedAddr is returned when a listener is not bound to a TCP address.
	ErrUnsupportedAddr = errors.New("unsupported listener address")
	// ErrServerNotStarted is returned when stopping a server that never served.
	ErrServerNotStarted = errors.New("server not started")
	// ErrServerStopped is returned when stopping a server twice.
	ErrServerStopped = errors.New("server already stopped")
)
