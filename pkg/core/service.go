// Copyright 2022-2024 Boris HUISGEN. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package core

import (
	"net"
)

// ServiceModule is a module serving the connections accepted by a listener.
type ServiceModule interface {
	Module

	// Serve accepts connections until the listener or the service is closed.
	// It returns nil once closed.
	Serve(listener net.Listener) error

	// Close stops the service.
	Close() error
}
