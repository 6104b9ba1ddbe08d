// Copyright 2022-2024 Boris HUISGEN. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package lifecycle

import (
	"fmt"
	"net"
)

// Resolver binds requested addresses and resolves dynamic ports.
type Resolver struct {
	netListen func(network string, address string) (net.Listener, error)
}

// resolverNetListen redirects to net.Listen.
func resolverNetListen(network string, address string) (net.Listener, error) {
	return net.Listen(network, address)
}

// NewResolver creates a new resolver.
func NewResolver() *Resolver {
	return &Resolver{
		netListen: resolverNetListen,
	}
}

// Resolve binds the requested address and returns the bound address with the
// listener. A dynamic port is replaced by the port allocated by the operating
// system. The returned listener is the serving socket.
func (r *Resolver) Resolve(requested Address) (Address, net.Listener, error) {
	if err := validatePort(requested.Port); err != nil {
		return Address{}, nil, err
	}

	ln, err := r.netListen("tcp", requested.String())
	if err != nil {
		return Address{}, nil, fmt.Errorf("listen %s: %w", requested, err)
	}

	if !requested.IsDynamic() {
		return requested, ln, nil
	}

	tcpAddr, ok := ln.Addr().(*net.TCPAddr)
	if !ok {
		_ = ln.Close()
		return Address{}, nil, fmt.Errorf("%w: %s", ErrUnsupportedAddr, ln.Addr())
	}

	return Address{Host: requested.Host, Port: tcpAddr.Port}, ln, nil
}
