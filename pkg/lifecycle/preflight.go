// Copyright 2022-2024 Boris HUISGEN. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package lifecycle

import (
	"fmt"
	"net"
)

// Preflight checks configured addresses before any server is constructed.
type Preflight struct {
	netListen func(network string, address string) (net.Listener, error)
}

// NewPreflight creates a new preflight checker.
func NewPreflight() *Preflight {
	return &Preflight{
		netListen: resolverNetListen,
	}
}

// Check normalizes the configured address and, when a dynamic port is
// requested, binds then releases it to prove the host can be bound. The
// configured port is left as the dynamic request since the probed port is
// released.
func (p *Preflight) Check(cfg *ConfigAddress) (Address, error) {
	addr := NormalizeAddress(cfg)
	if err := validatePort(addr.Port); err != nil {
		return addr, err
	}
	if !addr.IsDynamic() {
		return addr, nil
	}

	ln, err := p.netListen("tcp", addr.String())
	if err != nil {
		return addr, fmt.Errorf("probe %s: %w", addr, err)
	}
	if err := ln.Close(); err != nil {
		return addr, fmt.Errorf("release probe %s: %w", addr, err)
	}

	return addr, nil
}

// CheckSocket runs the preflight check with the default network.
func CheckSocket(cfg *ConfigAddress) error {
	_, err := NewPreflight().Check(cfg)
	return err
}
