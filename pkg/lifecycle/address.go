// Copyright 2022-2024 Boris HUISGEN. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package lifecycle

import (
	"fmt"
	"net"
	"strconv"
	"strings"
)

// Address is a listening address. A zero port requests a dynamic port and an
// empty host means all interfaces.
type Address struct {
	Host string
	Port int
}

// String returns the address in host:port form.
func (a Address) String() string {
	return net.JoinHostPort(a.Host, strconv.Itoa(a.Port))
}

// IsDynamic reports whether the address requests an ephemeral port.
func (a Address) IsDynamic() bool {
	return a.Port == 0
}

// ConfigAddress is an address as read from the configuration. A nil port
// means the operator did not specify one.
type ConfigAddress struct {
	Host string
	Port *int
}

// String returns the configuration address, without port when unset.
func (c ConfigAddress) String() string {
	if c.Port == nil {
		return c.Host
	}
	return net.JoinHostPort(c.Host, strconv.Itoa(*c.Port))
}

// ParseConfigAddress parses an address directive. The port part is optional:
// "host", "host:port", ":port", "[::1]" and "[::1]:port" are accepted.
func ParseConfigAddress(s string) (ConfigAddress, error) {
	s = strings.TrimSpace(s)

	var hasPort bool
	switch {
	case strings.HasPrefix(s, "["):
		if strings.HasSuffix(s, "]") {
			return ConfigAddress{Host: s[1 : len(s)-1]}, nil
		}
		hasPort = true
	case strings.Count(s, ":") == 1:
		hasPort = true
	}
	if !hasPort {
		return ConfigAddress{Host: s}, nil
	}

	host, portValue, err := net.SplitHostPort(s)
	if err != nil {
		return ConfigAddress{}, fmt.Errorf("parse address %q: %w", s, err)
	}
	if portValue == "" {
		return ConfigAddress{Host: host}, nil
	}
	port, err := strconv.Atoi(portValue)
	if err != nil {
		return ConfigAddress{}, fmt.Errorf("parse address %q: %w", s, ErrInvalidPort)
	}
	if err := validatePort(port); err != nil {
		return ConfigAddress{}, fmt.Errorf("parse address %q: %w", s, err)
	}

	return ConfigAddress{Host: host, Port: &port}, nil
}

// NormalizeAddress replaces an unset port with the dynamic port request and
// returns the resulting address. The configuration is updated in place.
func NormalizeAddress(cfg *ConfigAddress) Address {
	if cfg.Port == nil {
		port := 0
		cfg.Port = &port
	}

	return Address{Host: cfg.Host, Port: *cfg.Port}
}

// validatePort checks the port range.
func validatePort(port int) error {
	if port < 0 || port > 65535 {
		return fmt.Errorf("%w: %d", ErrInvalidPort, port)
	}
	return nil
}
