// Copyright 2022-2024 Boris HUISGEN. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package banner

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/mitchellh/mapstructure"
	"golang.org/x/net/netutil"

	"github.com/bhuisgen/depot/pkg/core"
	"github.com/bhuisgen/depot/pkg/module"
)

// bannerService implements the banner service.
type bannerService struct {
	config  *bannerServiceConfig
	logger  *slog.Logger
	closed  bool
	conns   sync.WaitGroup
	mu      sync.Mutex
	connect func(conn net.Conn, banner string, timeout time.Duration) error
}

// bannerServiceConfig implements the banner service configuration.
type bannerServiceConfig struct {
	Message        *string `mapstructure:"message"`
	MaxConnections *int    `mapstructure:"maxConnections"`
	WriteTimeout   *int    `mapstructure:"writeTimeout"`
}

const (
	bannerModuleID module.ModuleID = "service.banner"

	bannerConfigDefaultMessage        string = "depot"
	bannerConfigDefaultMaxConnections int    = 0
	bannerConfigDefaultWriteTimeout   int    = 10
)

// bannerConnect writes the banner line then closes the connection.
func bannerConnect(conn net.Conn, banner string, timeout time.Duration) error {
	defer conn.Close()

	if err := conn.SetWriteDeadline(time.Now().Add(timeout)); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(conn, banner); err != nil {
		return err
	}

	return nil
}

// init initializes the module.
func init() {
	module.Register(bannerService{})
}

// ModuleInfo returns the module information.
func (s bannerService) ModuleInfo() module.ModuleInfo {
	return module.ModuleInfo{
		ID: bannerModuleID,
		NewInstance: func() module.Module {
			return &bannerService{
				connect: bannerConnect,
			}
		},
	}
}

// Init initializes the service.
func (s *bannerService) Init(config map[string]interface{}, logger *slog.Logger) error {
	s.logger = logger

	if err := mapstructure.Decode(config, &s.config); err != nil {
		s.logger.Error("Failed to parse configuration", "err", err)
		return fmt.Errorf("parse config: %v", err)
	}
	if s.config == nil {
		s.config = &bannerServiceConfig{}
	}

	var errConfig bool

	if s.config.Message == nil {
		defaultValue := bannerConfigDefaultMessage
		s.config.Message = &defaultValue
	}
	if s.config.MaxConnections == nil {
		defaultValue := bannerConfigDefaultMaxConnections
		s.config.MaxConnections = &defaultValue
	}
	if *s.config.MaxConnections < 0 {
		s.logger.Error("Invalid value", "option", "MaxConnections", "value", *s.config.MaxConnections)
		errConfig = true
	}
	if s.config.WriteTimeout == nil {
		defaultValue := bannerConfigDefaultWriteTimeout
		s.config.WriteTimeout = &defaultValue
	}
	if *s.config.WriteTimeout <= 0 {
		s.logger.Error("Invalid value", "option", "WriteTimeout", "value", *s.config.WriteTimeout)
		errConfig = true
	}

	if errConfig {
		return errors.New("config")
	}

	return nil
}

// Serve accepts connections and writes the banner to each of them.
func (s *bannerService) Serve(listener net.Listener) error {
	defer s.conns.Wait()

	ln := listener
	if *s.config.MaxConnections > 0 {
		ln = netutil.LimitListener(listener, *s.config.MaxConnections)
	}
	banner := fmt.Sprintf("%s %s", *s.config.Message, listener.Addr())
	timeout := time.Duration(*s.config.WriteTimeout) * time.Second

	for {
		conn, err := ln.Accept()
		if err != nil {
			if s.isClosed() || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("accept: %w", err)
		}

		s.conns.Add(1)
		go func() {
			defer s.conns.Done()

			if err := s.connect(conn, banner, timeout); err != nil {
				s.logger.Debug("Failed to write banner", "remote", conn.RemoteAddr(), "err", err)
			}
		}()
	}
}

// Close stops the service.
func (s *bannerService) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true

	return nil
}

// isClosed reports whether the service is closed.
func (s *bannerService) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.closed
}

var _ core.ServiceModule = (*bannerService)(nil)
