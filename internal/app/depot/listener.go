// Copyright 2022-2024 Boris HUISGEN. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package depot

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/multierr"

	"github.com/bhuisgen/depot/pkg/core"
	"github.com/bhuisgen/depot/pkg/lifecycle"
	"github.com/bhuisgen/depot/pkg/log"
	"github.com/bhuisgen/depot/pkg/module"
)

// listener implements a listener.
type listener struct {
	name      string
	config    *listenerConfig
	logger    *slog.Logger
	state     *listenerState
	lifecycle *lifecycle.Lifecycle
	preflight *lifecycle.Preflight
}

// listenerConfig implements the listener configuration.
type listenerConfig struct {
	ListenAddr *string                `mapstructure:"listenAddr"`
	ListenPort *int                   `mapstructure:"listenPort"`
	Service    map[string]interface{} `mapstructure:"service"`
}

// listenerState implements the listener state.
type listenerState struct {
	address       lifecycle.ConfigAddress
	service       string
	serviceModule core.ServiceModule
	server        *lifecycle.Server
}

const (
	listenerLogger string = "listener"

	listenerConfigDefaultListenAddr string = ""
)

// newListener creates a new listener.
func newListener(name string, lc *lifecycle.Lifecycle) *listener {
	return &listener{
		name:      name,
		logger:    log.New(fmt.Sprintf("%s[%s]", listenerLogger, name)),
		lifecycle: lc,
		preflight: lifecycle.NewPreflight(),
	}
}

// Check checks the listener configuration.
func (l *listener) Check(config map[string]interface{}) ([]string, error) {
	var report []string
	for _, err := range l.load(config) {
		report = append(report, fmt.Sprintf("listener '%s': %v", l.name, err))
	}

	if len(report) > 0 {
		return report, errors.New("check failure")
	}

	return nil, nil
}

// Init initializes the listener.
func (l *listener) Init(config map[string]interface{}) error {
	if errs := l.load(config); len(errs) > 0 {
		return fmt.Errorf("listener '%s': %w", l.name, multierr.Combine(errs...))
	}

	return nil
}

// load decodes the configuration, runs the socket preflight check and
// initializes the service module.
func (l *listener) load(config map[string]interface{}) []error {
	l.config = nil
	l.state = &listenerState{}

	if err := mapstructure.Decode(config, &l.config); err != nil {
		return []error{fmt.Errorf("parse config: %v", err)}
	}
	if l.config == nil {
		l.config = &listenerConfig{}
	}

	var errs []error

	if l.config.ListenAddr == nil {
		defaultValue := listenerConfigDefaultListenAddr
		l.config.ListenAddr = &defaultValue
	}
	address, err := lifecycle.ParseConfigAddress(*l.config.ListenAddr)
	if err != nil {
		errs = append(errs, fmt.Errorf("invalid value for option ListenAddr: %v", err))
	}
	if l.config.ListenPort != nil {
		if address.Port != nil && *address.Port != *l.config.ListenPort {
			errs = append(errs, errors.New("conflicting ports in options ListenAddr and ListenPort"))
		}
		port := *l.config.ListenPort
		address.Port = &port
	}
	if err == nil {
		if _, err := l.preflight.Check(&address); err != nil {
			errs = append(errs, fmt.Errorf("socket check failed for address '%s': %v", address, err))
		}
	}
	l.state.address = address

	if len(l.config.Service) != 1 {
		errs = append(errs, errors.New("exactly one service must be defined"))
		return errs
	}
	for service, serviceConfig := range l.config.Service {
		moduleInfo, err := module.Lookup(module.ModuleID("service." + service))
		if err != nil {
			errs = append(errs, fmt.Errorf("unregistered service module '%s'", service))
			break
		}
		serviceModule, ok := moduleInfo.NewInstance().(core.ServiceModule)
		if !ok {
			errs = append(errs, fmt.Errorf("invalid service module '%s'", service))
			break
		}
		moduleConfig, _ := serviceConfig.(map[string]interface{})
		if err := serviceModule.Init(moduleConfig, l.logger.With("service", service)); err != nil {
			errs = append(errs, fmt.Errorf("service '%s': %v", service, err))
			break
		}

		l.state.service = service
		l.state.serviceModule = serviceModule
	}

	return errs
}

// Start starts the listener serving.
func (l *listener) Start() error {
	if l.state == nil || l.state.serviceModule == nil {
		return errors.New("listener not initialized")
	}
	if l.state.server != nil {
		return errors.New("listener already started")
	}

	server, err := l.lifecycle.Start(lifecycle.NormalizeAddress(&l.state.address), l.state.serviceModule)
	if err != nil {
		return fmt.Errorf("listener '%s': %w", l.name, err)
	}
	l.state.server = server

	l.logger.Info("Listener started", "server", server.ID(), "addr", server.Addr(), "service", l.state.service)

	return nil
}

// Stop stops the listener.
func (l *listener) Stop() error {
	if l.state == nil || l.state.server == nil {
		return fmt.Errorf("listener '%s': %w", l.name, lifecycle.ErrServerNotStarted)
	}

	if err := l.lifecycle.Stop(l.state.server); err != nil {
		return fmt.Errorf("listener '%s': %w", l.name, err)
	}

	l.logger.Info("Listener stopped", "server", l.state.server.ID())

	return nil
}

// Name returns the listener name.
func (l *listener) Name() string {
	return l.name
}

// Address returns the configured address.
func (l *listener) Address() lifecycle.ConfigAddress {
	return l.state.address
}

// Server returns the listener server once started.
func (l *listener) Server() *lifecycle.Server {
	if l.state == nil {
		return nil
	}
	return l.state.server
}
