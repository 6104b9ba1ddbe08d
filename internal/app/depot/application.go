// Copyright 2022-2024 Boris HUISGEN. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package depot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os/signal"
	"syscall"

	"go.uber.org/multierr"

	"github.com/bhuisgen/depot/pkg/lifecycle"
	"github.com/bhuisgen/depot/pkg/log"
)

// application implements the application.
type application struct {
	config    *config
	logger    *slog.Logger
	hub       *lifecycle.EventHub
	lifecycle *lifecycle.Lifecycle
	state     *applicationState
}

// applicationState implements the application state.
type applicationState struct {
	listeners []*listener
}

const (
	applicationLogger string = "app"
	lifecycleLogger   string = "lifecycle"
)

// newApplication creates a new application.
func newApplication(config *config) *application {
	hub := lifecycle.NewEventHub(log.New(lifecycleLogger))

	a := &application{
		config:    config,
		logger:    log.New(applicationLogger),
		hub:       hub,
		lifecycle: lifecycle.New(hub, log.New(lifecycleLogger)),
	}
	hub.SetSink(a.notify)

	return a
}

// Check checks the instance configuration.
func (a *application) Check() error {
	var report []string

	if a.config.Log != nil && a.config.Log.Level != "" {
		if err := log.SetLevel(a.config.Log.Level); err != nil {
			report = append(report, err.Error())
		}
	}

	if len(a.config.Listeners) == 0 {
		report = append(report, "no listener defined")
	}
	for _, configListener := range a.config.Listeners {
		r, err := newListener(configListener.Name, a.lifecycle).Check(configListener.Config)
		if err != nil {
			report = append(report, r...)
		}
	}

	if len(report) > 0 {
		for _, line := range report {
			a.logger.Error(line)
		}
		return errors.New("check failure")
	}

	return nil
}

// Serve runs the instance until SIGINT or SIGTERM is received.
func (a *application) Serve() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return a.run(ctx)
}

// run starts the listeners, waits for the context then stops them.
func (a *application) run(ctx context.Context) error {
	a.logger.Info("Starting instance", "name", Name, "version", Version, "commit", Commit)
	if DEBUG {
		a.logger.Info("Debug enabled")
	}

	registerMetrics()

	if err := a.start(); err != nil {
		a.logger.Error("Failed to start instance", "err", err)
		return err
	}

	<-ctx.Done()
	a.logger.Info("Stopping instance")

	if err := a.stop(); err != nil {
		a.logger.Error("Failed to stop instance", "err", err)
		return err
	}

	return nil
}

// start initializes and starts all listeners. Started listeners are stopped
// again if one fails.
func (a *application) start() error {
	if len(a.config.Listeners) == 0 {
		return errors.New("no listener defined")
	}

	a.state = &applicationState{}
	for _, configListener := range a.config.Listeners {
		l := newListener(configListener.Name, a.lifecycle)
		if err := l.Init(configListener.Config); err != nil {
			return err
		}
		a.state.listeners = append(a.state.listeners, l)
	}

	for i, l := range a.state.listeners {
		if err := l.Start(); err != nil {
			for j := i - 1; j >= 0; j-- {
				err = multierr.Append(err, a.stopListener(a.state.listeners[j]))
			}
			return err
		}

		if tcpAddr, ok := l.Server().Listener().Addr().(*net.TCPAddr); ok {
			listenerPort.WithLabelValues(l.Name()).Set(float64(tcpAddr.Port))
		}
	}

	return nil
}

// stop stops all listeners in reverse order.
func (a *application) stop() error {
	if a.state == nil {
		return nil
	}

	var err error
	for i := len(a.state.listeners) - 1; i >= 0; i-- {
		err = multierr.Append(err, a.stopListener(a.state.listeners[i]))
	}

	return err
}

// stopListener stops a listener.
func (a *application) stopListener(l *listener) error {
	listenerPort.DeleteLabelValues(l.Name())

	if err := l.Stop(); err != nil {
		return fmt.Errorf("stop listener: %w", err)
	}

	return nil
}

// notify receives the lifecycle events of all listeners.
func (a *application) notify(event lifecycle.Event) error {
	observeEvent(event)

	switch e := event.(type) {
	case lifecycle.ServingEvent:
		a.logger.Info("Server serving", "server", e.Server, "addr", e.Address)
	case lifecycle.ClosedEvent:
		a.logger.Info("Server closed", "server", e.Server)
	}

	return nil
}

var _ Application = (*application)(nil)
