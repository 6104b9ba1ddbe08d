// Copyright 2022-2024 Boris HUISGEN. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package metrics

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bhuisgen/depot/internal/app/middlewares"
	"github.com/bhuisgen/depot/pkg/core"
	"github.com/bhuisgen/depot/pkg/module"
)

// metricsService implements the metrics service.
type metricsService struct {
	config          *metricsServiceConfig
	logger          *slog.Logger
	server          *http.Server
	gatherer        prometheus.Gatherer
	httpServerServe func(server *http.Server, listener net.Listener) error
	httpServerClose func(server *http.Server) error
}

// metricsServiceConfig implements the metrics service configuration.
type metricsServiceConfig struct {
	Path              *string `mapstructure:"path"`
	ReadHeaderTimeout *int    `mapstructure:"readHeaderTimeout"`
	WriteTimeout      *int    `mapstructure:"writeTimeout"`
	IdleTimeout       *int    `mapstructure:"idleTimeout"`
	AccessLog         *bool   `mapstructure:"accessLog"`
}

const (
	metricsModuleID module.ModuleID = "service.metrics"

	metricsConfigDefaultPath              string = "/metrics"
	metricsConfigDefaultReadHeaderTimeout int    = 10
	metricsConfigDefaultWriteTimeout      int    = 60
	metricsConfigDefaultIdleTimeout       int    = 60
	metricsConfigDefaultAccessLog         bool   = false
)

// metricsHttpServerServe redirects to http.Server.Serve.
func metricsHttpServerServe(server *http.Server, listener net.Listener) error {
	return server.Serve(listener)
}

// metricsHttpServerClose redirects to http.Server.Close.
func metricsHttpServerClose(server *http.Server) error {
	return server.Close()
}

// init initializes the module.
func init() {
	module.Register(metricsService{})
}

// ModuleInfo returns the module information.
func (s metricsService) ModuleInfo() module.ModuleInfo {
	return module.ModuleInfo{
		ID: metricsModuleID,
		NewInstance: func() module.Module {
			return &metricsService{
				gatherer:        prometheus.DefaultGatherer,
				httpServerServe: metricsHttpServerServe,
				httpServerClose: metricsHttpServerClose,
			}
		},
	}
}

// Init initializes the service.
func (s *metricsService) Init(config map[string]interface{}, logger *slog.Logger) error {
	s.logger = logger

	if err := mapstructure.Decode(config, &s.config); err != nil {
		s.logger.Error("Failed to parse configuration", "err", err)
		return fmt.Errorf("parse config: %v", err)
	}
	if s.config == nil {
		s.config = &metricsServiceConfig{}
	}

	var errConfig bool

	if s.config.Path == nil {
		defaultValue := metricsConfigDefaultPath
		s.config.Path = &defaultValue
	}
	if len(*s.config.Path) == 0 || (*s.config.Path)[0] != '/' {
		s.logger.Error("Invalid value", "option", "Path", "value", *s.config.Path)
		errConfig = true
	}
	if s.config.ReadHeaderTimeout == nil {
		defaultValue := metricsConfigDefaultReadHeaderTimeout
		s.config.ReadHeaderTimeout = &defaultValue
	}
	if *s.config.ReadHeaderTimeout < 0 {
		s.logger.Error("Invalid value", "option", "ReadHeaderTimeout", "value", *s.config.ReadHeaderTimeout)
		errConfig = true
	}
	if s.config.WriteTimeout == nil {
		defaultValue := metricsConfigDefaultWriteTimeout
		s.config.WriteTimeout = &defaultValue
	}
	if *s.config.WriteTimeout < 0 {
		s.logger.Error("Invalid value", "option", "WriteTimeout", "value", *s.config.WriteTimeout)
		errConfig = true
	}
	if s.config.IdleTimeout == nil {
		defaultValue := metricsConfigDefaultIdleTimeout
		s.config.IdleTimeout = &defaultValue
	}
	if *s.config.IdleTimeout < 0 {
		s.logger.Error("Invalid value", "option", "IdleTimeout", "value", *s.config.IdleTimeout)
		errConfig = true
	}

	if s.config.AccessLog == nil {
		defaultValue := metricsConfigDefaultAccessLog
		s.config.AccessLog = &defaultValue
	}

	if errConfig {
		return errors.New("config")
	}

	mux := http.NewServeMux()
	mux.Handle(*s.config.Path, promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	var handler http.Handler = mux
	if *s.config.AccessLog {
		handler = middlewares.Logger(s.logger, handler)
	}
	handler = middlewares.Recover(s.logger, handler)

	s.server = &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: time.Duration(*s.config.ReadHeaderTimeout) * time.Second,
		WriteTimeout:      time.Duration(*s.config.WriteTimeout) * time.Second,
		IdleTimeout:       time.Duration(*s.config.IdleTimeout) * time.Second,
	}

	return nil
}

// Serve serves the metrics over HTTP.
func (s *metricsService) Serve(listener net.Listener) error {
	err := s.httpServerServe(s.server, listener)
	if err != nil && !errors.Is(err, http.ErrServerClosed) && !errors.Is(err, net.ErrClosed) {
		return fmt.Errorf("serve metrics: %w", err)
	}

	return nil
}

// Close closes the HTTP server.
func (s *metricsService) Close() error {
	if err := s.httpServerClose(s.server); err != nil {
		return fmt.Errorf("close metrics: %v", err)
	}

	return nil
}

var _ core.ServiceModule = (*metricsService)(nil)
