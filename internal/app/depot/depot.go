// Copyright 2022-2024 Boris HUISGEN. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package depot

import (
	"log/slog"
	"os"

	"github.com/bhuisgen/depot/pkg/log"
)

var (
	DEBUG bool = false

	Name    string = "depot"
	Version string = "dev"
	Commit  string = "-"
	Date    string = "-"
)

// Application
type Application interface {
	Check() error
	Serve() error
}

// New creates a new instance.
func New(config *config) (Application, error) {
	if v, ok := os.LookupEnv("DEBUG"); ok && v != "0" {
		DEBUG = true
	}

	if config.Log != nil && config.Log.Level != "" {
		if err := log.SetLevel(config.Log.Level); err != nil {
			return nil, err
		}
	}
	if DEBUG {
		log.ProgramLevel.Set(slog.LevelDebug)
	}

	return newApplication(config), nil
}
