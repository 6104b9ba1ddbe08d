// Copyright 2022-2024 Boris HUISGEN. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// ProgramLevel is the common log level.
var ProgramLevel = new(slog.LevelVar)

// output is the writer of the program loggers.
var output io.Writer = os.Stderr

// New returns a logger for the given component.
func New(component string) *slog.Logger {
	return slog.New(NewHandler(output, component, nil))
}

// SetLevel sets the program level from its name.
func SetLevel(name string) error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(name))); err != nil {
		return fmt.Errorf("invalid log level '%s'", name)
	}
	ProgramLevel.Set(level)

	return nil
}

// Fatal logs the message at error level then exits.
func Fatal(msg string, args ...any) {
	New("").Error(msg, args...)
	os.Exit(1)
}
