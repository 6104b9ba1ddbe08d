// Copyright 2022-2024 Boris HUISGEN. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package middlewares

import (
	"log/slog"
	"net/http"
	"runtime/debug"
)

// Recover is a middleware who catch all panics and recovers them.
func Recover(logger *slog.Logger, next http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				w.WriteHeader(http.StatusInternalServerError)

				logger.Error("Request panic", "method", r.Method, "path", r.URL.EscapedPath(), "err", err)
				logger.Debug("Request panic stack", "stack", string(debug.Stack()))
			}
		}()

		next.ServeHTTP(w, r)
	}

	return http.HandlerFunc(fn)
}
