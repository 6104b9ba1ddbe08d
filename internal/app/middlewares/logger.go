// Copyright 2022-2024 Boris HUISGEN. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package middlewares

import (
	"log/slog"
	"net/http"
	"time"
)

// Logger is a middleware to log all incoming requests. A nil logger disables it.
func Logger(logger *slog.Logger, next http.Handler) http.Handler {
	if logger == nil {
		return next
	}

	fn := func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapped := loggerResponseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(&wrapped, r)

		logger.Info("Request", "method", r.Method, "path", r.URL.EscapedPath(), "status", wrapped.status,
			"remote", r.RemoteAddr, "duration", time.Since(start))
	}

	return http.HandlerFunc(fn)
}

// loggerResponseWriter records the response status.
type loggerResponseWriter struct {
	http.ResponseWriter
	wroteHeader bool
	status      int
}

// WriteHeader sends an HTTP response header with the provided status code.
func (rw *loggerResponseWriter) WriteHeader(code int) {
	if rw.wroteHeader {
		return
	}
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
	rw.wroteHeader = true
}

// Write writes the data, sending the default status first.
func (rw *loggerResponseWriter) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	return rw.ResponseWriter.Write(b)
}
