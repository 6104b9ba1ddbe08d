// Copyright 2022-2024 Boris HUISGEN. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package middlewares

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRecover(t *testing.T) {
	tests := []struct {
		name       string
		handler    http.HandlerFunc
		wantStatus int
		wantLog    bool
	}{
		{
			name:       "default",
			handler:    func(w http.ResponseWriter, r *http.Request) {},
			wantStatus: http.StatusOK,
		},
		{
			name: "panic",
			handler: func(w http.ResponseWriter, r *http.Request) {
				panic("test")
			},
			wantStatus: http.StatusInternalServerError,
			wantLog:    true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&buf, nil))

			rr := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "http://test/metrics", nil)
			Recover(logger, tt.handler).ServeHTTP(rr, req)

			if status := rr.Code; status != tt.wantStatus {
				t.Errorf("handler returned wrong status code: got %v want %v", status, tt.wantStatus)
			}
			if got := strings.Contains(buf.String(), "Request panic"); got != tt.wantLog {
				t.Errorf("handler log = %q, wantLog %v", buf.String(), tt.wantLog)
			}
		})
	}
}
