// Copyright 2022-2024 Boris HUISGEN. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package banner

import (
	"bufio"
	"errors"
	"log/slog"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/bhuisgen/depot/pkg/module"
)

func intPtr(i int) *int {
	return &i
}

func stringPtr(s string) *string {
	return &s
}

func TestBannerServiceModuleInfo(t *testing.T) {
	s := bannerService{}
	got := s.ModuleInfo()
	if got.ID != bannerModuleID {
		t.Errorf("bannerService.ModuleInfo() = %v, want %v", got.ID, bannerModuleID)
	}
	if instance := got.NewInstance(); instance == nil {
		t.Errorf("bannerService.NewInstance() = %v, want %v", instance, "not nil")
	}
	if _, err := module.Lookup(bannerModuleID); err != nil {
		t.Errorf("module.Lookup() error = %v", err)
	}
}

func TestBannerServiceInit(t *testing.T) {
	type args struct {
		config map[string]interface{}
	}
	tests := []struct {
		name    string
		args    args
		want    bannerServiceConfig
		wantErr bool
	}{
		{
			name: "minimal",
			args: args{
				config: nil,
			},
			want: bannerServiceConfig{
				Message:        stringPtr(bannerConfigDefaultMessage),
				MaxConnections: intPtr(bannerConfigDefaultMaxConnections),
				WriteTimeout:   intPtr(bannerConfigDefaultWriteTimeout),
			},
		},
		{
			name: "full",
			args: args{
				config: map[string]interface{}{
					"message":        "depot storage",
					"maxConnections": 16,
					"writeTimeout":   5,
				},
			},
			want: bannerServiceConfig{
				Message:        stringPtr("depot storage"),
				MaxConnections: intPtr(16),
				WriteTimeout:   intPtr(5),
			},
		},
		{
			name: "invalid values",
			args: args{
				config: map[string]interface{}{
					"maxConnections": -1,
					"writeTimeout":   0,
				},
			},
			wantErr: true,
		},
		{
			name: "invalid type",
			args: args{
				config: map[string]interface{}{
					"maxConnections": "many",
				},
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &bannerService{}
			err := s.Init(tt.args.config, slog.Default())
			if (err != nil) != tt.wantErr {
				t.Errorf("bannerService.Init() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr {
				return
			}
			if *s.config.Message != *tt.want.Message ||
				*s.config.MaxConnections != *tt.want.MaxConnections ||
				*s.config.WriteTimeout != *tt.want.WriteTimeout {
				t.Errorf("bannerService.Init() config = %+v, want %+v", s.config, tt.want)
			}
		})
	}
}

func TestBannerServiceServe(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}

	s := &bannerService{connect: bannerConnect}
	if err := s.Init(map[string]interface{}{"message": "depot", "maxConnections": 2}, slog.Default()); err != nil {
		t.Fatal(err)
	}

	done := make(chan error, 1)
	go func() {
		done <- s.Serve(ln)
	}()

	conn, err := net.Dial("tcp", ln.Addr().String())
	if err != nil {
		t.Fatal(err)
	}
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	line, err := bufio.NewReader(conn).ReadString('\n')
	conn.Close()
	if err != nil {
		t.Fatalf("read banner: %v", err)
	}
	if want := "depot " + ln.Addr().String(); strings.TrimSpace(line) != want {
		t.Errorf("banner = %q, want %q", strings.TrimSpace(line), want)
	}

	if err := s.Close(); err != nil {
		t.Errorf("bannerService.Close() error = %v", err)
	}
	ln.Close()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("bannerService.Serve() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("bannerService.Serve() did not return")
	}
}

type testAcceptErrorListener struct {
	net.Listener
}

func (l testAcceptErrorListener) Accept() (net.Conn, error) {
	return nil, errors.New("test error")
}

func (l testAcceptErrorListener) Addr() net.Addr {
	return &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 1}
}

func TestBannerServiceServeAcceptError(t *testing.T) {
	s := &bannerService{connect: bannerConnect}
	if err := s.Init(nil, slog.Default()); err != nil {
		t.Fatal(err)
	}

	if err := s.Serve(testAcceptErrorListener{}); err == nil {
		t.Errorf("bannerService.Serve() error = %v, wantErr %v", err, true)
	}
}
