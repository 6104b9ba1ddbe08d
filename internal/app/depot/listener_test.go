// Copyright 2022-2024 Boris HUISGEN. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package depot

import (
	"bufio"
	"net"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bhuisgen/depot/pkg/lifecycle"
	"github.com/bhuisgen/depot/pkg/log"
)

func testLifecycle() *lifecycle.Lifecycle {
	return lifecycle.New(lifecycle.NewEventHub(nil), log.New("test"))
}

func bannerListenerConfig(addr string) map[string]interface{} {
	return map[string]interface{}{
		"listenAddr": addr,
		"service": map[string]interface{}{
			"banner": map[string]interface{}{
				"message": "test",
			},
		},
	}
}

func TestListenerCheck(t *testing.T) {
	type args struct {
		config map[string]interface{}
	}
	tests := []struct {
		name    string
		args    args
		wantErr bool
	}{
		{
			name: "host only",
			args: args{
				config: bannerListenerConfig("127.0.0.1"),
			},
			wantErr: false,
		},
		{
			name: "host and port",
			args: args{
				config: bannerListenerConfig("127.0.0.1:0"),
			},
			wantErr: false,
		},
		{
			name: "listen port",
			args: args{
				config: map[string]interface{}{
					"listenAddr": "127.0.0.1",
					"listenPort": 8080,
					"service": map[string]interface{}{
						"banner": map[string]interface{}{},
					},
				},
			},
			wantErr: false,
		},
		{
			name: "error conflicting ports",
			args: args{
				config: map[string]interface{}{
					"listenAddr": "127.0.0.1:8081",
					"listenPort": 8080,
					"service": map[string]interface{}{
						"banner": map[string]interface{}{},
					},
				},
			},
			wantErr: true,
		},
		{
			name: "error invalid port",
			args: args{
				config: bannerListenerConfig("127.0.0.1:70000"),
			},
			wantErr: true,
		},
		{
			name: "error invalid address",
			args: args{
				config: bannerListenerConfig("127.0.0.1:abc"),
			},
			wantErr: true,
		},
		{
			name: "error no service",
			args: args{
				config: map[string]interface{}{
					"listenAddr": "127.0.0.1",
				},
			},
			wantErr: true,
		},
		{
			name: "error several services",
			args: args{
				config: map[string]interface{}{
					"listenAddr": "127.0.0.1",
					"service": map[string]interface{}{
						"banner":  map[string]interface{}{},
						"metrics": map[string]interface{}{},
					},
				},
			},
			wantErr: true,
		},
		{
			name: "error unregistered service",
			args: args{
				config: map[string]interface{}{
					"listenAddr": "127.0.0.1",
					"service": map[string]interface{}{
						"unknown": map[string]interface{}{},
					},
				},
			},
			wantErr: true,
		},
		{
			name: "error service config",
			args: args{
				config: map[string]interface{}{
					"listenAddr": "127.0.0.1",
					"service": map[string]interface{}{
						"banner": map[string]interface{}{
							"maxConnections": -1,
						},
					},
				},
			},
			wantErr: true,
		},
		{
			name: "error config type",
			args: args{
				config: map[string]interface{}{
					"listenAddr": 1,
				},
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newListener("test", testLifecycle())
			report, err := l.Check(tt.args.config)
			if (err != nil) != tt.wantErr {
				t.Errorf("listener.Check() error = %v, wantErr %v, report %v", err, tt.wantErr, report)
			}
			if tt.wantErr && len(report) == 0 {
				t.Errorf("listener.Check() report is empty")
			}
		})
	}
}

func TestListenerInitNormalizesDynamicPort(t *testing.T) {
	l := newListener("test", testLifecycle())
	require.NoError(t, l.Init(bannerListenerConfig("127.0.0.1")))

	address := l.Address()
	require.NotNil(t, address.Port)
	assert.Equal(t, "127.0.0.1", address.Host)
	assert.Equal(t, 0, *address.Port)
}

func TestListenerStartStop(t *testing.T) {
	l := newListener("test", testLifecycle())
	require.NoError(t, l.Init(bannerListenerConfig("127.0.0.1")))
	require.Nil(t, l.Server())

	require.NoError(t, l.Start())
	assert.Error(t, l.Start())

	server := l.Server()
	require.NotNil(t, server)
	addr := server.Addr()
	assert.Equal(t, "127.0.0.1", addr.Host)
	assert.NotZero(t, addr.Port)

	conn, err := net.Dial("tcp", addr.String())
	require.NoError(t, err)
	line, err := bufio.NewReader(conn).ReadString('\n')
	require.NoError(t, err)
	conn.Close()
	assert.Equal(t, "test "+addr.String(), strings.TrimSpace(line))

	require.NoError(t, l.Stop())
	assert.ErrorIs(t, l.Stop(), lifecycle.ErrServerStopped)
}

func TestListenerStartErrors(t *testing.T) {
	l := newListener("test", testLifecycle())
	assert.Error(t, l.Start())
	assert.ErrorIs(t, l.Stop(), lifecycle.ErrServerNotStarted)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	l = newListener("test", testLifecycle())
	require.NoError(t, l.Init(bannerListenerConfig(ln.Addr().String())))
	assert.Error(t, l.Start())
	assert.Nil(t, l.Server())
}
