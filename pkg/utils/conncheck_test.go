package utils

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractAddr(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"db with port", "postgresql://user:pw@dbhost:6543/ff1", "dbhost:6543"},
		{"db default port", "postgresql://user:pw@dbhost/ff1?sslmode=disable", "dbhost:5432"},
		{"postgres scheme", "postgres://dbhost/ff1", "dbhost:5432"},
		{"nats default port", "nats://broker", "broker:4222"},
		{"https", "https://issuer.example.com/realms/ff1", "issuer.example.com:443"},
		{"unknown scheme", "foo://host/x", ""},
		{"garbage", "::not a url", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractAddr(tt.url))
		})
	}
}

func TestWaitForTCP(t *testing.T) {
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer lis.Close()

	err = WaitForTCP(context.Background(), lis.Addr().String(), time.Second)
	assert.NoError(t, err)
}

func TestWaitForTCPTimeout(t *testing.T) {
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := lis.Addr().String()
	lis.Close()

	err = WaitForTCP(context.Background(), addr, 300*time.Millisecond)
	assert.Error(t, err)
}
