package httpserver

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func freeAddr(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())
	return addr
}

func TestServeAndWaitNilServer(t *testing.T) {
	err := ServeAndWait(context.Background(), zap.NewNop(), nil, time.Second)
	assert.Error(t, err)
}

func TestServeAndWaitGracefulShutdown(t *testing.T) {
	addr := freeAddr(t)
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "ok")
	})
	srv := &http.Server{Addr: addr, Handler: mux}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- ServeAndWait(ctx, zap.NewNop(), srv, 5*time.Second)
	}()

	// Wait until the listener accepts requests, then signal shutdown.
	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/health")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 10*time.Millisecond)

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop after context cancellation")
	}

	_, err := http.Get("http://" + addr + "/health")
	assert.Error(t, err)
}

func TestServeAndWaitReportsListenerFailure(t *testing.T) {
	// Hold the port so ListenAndServe fails immediately.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	srv := &http.Server{Addr: ln.Addr().String()}
	err = ServeAndWait(context.Background(), zap.NewNop(), srv, time.Second)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "http server failed")
}
