package main

import (
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDrainServer_WaitsForInFlightRequests(t *testing.T) {
	started := make(chan struct{})
	finished := make(chan struct{})

	mux := http.NewServeMux()
	mux.HandleFunc("/slow", func(w http.ResponseWriter, r *http.Request) {
		close(started)
		time.Sleep(150 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
		close(finished)
	})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := &http.Server{Handler: mux}
	go func() { _ = srv.Serve(ln) }()

	respErr := make(chan error, 1)
	go func() {
		resp, err := http.Get("http://" + ln.Addr().String() + "/slow")
		if err == nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			_ = resp.Body.Close()
		}
		respErr <- err
	}()

	<-started
	drainServer(srv)

	// Shutdown must not return until the handler has run to completion.
	select {
	case <-finished:
	default:
		t.Fatal("drain returned before the in-flight request finished")
	}
	require.NoError(t, <-respErr)
}
