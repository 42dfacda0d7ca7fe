package http

import (
	"context"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestRoutes(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "index.html"), []byte("<canvas></canvas>"), 0644); err != nil {
		t.Fatal(err)
	}

	ws := nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.WriteHeader(nethttp.StatusTeapot)
	})
	s, err := NewServer(HttpParams{Address: "127.0.0.1:0", Root: root}, ws, nil)
	if err != nil {
		t.Fatal(err)
	}
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	resp, err := nethttp.Get(srv.URL + "/index.html")
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != nethttp.StatusOK || string(body) != "<canvas></canvas>" {
		t.Errorf("static file: %d %q", resp.StatusCode, body)
	}

	resp, err = nethttp.Get(srv.URL + "/ws")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != nethttp.StatusTeapot {
		t.Errorf("/ws status = %d, want the websocket handler", resp.StatusCode)
	}
}

func TestListenAndServeShutdown(t *testing.T) {
	s, err := NewServer(HttpParams{Address: "127.0.0.1:0", Root: t.TempDir()}, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if s.Params().Prefix != "/" {
		t.Errorf("default prefix = %q", s.Params().Prefix)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("ListenAndServe() = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
