package http

import (
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newRoot(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"figures/sine/main.js":                    "export function setup_static() {}",
		"figures/sine/_build/preview-static.html": "<html></html>",
		"docs/index.html":                         "<h1>docs</h1>",
	}
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func TestStaticHandler(t *testing.T) {
	root := newRoot(t)
	handler := NewStaticHandler(root)

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
		wantType   string
		wantBody   string
	}{
		{
			name:       "javascript module",
			method:     http.MethodGet,
			path:       "/figures/sine/main.js",
			wantStatus: http.StatusOK,
			wantType:   "application/javascript",
			wantBody:   "export function setup_static() {}",
		},
		{
			name:       "preview document",
			method:     http.MethodGet,
			path:       "/figures/sine/_build/preview-static.html",
			wantStatus: http.StatusOK,
			wantType:   "text/html; charset=utf-8",
			wantBody:   "<html></html>",
		},
		{
			name:       "directory index",
			method:     http.MethodGet,
			path:       "/docs/",
			wantStatus: http.StatusOK,
			wantType:   "text/html; charset=utf-8",
			wantBody:   "<h1>docs</h1>",
		},
		{
			name:       "missing file",
			method:     http.MethodGet,
			path:       "/figures/cosine/main.js",
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "directory without index",
			method:     http.MethodGet,
			path:       "/figures/sine",
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "traversal stays in root",
			method:     http.MethodGet,
			path:       "/../../etc/passwd",
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "post rejected",
			method:     http.MethodPost,
			path:       "/figures/sine/main.js",
			wantStatus: http.StatusMethodNotAllowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "http://localhost"+tt.path, nil)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("Expected status %d, got %d", tt.wantStatus, rec.Code)
			}
			if tt.wantType != "" && rec.Header().Get("Content-Type") != tt.wantType {
				t.Errorf("Expected Content-Type %q, got %q", tt.wantType, rec.Header().Get("Content-Type"))
			}
			if tt.wantBody != "" && rec.Body.String() != tt.wantBody {
				t.Errorf("Expected body %q, got %q", tt.wantBody, rec.Body.String())
			}
			if tt.wantStatus == http.StatusOK && rec.Header().Get("Cache-Control") != "no-store" {
				t.Error("Expected Cache-Control: no-store")
			}
		})
	}
}

func TestServe(t *testing.T) {
	root := newRoot(t)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := ln.Addr().String()
	ln.Close()

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- Serve(ctx, slog.New(slog.NewTextHandler(io.Discard, nil)), ServeConfig{Addr: addr, Root: root})
	}()

	var resp *http.Response
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		resp, err = http.Get("http://" + addr + "/figures/sine/main.js")
		if err == nil {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if err != nil {
		t.Fatalf("server never answered: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected 200, got %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("Expected clean shutdown, got %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestServeValidatesConfig(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if err := Serve(context.Background(), logger, ServeConfig{Root: "."}); err == nil {
		t.Error("Expected error without addr")
	}
	if err := Serve(context.Background(), logger, ServeConfig{Addr: "127.0.0.1:0"}); err == nil {
		t.Error("Expected error without root")
	}
}
