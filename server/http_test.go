package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNewHTTPHandlerServes(t *testing.T) {
	core := NewCore(newFakeAPI(), "acme", nil)
	h := NewHTTPHandler(core, nil)
	if h == nil {
		t.Fatal("NewHTTPHandler() returned nil")
	}

	// A plain POST without a session is rejected by the SSE handler rather
	// than panicking; anything but a 5xx means the handler is wired up.
	srv := httptest.NewServer(h)
	defer srv.Close()

	resp, err := http.Post(srv.URL, "application/json", nil)
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode >= 500 {
		t.Fatalf("status = %d, want < 500", resp.StatusCode)
	}
}
