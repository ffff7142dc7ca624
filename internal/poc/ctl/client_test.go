package ctl

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestDoDecodesJSONResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"search","state":"running"}`))
	}))
	defer srv.Close()

	c := newAPIClient(srv.URL)
	var out struct {
		ID    string `json:"id"`
		State string `json:"state"`
	}
	if err := c.do(context.Background(), "GET", "/plugins/search/status", nil, &out); err != nil {
		t.Fatalf("do: %v", err)
	}
	if out.ID != "search" || out.State != "running" {
		t.Fatalf("unexpected decode result: %+v", out)
	}
}

func TestDoSendsJSONRequestBody(t *testing.T) {
	var gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf := make([]byte, 256)
		n, _ := r.Body.Read(buf)
		gotBody = string(buf[:n])
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := newAPIClient(srv.URL)
	type req struct {
		Message string `json:"message"`
	}
	if err := c.do(context.Background(), "POST", "/chat", req{Message: "hello"}, nil); err != nil {
		t.Fatalf("do: %v", err)
	}
	if !strings.Contains(gotBody, `"hello"`) {
		t.Fatalf("expected request body to contain message, got %q", gotBody)
	}
}

func TestDoReturnsErrorOn4xxStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"unknown plugin"}`))
	}))
	defer srv.Close()

	c := newAPIClient(srv.URL)
	err := c.do(context.Background(), "GET", "/plugins/ghost/status", nil, nil)
	if err == nil {
		t.Fatal("expected error for 404 response")
	}
	if !strings.Contains(err.Error(), "404") {
		t.Fatalf("expected error to mention status code, got %v", err)
	}
}

func TestDoWithNilOutSkipsDecoding(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := newAPIClient(srv.URL)
	if err := c.do(context.Background(), "POST", "/plugins/search/stop", nil, nil); err != nil {
		t.Fatalf("do: %v", err)
	}
}
