package pluginclient

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/libreassistant/poc/internal/poc/supervisor"
)

type fakeStatus struct {
	state supervisor.State
	port  int
}

func (f fakeStatus) Status(string) supervisor.Status {
	return supervisor.Status{State: f.state, Port: f.port}
}

func portOf(t *testing.T, url string) int {
	t.Helper()
	_, portStr, err := net.SplitHostPort(url)
	if err != nil {
		t.Fatal(err)
	}
	p, err := strconv.Atoi(portStr)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestInvokeRejectsWhenNotRunning(t *testing.T) {
	c := New(fakeStatus{state: supervisor.StateStopped}, time.Second, 1<<20)
	_, err := c.Invoke(context.Background(), "search", "query", nil)
	ie, ok := err.(*InvokeError)
	if !ok || ie.Kind != KindNotRunning {
		t.Fatalf("expected NotRunning error, got %v", err)
	}
}

func TestInvokeSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"result":  map[string]interface{}{"hits": []string{"a", "b"}},
		})
	}))
	defer srv.Close()

	host := srv.Listener.Addr().String()
	port := portOf(t, host)

	c := New(fakeStatus{state: supervisor.StateRunning, port: port}, time.Second, 1<<20)
	res, err := c.Invoke(context.Background(), "search", "query", map[string]interface{}{"q": "AI"})
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if !res.Success {
		t.Fatal("expected success result")
	}
}

func TestInvokePluginErrorPropagates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{"success": false, "error": "boom"})
	}))
	defer srv.Close()
	port := portOf(t, srv.Listener.Addr().String())

	c := New(fakeStatus{state: supervisor.StateRunning, port: port}, time.Second, 1<<20)
	_, err := c.Invoke(context.Background(), "search", "query", nil)
	ie, ok := err.(*InvokeError)
	if !ok || ie.Kind != KindPluginError {
		t.Fatalf("expected PluginError, got %v", err)
	}
}

func TestInvokeTimesOut(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
	}))
	defer srv.Close()
	port := portOf(t, srv.Listener.Addr().String())

	c := New(fakeStatus{state: supervisor.StateRunning, port: port}, 10*time.Millisecond, 1<<20)
	_, err := c.Invoke(context.Background(), "search", "query", nil)
	ie, ok := err.(*InvokeError)
	if !ok || ie.Kind != KindTimeout {
		t.Fatalf("expected Timeout error, got %v", err)
	}
}
