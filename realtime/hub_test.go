package realtime

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func dialOrderSocket(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	return conn
}

func waitForClients(t *testing.T, orderID uint, n int) {
	t.Helper()
	h := getHub(orderID)
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		h.mu.Lock()
		got := len(h.clients)
		h.mu.Unlock()
		if got == n {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("hub for order %d never reached %d clients", orderID, n)
}

func TestConcurrentBroadcastsDeliverIntactEvents(t *testing.T) {
	const orderID = uint(42)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := ServeOrderSocket(w, r, orderID); err != nil {
			t.Errorf("serve: %v", err)
		}
	}))
	defer srv.Close()

	c1 := dialOrderSocket(t, srv)
	defer c1.Close()
	c2 := dialOrderSocket(t, srv)
	defer c2.Close()
	waitForClients(t, orderID, 2)

	const goroutines, perGoroutine = 8, 25
	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perGoroutine; i++ {
				BroadcastOrderEvent(orderID, "status_changed", map[string]string{"status": "assigned"})
			}
		}()
	}
	wg.Wait()

	want := goroutines * perGoroutine
	for _, conn := range []*websocket.Conn{c1, c2} {
		conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		for i := 0; i < want; i++ {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				t.Fatalf("read %d of %d: %v", i+1, want, err)
			}
			var evt Event
			if err := json.Unmarshal(msg, &evt); err != nil {
				t.Fatalf("event %d not valid JSON: %v", i+1, err)
			}
			if evt.OrderID != orderID || evt.Type != "status_changed" {
				t.Fatalf("unexpected event: %+v", evt)
			}
		}
	}
}

func TestBroadcastWithoutWatchersIsNoOp(t *testing.T) {
	// must not panic or create a hub
	BroadcastOrderEvent(9999, "status_changed", nil)
	hubsMu.RLock()
	_, ok := hubs[9999]
	hubsMu.RUnlock()
	if ok {
		t.Fatal("broadcast created a hub for an order with no watchers")
	}
}
