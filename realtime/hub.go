// Package realtime pushes order updates to every client watching an
// order, replacing the document store's live-subscription mechanism
// with per-order WebSocket hubs.
package realtime

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// Event is the payload broadcast to order watchers.
type Event struct {
	Type    string      `json:"type"`
	OrderID uint        `json:"order_id"`
	Data    interface{} `json:"data,omitempty"`
}

type hub struct {
	clients map[*websocket.Conn]bool
	mu      sync.Mutex
}

var (
	hubsMu sync.RWMutex
	hubs   = make(map[uint]*hub)
)

func getHub(orderID uint) *hub {
	hubsMu.Lock()
	defer hubsMu.Unlock()
	if h, ok := hubs[orderID]; ok {
		return h
	}
	h := &hub{clients: make(map[*websocket.Conn]bool)}
	hubs[orderID] = h
	return h
}

func (h *hub) register(c *websocket.Conn) {
	h.mu.Lock()
	h.clients[c] = true
	h.mu.Unlock()
}

func (h *hub) unregister(c *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
}

// broadcast holds the hub lock for the duration of the writes so that
// concurrent broadcasts never interleave WriteMessage calls on the
// same connection, which gorilla treats as fatal.
func (h *hub) broadcast(evt Event) {
	payload, _ := json.Marshal(evt)
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		_ = c.WriteMessage(websocket.TextMessage, payload)
	}
}

// BroadcastOrderEvent notifies everyone watching the order. No-op when
// nobody is subscribed.
func BroadcastOrderEvent(orderID uint, eventType string, data interface{}) {
	hubsMu.RLock()
	h, ok := hubs[orderID]
	hubsMu.RUnlock()
	if !ok {
		return
	}
	h.broadcast(Event{Type: eventType, OrderID: orderID, Data: data})
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ServeOrderSocket upgrades the request and parks the connection on the
// order's hub until the client goes away.
func ServeOrderSocket(w http.ResponseWriter, r *http.Request, orderID uint) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	h := getHub(orderID)
	h.register(conn)

	go func() {
		defer func() {
			h.unregister(conn)
			conn.Close()
		}()
		// drain reads; exit on client disconnect
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
	return nil
}
