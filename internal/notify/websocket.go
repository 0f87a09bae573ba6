package notify

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"nestsync/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// WebSocket upgrader configuration
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for development
	},
}

// Hub broadcasts recomputed depletion statuses to subscribed clients so
// planner surfaces update without polling
type Hub struct {
	clients map[*wsClient]bool
	mu      sync.Mutex
}

// wsClient maintains one WebSocket connection with a subscriber
type wsClient struct {
	conn *websocket.Conn
	send chan []byte
	hub  *Hub
}

// NewHub creates an empty broadcast hub
func NewHub() *Hub {
	return &Hub{
		clients: make(map[*wsClient]bool),
	}
}

// HandleWS upgrades the request and registers the client for status updates
func (h *Hub) HandleWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade connection: %v", err)
		return
	}

	client := &wsClient{
		conn: conn,
		send: make(chan []byte, 256),
		hub:  h,
	}

	h.mu.Lock()
	h.clients[client] = true
	h.mu.Unlock()

	// Start the read and write pumps
	go client.writePump()
	go client.readPump()
}

// Broadcast sends a freshly computed status to every connected client.
// Slow clients are dropped rather than allowed to block the rest.
func (h *Hub) Broadcast(status models.DepletionStatus) {
	data, err := json.Marshal(status)
	if err != nil {
		log.Printf("Error marshaling status: %v", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		select {
		case client.send <- data:
		default:
			log.Println("WebSocket buffer full, dropping client")
			delete(h.clients, client)
			close(client.send)
		}
	}
}

// ClientCount returns the number of connected subscribers
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) remove(client *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
}

// readPump drains incoming frames so pings and close frames are processed
func (c *wsClient) readPump() {
	defer func() {
		c.hub.remove(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512 * 1024) // 512KB
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}
	}
}

// writePump pumps broadcast messages to the WebSocket connection
func (c *wsClient) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				// The channel was closed
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
