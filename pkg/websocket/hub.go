package websocket

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

// Message is the standard envelope pushed to subscribers.
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// upgrader configures the WebSocket connection upgrade.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allow all origins. Adjust this in production!
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Hub fans out live result updates to everyone watching a quiz. Clients
// subscribe per quiz and only listen; all writes come from the service
// after a submission lands.
type Hub struct {
	rooms      map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	quizID string
	done   chan struct{}
}

// Run listens on the register and unregister channels and updates the hub
// state accordingly.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if _, exists := h.rooms[client.quizID]; !exists {
				h.rooms[client.quizID] = make(map[*Client]bool)
				log.Printf("Created results room for quiz %s", client.quizID)
			}
			h.rooms[client.quizID][client] = true
			log.Printf("Client %p watching quiz %s. Total watchers: %d", client, client.quizID, len(h.rooms[client.quizID]))
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if room, exists := h.rooms[client.quizID]; exists {
				if _, ok := room[client]; ok {
					delete(room, client)
					close(client.send)
					close(client.done)
					log.Printf("Client %p left quiz %s. Remaining watchers: %d", client, client.quizID, len(room))
					if len(room) == 0 {
						delete(h.rooms, client.quizID)
					}
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastMessage marshals the message and pushes it to every watcher of
// the quiz.
func (h *Hub) BroadcastMessage(quizID string, messageType string, data interface{}) {
	msg := Message{
		Type: messageType,
		Data: data,
	}

	messageBytes, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Error marshaling message: %v", err)
		return
	}

	h.mu.RLock()
	room := h.rooms[quizID]
	clients := make([]*Client, 0, len(room))
	for client := range room {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	if len(clients) == 0 {
		return
	}

	for _, client := range clients {
		select {
		case client.send <- messageBytes:
		default:
			log.Printf("Send channel full for client %p; unregistering", client)
			h.unregister <- client
		}
	}
}

// Watchers reports how many clients are subscribed to a quiz's results.
func (h *Hub) Watchers(quizID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[quizID])
}

// NewClient creates a new Client instance.
func NewClient(hub *Hub, conn *websocket.Conn, quizID string) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		send:   make(chan []byte, 256),
		quizID: quizID,
		done:   make(chan struct{}),
	}
}

// HandleWebSocket upgrades the HTTP connection to a WebSocket and registers
// the client as a results watcher for the quiz in the path.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	quizID := vars["quizId"]
	if quizID == "" {
		http.Error(w, "Missing quiz id", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	client := NewClient(h, conn, quizID)
	h.register <- client

	go client.writePump()
	go client.readPump()
}

// readPump drains the connection so pings and close frames are processed;
// watchers never send application messages.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("Unexpected close: %v", err)
			}
			break
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			if _, err := w.Write(message); err != nil {
				log.Printf("Error writing message to client %p: %v", c, err)
				return
			}
			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}
