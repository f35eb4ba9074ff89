package web

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/guilbd/analise-apostas/logger"
)

// WSMessage is the envelope pushed to dashboard clients. Type is currently
// "connected" or "batch_generated".
type WSMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// Client is one connected dashboard browser.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// Hub fans batch notifications out to every connected dashboard, so a batch
// generated in one browser shows up in the history of all the others.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan *WSMessage
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan *WSMessage, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run processes registrations and broadcasts. Call in its own goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			logger.Debugf("WebSocket client registered, total %d", len(h.clients))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			logger.Debugf("WebSocket client unregistered, total %d", len(h.clients))

		case message := <-h.broadcast:
			data := marshalMessage(message)
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- data:
				default:
					// Slow client, drop it.
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Broadcast queues a message for every client. Accepts a *WSMessage or a
// map with type/data keys, satisfying services.Broadcaster.
func (h *Hub) Broadcast(message interface{}) {
	switch msg := message.(type) {
	case *WSMessage:
		h.broadcast <- msg
	case map[string]interface{}:
		wsMsg := &WSMessage{}
		if v, ok := msg["type"].(string); ok {
			wsMsg.Type = v
		}
		if v, ok := msg["data"]; ok {
			wsMsg.Data = v
		}
		h.broadcast <- wsMsg
	}
}

func marshalMessage(message *WSMessage) []byte {
	data, err := json.Marshal(message)
	if err != nil {
		logger.Errorf("Failed to marshal websocket message: %v", err)
		return []byte("{}")
	}
	return data
}

// readPump drains client frames until the connection drops. Inbound content
// is ignored; the socket is one-way.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warnf("WebSocket error: %v", err)
			}
			break
		}
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()

	for {
		message, ok := <-c.send
		if !ok {
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
}
