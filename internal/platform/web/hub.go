package web

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/doteat/internal/games/doteat"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Message is sent to websocket clients.
type Message struct {
	SessionID string           `json:"session_id"`
	Event     string           `json:"event"`
	Snapshot  *doteat.Snapshot `json:"snapshot,omitempty"`
	Data      any              `json:"data,omitempty"`
}

// Handler answers a message read from a client. A nil reply sends nothing.
type Handler func(sessionID string, data []byte) *Message

// Client is one websocket connection watching a session.
type Client struct {
	hub       *Hub
	conn      *websocket.Conn
	send      chan []byte
	sessionID string
}

type reply struct {
	client  *Client
	message *Message
}

type countRequest struct {
	sessionID string
	result    chan int
}

// Hub maintains the set of active clients per session and fans out
// messages to them. All client bookkeeping happens on the Run goroutine.
type Hub struct {
	sessions map[string]map[*Client]bool

	broadcast  chan *Message
	direct     chan reply
	register   chan *Client
	unregister chan *Client
	counts     chan countRequest
	done       chan struct{}
	running    atomic.Bool

	handler Handler
	welcome func(sessionID string) *Message
	logger  *log.Logger
}

// NewHub creates a websocket hub. handler receives client messages and
// welcome, when set, produces the first message a new client gets.
func NewHub(logger *log.Logger, handler Handler, welcome func(sessionID string) *Message) *Hub {
	return &Hub{
		sessions:   make(map[string]map[*Client]bool),
		broadcast:  make(chan *Message),
		direct:     make(chan reply),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		counts:     make(chan countRequest),
		done:       make(chan struct{}),
		handler:    handler,
		welcome:    welcome,
		logger:     logger,
	}
}

// Run starts the hub's event loop and blocks until ctx is cancelled.
// Until Run is called, broadcasts are dropped and websocket upgrades refused.
func (h *Hub) Run(ctx context.Context) {
	h.running.Store(true)
	defer close(h.done)

	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case message := <-h.broadcast:
			h.broadcastMessage(message)

		case req := <-h.counts:
			req.result <- len(h.sessions[req.sessionID])

		case r := <-h.direct:
			if h.sessions[r.client.sessionID][r.client] {
				h.sendTo(r.client, r.message)
			}

		case <-ctx.Done():
			for _, clients := range h.sessions {
				for client := range clients {
					h.unregisterClient(client)
				}
			}
			return
		}
	}
}

// ServeWS upgrades the request and attaches the connection to sessionID.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, sessionID string) {
	if !h.running.Load() {
		http.Error(w, "websocket hub is not running", http.StatusServiceUnavailable)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	client := &Client{
		hub:       h,
		conn:      conn,
		send:      make(chan []byte, 256),
		sessionID: sessionID,
	}

	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// BroadcastSnapshot sends a state update to every client of a session.
func (h *Hub) BroadcastSnapshot(sessionID string, snap doteat.Snapshot) {
	h.Broadcast(&Message{SessionID: sessionID, Event: "state", Snapshot: &snap})
}

// Broadcast sends a message to every client of message.SessionID.
func (h *Hub) Broadcast(message *Message) {
	if !h.running.Load() {
		return
	}
	select {
	case h.broadcast <- message:
	case <-h.done:
	}
}

// registerClient adds a client to a session
func (h *Hub) registerClient(client *Client) {
	if h.sessions[client.sessionID] == nil {
		h.sessions[client.sessionID] = make(map[*Client]bool)
	}
	h.sessions[client.sessionID][client] = true

	h.logger.Debug("client registered", "session", client.sessionID, "clients", len(h.sessions[client.sessionID]))

	if h.welcome != nil {
		if msg := h.welcome(client.sessionID); msg != nil {
			h.sendTo(client, msg)
		}
	}
}

// unregisterClient removes a client from a session
func (h *Hub) unregisterClient(client *Client) {
	clients, ok := h.sessions[client.sessionID]
	if !ok || !clients[client] {
		return
	}
	delete(clients, client)
	close(client.send)

	if len(clients) == 0 {
		delete(h.sessions, client.sessionID)
	}

	h.logger.Debug("client unregistered", "session", client.sessionID, "clients", len(clients))
}

// broadcastMessage sends a message to all clients in a session
func (h *Hub) broadcastMessage(message *Message) {
	for client := range h.sessions[message.SessionID] {
		h.sendTo(client, message)
	}
}

// sendTo queues a message for one client, dropping the client when its
// buffer is full.
func (h *Hub) sendTo(client *Client, message *Message) {
	data, err := json.Marshal(message)
	if err != nil {
		h.logger.Error("cannot marshal websocket message", "error", err)
		return
	}

	select {
	case client.send <- data:
	default:
		h.unregisterClient(client)
	}
}

// ClientCount returns the number of clients watching a session. It is zero
// while the hub is not running.
func (h *Hub) ClientCount(sessionID string) int {
	if !h.running.Load() {
		return 0
	}
	req := countRequest{sessionID: sessionID, result: make(chan int, 1)}
	select {
	case h.counts <- req:
		return <-req.result
	case <-h.done:
		return 0
	}
}

// readPump pumps messages from the websocket connection to the hub handler.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Warn("websocket error", "error", err)
			}
			break
		}

		if c.hub.handler == nil {
			continue
		}
		if msg := c.hub.handler(c.sessionID, data); msg != nil {
			select {
			case c.hub.direct <- reply{client: c, message: msg}:
			case <-c.hub.done:
				return
			}
		}
	}
}

// writePump pumps messages from the hub to the websocket connection.
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
				// The hub closed the channel.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
