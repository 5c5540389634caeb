// Package spectate publishes a running session to remote viewers over HTTP
// and websockets.
package spectate

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"one-more-snake/game"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	EventSnapshot = "snapshot"
	EventGameOver = "gameover"

	writeWait  = time.Second
	sendBuffer = 16 // queued messages per viewer
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Spectators may be served from anywhere
	},
}

// Message is what viewers receive on /ws.
type Message struct {
	Event    string         `json:"event"`
	Snapshot *game.Snapshot `json:"snapshot,omitempty"`
	Cells    []game.Cell    `json:"cells,omitempty"`
}

// client is one connected viewer. Messages are queued on send and written by
// the viewer's own goroutine, so a slow viewer never holds up the game loop.
type client struct {
	conn *websocket.Conn
	send chan []byte
}

// writePump drains send into the connection and closes it once send is
// closed or a write fails.
func (c *client) writePump() {
	defer c.conn.Close()
	for msg := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			log.Println("Error sending to spectator:", err)
			return
		}
	}
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

// Hub keeps the latest snapshot and fans it out to connected viewers. It is
// fed from the game loop and read from HTTP handlers.
type Hub struct {
	mu      sync.Mutex
	latest  *game.Snapshot
	clients map[*client]bool
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[*client]bool),
	}
}

// Publish stores snap as the current state and queues it for every viewer.
func (h *Hub) Publish(snap game.Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.latest = &snap
	h.broadcast(Message{Event: EventSnapshot, Snapshot: &snap, Cells: snap.Cells()})
}

// GameOver tells every viewer the run ended.
func (h *Hub) GameOver(snap game.Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.latest = &snap
	h.broadcast(Message{Event: EventGameOver, Snapshot: &snap})
}

// Latest returns the most recently published snapshot.
func (h *Hub) Latest() (game.Snapshot, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.latest == nil {
		return game.Snapshot{}, false
	}
	return *h.latest, true
}

// Clients is the number of connected viewers.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every viewer.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		h.remove(c)
	}
}

// remove must be called with h.mu held.
func (h *Hub) remove(c *client) {
	if !h.clients[c] {
		return
	}
	delete(h.clients, c)
	close(c.send)
}

// broadcast must be called with h.mu held. A viewer whose queue is full is
// dropped rather than waited for.
func (h *Hub) broadcast(message Message) {
	if len(h.clients) == 0 {
		return
	}
	msgBytes, err := json.Marshal(message)
	if err != nil {
		log.Println("Error encoding spectator message:", err)
		return
	}
	for c := range h.clients {
		select {
		case c.send <- msgBytes:
		default:
			log.Println("Spectator too slow, disconnecting")
			h.remove(c)
		}
	}
}

// register adds c and queues the current state for it.
func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[c] = true
	if h.latest == nil {
		return
	}
	snap := *h.latest
	msgBytes, err := json.Marshal(Message{Event: EventSnapshot, Snapshot: &snap, Cells: snap.Cells()})
	if err != nil {
		log.Println("Error encoding first snapshot:", err)
		return
	}
	c.send <- msgBytes
}

func (h *Hub) handleConnections(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Println("Error upgrading spectator connection:", err)
		return
	}

	viewer := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	h.register(viewer)
	go viewer.writePump()
	log.Println("Spectator connected")

	// Viewers never talk back; reading only detects the disconnect.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.mu.Lock()
	h.remove(viewer)
	h.mu.Unlock()
	log.Println("Spectator disconnected")
}

func (h *Hub) handleState(c *gin.Context) {
	snap, ok := h.Latest()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no game published yet"})
		return
	}
	c.JSON(http.StatusOK, snap)
}

// Router serves GET /state, GET /healthz and GET /ws.
func (h *Hub) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.LoggerWithWriter(log.Writer()), gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "spectators": h.Clients()})
	})
	r.GET("/state", h.handleState)
	r.GET("/ws", h.handleConnections)
	return r
}
