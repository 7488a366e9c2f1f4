package apitest

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"kusina/internal/models"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // test server accepts any origin
	},
}

// statsHub pushes landing-stats frames to every connected subscriber.
type statsHub struct {
	mu    sync.Mutex
	conns map[*websocket.Conn]bool
}

func newStatsHub() *statsHub {
	return &statsHub{conns: make(map[*websocket.Conn]bool)}
}

// handleSubscribe upgrades the request and keeps the connection until the
// client goes away.
func (h *statsHub) handleSubscribe(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade connection: %v", err)
		return
	}

	h.mu.Lock()
	h.conns[conn] = true
	h.mu.Unlock()

	// Drain control frames; a read error means the subscriber left.
	go func() {
		defer h.drop(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (h *statsHub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.conns, conn)
	h.mu.Unlock()
	conn.Close()
}

// broadcast sends the stats frame to every subscriber, dropping the ones
// that fail.
func (h *statsHub) broadcast(stats models.LandingStats) {
	data, err := json.Marshal(stats)
	if err != nil {
		log.Printf("Error marshaling stats: %v", err)
		return
	}

	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.conns))
	for conn := range h.conns {
		conns = append(conns, conn)
	}
	h.mu.Unlock()

	for _, conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.drop(conn)
		}
	}
}
