package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 4 * 1024
)

// connection is one websocket watching a single project.
type connection struct {
	userID    int64
	projectID int64
	conn      *websocket.Conn
	send      chan []byte
}

// Hub delivers broker events to the websockets watching each project.
type Hub struct {
	mu          sync.RWMutex
	connections map[*connection]struct{}

	upgrader websocket.Upgrader
	log      logrus.FieldLogger
}

// NewHub accepts websocket upgrades from the given origins. An empty list
// allows same-origin requests only.
func NewHub(allowedOrigins []string, log logrus.FieldLogger) *Hub {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}

	return &Hub{
		connections: make(map[*connection]struct{}),
		log:         log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowed[origin] || origin == "http://"+r.Host || origin == "https://"+r.Host
			},
		},
	}
}

// Run forwards broker events to local connections until ctx is done.
func (h *Hub) Run(ctx context.Context, broker Broker) error {
	events, err := broker.Subscribe(ctx)
	if err != nil {
		return err
	}

	go func() {
		for ev := range events {
			h.Broadcast(ev)
		}
	}()
	return nil
}

func (h *Hub) Broadcast(ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.connections {
		if c.projectID != ev.ProjectID {
			continue
		}
		select {
		case c.send <- data:
		default:
			// Client too slow
		}
	}
}

// Watchers returns how many connections follow a project.
func (h *Hub) Watchers(projectID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for c := range h.connections {
		if c.projectID == projectID {
			n++
		}
	}
	return n
}

// Serve upgrades the request and blocks until the client disconnects.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, userID, projectID int64) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	c := &connection{
		userID:    userID,
		projectID: projectID,
		conn:      conn,
		send:      make(chan []byte, 64),
	}
	h.register(c)
	h.log.WithFields(logrus.Fields{"user_id": userID, "project_id": projectID}).Debug("activity stream opened")

	go h.writePump(c)
	h.readPump(c)
	return nil
}

func (h *Hub) register(c *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.connections[c] = struct{}{}
}

func (h *Hub) unregister(c *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.connections[c]; ok {
		delete(h.connections, c)
		close(c.send)
	}
}

// readPump only handles control frames; the stream is server to client.
func (h *Hub) readPump(c *connection) {
	defer func() {
		h.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMsgSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(c *connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
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
