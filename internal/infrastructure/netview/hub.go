// Package netview streams session snapshots to websocket spectators.
package netview

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/younwookim/towerdefense/internal/application/event"
	"github.com/younwookim/towerdefense/internal/application/session"
	"github.com/younwookim/towerdefense/internal/infrastructure/config"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512

	defaultSendBuffer = 16
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// forwarded are the events relayed to spectators besides snapshots
var forwarded = []event.Type{
	event.WaveStart, event.WaveComplete, event.GameOver, event.Victory,
}

// Hub fans encoded messages out to connected spectators. Broadcasting never
// blocks: a spectator whose buffer is full misses the message.
type Hub struct {
	mu      sync.Mutex
	clients map[*client]struct{}
	last    []byte // latest snapshot frame, sent on connect

	every      int
	sendBuffer int
	log        logrus.FieldLogger

	snap    session.Snapshot
	dropped int
	sent    int
}

// NewHub creates a hub with the network config
func NewHub(cfg config.NetworkConfig, log logrus.FieldLogger) *Hub {
	if log == nil {
		log = logrus.StandardLogger()
	}
	h := &Hub{
		clients:    make(map[*client]struct{}),
		every:      max(1, cfg.BroadcastEvery),
		sendBuffer: cfg.SendBuffer,
		log:        log,
	}
	if h.sendBuffer <= 0 {
		h.sendBuffer = defaultSendBuffer
	}
	return h
}

// ServeHTTP upgrades the request and registers a spectator
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Warn("websocket upgrade failed")
		return
	}

	c := &client{hub: h, conn: conn, send: make(chan []byte, h.sendBuffer)}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	if h.last != nil {
		c.send <- h.last
	}
	n := len(h.clients)
	h.mu.Unlock()

	h.log.WithFields(logrus.Fields{"remote": r.RemoteAddr, "spectators": n}).Info("spectator connected")
	go c.writePump()
	go c.readPump()
}

// Publish sends the session snapshot every BroadcastEvery ticks.
// Call it from the simulation goroutine after each update.
func (h *Hub) Publish(s *session.Session) {
	if s.Tick()%uint64(h.every) != 0 {
		return
	}
	s.SnapshotInto(&h.snap)
	b, err := Encode(Message{Kind: KindSnapshot, Tick: h.snap.Tick, Snapshot: &h.snap})
	if err != nil {
		h.log.WithError(err).Error("failed to encode snapshot")
		return
	}
	h.mu.Lock()
	h.last = b
	h.mu.Unlock()
	h.Broadcast(b)
}

// Attach relays wave and outcome events from bus
func (h *Hub) Attach(bus *event.Bus) {
	for _, t := range forwarded {
		bus.SubscribeFunc(t, h.onEvent)
	}
}

func (h *Hub) onEvent(e event.Event) {
	b, err := Encode(Message{Kind: KindEvent, Tick: h.snap.Tick, Event: string(e.Type), Data: e.Data})
	if err != nil {
		h.log.WithError(err).WithField("event", e.Type).Error("failed to encode event")
		return
	}
	h.Broadcast(b)
}

// Broadcast queues b for every spectator without blocking
func (h *Hub) Broadcast(b []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- b:
			h.sent++
		default:
			h.dropped++
		}
	}
}

// Spectators returns the number of connected spectators
func (h *Hub) Spectators() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Stats returns the number of queued and dropped frames
func (h *Hub) Stats() (sent, dropped int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.sent, h.dropped
}

// Close disconnects every spectator
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

type client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// readPump discards spectator input and detects disconnects
func (c *client) readPump() {
	defer func() {
		c.hub.unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.log.WithError(err).Debug("spectator read failed")
			}
			return
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.BinaryMessage, msg); err != nil {
				c.hub.log.WithError(err).Debug("spectator write failed")
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
