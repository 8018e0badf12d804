package realtime

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"scriptgo/domain/model"
	"scriptgo/infrastructure/logger"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	subscriberBuffer = 16
	writeWait        = 10 * time.Second
)

type subscriber struct {
	ch       chan model.ScriptEvent
	lastSeen atomic.Int64
}

func (s *subscriber) touch() { s.lastSeen.Store(time.Now().UnixNano()) }

// ScriptHub fans script events out to each user's open SSE and WebSocket sessions.
type ScriptHub struct {
	mu        sync.RWMutex
	users     map[string]map[*subscriber]struct{}
	heartbeat time.Duration
	upgrader  websocket.Upgrader
}

// NewScriptHub accepts WebSocket upgrades from the given origins; "*" or an empty list allows any.
func NewScriptHub(heartbeat time.Duration, allowedOrigins []string) *ScriptHub {
	if heartbeat <= 0 {
		heartbeat = 25 * time.Second
	}
	h := &ScriptHub{
		users:     make(map[string]map[*subscriber]struct{}),
		heartbeat: heartbeat,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(allowedOrigins),
	}
	return h
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || len(allowed) == 0 {
			return true
		}
		for _, a := range allowed {
			if a == "*" || strings.EqualFold(strings.TrimRight(a, "/"), origin) {
				return true
			}
		}
		return false
	}
}

// Subscribe registers a listener for userID. The returned func unregisters it.
func (h *ScriptHub) Subscribe(userID string) (<-chan model.ScriptEvent, func()) {
	sub := h.add(userID)
	return sub.ch, func() { h.remove(userID, sub) }
}

func (h *ScriptHub) add(userID string) *subscriber {
	sub := &subscriber{ch: make(chan model.ScriptEvent, subscriberBuffer)}
	sub.touch()
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.users[userID] == nil {
		h.users[userID] = make(map[*subscriber]struct{})
	}
	h.users[userID][sub] = struct{}{}
	return sub
}

func (h *ScriptHub) remove(userID string, sub *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	subs := h.users[userID]
	if _, ok := subs[sub]; !ok {
		return
	}
	delete(subs, sub)
	close(sub.ch)
	if len(subs) == 0 {
		delete(h.users, userID)
	}
}

// Broadcast never blocks; a subscriber with a full buffer misses the event.
func (h *ScriptHub) Broadcast(userID string, ev model.ScriptEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for sub := range h.users[userID] {
		select {
		case sub.ch <- ev:
		default:
		}
	}
}

func (h *ScriptHub) SubscriberCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.users[userID])
}

// SweepStale drops subscribers that have not been written to for maxIdle and returns how many.
func (h *ScriptHub) SweepStale(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle).UnixNano()
	h.mu.Lock()
	defer h.mu.Unlock()
	removed := 0
	for userID, subs := range h.users {
		for sub := range subs {
			if sub.lastSeen.Load() < cutoff {
				delete(subs, sub)
				close(sub.ch)
				removed++
			}
		}
		if len(subs) == 0 {
			delete(h.users, userID)
		}
	}
	return removed
}

// ServeSSE streams events for the authenticated user (user_id set by middleware).
func (h *ScriptHub) ServeSSE(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.Status(http.StatusUnauthorized)
		return
	}
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	sub := h.add(userID)
	defer h.remove(userID, sub)

	_, _ = c.Writer.Write([]byte(":ok\n\n"))
	c.Writer.Flush()

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()
	for {
		select {
		case <-c.Request.Context().Done():
			return
		case <-ticker.C:
			if _, err := c.Writer.Write([]byte(":ping\n\n")); err != nil {
				return
			}
			c.Writer.Flush()
			sub.touch()
		case ev, ok := <-sub.ch:
			if !ok {
				return
			}
			data, _ := json.Marshal(ev)
			_, _ = c.Writer.Write([]byte("event: " + ev.Type + "\n"))
			_, _ = c.Writer.Write([]byte("data: "))
			_, _ = c.Writer.Write(data)
			if _, err := c.Writer.Write([]byte("\n\n")); err != nil {
				return
			}
			c.Writer.Flush()
			sub.touch()
		}
	}
}

// ServeWS upgrades to a WebSocket and pushes events as JSON frames.
func (h *ScriptHub) ServeWS(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.Status(http.StatusUnauthorized)
		return
	}
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.GetLogger().WithError(err).WithField("user_id", userID).Warn("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	sub := h.add(userID)
	defer h.remove(userID, sub)

	// The read side only handles control frames and notices disconnects.
	closed := make(chan struct{})
	conn.SetPongHandler(func(string) error {
		sub.touch()
		return conn.SetReadDeadline(time.Now().Add(2 * h.heartbeat))
	})
	go func() {
		defer close(closed)
		_ = conn.SetReadDeadline(time.Now().Add(2 * h.heartbeat))
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()
	for {
		select {
		case <-closed:
			return
		case <-c.Request.Context().Done():
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		case ev, ok := <-sub.ch:
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "idle"), time.Now().Add(writeWait))
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(ev); err != nil {
				return
			}
			sub.touch()
		}
	}
}
