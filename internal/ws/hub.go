// Package ws streams the public activity feed to websocket clients.
package ws

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"vie_bot/internal/bot"
	"vie_bot/internal/logger"
	"vie_bot/internal/metrics"
)

const backlogSize = 20

// Hub fans feed events out to connected clients. Publish never blocks: a
// client whose buffer is full is dropped.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	backlog []bot.Event
	log     *slog.Logger
	stop    chan struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
		log:     logger.With("component", "feed"),
		stop:    make(chan struct{}),
	}
}

// Register adds c and queues the recent backlog for it.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	recent := append([]bot.Event(nil), h.backlog...)
	n := len(h.clients)
	h.mu.Unlock()

	metrics.FeedClients.Set(float64(n))
	h.log.Debug("client registered", "user_id", c.UserID, "clients", n)
	if len(recent) > 0 {
		c.queue(encode(MsgBacklog, recent))
	}
}

// Unregister removes c and closes its send buffer. It is safe to call twice.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	if ok {
		delete(h.clients, c)
		close(c.Send)
	}
	n := len(h.clients)
	h.mu.Unlock()
	if ok {
		metrics.FeedClients.Set(float64(n))
		h.log.Debug("client unregistered", "user_id", c.UserID, "clients", n)
	}
}

// Publish implements bot.Publisher.
func (h *Hub) Publish(ev bot.Event) {
	msg := encode(MsgEvent, ev)
	if msg == nil {
		return
	}

	h.mu.Lock()
	h.backlog = append(h.backlog, ev)
	if len(h.backlog) > backlogSize {
		h.backlog = h.backlog[len(h.backlog)-backlogSize:]
	}
	var slow []*Client
	for c := range h.clients {
		if !c.wants(ev) {
			continue
		}
		select {
		case c.Send <- msg:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.Unlock()

	for _, c := range slow {
		h.log.Warn("dropping slow feed client", "user_id", c.UserID)
		h.Unregister(c)
	}
}

// Len is the number of connected clients.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Backlog returns the most recent events, oldest first.
func (h *Hub) Backlog() []bot.Event {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]bot.Event(nil), h.backlog...)
}

// StartCleanup periodically drops clients that stopped answering pings.
func (h *Hub) StartCleanup(every time.Duration) {
	go func() {
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case <-h.stop:
				return
			case now := <-ticker.C:
				h.cleanupStale(now)
			}
		}
	}()
}

func (h *Hub) cleanupStale(now time.Time) {
	h.mu.RLock()
	var stale []*Client
	for c := range h.clients {
		if now.Sub(c.lastSeen()) > 2*pongWait {
			stale = append(stale, c)
		}
	}
	h.mu.RUnlock()
	for _, c := range stale {
		h.log.Info("cleaned up stale feed client", "user_id", c.UserID)
		h.Unregister(c)
	}
}

// Close disconnects every client.
func (h *Hub) Close() {
	select {
	case <-h.stop:
		return
	default:
		close(h.stop)
	}
	h.mu.RLock()
	all := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		all = append(all, c)
	}
	h.mu.RUnlock()
	for _, c := range all {
		h.Unregister(c)
	}
}

func encode(typ string, payload any) []byte {
	b, err := json.Marshal(Message{Type: typ, Payload: payload})
	if err != nil {
		logger.Error("feed encode failed", "error", err, "type", typ)
		return nil
	}
	return b
}
