package ws

import (
	"encoding/json"
	"sync"
	"time"

	"vie_bot/internal/bot"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 30 * time.Second
	pingPeriod = 25 * time.Second
	sendBuffer = 64
)

// Client is one feed subscriber. With OnlyOwn set it receives only events of
// its own user.
type Client struct {
	UserID  string
	OnlyOwn bool
	Conn    *websocket.Conn
	Send    chan []byte
	Hub     *Hub

	mu   sync.Mutex
	seen time.Time
}

func NewClient(userID string, onlyOwn bool, conn *websocket.Conn, hub *Hub) *Client {
	return &Client{
		UserID:  userID,
		OnlyOwn: onlyOwn,
		Conn:    conn,
		Send:    make(chan []byte, sendBuffer),
		Hub:     hub,
		seen:    time.Now(),
	}
}

// Run registers the client and pumps until the connection drops.
func (c *Client) Run() {
	go c.writePump()
	c.queue(encode(MsgReady, nil))
	c.Hub.Register(c)
	c.readPump()
}

func (c *Client) wants(ev bot.Event) bool {
	return !c.OnlyOwn || ev.UserID == c.UserID
}

func (c *Client) queue(msg []byte) {
	if msg == nil {
		return
	}
	select {
	case c.Send <- msg:
	default:
	}
}

func (c *Client) touch() {
	c.mu.Lock()
	c.seen = time.Now()
	c.mu.Unlock()
}

func (c *Client) lastSeen() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seen
}

// read
func (c *Client) readPump() {
	defer func() {
		c.Hub.Unregister(c)
		_ = c.Conn.Close()
	}()

	c.Conn.SetReadLimit(1024)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.touch()
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.Hub.log.Debug("feed read error", "user_id", c.UserID, "error", err)
			}
			return
		}
		c.touch()
		var msg Message
		if err := json.Unmarshal(raw, &msg); err != nil {
			c.queue(encode(MsgError, ErrorPayload{Message: "invalid message"}))
			continue
		}
		if msg.Type == MsgPing {
			c.queue(encode(MsgPong, nil))
		}
	}
}

// write
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.Send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
