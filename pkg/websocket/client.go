package websocket

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// Message is the wire envelope for every event on the push channel.
type Message struct {
	Event     string      `json:"event"`
	Timestamp int64       `json:"timestamp"`
	Data      interface{} `json:"data,omitempty"`
}

type inboundMessage struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// EventFunc handles a single inbound client event.
type EventFunc func(c *Client, event string, data json.RawMessage)

// Client wraps one live connection. It is the per-connection handle the
// presence registry hands out for push delivery.
type Client struct {
	conn *websocket.Conn
	send chan []byte

	UserID string
	Role   string

	onEvent EventFunc
	onClose func(*Client)

	mu     sync.Mutex
	closed bool
}

func NewClient(conn *websocket.Conn, userID, role string) *Client {
	return &Client{
		conn:   conn,
		send:   make(chan []byte, 256),
		UserID: userID,
		Role:   role,
	}
}

// OnEvent registers the inbound event handler. Must be called before Run.
func (c *Client) OnEvent(fn EventFunc) { c.onEvent = fn }

// OnClose registers a hook invoked exactly once when the connection ends.
func (c *Client) OnClose(fn func(*Client)) { c.onClose = fn }

// Send queues an event for delivery. It never blocks: a slow consumer whose
// buffer is full gets the event dropped and an error back.
func (c *Client) Send(event string, payload interface{}) error {
	data, err := json.Marshal(Message{
		Event:     event,
		Timestamp: time.Now().Unix(),
		Data:      payload,
	})
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return errors.New("connection closed")
	}

	select {
	case c.send <- data:
		return nil
	default:
		return errors.New("send buffer full")
	}
}

// Run starts the write pump and blocks on the read pump until the
// connection drops.
func (c *Client) Run() {
	go c.writePump()
	c.readPump()
}

func (c *Client) readPump() {
	defer c.close()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			break
		}

		var msg inboundMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			continue
		}

		if c.onEvent != nil {
			c.onEvent(c, msg.Event, msg.Data)
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

func (c *Client) close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	c.mu.Unlock()

	c.conn.Close()
	if c.onClose != nil {
		c.onClose(c)
	}
}
