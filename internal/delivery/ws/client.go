package ws

import (
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"slateboard-backend/internal/domain"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10
)

// Client is a single websocket connection. Its id doubles as the
// connectionId carried in user entries and session bindings.
type Client struct {
	id         string
	dispatcher *Dispatcher
	conn       *websocket.Conn
	send       chan []byte
	maxMsgSize int64
}

// NewClient creates a Client for an upgraded connection and registers it
// with the dispatcher.
func NewClient(d *Dispatcher, conn *websocket.Conn, maxMessageSize int) *Client {
	c := &Client{
		id:         uuid.New().String(),
		dispatcher: d,
		conn:       conn,
		send:       make(chan []byte, 256),
		maxMsgSize: int64(maxMessageSize),
	}
	d.Connect(c)
	return c
}

// ID returns the connection identifier.
func (c *Client) ID() string {
	return c.id
}

// Send queues an event for delivery. Drops the event if the client's
// buffer is full rather than blocking the dispatcher.
func (c *Client) Send(ev domain.Event) {
	select {
	case c.send <- ev.Encode():
	default:
		// Buffer full
	}
}

// ReadPump pumps messages from the websocket connection into the dispatcher
func (c *Client) ReadPump() {
	defer func() {
		c.dispatcher.Disconnect(c)
		close(c.send)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(c.maxMsgSize)
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
		c.dispatcher.Dispatch(c, message)
	}
}

// WritePump pumps queued events to the websocket connection
func (c *Client) WritePump() {
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
