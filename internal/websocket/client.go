package websocket

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ErrSendQueueFull is returned when a client falls too far behind
var ErrSendQueueFull = errors.New("client send queue is full")

// Connection timing. pingInterval has to stay below pongTimeout so a healthy
// peer always answers before the read deadline passes.
const (
	writeTimeout   = 10 * time.Second
	pongTimeout    = 60 * time.Second
	pingInterval   = pongTimeout * 9 / 10
	maxInboundSize = 512
	sendBufferSize = 64
)

// Client is one websocket connection of a signed-in user.
// Events flow server to client only.
type Client struct {
	id     string
	userID uuid.UUID
	conn   *websocket.Conn
	hub    *Hub

	queue     chan []byte
	done      chan struct{}
	closeOnce sync.Once
	closeErr  error
}

// NewClient creates a client for one connection of the given user
func NewClient(conn *websocket.Conn, userID uuid.UUID, hub *Hub) *Client {
	return &Client{
		id:     uuid.New().String(),
		userID: userID,
		conn:   conn,
		hub:    hub,
		queue:  make(chan []byte, sendBufferSize),
		done:   make(chan struct{}),
	}
}

// ID returns the client's unique identifier
func (c *Client) ID() string {
	return c.id
}

// UserID returns the owner of the connection
func (c *Client) UserID() uuid.UUID {
	return c.userID
}

// Send queues data for the write pump without blocking
func (c *Client) Send(data []byte) error {
	if c.IsClosed() {
		return ErrClientClosed
	}
	select {
	case c.queue <- data:
		return nil
	case <-c.done:
		return ErrClientClosed
	default:
		return ErrSendQueueFull
	}
}

// Close shuts the connection down. Later calls return the first result.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		close(c.done)
		c.closeErr = c.conn.Close()
	})
	return c.closeErr
}

// IsClosed reports whether Close has been called
func (c *Client) IsClosed() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

// ReadPump drains inbound frames so pongs and close frames are processed,
// and unregisters the client once the peer is gone.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		_ = c.Close()
	}()

	c.conn.SetReadLimit(maxInboundSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongTimeout))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongTimeout))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger().Warn().Err(err).Msg("WebSocket closed unexpectedly")
			}
			return
		}
	}
}

// WritePump delivers queued events and keeps the connection alive with pings
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		_ = c.Close()
	}()

	for {
		select {
		case <-c.done:
			_ = c.write(websocket.CloseMessage, []byte{})
			return
		case message := <-c.queue:
			if err := c.write(websocket.TextMessage, message); err != nil {
				c.logger().Warn().Err(err).Msg("WebSocket write failed")
				return
			}
		case <-ticker.C:
			if err := c.write(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) write(messageType int, data []byte) error {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}
	return c.conn.WriteMessage(messageType, data)
}

func (c *Client) logger() *zerolog.Logger {
	l := log.With().Str("client_id", c.id).Str("user_id", c.userID.String()).Logger()
	return &l
}
