package ws

import (
	"errors"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/momaws232/ChatCord/internal/relay"
)

var ErrBackpressure = errors.New("backpressure")

// wsConn wraps one websocket with a bounded outbound buffer. The write
// pump drains send; TrySend drops instead of blocking.
type wsConn struct {
	conn *websocket.Conn
	send chan relay.Frame

	mu     sync.RWMutex
	closed bool
}

func newWSConn(conn *websocket.Conn, sendBuffer int) *wsConn {
	return &wsConn{
		conn: conn,
		send: make(chan relay.Frame, sendBuffer),
	}
}

func (c *wsConn) TrySend(f relay.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return errors.New("connection closed")
	}
	select {
	case c.send <- f:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *wsConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}
