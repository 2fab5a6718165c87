package websocket

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	readTimeout  = 60 * time.Second
	pingInterval = 30 * time.Second
	writeTimeout = 10 * time.Second
)

// client wraps one player connection
type client struct {
	conn *websocket.Conn

	// writeMu ensures only one goroutine writes a data frame at a time,
	// conn.WriteJSON is not safe for concurrent use.
	writeMu sync.Mutex

	done      chan struct{}
	closeOnce sync.Once
}

func newClient(conn *websocket.Conn) *client {
	return &client{conn: conn, done: make(chan struct{})}
}

func (c *client) send(message ServerMessage) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.conn.WriteJSON(message)
}

func (c *client) sendError(message string) error {
	return c.send(ServerMessage{Type: MessageError, Message: message})
}

// keepAlive pings until the connection is closed. WriteControl may run
// concurrently with send.
func (c *client) keepAlive() {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				return
			}
		}
	}
}

func (c *client) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		c.conn.Close()
	})
}
