package ws

import (
	"log/slog"

	"github.com/gorilla/websocket"
)

// Client wraps a websocket connection carrying live estimate quotes.
type Client struct {
	conn *websocket.Conn
	log  *slog.Logger
}

// NewClient constructs a client wrapper.
func NewClient(conn *websocket.Conn, logger *slog.Logger) *Client {
	return &Client{conn: conn, log: logger}
}

// SendJSON writes a JSON message to the connection.
func (c *Client) SendJSON(payload any) error {
	if err := c.conn.WriteJSON(payload); err != nil {
		c.log.Warn("websocket send failed", "error", err)
		_ = c.conn.Close()
		return err
	}
	return nil
}

// ReadJSON reads the next JSON message into dst.
func (c *Client) ReadJSON(dst any) error {
	return c.conn.ReadJSON(dst)
}

// Close terminates the connection.
func (c *Client) Close() {
	_ = c.conn.Close()
}
