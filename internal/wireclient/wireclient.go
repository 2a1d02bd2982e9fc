// Package wireclient implements the client half of the wire protocol:
// one TCP connection per request, writing the request then
// half-closing the write side via CloseWrite, reading the reply to
// EOF.
package wireclient

import (
	"fmt"
	"io"
	"net"
)

// Client issues get/set/rm requests against a kvignite server at addr.
type Client struct {
	addr string
}

// New builds a Client targeting addr.
func New(addr string) *Client {
	return &Client{addr: addr}
}

// Get sends "get <key>" and returns the raw reply body: either the
// value, or the literal "Key not found" string the server sends on a
// miss.
func (c *Client) Get(key string) (string, error) {
	return c.roundTrip(fmt.Sprintf("get %s", key))
}

// Set sends "set <key> <value>". A successful set always gets an empty
// reply.
func (c *Client) Set(key, value string) error {
	_, err := c.roundTrip(fmt.Sprintf("set %s %s", key, value))
	return err
}

// Remove sends "rm <key>", returning the server's reply: empty on
// success, or "Key not found: <diagnostic>" if the key was absent.
func (c *Client) Remove(key string) (string, error) {
	return c.roundTrip(fmt.Sprintf("rm %s", key))
}

// roundTrip opens one connection, writes req, half-closes, then reads
// the reply to EOF.
func (c *Client) roundTrip(req string) (string, error) {
	conn, err := net.Dial("tcp", c.addr)
	if err != nil {
		return "", fmt.Errorf("wireclient: connect to %s: %w", c.addr, err)
	}
	defer conn.Close()

	if _, err := io.WriteString(conn, req); err != nil {
		return "", fmt.Errorf("wireclient: write request: %w", err)
	}

	if tcp, ok := conn.(*net.TCPConn); ok {
		if err := tcp.CloseWrite(); err != nil {
			return "", fmt.Errorf("wireclient: half-close: %w", err)
		}
	}

	reply, err := io.ReadAll(conn)
	if err != nil {
		return "", fmt.Errorf("wireclient: read reply: %w", err)
	}

	return string(reply), nil
}
