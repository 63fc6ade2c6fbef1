package testutil

import (
	"fmt"
	"net"
	"strings"
	"testing"
	"time"
)

// ConsoleClient drives a console session over an in-memory pipe.
type ConsoleClient struct {
	conn net.Conn
	t    *testing.T
}

// NewConsolePipe returns a client and the server end of a synchronous
// in-memory connection. The server end is handed to the session under test.
//
// Postcondition: Both ends are closed when the test finishes.
func NewConsolePipe(t *testing.T) (*ConsoleClient, net.Conn) {
	t.Helper()
	client, server := net.Pipe()
	t.Cleanup(func() {
		client.Close()
		server.Close()
	})
	return &ConsoleClient{conn: client, t: t}, server
}

// ReadUntil reads data until the specified substring is found or timeout occurs.
// It returns all data read up to and including the match.
//
// Precondition: substr must be non-empty.
// Postcondition: Returns the accumulated output containing substr, or fails on timeout.
func (c *ConsoleClient) ReadUntil(substr string, timeout time.Duration) string {
	c.t.Helper()
	_ = c.conn.SetReadDeadline(time.Now().Add(timeout))

	var buf strings.Builder
	tmp := make([]byte, 1024)
	for {
		n, err := c.conn.Read(tmp)
		if n > 0 {
			buf.Write(tmp[:n])
			if strings.Contains(buf.String(), substr) {
				return buf.String()
			}
		}
		if err != nil {
			c.t.Fatalf("reading until %q: got %q, error: %v", substr, buf.String(), err)
		}
	}
}

// Send writes a line of text to the session, appending \n.
//
// Precondition: text should not contain trailing newline characters.
// Postcondition: text + \n is written to the connection.
func (c *ConsoleClient) Send(text string) {
	c.t.Helper()
	_ = c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	if _, err := fmt.Fprintf(c.conn, "%s\n", text); err != nil {
		c.t.Fatalf("sending %q: %v", text, err)
	}
}

// Close closes the client end, which the session sees as end of input.
func (c *ConsoleClient) Close() {
	c.conn.Close()
}
