package hubserver

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
	"time"
)

const (
	dialTimeout = 5 * time.Second
	// answerTimeout bounds how long a producer waits for the human. Ten
	// minutes is generous; the hub aborts questions on shutdown anyway.
	answerTimeout = 10 * time.Minute
)

// Client connects to a running hub via its unix socket.
type Client struct {
	socketPath string
}

// NewClient creates a client from the ASKHUB_SOCK environment variable.
// Returns nil if it is not set.
func NewClient() *Client {
	socketPath := os.Getenv(SocketEnvVar)
	if socketPath == "" {
		return nil
	}
	return &Client{socketPath: socketPath}
}

// NewClientWithPath creates a client with an explicit socket path.
func NewClientWithPath(socketPath string) *Client {
	return &Client{socketPath: socketPath}
}

// Ask sends one question to the hub and waits for the outcome. The returned
// response has StatusAborted when the user abandoned the question; a non-nil
// error means the question never reached the user.
func (c *Client) Ask(req Request) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, dialTimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to hub: %w", err)
	}
	defer func() { _ = conn.Close() }()

	if err := conn.SetDeadline(time.Now().Add(answerTimeout)); err != nil {
		return nil, fmt.Errorf("failed to set deadline: %w", err)
	}

	encoder := json.NewEncoder(conn)
	if err := encoder.Encode(req); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	decoder := json.NewDecoder(conn)
	var resp Response
	if err := decoder.Decode(&resp); err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.Status == StatusError {
		return nil, fmt.Errorf("ask failed: %s", resp.Error)
	}

	return &resp, nil
}
