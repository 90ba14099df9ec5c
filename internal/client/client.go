// Package client implements the CLI side of the daemon protocol: dial the
// socket, send one request, read one response.
package client

import (
	"net"
	"time"

	"github.com/summ-dev/summ/internal/config"
	"github.com/summ-dev/summ/internal/ipc"
	"github.com/summ-dev/summ/internal/protocol"
)

// dialTimeout bounds the connect itself; frame I/O has its own deadlines.
const dialTimeout = 5 * time.Second

// Client talks to one daemon socket.
type Client struct {
	socketPath string
}

// New builds a client for the configured daemon socket.
func New(cfg *config.Config) *Client {
	return &Client{socketPath: cfg.SocketPath}
}

// NewWithPath builds a client for an explicit socket path.
func NewWithPath(socketPath string) *Client {
	return &Client{socketPath: socketPath}
}

// Do performs one request/response round trip. Connectivity failures come
// back as E007 DaemonErrors; protocol-level errors arrive inside the
// response and are surfaced by Response.Decode.
func (c *Client) Do(req *protocol.Request) (*protocol.Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, dialTimeout)
	if err != nil {
		return nil, protocol.Errf(protocol.CodeDaemonUnavailable,
			"cannot connect to daemon at %s (is it running? try: summ daemon start)", c.socketPath)
	}
	defer conn.Close()

	if err := ipc.WriteRequest(conn, req); err != nil {
		return nil, protocol.Errf(protocol.CodeDaemonUnavailable, "sending request: %v", err)
	}
	resp, err := ipc.ReadResponse(conn)
	if err != nil {
		return nil, protocol.Errf(protocol.CodeDaemonUnavailable, "reading response: %v", err)
	}
	return resp, nil
}

// Start creates a new session and returns its record.
func (c *Client) Start(cli, init, name string) (*protocol.StartResult, error) {
	resp, err := c.Do(&protocol.Request{Type: protocol.TypeStart, Cli: cli, Init: init, Name: name})
	if err != nil {
		return nil, err
	}
	var result protocol.StartResult
	if err := resp.Decode(&result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Stop stops a session.
func (c *Client) Stop(sessionID string) (*protocol.StopResult, error) {
	resp, err := c.Do(&protocol.Request{Type: protocol.TypeStop, SessionID: sessionID})
	if err != nil {
		return nil, err
	}
	var result protocol.StopResult
	if err := resp.Decode(&result); err != nil {
		return nil, err
	}
	return &result, nil
}

// List returns sessions, optionally filtered by status.
func (c *Client) List(filter protocol.SessionStatus) ([]protocol.SessionInfo, error) {
	resp, err := c.Do(&protocol.Request{Type: protocol.TypeList, StatusFilter: filter})
	if err != nil {
		return nil, err
	}
	var infos []protocol.SessionInfo
	if err := resp.Decode(&infos); err != nil {
		return nil, err
	}
	return infos, nil
}

// Status returns one session's detailed, effective status.
func (c *Client) Status(sessionID string) (*protocol.StatusDetail, error) {
	resp, err := c.Do(&protocol.Request{Type: protocol.TypeStatus, SessionID: sessionID})
	if err != nil {
		return nil, err
	}
	var detail protocol.StatusDetail
	if err := resp.Decode(&detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// Inject types a message into a session.
func (c *Client) Inject(sessionID, message string) (*protocol.InjectResult, error) {
	resp, err := c.Do(&protocol.Request{Type: protocol.TypeInject, SessionID: sessionID, Message: message})
	if err != nil {
		return nil, err
	}
	var result protocol.InjectResult
	if err := resp.Decode(&result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DaemonStatus returns the daemon's own status.
func (c *Client) DaemonStatus() (*protocol.DaemonStatus, error) {
	resp, err := c.Do(&protocol.Request{Type: protocol.TypeDaemonStatus})
	if err != nil {
		return nil, err
	}
	var status protocol.DaemonStatus
	if err := resp.Decode(&status); err != nil {
		return nil, err
	}
	return &status, nil
}
