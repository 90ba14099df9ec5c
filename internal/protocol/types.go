// Package protocol defines the wire types exchanged between the summ CLI
// and the summ daemon over the local socket.
//
// Every message carries a PascalCase "type" discriminator. Requests flow
// client to daemon, responses daemon to client, one pair per connection.
package protocol

import (
	"encoding/json"
	"fmt"
	"time"
)

// SessionStatus is the supervisor-level state of a session. Serialized
// lowercase on the wire and in meta.json.
type SessionStatus string

const (
	// StatusRunning means the CLI is (or must be assumed to be) working.
	StatusRunning SessionStatus = "running"

	// StatusIdle means the CLI reported itself idle via a fresh hook signal.
	StatusIdle SessionStatus = "idle"

	// StatusStopped means the hosting tmux session has exited.
	StatusStopped SessionStatus = "stopped"
)

// ParseSessionStatus validates a status string received from a client.
func ParseSessionStatus(s string) (SessionStatus, error) {
	switch SessionStatus(s) {
	case StatusRunning, StatusIdle, StatusStopped:
		return SessionStatus(s), nil
	}
	return "", fmt.Errorf("unknown session status %q", s)
}

// CliState is the state reported by the hook script.
type CliState string

const (
	CliIdle    CliState = "idle"
	CliBusy    CliState = "busy"
	CliStopped CliState = "stopped"
)

// CliStatus is the record the hook script writes to runtime/status.json.
// The daemon only ever reads this file; the hook script is its sole writer.
type CliStatus struct {
	State     CliState  `json:"state"`
	Message   string    `json:"message,omitempty"`
	Event     string    `json:"event,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Request type discriminators.
const (
	TypeStart        = "Start"
	TypeStop         = "Stop"
	TypeList         = "List"
	TypeStatus       = "Status"
	TypeInject       = "Inject"
	TypeDaemonStatus = "DaemonStatus"
)

// Request is the single envelope for all client-to-daemon messages.
// Fields not used by a given Type stay zero and are omitted on the wire.
type Request struct {
	Type string `json:"type"`

	// Start
	Cli  string `json:"cli,omitempty"`
	Init string `json:"init,omitempty"`
	Name string `json:"name,omitempty"`

	// Stop, Status, Inject
	SessionID string `json:"session_id,omitempty"`

	// Inject
	Message string `json:"message,omitempty"`

	// List
	StatusFilter SessionStatus `json:"status_filter,omitempty"`
}

// Response type discriminators.
const (
	TypeSuccess = "Success"
	TypeError   = "Error"
)

// Response is the single envelope for all daemon-to-client messages.
type Response struct {
	Type string `json:"type"`

	// Success
	Data json.RawMessage `json:"data,omitempty"`

	// Error
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// Success builds a Success response wrapping data. A marshal failure
// degrades to an E007 error response; it would indicate a handler bug, since
// every payload type is a plain struct.
func Success(data any) Response {
	b, err := json.Marshal(data)
	if err != nil {
		return ErrorResponse(Errf(CodeDaemonUnavailable, "encoding response: %v", err))
	}
	return Response{Type: TypeSuccess, Data: b}
}

// ErrorResponse builds an Error response from a DaemonError.
func ErrorResponse(err *DaemonError) Response {
	return Response{Type: TypeError, Code: string(err.Code), Message: err.Message}
}

// IsError reports whether the response is the Error variant.
func (r *Response) IsError() bool {
	return r.Type == TypeError
}

// Err converts an Error response back into a DaemonError, or nil for Success.
func (r *Response) Err() *DaemonError {
	if !r.IsError() {
		return nil
	}
	return &DaemonError{Code: Code(r.Code), Message: r.Message}
}

// Decode unmarshals a Success payload into out, or returns the DaemonError
// for an Error response.
func (r *Response) Decode(out any) error {
	if err := r.Err(); err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(r.Data, out); err != nil {
		return fmt.Errorf("decoding response payload: %w", err)
	}
	return nil
}

// SessionInfo is the projection of a session returned by List. Daemon-internal
// fields (workdir, init source, tmux name, pid) are not exposed here.
type SessionInfo struct {
	SessionID    string        `json:"session_id"`
	Name         string        `json:"name"`
	Cli          string        `json:"cli"`
	Status       SessionStatus `json:"status"`
	CreatedAt    time.Time     `json:"created_at"`
	LastActivity time.Time     `json:"last_activity"`
}

// DaemonStatus is the payload of a successful DaemonStatus request.
type DaemonStatus struct {
	Running      bool   `json:"running"`
	SessionCount int    `json:"session_count"`
	Version      string `json:"version"`
}

// StartResult is the payload of a successful Start request.
type StartResult struct {
	SessionID string        `json:"session_id"`
	Name      string        `json:"name"`
	Status    SessionStatus `json:"status"`
	Workdir   string        `json:"workdir"`
}

// StopResult is the payload of a successful Stop request.
type StopResult struct {
	SessionID string        `json:"session_id"`
	Status    SessionStatus `json:"status"`
}

// InjectResult is the payload of a successful Inject request.
type InjectResult struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

// StatusDetail is the payload of a successful Status request. Status holds
// the effective status computed at request time, not the persisted one.
type StatusDetail struct {
	SessionID    string        `json:"session_id"`
	Name         string        `json:"name"`
	Cli          string        `json:"cli"`
	Status       SessionStatus `json:"status"`
	PID          *int          `json:"pid"`
	CreatedAt    time.Time     `json:"created_at"`
	LastActivity time.Time     `json:"last_activity"`
	Workdir      string        `json:"workdir"`
}
