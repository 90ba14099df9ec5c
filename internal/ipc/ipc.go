// Package ipc implements the framing used on the daemon socket: a 4-byte
// big-endian payload length followed by that many bytes of JSON.
package ipc

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/summ-dev/summ/internal/protocol"
)

// MaxFrameSize caps a single frame's payload at 16 MiB. Anything larger is
// treated as a protocol violation, not a big message.
const MaxFrameSize = 16 << 20

// IOTimeout bounds a single read or write on the socket.
const IOTimeout = 30 * time.Second

// ErrFrameTooLarge reports a length prefix over MaxFrameSize.
var ErrFrameTooLarge = errors.New("frame exceeds maximum size")

// ErrEmptyFrame reports a zero-length prefix.
var ErrEmptyFrame = errors.New("zero-length frame")

// ReadFrame reads one length-prefixed payload from conn.
func ReadFrame(conn net.Conn) ([]byte, error) {
	if err := conn.SetReadDeadline(time.Now().Add(IOTimeout)); err != nil {
		return nil, fmt.Errorf("setting read deadline: %w", err)
	}
	var header [4]byte
	if _, err := io.ReadFull(conn, header[:]); err != nil {
		return nil, fmt.Errorf("reading frame header: %w", err)
	}
	n := binary.BigEndian.Uint32(header[:])
	if n == 0 {
		return nil, ErrEmptyFrame
	}
	if n > MaxFrameSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, n)
	}
	payload := make([]byte, n)
	if _, err := io.ReadFull(conn, payload); err != nil {
		return nil, fmt.Errorf("reading frame payload: %w", err)
	}
	return payload, nil
}

// WriteFrame writes one length-prefixed payload to conn.
func WriteFrame(conn net.Conn, payload []byte) error {
	if len(payload) > MaxFrameSize {
		return fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, len(payload))
	}
	if err := conn.SetWriteDeadline(time.Now().Add(IOTimeout)); err != nil {
		return fmt.Errorf("setting write deadline: %w", err)
	}
	var header [4]byte
	binary.BigEndian.PutUint32(header[:], uint32(len(payload)))
	if _, err := conn.Write(header[:]); err != nil {
		return fmt.Errorf("writing frame header: %w", err)
	}
	if _, err := conn.Write(payload); err != nil {
		return fmt.Errorf("writing frame payload: %w", err)
	}
	return nil
}

// ReadRequest reads and decodes one request frame.
func ReadRequest(conn net.Conn) (*protocol.Request, error) {
	payload, err := ReadFrame(conn)
	if err != nil {
		return nil, err
	}
	var req protocol.Request
	if err := json.Unmarshal(payload, &req); err != nil {
		return nil, fmt.Errorf("decoding request: %w", err)
	}
	return &req, nil
}

// WriteRequest encodes and writes one request frame.
func WriteRequest(conn net.Conn, req *protocol.Request) error {
	payload, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}
	return WriteFrame(conn, payload)
}

// ReadResponse reads and decodes one response frame.
func ReadResponse(conn net.Conn) (*protocol.Response, error) {
	payload, err := ReadFrame(conn)
	if err != nil {
		return nil, err
	}
	var resp protocol.Response
	if err := json.Unmarshal(payload, &resp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return &resp, nil
}

// WriteResponse encodes and writes one response frame.
func WriteResponse(conn net.Conn, resp *protocol.Response) error {
	payload, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("encoding response: %w", err)
	}
	return WriteFrame(conn, payload)
}
