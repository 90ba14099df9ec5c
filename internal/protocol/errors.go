package protocol

import (
	"errors"
	"fmt"
)

// Code identifies a daemon error category on the wire.
type Code string

const (
	// CodeInitSource: the --init source is missing or of an unsupported kind.
	CodeInitSource Code = "E001"

	// CodeSessionNotFound: no session with the given ID exists.
	CodeSessionNotFound Code = "E002"

	// CodeSessionStopped: the operation requires a live session.
	CodeSessionStopped Code = "E003"

	// CodeArchiveExtraction: unpacking or copying the init source failed.
	CodeArchiveExtraction Code = "E004"

	// CodeProcessStart: tmux could not launch the CLI process.
	CodeProcessStart Code = "E005"

	// CodeMessageInjection: send-keys to a live session failed.
	CodeMessageInjection Code = "E006"

	// CodeDaemonUnavailable: the daemon cannot be reached or answered
	// with garbage. Mostly produced client-side.
	CodeDaemonUnavailable Code = "E007"

	// CodeInvalidCli: the requested CLI binary is not on PATH.
	CodeInvalidCli Code = "E008"

	// CodeMultiplexerUnavailable: tmux is missing or too old.
	CodeMultiplexerUnavailable Code = "E009"
)

// DaemonError is the structured error that crosses the protocol boundary.
// Inside the daemon it travels as a normal error value and is unwrapped with
// AsDaemonError at the response edge.
type DaemonError struct {
	Code    Code
	Message string
}

func (e *DaemonError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Errf builds a DaemonError with a formatted message.
func Errf(code Code, format string, args ...any) *DaemonError {
	return &DaemonError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// AsDaemonError extracts a DaemonError from err's chain. Errors with no
// DaemonError in the chain map to E007 so that a client always receives a
// coded response.
func AsDaemonError(err error) *DaemonError {
	var de *DaemonError
	if errors.As(err, &de) {
		return de
	}
	return &DaemonError{Code: CodeDaemonUnavailable, Message: err.Error()}
}
