// ABOUTME: Error taxonomy for the Agda conversation: start, I/O, decode and external errors
// ABOUTME: Fatal errors stop the session; decode and external errors are recoverable

package agda

import (
	"errors"
	"fmt"
)

var (
	// ErrSessionStopped is returned when the conversation is used after it ended.
	ErrSessionStopped = errors.New("agda session stopped")
	// ErrAborting is returned for commands issued after Cmd_abort.
	ErrAborting = errors.New("agda session is aborting")
	// ErrNotAborted is returned by Shutdown when no abort was negotiated.
	ErrNotAborted = errors.New("shutdown requires a completed abort")
	// ErrResponseTimeout is returned when no response line arrived in time.
	ErrResponseTimeout = errors.New("timed out waiting for agda response")
	// ErrMissingKind marks a response object without a "kind" field.
	ErrMissingKind = errors.New("response has no kind")
	// ErrUnknownKind marks a response whose kind is not part of the protocol.
	ErrUnknownKind = errors.New("unknown response kind")
	// ErrMalformed marks a line that is not a JSON object.
	ErrMalformed = errors.New("malformed response")
)

// StartError means the Agda process could not be launched.
type StartError struct {
	Program string
	Err     error
}

func (e *StartError) Error() string {
	return fmt.Sprintf("starting %s: %v", e.Program, e.Err)
}

func (e *StartError) Unwrap() error { return e.Err }

// IOError is a read or write failure on the process streams. It ends the session.
type IOError struct {
	Op  string
	Err error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("agda %s: %v", e.Op, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// DecodeError is one response line that could not be decoded.
type DecodeError struct {
	Line []byte
	Kind string
	Err  error
}

func (e *DecodeError) Error() string {
	if e.Kind != "" {
		return fmt.Sprintf("decoding %s response: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("decoding response: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// ExternalError is an error Agda itself reported, such as a type error.
type ExternalError struct {
	Message string
}

func (e *ExternalError) Error() string {
	if e.Message == "" {
		return "agda reported an error"
	}
	return e.Message
}

// IsFatal reports whether err ends the session.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	var decodeErr *DecodeError
	var externalErr *ExternalError
	return !errors.As(err, &decodeErr) && !errors.As(err, &externalErr)
}
