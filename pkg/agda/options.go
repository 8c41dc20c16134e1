// ABOUTME: Session options: process arguments, highlighting, timeouts and explicit debug settings
// ABOUTME: Logger and Observer are narrow hooks so callers decide where traces go

package agda

import "time"

// DefaultArgs puts Agda into JSON interaction mode.
var DefaultArgs = []string{"--interaction-json"}

// DefaultAbortTimeout bounds how long Shutdown waits for DoneAborting.
const DefaultAbortTimeout = 5 * time.Second

// Options configures a Session. The zero value is usable.
type Options struct {
	// Args replaces DefaultArgs when non-empty.
	Args []string
	// Env replaces the process environment when non-empty.
	Env []string
	// LoadFlags are passed with every Cmd_load (for example "-i", "lib").
	LoadFlags []string

	Level  HighlightingLevel
	Method HighlightingMethod

	// DebugCommands logs every IOTCM line written to Agda.
	DebugCommands bool
	// DebugResponses logs every response line read from Agda.
	DebugResponses bool

	// ResponseTimeout bounds each read; zero waits until the stream ends.
	ResponseTimeout time.Duration
	// AbortTimeout bounds the DoneAborting handshake in Shutdown.
	AbortTimeout time.Duration

	Logger   Logger
	Observer Observer
}

// Logger receives session diagnostics.
type Logger interface {
	Debug(format string, args ...any)
	Warn(format string, args ...any)
}

// Observer sees every line of the conversation as it happens.
type Observer interface {
	Command(line string)
	Response(line []byte, err error)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Warn(string, ...any)  {}

func (o Options) args() []string {
	if len(o.Args) > 0 {
		return o.Args
	}
	return DefaultArgs
}

func (o Options) abortTimeout() time.Duration {
	if o.AbortTimeout > 0 {
		return o.AbortTimeout
	}
	return DefaultAbortTimeout
}

func (o Options) logger() Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return nopLogger{}
}
