// ABOUTME: Process session: spawns agda --interaction-json and drives a half-duplex conversation
// ABOUTME: Responses are read line by line from stdout; correlation is purely by order

package agda

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

const maxScannerBuffer = 10 * 1024 * 1024 // 10MB

// State is the session lifecycle position.
type State int

const (
	StateNotStarted State = iota
	StateRunning
	StateAborting
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateAborting:
		return "aborting"
	case StateStopped:
		return "stopped"
	default:
		return "not started"
	}
}

// ErrNotStarted is returned when a zero Session is used.
var ErrNotStarted = errors.New("agda session not started")

type lineResult struct {
	data []byte
	err  error
}

// Session owns one Agda process for one tracked file. It is driven by a
// single goroutine: one command is in flight at a time and the caller
// consumes its responses before sending the next.
type Session struct {
	file string
	opts Options
	log  Logger

	cmd    *exec.Cmd
	stdin  io.WriteCloser
	writer *bufio.Writer
	lines  chan lineResult
	done   chan struct{}
	group  *errgroup.Group

	state     State
	closeOnce sync.Once
	closeErr  error
}

// Start launches program in JSON interaction mode for file. ctx only guards
// the launch: the process lives until Shutdown or Close.
func Start(ctx context.Context, program, file string, opts Options) (*Session, error) {
	abs, err := filepath.Abs(file)
	if err != nil {
		return nil, &StartError{Program: program, Err: fmt.Errorf("resolving %s: %w", file, err)}
	}

	if err := ctx.Err(); err != nil {
		return nil, &StartError{Program: program, Err: err}
	}

	cmd := exec.Command(program, opts.args()...)
	cmd.Dir = filepath.Dir(abs)
	if len(opts.Env) > 0 {
		cmd.Env = opts.Env
	}

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, &StartError{Program: program, Err: fmt.Errorf("creating stdin pipe: %w", err)}
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, &StartError{Program: program, Err: fmt.Errorf("creating stdout pipe: %w", err)}
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, &StartError{Program: program, Err: fmt.Errorf("creating stderr pipe: %w", err)}
	}

	if err := cmd.Start(); err != nil {
		return nil, &StartError{Program: program, Err: err}
	}

	s := attach(stdin, stdout, abs, opts)
	s.cmd = cmd
	s.group.Go(func() error {
		s.drainStderr(stderr)
		return nil
	})
	s.log.Debug("started %s %v (pid %d) for %s", program, opts.args(), cmd.Process.Pid, abs)
	return s, nil
}

// NewSession runs the conversation over existing streams, for instance an
// Agda reached through another transport. Shutdown closes stdin.
func NewSession(stdin io.WriteCloser, stdout io.Reader, file string, opts Options) *Session {
	return attach(stdin, stdout, file, opts)
}

func attach(stdin io.WriteCloser, stdout io.Reader, file string, opts Options) *Session {
	s := &Session{
		file:   file,
		opts:   opts,
		log:    opts.logger(),
		stdin:  stdin,
		writer: bufio.NewWriter(stdin),
		lines:  make(chan lineResult),
		done:   make(chan struct{}),
		group:  &errgroup.Group{},
		state:  StateRunning,
	}
	s.group.Go(func() error {
		s.readStdout(stdout)
		return nil
	})
	return s
}

// File is the tracked source file sent in every IOTCM envelope.
func (s *Session) File() string { return s.file }

// State reports the lifecycle position.
func (s *Session) State() State { return s.state }

// Command writes one IOTCM line and flushes it. Cmd_abort moves the session
// to the aborting state, after which only further aborts are accepted.
func (s *Session) Command(ctx context.Context, c Cmd) error {
	switch s.state {
	case StateNotStarted:
		return ErrNotStarted
	case StateStopped:
		return ErrSessionStopped
	case StateAborting:
		if _, ok := c.(CmdAbort); !ok {
			return ErrAborting
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.write(c)
}

func (s *Session) write(c Cmd) error {
	line := IOTCM{File: s.file, Level: s.opts.Level, Method: s.opts.Method, Cmd: c}.String()
	if s.opts.DebugCommands {
		s.log.Debug("agda <- %s", line)
	}
	if s.opts.Observer != nil {
		s.opts.Observer.Command(line)
	}

	if _, err := s.writer.WriteString(line + "\n"); err != nil {
		return s.fail("write", err)
	}
	if err := s.writer.Flush(); err != nil {
		return s.fail("write", err)
	}

	if _, ok := c.(CmdAbort); ok {
		s.state = StateAborting
	}
	return nil
}

// ReloadFile sends Cmd_load for the tracked file.
func (s *Session) ReloadFile(ctx context.Context) error {
	return s.Command(ctx, LoadCmd(s.file, s.opts.LoadFlags...))
}

// Abort asks Agda to cancel the running computation. Shutdown completes the
// handshake by waiting for DoneAborting. Abort does nothing once the session
// is already aborting.
func (s *Session) Abort(ctx context.Context) error {
	if s.state == StateAborting {
		return nil
	}
	return s.Command(ctx, CmdAbort{})
}

// NextResponse blocks until the next response line. A *DecodeError leaves the
// session usable; any other error ends it. A canceled ctx sends Cmd_abort,
// after which only Shutdown remains. A response timeout stops the session.
func (s *Session) NextResponse(ctx context.Context) (Resp, error) {
	switch s.state {
	case StateNotStarted:
		return nil, ErrNotStarted
	case StateStopped:
		return nil, ErrSessionStopped
	}

	line, err := s.readLine(ctx)
	if err != nil {
		return nil, err
	}
	if s.opts.DebugResponses {
		s.log.Debug("agda -> %s", line)
	}

	resp, err := DecodeResp(line)
	if s.opts.Observer != nil {
		s.opts.Observer.Response(line, err)
	}
	if err != nil {
		return nil, err
	}

	if _, ok := resp.(RespDoneAborting); ok && s.state == StateAborting {
		s.state = StateStopped
	}
	return resp, nil
}

// NextDisplayInfo discards responses until a DisplayInfo arrives.
func (s *Session) NextDisplayInfo(ctx context.Context) (DisplayInfo, error) {
	for {
		resp, err := s.nextDecoded(ctx)
		if err != nil {
			return nil, err
		}
		if d, ok := resp.(RespDisplayInfo); ok {
			return d.Info, nil
		}
	}
}

// NextGoals consumes the responses of a load until the interaction points
// arrive. An Error display info ends the wait with an *ExternalError; errors
// that do not stop the load, such as failed termination checks, are
// collected in the result.
func (s *Session) NextGoals(ctx context.Context) (LoadResult, error) {
	var errs []string
	for {
		resp, err := s.nextDecoded(ctx)
		if err != nil {
			return LoadResult{}, err
		}
		switch v := resp.(type) {
		case RespInteractionPoints:
			return LoadResult{Points: v.Points, Errors: strings.Join(errs, "\n")}, nil
		case RespDisplayInfo:
			if e, ok := v.Info.(InfoError); ok {
				return LoadResult{}, &ExternalError{Message: string(e.Message)}
			}
			if msg, ok := ErrorText(v.Info); ok {
				s.log.Debug("agda reported errors: %s", msg)
				errs = append(errs, msg)
			}
		}
	}
}

// nextDecoded reads responses, skipping lines that do not decode.
func (s *Session) nextDecoded(ctx context.Context) (Resp, error) {
	for {
		resp, err := s.NextResponse(ctx)
		var decodeErr *DecodeError
		if errors.As(err, &decodeErr) {
			s.log.Warn("skipping response: %v", err)
			continue
		}
		return resp, err
	}
}

// Shutdown ends the conversation. It requires a prior Abort: from the
// aborting state it waits for DoneAborting (or the end of the stream) before
// closing stdin and waiting for the process. Calling it again returns the
// first result.
func (s *Session) Shutdown(ctx context.Context) error {
	switch s.state {
	case StateNotStarted:
		return ErrNotStarted
	case StateRunning:
		return ErrNotAborted
	case StateAborting:
		if err := s.awaitDoneAborting(ctx); err != nil {
			_ = s.teardown(ctx, true)
			return fmt.Errorf("awaiting DoneAborting: %w", err)
		}
	}
	return s.teardown(ctx, false)
}

// Close kills the process without the abort handshake. It is meant for
// fatal paths and deferred cleanup.
func (s *Session) Close() error {
	if s.state == StateNotStarted {
		return nil
	}
	return s.teardown(context.Background(), true)
}

func (s *Session) awaitDoneAborting(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.opts.abortTimeout())
	defer cancel()
	for s.state == StateAborting {
		_, err := s.nextDecoded(ctx)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) teardown(ctx context.Context, kill bool) error {
	s.closeOnce.Do(func() {
		s.state = StateStopped
		close(s.done)
		if kill && s.cmd != nil && s.cmd.Process != nil {
			_ = s.cmd.Process.Kill()
		}
		closeErr := s.stdin.Close()

		waited := make(chan error, 1)
		go func() {
			err := s.group.Wait()
			if s.cmd != nil {
				var exitErr *exec.ExitError
				if werr := s.cmd.Wait(); werr != nil && !errors.As(werr, &exitErr) && err == nil {
					err = werr
				}
			}
			waited <- err
		}()

		select {
		case err := <-waited:
			s.closeErr = errors.Join(closeErr, err)
		case <-ctx.Done():
			if s.cmd != nil && s.cmd.Process != nil {
				_ = s.cmd.Process.Kill()
			}
			s.closeErr = fmt.Errorf("waiting for agda to exit: %w", ctx.Err())
		}
		if kill {
			// The caller asked for a kill; pipe errors from it are expected.
			s.closeErr = nil
		}
	})
	return s.closeErr
}

func (s *Session) fail(op string, err error) error {
	s.state = StateStopped
	return &IOError{Op: op, Err: err}
}

func (s *Session) readLine(ctx context.Context) ([]byte, error) {
	var timeout <-chan time.Time
	if s.opts.ResponseTimeout > 0 {
		timer := time.NewTimer(s.opts.ResponseTimeout)
		defer timer.Stop()
		timeout = timer.C
	}

	select {
	case res, ok := <-s.lines:
		if !ok {
			return nil, s.fail("read", io.EOF)
		}
		if res.err != nil {
			return nil, s.fail("read", res.err)
		}
		return res.data, nil
	case <-ctx.Done():
		return nil, s.interrupt(ctx.Err())
	case <-timeout:
		return nil, s.fail("read", ErrResponseTimeout)
	}
}

// interrupt gives up on the pending reply. It may still arrive, so a running
// session sends Cmd_abort and later reads only drain up to DoneAborting.
func (s *Session) interrupt(err error) error {
	if s.state != StateRunning {
		return s.fail("read", err)
	}
	if werr := s.write(CmdAbort{}); werr != nil {
		return werr
	}
	s.log.Debug("read canceled, sent Cmd_abort")
	return &IOError{Op: "read", Err: err}
}

// readStdout forwards non-empty lines until EOF. After teardown lines are
// still drained so the process never blocks on a full pipe.
func (s *Session) readStdout(stdout io.Reader) {
	defer close(s.lines)

	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), maxScannerBuffer)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(trimPrompt(line)) == 0 {
			continue
		}
		select {
		case s.lines <- lineResult{data: clone(line)}:
		case <-s.done:
		}
	}
	if err := scanner.Err(); err != nil {
		select {
		case s.lines <- lineResult{err: err}:
		case <-s.done:
		}
	}
}

func (s *Session) drainStderr(stderr io.Reader) {
	scanner := bufio.NewScanner(stderr)
	for scanner.Scan() {
		s.log.Debug("agda stderr: %s", scanner.Text())
	}
}
