// ABOUTME: CLI flag parsing using stdlib flag package
// ABOUTME: Supports -agda, -plain, -debug-command, -debug-response, -verbose, -transcript, -timeout, -version

package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/mauromedda/agda-tac-go/internal/config"
)

type cliArgs struct {
	agda           string
	plain          bool
	debugCommands  bool
	debugResponses bool
	verbose        bool
	transcript     string
	timeout        time.Duration
	version        bool
	file           string
}

var errUsage = errors.New("usage: agda-tac [flags] FILE.agda")

func parseFlags(argv []string, stderr io.Writer) (cliArgs, error) {
	var args cliArgs

	fs := flag.NewFlagSet("agda-tac", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&args.agda, "agda", "", "Agda executable (default \"agda\" on PATH)")
	fs.BoolVar(&args.plain, "plain", false, "Plain output without colors or wrapping")
	fs.BoolVar(&args.debugCommands, "debug-command", false, "Log every command sent to Agda")
	fs.BoolVar(&args.debugResponses, "debug-response", false, "Log every response read from Agda")
	fs.BoolVar(&args.verbose, "verbose", false, "Enable debug logging")
	fs.StringVar(&args.transcript, "transcript", "", "Append the conversation to this JSONL file")
	fs.DurationVar(&args.timeout, "timeout", 0, "Give up waiting for a response after this long (0 waits forever)")
	fs.BoolVar(&args.version, "version", false, "Show version and exit")
	fs.Usage = func() {
		fmt.Fprintln(stderr, errUsage)
		fs.PrintDefaults()
	}

	if err := fs.Parse(argv); err != nil {
		return cliArgs{}, err
	}
	if args.version {
		return args, nil
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return cliArgs{}, errUsage
	}
	args.file = fs.Arg(0)
	return args, nil
}

// apply layers the flags over the loaded settings. Flags only switch
// things on; they never clear a configured value.
func (a cliArgs) apply(s *config.Settings) {
	if a.agda != "" {
		s.Agda = a.agda
	}
	if a.transcript != "" {
		s.Transcript = a.transcript
	}
	if a.timeout > 0 {
		s.ResponseTimeout = a.timeout
	}
	s.Plain = s.Plain || a.plain
	s.Verbose = s.Verbose || a.verbose
	s.DebugCommands = s.DebugCommands || a.debugCommands
	s.DebugResponses = s.DebugResponses || a.debugResponses
}
