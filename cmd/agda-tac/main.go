// ABOUTME: CLI entry point for agda-tac: an interactive goal REPL over agda --interaction-json
// ABOUTME: Loads config, applies flags, starts Agda and hands the session to the REPL

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/mauromedda/agda-tac-go/internal/buffer"
	"github.com/mauromedda/agda-tac-go/internal/config"
	"github.com/mauromedda/agda-tac-go/internal/display"
	"github.com/mauromedda/agda-tac-go/internal/log"
	"github.com/mauromedda/agda-tac-go/internal/repl"
	"github.com/mauromedda/agda-tac-go/internal/transcript"
	"github.com/mauromedda/agda-tac-go/pkg/agda"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	args, err := parseFlags(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		os.Exit(2)
	}

	if args.version {
		fmt.Printf("agda-tac %s (%s) built %s\n", version, commit, date)
		os.Exit(0)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, args)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// run wires config, buffer, transcript and session, then drives the REPL.
func run(ctx context.Context, args cliArgs) error {
	file, err := filepath.Abs(args.file)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", args.file, err)
	}
	root := filepath.Dir(file)

	cfg, err := config.Load(root)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	args.apply(cfg)

	logger := log.New(os.Stderr, log.LevelInfo)
	if cfg.Verbose || cfg.DebugCommands || cfg.DebugResponses {
		logger.SetLevel(log.LevelDebug)
	}

	buf, err := buffer.Open(file)
	if err != nil {
		return err
	}

	loadFlags, err := cfg.LoadFlags(root)
	if err != nil {
		return fmt.Errorf("expanding include paths: %w", err)
	}

	opts := agda.Options{
		Args:            cfg.Args,
		Env:             cfg.Environ(os.Environ()),
		LoadFlags:       loadFlags,
		DebugCommands:   cfg.DebugCommands,
		DebugResponses:  cfg.DebugResponses,
		ResponseTimeout: cfg.ResponseTimeout,
		AbortTimeout:    cfg.AbortTimeout,
		Logger:          logger,
	}

	if cfg.Transcript != "" {
		tw, err := openTranscript(cfg, buf.Path(), opts.Args)
		if err != nil {
			return err
		}
		defer func() {
			if err := tw.Close(); err != nil {
				logger.Warn("transcript: %v", err)
			}
		}()
		opts.Observer = tw
	}

	sess, err := agda.Start(ctx, cfg.Agda, buf.Path(), opts)
	if err != nil {
		return err
	}
	// Kills Agda only when the REPL did not finish the abort handshake.
	defer sess.Close()

	mode := display.ModeAuto
	if cfg.Plain {
		mode = display.ModePlain
	}
	printer := display.New(os.Stdout, os.Stderr, display.Options{
		Mode:  mode,
		Light: cfg.Theme == "light",
	})

	r := repl.New(repl.Config{
		Session: sess,
		Buffer:  buf,
		Printer: printer,
		Out:     os.Stdout,
		Logger:  logger,
	})
	err = r.Run(ctx, os.Stdin)
	if errors.Is(err, context.Canceled) {
		logger.Debug("interrupted")
		return nil
	}
	return err
}

func openTranscript(cfg *config.Settings, file string, agdaArgs []string) (*transcript.Writer, error) {
	path := transcriptPath(cfg.Transcript)
	tw, err := transcript.Create(path)
	if err != nil {
		return nil, err
	}
	cwd, _ := os.Getwd()
	if len(agdaArgs) == 0 {
		agdaArgs = agda.DefaultArgs
	}
	if err := tw.Start(transcript.SessionStartData{
		File: file,
		Agda: cfg.Agda,
		Args: agdaArgs,
		CWD:  cwd,
	}); err != nil {
		_ = tw.Close()
		return nil, fmt.Errorf("writing transcript header: %w", err)
	}
	return tw, nil
}

// transcriptPath places relative names under the global transcripts directory.
func transcriptPath(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(config.TranscriptsDir(), name)
}
