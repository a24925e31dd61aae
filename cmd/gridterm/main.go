// Package main is the entry point for gridterm, a character-grid display
// runner.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dshills/gridterm/internal/app"
	"github.com/dshills/gridterm/internal/config"
	"github.com/dshills/gridterm/internal/config/loader"
	"github.com/dshills/gridterm/internal/renderer/backend"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// cliOptions holds the command line flags. String and int flags left at
// their zero value do not override the configuration.
type cliOptions struct {
	ConfigPath string
	ScriptPath string
	Watch      bool
	Headless   bool
	Frames     int
	Snapshot   string
	Scale      int
	LogLevel   string
	LogFile    string
	Print      bool
	Version    bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	if opts.Version {
		fmt.Fprintf(stdout, "gridterm %s\n", version)
		fmt.Fprintf(stdout, "Commit: %s\n", commit)
		fmt.Fprintf(stdout, "Built: %s\n", date)
		return 0
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	if opts.Print {
		printConfig(stdout, cfg)
		return 0
	}

	s := newSession(cfg, opts)
	if err := s.build(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer s.cleanup()

	appOpts, err := s.options()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	application, err := app.New(s.program, s.backend, s.surface, appOpts)
	if err != nil {
		fmt.Fprintf(stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)
	go forwardSignals(ctx, sigs, s.backend, cancel)

	if err := application.Run(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	if s.script != nil && s.script.Err() != nil {
		fmt.Fprintf(stderr, "Error: %v\n", s.script.Err())
		return 1
	}

	if s.canvas != nil && opts.Snapshot != "" {
		if err := s.canvas.SavePNG(opts.Snapshot, opts.Scale); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		s.logger.Info("wrote %s", opts.Snapshot)
	}
	return 0
}

func parseFlags(args []string, stderr io.Writer) (cliOptions, error) {
	var opts cliOptions
	fs := flag.NewFlagSet("gridterm", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&opts.ConfigPath, "config", "", "Path to a TOML or YAML configuration file")
	fs.StringVar(&opts.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	fs.StringVar(&opts.ScriptPath, "script", "", "Lua program to run instead of the built-in demo")
	fs.BoolVar(&opts.Watch, "watch", false, "Reload the script when it changes")
	fs.BoolVar(&opts.Headless, "headless", false, "Render off screen instead of to the terminal")
	fs.IntVar(&opts.Frames, "frames", 0, "Stop after this many frames (headless default 1)")
	fs.StringVar(&opts.Snapshot, "snapshot", "", "Write the last headless frame to this PNG file")
	fs.IntVar(&opts.Scale, "scale", 1, "Snapshot scale factor")
	fs.StringVar(&opts.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&opts.LogFile, "log-file", "", "Write logs to this file")
	fs.BoolVar(&opts.Print, "print-config", false, "Print the effective configuration and exit")
	fs.BoolVar(&opts.Version, "version", false, "Show version information")
	fs.BoolVar(&opts.Version, "v", false, "Show version information (shorthand)")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "gridterm - character grid display runner\n\n")
		fmt.Fprintf(stderr, "Usage: gridterm [options]\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  gridterm                                 Run the demo in the terminal\n")
		fmt.Fprintf(stderr, "  gridterm -script game.lua -watch         Run a script with hot reload\n")
		fmt.Fprintf(stderr, "  gridterm -headless -snapshot out.png     Render one frame to a PNG\n")
	}

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(stderr, "Error: unexpected arguments %v\n", fs.Args())
		fs.Usage()
		return opts, fmt.Errorf("unexpected arguments")
	}
	if opts.Scale < 1 {
		fmt.Fprintf(stderr, "Error: -scale must be at least 1\n")
		return opts, fmt.Errorf("invalid scale %d", opts.Scale)
	}
	if opts.Snapshot != "" && !opts.Headless {
		fmt.Fprintf(stderr, "Error: -snapshot requires -headless\n")
		return opts, fmt.Errorf("snapshot without headless")
	}
	return opts, nil
}

// loadConfig layers the flags over the configuration file and environment.
func loadConfig(opts cliOptions) (*config.Config, error) {
	path := opts.ConfigPath
	if path == "" {
		path = config.DefaultPath(loader.DefaultFS())
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if opts.ScriptPath != "" {
		cfg.Script.Path = opts.ScriptPath
	}
	if opts.Watch {
		cfg.Script.Watch = true
	}
	if opts.Frames > 0 {
		cfg.Loop.MaxFrames = opts.Frames
	}
	if opts.LogLevel != "" {
		cfg.Logging.Level = opts.LogLevel
	}
	if opts.LogFile != "" {
		cfg.Logging.File = opts.LogFile
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// forwardSignals closes the backend on the first signal so the loop sees
// EventClose and exits after the current frame. A second signal cancels the
// run outright.
func forwardSignals(ctx context.Context, sigs <-chan os.Signal, b backend.Backend, cancel context.CancelFunc) {
	closed := false
	for {
		select {
		case <-ctx.Done():
			return
		case <-sigs:
			if closed {
				cancel()
				return
			}
			closed = true
			b.Close()
		}
	}
}

// printConfig writes every setting as "path = value".
func printConfig(w io.Writer, cfg *config.Config) {
	for _, path := range config.Paths() {
		v, err := cfg.Get(path)
		if err != nil {
			continue
		}
		fmt.Fprintf(w, "%s = %v\n", path, v)
	}
}
