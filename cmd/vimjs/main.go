// Package main is the entry point for the vimjs editor.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/vimjs/vimjs/internal/applog"
	"github.com/vimjs/vimjs/internal/editor"
	"github.com/vimjs/vimjs/internal/pathcfg"
	"github.com/vimjs/vimjs/internal/termio"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	cfg := pathcfg.Load(opts)
	log := applog.New(applog.Config{
		Level:  applog.ParseLevel(cfg.LogFilter),
		Output: os.Stderr,
		Prefix: "vimjs",
	})

	writer, err := newWriter(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create terminal: %v\n", err)
		return 1
	}

	ed := editor.New(cfg, writer, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signals
		cancel()
	}()

	return ed.Run(ctx)
}

// newWriter selects the concrete termio.TerminalWriter variant: a real
// tcell-backed terminal, or the in-memory HeadlessWriter for scripted/
// non-interactive sessions. NullWriter has no flag of its own since
// nothing in the CLI surface needs a silently-discarding writer; it
// remains available to embedders of internal/termio directly.
func newWriter(cfg pathcfg.Config) (termio.TerminalWriter, error) {
	if cfg.Headless {
		return termio.NewHeadlessWriter(80, 24), nil
	}
	return termio.NewTcellWriter()
}

func parseFlags() pathcfg.Options {
	var opts pathcfg.Options
	var showVersion bool
	var showHelp bool

	flag.BoolVar(&opts.Headless, "headless", false, "run without a real terminal (scripted sessions, tests)")
	flag.BoolVar(&showVersion, "version", false, "show version information")
	flag.BoolVar(&showVersion, "v", false, "show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "show help message")
	flag.BoolVar(&showHelp, "h", false, "show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "vimjs - a modal text editor scripted in JavaScript/TypeScript\n\n")
		fmt.Fprintf(os.Stderr, "Usage: vimjs [options] [files...]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}
	if showVersion {
		fmt.Printf("vimjs %s (commit %s, built %s)\n", version, commit, date)
		os.Exit(0)
	}

	opts.Files = flag.Args()
	return opts
}
