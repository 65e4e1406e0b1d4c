package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/Borislavv/ip-dir-counter/internal/config"
	"github.com/Borislavv/ip-dir-counter/internal/count"
	"github.com/Borislavv/ip-dir-counter/internal/logger"
)

const (
	exitOK    = 0
	exitFail  = 1
	exitUsage = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.LookupEnv, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, lookup func(string) (string, bool), stdout, stderr io.Writer) int {
	cfg := config.Default()
	if err := cfg.ApplyEnv(lookup); err != nil {
		_, _ = fmt.Fprintln(stderr, "ERR:", err)
		return exitUsage
	}

	fs := flag.NewFlagSet(filepath.Base(os.Args[0]), flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.IntVar(&cfg.Shards, "shards", cfg.Shards, "address set shards (0: next power of two >= max(workers,16))")
	fs.StringVar(&cfg.Schedule, "schedule", cfg.Schedule, "file assignment: contiguous|cursor")
	fs.IntVar(&cfg.BufKB, "bufKB", cfg.BufKB, "per-worker read buffer in Kb")
	fs.Int64Var(&cfg.RateBytesPerSec, "rate", cfg.RateBytesPerSec, "aggregate read limit in bytes/sec (0: unlimited)")
	fs.BoolVar(&cfg.Progress, "progress", cfg.Progress, "log every scanned file")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug|info|warn|error")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "text|json")
	fs.Usage = func() {
		_, _ = fmt.Fprintf(stderr, "usage: %s [flags] <directory> [workers]\n\nworkers is required unless %s is set\n", fs.Name(), config.EnvWorkers)
		_, _ = fmt.Fprintf(stderr, "flags:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	// <workers> may be omitted when IPDC_WORKERS provides it
	switch {
	case fs.NArg() == 2:
		w, err := strconv.Atoi(fs.Arg(1))
		if err != nil {
			_, _ = fmt.Fprintf(stderr, "ERR: workers %q is not a number\n", fs.Arg(1))
			return exitUsage
		}
		cfg.Workers = w
	case fs.NArg() == 1 && cfg.Workers > 0:
	default:
		fs.Usage()
		return exitUsage
	}
	cfg.Dir = fs.Arg(0)

	if err := cfg.Validate(); err != nil {
		_, _ = fmt.Fprintln(stderr, "ERR:", err)
		return exitUsage
	}
	log, err := logger.New(stderr, cfg.LogFormat, cfg.LogLevel)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, "ERR:", err)
		return exitUsage
	}

	res, err := count.Run(ctx, cfg, log)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, "ERR:", err)
		return exitFail
	}
	_, _ = fmt.Fprintf(stdout, "Unique address count: %d, elapsed: %s.\n", res.Distinct, res.Elapsed.String())
	return exitOK
}
