package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/marmos91/fshandler/internal/logger"
	"github.com/marmos91/fshandler/pkg/config"
	"github.com/marmos91/fshandler/pkg/store"
	flag "github.com/spf13/pflag"
)

// parseArgs parses command flags and checks the positional count range.
func parseArgs(name string, flags *flag.FlagSet, args []string, minArgs, maxArgs int) ([]string, error) {
	flags.SetOutput(io.Discard)
	if err := flags.Parse(args); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", errUsage, name, err)
	}
	rest := flags.Args()
	if len(rest) < minArgs || len(rest) > maxArgs {
		return nil, fmt.Errorf("%w: %s: expected %d to %d arguments, got %d",
			errUsage, name, minArgs, maxArgs, len(rest))
	}
	return rest, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func runHealth(ctx context.Context, env *commandEnv, args []string) error {
	if _, err := parseArgs("health", flag.NewFlagSet("health", flag.ContinueOnError), args, 0, 0); err != nil {
		return err
	}

	if !env.fs.IsHealthy(ctx) {
		return fmt.Errorf("%s backend is unhealthy", env.fs.Kind())
	}
	_, err := fmt.Fprintf(env.stdout, "%s backend is healthy\n", env.fs.Kind())
	return err
}

func runStat(ctx context.Context, env *commandEnv, args []string) error {
	rest, err := parseArgs("stat", flag.NewFlagSet("stat", flag.ContinueOnError), args, 1, 1)
	if err != nil {
		return err
	}

	meta, err := env.fs.GetMetadata(ctx, rest[0])
	if err != nil {
		return err
	}
	return printJSON(env.stdout, meta)
}

func runList(ctx context.Context, env *commandEnv, args []string) error {
	flags := flag.NewFlagSet("ls", flag.ContinueOnError)
	recursive := flags.BoolP("recursive", "r", false, "List the whole subtree")
	glob := flags.String("glob", "", "Keep entries whose name matches the pattern")

	rest, err := parseArgs("ls", flags, args, 0, 1)
	if err != nil {
		return err
	}

	dir := ""
	if len(rest) == 1 {
		dir = rest[0]
	}

	filter, err := store.GlobFilter(*glob)
	if err != nil {
		return err
	}

	var entries []store.FileMetadata
	if *recursive {
		entries, err = env.fs.ListRecursive(ctx, dir, filter)
	} else {
		entries, err = env.fs.List(ctx, dir, filter)
	}
	if err != nil {
		return err
	}
	if entries == nil {
		entries = []store.FileMetadata{}
	}
	return printJSON(env.stdout, entries)
}

func runMkdir(ctx context.Context, env *commandEnv, args []string) error {
	rest, err := parseArgs("mkdir", flag.NewFlagSet("mkdir", flag.ContinueOnError), args, 1, 1)
	if err != nil {
		return err
	}

	meta, err := env.fs.CreateDirectory(ctx, rest[0])
	if err != nil {
		return err
	}
	return printJSON(env.stdout, meta)
}

func runTouch(ctx context.Context, env *commandEnv, args []string) error {
	rest, err := parseArgs("touch", flag.NewFlagSet("touch", flag.ContinueOnError), args, 1, 1)
	if err != nil {
		return err
	}

	meta, err := env.fs.CreateFile(ctx, rest[0])
	if err != nil {
		return err
	}
	return printJSON(env.stdout, meta)
}

func runCat(ctx context.Context, env *commandEnv, args []string) error {
	rest, err := parseArgs("cat", flag.NewFlagSet("cat", flag.ContinueOnError), args, 1, 1)
	if err != nil {
		return err
	}

	r, err := env.fs.ReadFile(ctx, rest[0])
	if err != nil {
		return err
	}
	defer func() { _ = r.Close() }()

	_, err = io.Copy(env.stdout, r)
	return err
}

func runPut(ctx context.Context, env *commandEnv, args []string) error {
	flags := flag.NewFlagSet("put", flag.ContinueOnError)
	appendMode := flags.Bool("append", false, "Append instead of overwriting")
	from := flags.String("from", "", "Read content from FILE instead of stdin")

	rest, err := parseArgs("put", flags, args, 1, 1)
	if err != nil {
		return err
	}

	src := env.stdin
	if *from != "" {
		f, err := os.Open(*from)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", *from, err)
		}
		defer func() { _ = f.Close() }()
		src = f
	}

	// Cancelling writeCtx before Close keeps the object store from
	// uploading a partial buffer
	writeCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var w io.WriteCloser
	if *appendMode {
		w, err = env.fs.AppendFile(writeCtx, rest[0])
	} else {
		w, err = env.fs.WriteFile(writeCtx, rest[0])
	}
	if err != nil {
		return err
	}

	n, copyErr := io.Copy(w, src)
	if copyErr != nil {
		cancel()
		_ = w.Close()
		return fmt.Errorf("failed to write %s: %w", rest[0], copyErr)
	}
	if err := w.Close(); err != nil {
		return err
	}

	logger.Debug("Wrote %d bytes to %s", n, rest[0])
	return nil
}

func runMove(ctx context.Context, env *commandEnv, args []string) error {
	rest, err := parseArgs("mv", flag.NewFlagSet("mv", flag.ContinueOnError), args, 2, 2)
	if err != nil {
		return err
	}

	meta, err := env.fs.Move(ctx, rest[0], rest[1])
	if err != nil {
		return err
	}
	return printJSON(env.stdout, meta)
}

func runRename(ctx context.Context, env *commandEnv, args []string) error {
	rest, err := parseArgs("rename", flag.NewFlagSet("rename", flag.ContinueOnError), args, 2, 2)
	if err != nil {
		return err
	}

	meta, err := env.fs.Rename(ctx, rest[0], rest[1])
	if err != nil {
		return err
	}
	return printJSON(env.stdout, meta)
}

func runDelete(ctx context.Context, env *commandEnv, args []string) error {
	rest, err := parseArgs("rm", flag.NewFlagSet("rm", flag.ContinueOnError), args, 1, 1)
	if err != nil {
		return err
	}
	return env.fs.Delete(ctx, rest[0])
}

// runWatch probes backend health every interval until ctx is cancelled,
// serving /metrics and /healthz when metrics are enabled.
func runWatch(ctx context.Context, env *commandEnv, args []string) error {
	flags := flag.NewFlagSet("watch", flag.ContinueOnError)
	interval := flags.Duration("interval", 30*time.Second, "Health probe interval")
	metricsPort := flags.Int("metrics-port", 0, "Serve metrics on this port (enables metrics)")

	if _, err := parseArgs("watch", flags, args, 0, 0); err != nil {
		return err
	}
	if *interval <= 0 {
		return fmt.Errorf("%w: watch: interval must be positive", errUsage)
	}

	if *metricsPort > 0 {
		env.cfg.Metrics.Enabled = true
		env.cfg.Metrics.Port = *metricsPort
	}

	metricsResult := config.InitializeMetrics(env.cfg)

	fs, err := config.CreateFilesystem(ctx, env.cfg, metricsResult.StoreMetrics)
	if err != nil {
		return fmt.Errorf("failed to create filesystem: %w", err)
	}
	defer func() {
		if err := fs.Close(); err != nil {
			logger.Warn("Failed to close filesystem: %v", err)
		}
	}()

	serverDone := make(chan error, 1)
	if srv := metricsResult.NewServer(fs.IsHealthy); srv != nil {
		go func() { serverDone <- srv.Start(ctx) }()
	} else {
		close(serverDone)
	}

	logger.Info("Watching %s backend every %v", fs.Kind(), *interval)

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	healthy := fs.IsHealthy(ctx)
	logger.Info("Backend healthy: %v", healthy)

	for {
		select {
		case <-ctx.Done():
			logger.Info("Shutting down watch...")
			if serverDone == nil {
				return nil
			}
			return <-serverDone
		case err := <-serverDone:
			if err != nil {
				return err
			}
			serverDone = nil
		case <-ticker.C:
			now := fs.IsHealthy(ctx)
			if now != healthy {
				logger.Warn("Backend health changed: %v -> %v", healthy, now)
			} else {
				logger.Debug("Backend healthy: %v", now)
			}
			healthy = now
		}
	}
}
