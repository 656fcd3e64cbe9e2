package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/marmos91/fshandler/internal/logger"
	"github.com/marmos91/fshandler/pkg/config"
	"github.com/marmos91/fshandler/pkg/facade"
	flag "github.com/spf13/pflag"
)

const usage = `fshandler - storage abstraction over local disk and object stores

Usage:
  fshandler [--config FILE] [--log-level LEVEL] <command> [flags] [args]

Commands:
  init [--force]                       Write a default config file
  health                               Probe the configured backend
  stat PATH                            Print metadata as JSON
  ls [-r] [--glob PATTERN] [DIR]       List a directory as JSON
  mkdir PATH                           Create a directory (and parents)
  touch PATH                           Create an empty file
  cat PATH                             Print file content
  put PATH [--append] [--from FILE]    Write stdin (or FILE) to PATH
  mv SRC DST                           Move a file or directory
  rename PATH NAME                     Rename within the parent directory
  rm PATH                              Delete a file or directory tree
  watch [--interval D] [--metrics-port N]
                                       Probe health periodically and serve metrics
`

// errUsage marks argument errors; main prints the usage text for them.
var errUsage = errors.New("invalid usage")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprint(os.Stderr, usage)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// globalOptions are the flags accepted before the command name.
type globalOptions struct {
	configPath string
	logLevel   string
}

// run parses the global flags and dispatches to the command.
func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	var opts globalOptions

	flags := flag.NewFlagSet("fshandler", flag.ContinueOnError)
	flags.SetOutput(io.Discard)
	flags.SetInterspersed(false)
	flags.StringVar(&opts.configPath, "config", "", "Path to config file (default $XDG_CONFIG_HOME/fshandler/config.yaml)")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level override (DEBUG, INFO, WARN, ERROR)")

	if err := flags.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if flags.NArg() == 0 {
		return fmt.Errorf("%w: missing command", errUsage)
	}

	name, cmdArgs := flags.Arg(0), flags.Args()[1:]

	if name == "init" {
		return runInit(opts, cmdArgs, stdout)
	}

	cmd, ok := commands[name]
	if !ok {
		return fmt.Errorf("%w: unknown command %q", errUsage, name)
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	env := &commandEnv{cfg: cfg, stdin: stdin, stdout: stdout}
	if name == "watch" {
		// watch owns metrics initialization, it may enable them from flags
		return cmd(ctx, env, cmdArgs)
	}

	fs, err := config.CreateFilesystem(ctx, cfg, nil)
	if err != nil {
		return fmt.Errorf("failed to create filesystem: %w", err)
	}
	defer func() {
		if err := fs.Close(); err != nil {
			logger.Warn("Failed to close filesystem: %v", err)
		}
	}()

	env.fs = fs
	return cmd(ctx, env, cmdArgs)
}

// loadConfig loads the configuration and applies it to the logger.
func loadConfig(opts globalOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}

	logger.SetLevel(cfg.Logging.Level)
	if err := logger.SetFormat(cfg.Logging.Format); err != nil {
		return nil, err
	}
	if err := logger.SetOutput(cfg.Logging.Output); err != nil {
		return nil, err
	}

	logger.Debug("Configuration loaded: storage=%s", cfg.Storage.Type)
	return cfg, nil
}

// runInit writes a default config to --config or the default location.
func runInit(opts globalOptions, args []string, stdout io.Writer) error {
	flags := flag.NewFlagSet("init", flag.ContinueOnError)
	flags.SetOutput(io.Discard)
	force := flags.Bool("force", false, "Overwrite an existing config file")
	if err := flags.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	path := opts.configPath
	if path == "" {
		var err error
		if path, err = config.InitConfig(*force); err != nil {
			return err
		}
	} else if err := config.InitConfigToPath(path, *force); err != nil {
		return err
	}

	_, err := fmt.Fprintf(stdout, "Config written to %s\n", path)
	return err
}

// commandEnv carries what commands need. fs is nil for watch.
type commandEnv struct {
	cfg    *config.Config
	fs     *facade.Filesystem
	stdin  io.Reader
	stdout io.Writer
}

type command func(ctx context.Context, env *commandEnv, args []string) error

var commands = map[string]command{
	"health": runHealth,
	"stat":   runStat,
	"ls":     runList,
	"mkdir":  runMkdir,
	"touch":  runTouch,
	"cat":    runCat,
	"put":    runPut,
	"mv":     runMove,
	"rename": runRename,
	"rm":     runDelete,
	"watch":  runWatch,
}
