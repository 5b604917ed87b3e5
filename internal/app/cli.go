package app

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	config "create-thread/internal/config"
	"create-thread/internal/launcher"
	"create-thread/internal/logger"
	"create-thread/internal/report"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var version = "dev"

var (
	exitFn           = os.Exit
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

type exitError struct {
	code int
}

func (e exitError) Error() string {
	return fmt.Sprintf("exit %d", e.code)
}

type cliOptions struct {
	Message string
	Delay   string
	Format  string

	Cleanup    bool
	Version    bool
	ConfigFile string
}

// Run is the program entrypoint for cmd/create-thread/main.go.
func Run() {
	exitFn(run(os.Args[1:]))
}

func run(args []string) int {
	cmd := newRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	if err := cmd.Execute(); err != nil {
		var ee exitError
		if errors.As(err, &ee) {
			return ee.code
		}
		fmt.Fprintf(stderr, "ERROR: %v\n", err)
		return 1
	}
	return 0
}

func newRootCommand() *cobra.Command {
	name := logger.ToolName
	opts := &cliOptions{}

	cmd := &cobra.Command{
		Use:           name,
		Short:         "Spawn one worker thread, report process identity and join it",
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Version {
				fmt.Fprintf(stdout, "%s version %s\n", name, version)
				return nil
			}
			if opts.Cleanup {
				return codeToError(runCleanupMode())
			}

			exitCode := runWithLoggerAndCleanup(func() int {
				v, err := config.NewViper(opts.ConfigFile)
				if err != nil {
					logger.LogError(err.Error())
					fmt.Fprintf(stderr, "ERROR: %v\n", err)
					return 1
				}

				cfg, err := buildConfig(cmd, opts, v)
				if err != nil {
					logger.LogError(err.Error())
					fmt.Fprintf(stderr, "ERROR: %v\n", err)
					return 1
				}
				logger.LogInfo(fmt.Sprintf("Parsed config: message_len=%d, delay=%s, format=%s", len(cfg.Message), cfg.Delay, cfg.Format))
				return runLaunch(cfg)
			})
			return codeToError(exitCode)
		},
	}
	cmd.CompletionOptions.DisableDefaultCmd = true

	addRootFlags(cmd.Flags(), opts)
	cmd.AddCommand(newVersionCommand(name), newCleanupCommand())

	return cmd
}

func addRootFlags(fs *pflag.FlagSet, opts *cliOptions) {
	fs.StringVar(&opts.ConfigFile, "config", "", "Config file path (default: $HOME/.create-thread/config.*)")
	fs.BoolVarP(&opts.Version, "version", "v", false, "Print version and exit")
	fs.BoolVar(&opts.Cleanup, "cleanup", false, "Clean up old logs and exit")

	fs.StringVar(&opts.Message, "message", config.DefaultMessage, "Message handed to the worker thread")
	fs.StringVar(&opts.Delay, "delay", config.DefaultDelay.String(), "How long the worker sleeps (Go duration or seconds)")
	fs.StringVar(&opts.Format, "format", report.FormatText, "Output format (text, json)")
}

func newVersionCommand(name string) *cobra.Command {
	return &cobra.Command{
		Use:           "version",
		Short:         "Print version and exit",
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(stdout, "%s version %s\n", name, version)
			return nil
		},
	}
}

func newCleanupCommand() *cobra.Command {
	return &cobra.Command{
		Use:           "cleanup",
		Short:         "Clean up old logs and exit",
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return codeToError(runCleanupMode())
		},
	}
}

func codeToError(code int) error {
	if code == 0 {
		return nil
	}
	return exitError{code: code}
}

// buildConfig layers flags over viper (env, config file) over defaults. An
// explicitly set flag always wins.
func buildConfig(cmd *cobra.Command, opts *cliOptions, v *viper.Viper) (*config.Config, error) {
	cfg := config.Default()

	if cmd.Flags().Changed("message") {
		cfg.Message = opts.Message
	} else if v.IsSet("message") {
		cfg.Message = v.GetString("message")
	}

	rawDelay := ""
	if cmd.Flags().Changed("delay") {
		rawDelay = strings.TrimSpace(opts.Delay)
		if rawDelay == "" {
			return nil, fmt.Errorf("--delay flag requires a value")
		}
	} else if v.IsSet("delay") {
		rawDelay = v.GetString("delay")
	}
	if rawDelay != "" {
		d, err := config.ParseDelay(rawDelay)
		if err != nil {
			return nil, fmt.Errorf("--delay flag invalid value: %w", err)
		}
		cfg.Delay = d
	}

	rawFormat := cfg.Format
	if cmd.Flags().Changed("format") {
		rawFormat = opts.Format
	} else if val := strings.TrimSpace(v.GetString("format")); val != "" {
		rawFormat = val
	}
	format, err := report.ParseFormat(rawFormat)
	if err != nil {
		return nil, fmt.Errorf("--format flag invalid value: %w", err)
	}
	cfg.Format = format

	return cfg, nil
}

func runLaunch(cfg *config.Config) int {
	r, err := report.New(stdout, cfg.Format)
	if err != nil {
		logger.LogError(err.Error())
		fmt.Fprintf(stderr, "ERROR: %v\n", err)
		return 1
	}

	l := launcher.New(r, cfg.Delay)
	if _, _, err := l.Run(cfg.Message); err != nil {
		logger.LogError(err.Error())
		fmt.Fprintf(stderr, "FATAL: %v\n", err)
		return 1
	}
	return 0
}

func runWithLoggerAndCleanup(fn func() int) (exitCode int) {
	log, err := logger.NewLogger()
	if err != nil {
		// The log file is diagnostics only; the run goes ahead without it.
		fmt.Fprintf(stderr, "WARN: failed to initialize logger: %v\n", err)
		return fn()
	}
	logger.SetLogger(log)

	defer func() {
		log.Flush()
		if err := logger.CloseLogger(); err != nil {
			fmt.Fprintf(stderr, "ERROR: failed to close logger: %v\n", err)
		}

		if exitCode != 0 {
			if entries := log.ExtractRecentErrors(10); len(entries) > 0 {
				fmt.Fprintln(stderr, "\n=== Recent Errors ===")
				for _, entry := range entries {
					fmt.Fprintln(stderr, entry)
				}
				fmt.Fprintf(stderr, "Log file: %s (deleted)\n", log.Path())
			}
		}
		_ = log.RemoveLogFile()
	}()

	// Clean up stale logs from previous runs.
	if stats, err := logger.CleanupOldLogs(); err != nil {
		logger.LogWarn(fmt.Sprintf("startup cleanup: %v", err))
	} else if stats.Deleted > 0 {
		logger.LogInfo(fmt.Sprintf("startup cleanup removed %d stale log(s)", stats.Deleted))
	}

	return fn()
}

func runCleanupMode() int {
	stats, err := logger.CleanupOldLogs()
	if err != nil {
		fmt.Fprintf(stderr, "Cleanup failed: %v\n", err)
		return 1
	}

	fmt.Fprintln(stdout, "Cleanup completed")
	fmt.Fprintf(stdout, "Files scanned: %d\n", stats.Scanned)
	fmt.Fprintf(stdout, "Files deleted: %d\n", stats.Deleted)
	for _, f := range stats.DeletedFiles {
		fmt.Fprintf(stdout, "  - %s\n", f)
	}
	fmt.Fprintf(stdout, "Files kept: %d\n", stats.Kept)
	if stats.Errors > 0 {
		fmt.Fprintf(stdout, "Deletion errors: %d\n", stats.Errors)
	}
	return 0
}
