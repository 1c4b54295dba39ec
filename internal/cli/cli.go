package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/google/uuid"
	"github.com/pfrederiksen/atcoder-submissions/internal/config"
	"github.com/pfrederiksen/atcoder-submissions/internal/logger"
	"github.com/spf13/cobra"
)

const (
	ExitSuccess        = 0
	ExitError          = 1
	ExitNewSubmissions = 2
)

// app holds state shared by the commands of one invocation
type app struct {
	cfg      *config.Config
	exitCode int

	envFile  string
	dataDir  string
	logLevel string
}

// NewRootCmd creates the root command with all subcommands attached
func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{})
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "atcoder-submissions",
		Short: "Scrape AtCoder contest submissions",
		Long: `A CLI tool to scrape AtCoder contest submission lists.
Tracks submissions across runs and reports only those added since the last crawl.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	cmd.PersistentFlags().StringVar(&a.envFile, "env-file", "", "Load settings from this .env file (default .env if present)")
	cmd.PersistentFlags().StringVar(&a.dataDir, "data-dir", "", "Data directory for snapshots (overrides ATCODER_DATA_DIR)")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides ATCODER_LOG_LEVEL)")

	cmd.AddCommand(newCrawlCmd(a))
	cmd.AddCommand(newParseCmd(a))
	cmd.AddCommand(newPagesCmd(a))

	return cmd
}

// setup loads configuration and installs the logger before any subcommand runs
func (a *app) setup(cmd *cobra.Command, args []string) error {
	var envFiles []string
	if a.envFile != "" {
		if _, err := os.Stat(a.envFile); err != nil {
			return fmt.Errorf("env file: %w", err)
		}
		envFiles = append(envFiles, a.envFile)
	}

	cfg, err := config.Load(envFiles...)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if a.dataDir != "" {
		cfg.DataDir = a.dataDir
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	a.cfg = cfg

	log := logger.New(logger.ParseLevel(cfg.LogLevel), cmd.ErrOrStderr()).With(logger.Fields{
		"run_id":  uuid.NewString(),
		"command": cmd.Name(),
	})
	logger.SetDefault(log)

	return nil
}

// Run executes the CLI with args and returns the process exit code
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := &app{}
	cmd := newRootCmd(a)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return ExitError
	}
	return a.exitCode
}

// Execute runs the CLI and exits the process
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
