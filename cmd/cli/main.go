package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/toolsascode/revmig/internal/bootstrap"
	"github.com/toolsascode/revmig/internal/config"
	"github.com/toolsascode/revmig/internal/executor"
	"github.com/toolsascode/revmig/internal/logger"
	"github.com/toolsascode/revmig/migrations"

	"github.com/spf13/cobra"
)

var version = "1.0.0"

// options holds the flags shared by every command. A flag that is set
// overrides the matching REVMIG_* variable.
type options struct {
	dir          string
	backend      string
	host         string
	port         string
	user         string
	database     string
	schema       string
	historyTable string
	timeout      time.Duration
	lockMode     string
	verbose      bool
}

type app struct {
	opts   options
	out    io.Writer
	errOut io.Writer
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{out: out, errOut: errOut}

	rootCmd := &cobra.Command{
		Use:   "revmig",
		Short: "revmig - revision based schema migrations",
		Long: `revmig applies an ordered chain of schema revisions to a database and keeps
the applied history inside that database.

Revisions are read from YAML files and <id>_<name>.up.sql/.down.sql pairs in the
revisions directory. Targets accept full or partial ids, "head", "base" and
relative steps such as "+1", "-2" or "head-1".`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.SetOutput(a.errOut)
			if a.opts.verbose {
				logger.SetLevel(logger.DEBUG)
			}
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&a.opts.dir, "dir", "d", "", "Revisions directory (REVMIG_REVISIONS_DIR)")
	flags.StringVar(&a.opts.backend, "backend", "", "Database backend: postgresql, sqlite or etcd (REVMIG_DB_BACKEND)")
	flags.StringVar(&a.opts.host, "host", "", "Database host (REVMIG_DB_HOST)")
	flags.StringVar(&a.opts.port, "port", "", "Database port (REVMIG_DB_PORT)")
	flags.StringVar(&a.opts.user, "user", "", "Database user (REVMIG_DB_USERNAME)")
	flags.StringVar(&a.opts.database, "database", "", "Database name, or file path for sqlite (REVMIG_DB_NAME)")
	flags.StringVar(&a.opts.schema, "schema", "", "Schema holding the history table (REVMIG_DB_SCHEMA)")
	flags.StringVar(&a.opts.historyTable, "history-table", "", "History table name (REVMIG_HISTORY_TABLE)")
	flags.DurationVar(&a.opts.timeout, "timeout", 0, "Deadline for the whole migration, e.g. 5m (REVMIG_TIMEOUT)")
	flags.StringVar(&a.opts.lockMode, "lock-mode", "", "wait for the migration lock or fail when it is held (REVMIG_LOCK_MODE)")
	flags.BoolVarP(&a.opts.verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(
		a.upgradeCmd(),
		a.downgradeCmd(),
		a.currentCmd(),
		a.historyCmd(),
		a.checkCmd(),
		a.revisionCmd(),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(a.out, "revmig version %s\n", version)
			},
		},
	)
	return rootCmd
}

// loadConfig reads REVMIG_* variables and applies the flags that were set
func (a *app) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("dir") {
		cfg.Revisions.Dir = a.opts.dir
	}
	if flags.Changed("backend") {
		cfg.Database.Backend = a.opts.backend
	}
	if flags.Changed("host") {
		cfg.Database.Host = a.opts.host
	}
	if flags.Changed("port") {
		cfg.Database.Port = a.opts.port
	}
	if flags.Changed("user") {
		cfg.Database.Username = a.opts.user
	}
	if flags.Changed("database") {
		cfg.Database.Database = a.opts.database
	}
	if flags.Changed("schema") {
		cfg.Database.Schema = a.opts.schema
	}
	if flags.Changed("history-table") {
		cfg.History.Table = a.opts.historyTable
	}
	if flags.Changed("timeout") {
		cfg.Runner.Timeout = a.opts.timeout
	}
	if flags.Changed("lock-mode") {
		if a.opts.lockMode != config.LockWait && a.opts.lockMode != config.LockFail {
			return nil, fmt.Errorf("--lock-mode must be %q or %q", config.LockWait, config.LockFail)
		}
		cfg.Runner.LockMode = a.opts.lockMode
	}
	return cfg, nil
}

// open builds the runtime for commands that talk to the database
func (a *app) open(cmd *cobra.Command) (*bootstrap.Runtime, error) {
	cfg, err := a.loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return bootstrap.Open(cfg, migrations.GlobalRegistry)
}

// commandContext is cancelled on SIGINT/SIGTERM and carries the CLI execution context
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	executedBy := os.Getenv("USER")
	if executedBy == "" {
		executedBy = "cli_user"
	}
	return executor.SetExecutionContext(ctx, executedBy, "cli", nil), cancel
}

// printError writes err to w, naming the failing revision and phase when known
func printError(w io.Writer, err error) {
	var actionErr *executor.ActionExecutionError
	if errors.As(err, &actionErr) {
		fmt.Fprintf(w, "Error [%s]: revision %s failed during %s: %v\n", executor.ErrorCode(err), actionErr.Revision, actionErr.Phase, actionErr.Err)
		return
	}
	fmt.Fprintf(w, "Error [%s]: %v\n", executor.ErrorCode(err), err)
}

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(context.Background()); err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}
