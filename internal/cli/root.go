// Package cli implements the workbench command-line interface: one command
// group per tool over a shared session.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/workbench/internal/config"
	"github.com/mesh-intelligence/workbench/internal/logging"
	"github.com/mesh-intelligence/workbench/internal/paths"
	"github.com/mesh-intelligence/workbench/internal/reminder"
	"github.com/mesh-intelligence/workbench/internal/render"
	"github.com/mesh-intelligence/workbench/internal/session"
	"github.com/mesh-intelligence/workbench/internal/sqlite"
	"github.com/mesh-intelligence/workbench/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	logLevel  string
	jsonMode  bool
}

// app is the state one invocation shares between commands. The session is
// opened lazily so version and help never touch the store.
type app struct {
	flags    rootFlags
	interval time.Duration

	cfg     *config.Config
	log     zerolog.Logger
	backend *sqlite.Backend
	sess    *session.Session
}

// NewRootCmd creates the top-level "workbench" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{log: zerolog.Nop()})
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "workbench",
		Short: "CV builder, notes, to-do list and calculator on one local store",
		Long: "Workbench bundles four small tools over a single SQLite file:\n" +
			"a CV builder with PDF export, notes, a to-do list with reminders,\n" +
			"and a calculator.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: per-user config dir)")
	pf.StringVar(&a.flags.dataDir, "data-dir", "", "data directory holding app_data.db (default: per-user data dir)")
	pf.StringVar(&a.flags.logLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")
	pf.BoolVar(&a.flags.jsonMode, "json", false, "output in JSON format")

	root.AddCommand(
		newVersionCmd(),
		newInitCmd(a),
		newProfileCmd(a),
		newTaskCmd(a),
		newNoteCmd(a),
		newCalcCmd(a),
		newRemindCmd(a),
		newBackupCmd(a),
		newRestoreCmd(a),
	)
	return root
}

// Execute runs the root command against the process arguments and exits
// with the appropriate code.
func Execute() {
	os.Exit(Run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// Run executes one command line and returns its exit code. Every error is
// reported on stderr here; nothing below this point exits the process.
func Run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	a := &app{log: zerolog.Nop()}
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()
	if closeErr := a.close(); err == nil {
		err = closeErr
	}
	if err == nil {
		return exitSuccess
	}
	msg := err.Error()
	if vm, ok := validationMessage(err); ok {
		msg = vm
	}
	fmt.Fprintf(stderr, "Error: %s\n", msg)
	return exitCode(err)
}

// systemError marks failures of the environment rather than of the input.
type systemError struct{ err error }

func (e *systemError) Error() string { return e.err.Error() }
func (e *systemError) Unwrap() error { return e.err }

func sysErr(format string, args ...any) error {
	return &systemError{err: fmt.Errorf(format, args...)}
}

// exitCode maps an error to 1 for bad input and 2 for store, render or
// environment failures.
func exitCode(err error) int {
	var se *systemError
	switch {
	case types.IsUserError(err):
		return exitUserError
	case errors.As(err, &se), errors.Is(err, types.ErrPersistence), errors.Is(err, types.ErrRender):
		return exitSysError
	default:
		return exitUserError
	}
}

// loadConfig resolves the config directory and reads config.yaml once.
func (a *app) loadConfig() (*config.Config, error) {
	if a.cfg != nil {
		return a.cfg, nil
	}
	dir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return nil, sysErr("resolve config dir: %w", err)
	}
	cfg, err := config.Load(dir)
	if err != nil {
		return nil, sysErr("load config: %w", err)
	}
	a.cfg = cfg
	return cfg, nil
}

// dataDir applies the data directory precedence against the loaded config.
func (a *app) dataDir() (string, error) {
	cfg, err := a.loadConfig()
	if err != nil {
		return "", err
	}
	dir, err := paths.ResolveDataDir(a.flags.dataDir, cfg.DataDir)
	if err != nil {
		return "", sysErr("resolve data dir: %w", err)
	}
	return dir, nil
}

// open attaches the store and starts the session on first use.
func (a *app) open(cmd *cobra.Command) (*session.Session, error) {
	if a.sess != nil {
		return a.sess, nil
	}
	cfg, err := a.loadConfig()
	if err != nil {
		return nil, err
	}

	level := cfg.LogLevel
	if a.flags.logLevel != "" {
		level = a.flags.logLevel
	}
	log, err := logging.New(cmd.ErrOrStderr(), level, cfg.LogFormat)
	if err != nil {
		return nil, err
	}
	a.log = log

	dataDir, err := a.dataDir()
	if err != nil {
		return nil, err
	}
	backend := sqlite.NewBackend(sqlite.WithLogger(log))
	if err := backend.Attach(types.Config{Backend: types.BackendSQLite, DataDir: dataDir}); err != nil {
		return nil, sysErr("attach store: %w", err)
	}

	interval := cfg.ReminderInterval
	if a.interval > 0 {
		interval = a.interval
	}
	sess, err := session.New(backend,
		render.New(render.WithLogger(logging.Component(log, "render"))),
		session.WithLogger(log),
		session.WithNotifier(reminder.Multi{
			reminder.NewWriterNotifier(cmd.OutOrStdout()),
			reminder.LogNotifier{Log: logging.Component(log, "reminder")},
		}),
		session.WithScannerOptions(reminder.WithInterval(interval)),
	)
	if err != nil {
		backend.Detach()
		return nil, sysErr("start session: %w", err)
	}

	a.backend = backend
	a.sess = sess
	a.log.Debug().Str("data_dir", dataDir).Msg("session opened")
	return sess, nil
}

func (a *app) close() error {
	if a.backend == nil {
		return nil
	}
	err := a.backend.Detach()
	a.backend, a.sess = nil, nil
	if err != nil {
		return sysErr("detach store: %w", err)
	}
	return nil
}

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
