// Package cli implements the checklist command-line interface. Each
// command is a thin presentation layer: it drives one checklist.Controller
// through the same intents a screen would forward.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/checklist/internal/paths"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// exitError carries the process exit code for an error returned by a command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func userError(format string, args ...any) error {
	return &exitError{code: exitUserError, err: fmt.Errorf(format, args...)}
}

func sysError(format string, args ...any) error {
	return &exitError{code: exitSysError, err: fmt.Errorf(format, args...)}
}

// rootFlags holds global flag values for one command tree.
type rootFlags struct {
	configDir string
	dataDir   string
	backend   string
	jsonMode  bool
}

// env is the per-invocation state shared by subcommands.
type env struct {
	flags     rootFlags
	configDir string
	cfg       *viper.Viper
}

// NewRootCmd creates the top-level "checklist" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	e := &env{}

	root := &cobra.Command{
		Use:   "checklist",
		Short: "A persistent single-list checklist",
		Long: "Checklist keeps one ordered list of editable items behind a root node.\n" +
			"Items survive across sessions in a SQLite database or a JSON file.",
		Version:      Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			configDir, err := paths.ResolveConfigDir(e.flags.configDir)
			if err != nil {
				return sysError("resolve config dir: %s", err)
			}
			cfg, err := loadConfig(configDir)
			if err != nil {
				return sysError("%s", err)
			}
			if e.flags.backend != "" {
				cfg.Set(cfgKeyBackend, e.flags.backend)
			}
			e.configDir = configDir
			e.cfg = cfg
			return nil
		},
	}

	root.PersistentFlags().StringVar(&e.flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	root.PersistentFlags().StringVar(&e.flags.dataDir, "data-dir", "", "data directory (default: $(CWD)/.checklist-db)")
	root.PersistentFlags().StringVar(&e.flags.backend, "backend", "", "store backend: sqlite, json, memory")
	root.PersistentFlags().BoolVar(&e.flags.jsonMode, "json", false, "output as JSON")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd(e))
	root.AddCommand(newShowCmd(e))
	root.AddCommand(newAddCmd(e))
	root.AddCommand(newEditCmd(e))
	root.AddCommand(newDeleteCmd(e))
	root.AddCommand(newTUICmd(e))

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	root := NewRootCmd()
	root.SilenceErrors = true
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitCode(err))
	}
	os.Exit(exitSuccess)
}

func exitCode(err error) int {
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitUserError
}
