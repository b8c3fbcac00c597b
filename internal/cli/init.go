package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/workbench/internal/sqlite"
	"github.com/mesh-intelligence/workbench/pkg/types"
)

// initResult is the --json output of init.
type initResult struct {
	ConfigDir string `json:"config_dir"`
	DataDir   string `json:"data_dir"`
	Database  string `json:"database"`
}

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize workbench storage",
		Long: "Create the configuration and data directories, write a default config.yaml\n" +
			"and create or migrate app_data.db. Running init again is harmless.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, a)
		},
	}
}

func runInit(cmd *cobra.Command, a *app) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	dataDir, err := a.dataDir()
	if err != nil {
		return err
	}

	backend := sqlite.NewBackend()
	if err := backend.Attach(types.Config{Backend: types.BackendSQLite, DataDir: dataDir}); err != nil {
		return sysErr("initialize storage: %w", err)
	}
	if err := backend.Detach(); err != nil {
		return sysErr("finalize storage: %w", err)
	}

	res := initResult{
		ConfigDir: cfg.Dir,
		DataDir:   dataDir,
		Database:  filepath.Join(dataDir, types.DatabaseFile),
	}
	if a.flags.jsonMode {
		return printJSON(cmd.OutOrStdout(), res)
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Workbench initialized successfully")
	fmt.Fprintf(out, "config: %s\ndata:   %s\n", res.ConfigDir, res.Database)
	return nil
}
