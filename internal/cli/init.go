package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/lifeos/internal/sqlite"
	"github.com/mesh-intelligence/lifeos/pkg/types"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize lifeos storage",
		Long:  "Create configuration and data directories, then initialize the storage backend.",
		RunE:  runInit,
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	configDir := resolveConfigDir()

	v, err := loadConfig(configDir)
	if err != nil {
		return exitError(cmd, exitSysError, fmt.Sprintf("load config: %s", err))
	}

	cfg, err := buildConfig(v)
	if err != nil {
		return exitError(cmd, exitUserError, fmt.Sprintf("invalid config: %s", err))
	}

	// The sheets backend has no local state to initialize.
	if cfg.Backend == types.BackendSQLite {
		b := sqlite.NewBackend()
		if err := b.Attach(cfg); err != nil {
			return exitError(cmd, exitSysError, fmt.Sprintf("initialize storage: %s", err))
		}
		if err := b.Detach(); err != nil {
			return exitError(cmd, exitSysError, fmt.Sprintf("finalize storage: %s", err))
		}
	}

	fmt.Fprintln(cmd.OutOrStdout(), "lifeos initialized successfully")
	return nil
}
