package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/lifeos/internal/export"
	"github.com/mesh-intelligence/lifeos/pkg/lifeos"
)

func newExportCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all collections to an xlsx workbook",
		Long:  "Read every collection from the configured store and write an xlsx workbook with one sheet per collection.",
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := loadConfig(resolveConfigDir())
			if err != nil {
				return exitError(cmd, exitSysError, fmt.Sprintf("load config: %s", err))
			}
			cfg, err := buildConfig(v)
			if err != nil {
				return exitError(cmd, exitUserError, fmt.Sprintf("invalid config: %s", err))
			}

			ctx := cmd.Context()
			store, closeStore, err := lifeos.OpenStore(ctx, cfg)
			if err != nil {
				return exitError(cmd, exitSysError, fmt.Sprintf("open store: %s", err))
			}
			defer closeStore()

			f, err := os.Create(out)
			if err != nil {
				return exitError(cmd, exitSysError, fmt.Sprintf("create %s: %s", out, err))
			}
			defer f.Close()

			if err := export.Write(ctx, store, f); err != nil {
				return exitError(cmd, exitSysError, fmt.Sprintf("export: %s", err))
			}

			fmt.Fprintf(cmd.OutOrStdout(), "exported to %s\n", out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "lifeos.xlsx", "output file path")
	return cmd
}
