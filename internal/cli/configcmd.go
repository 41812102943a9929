package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long:  "Resolve flags, config.yaml, and environment overrides, then print the effective configuration as YAML. Secrets are omitted.",
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := loadConfig(resolveConfigDir())
			if err != nil {
				return exitError(cmd, exitSysError, fmt.Sprintf("load config: %s", err))
			}
			cfg, err := buildConfig(v)
			if err != nil {
				return exitError(cmd, exitUserError, fmt.Sprintf("invalid config: %s", err))
			}

			data, err := yaml.Marshal(cfg)
			if err != nil {
				return exitError(cmd, exitSysError, fmt.Sprintf("marshal config: %s", err))
			}
			fmt.Fprint(cmd.OutOrStdout(), string(data))

			// Presence only, never the values.
			fmt.Fprintf(cmd.OutOrStdout(), "passphrase_set: %t\ngemini_key_set: %t\n",
				cfg.AuthEnabled(), cfg.AIEnabled())
			return nil
		},
	}
}
