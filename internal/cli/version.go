package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/lifeos/pkg/lifeos"
)

const modulePath = "github.com/mesh-intelligence/lifeos"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the lifeos version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "lifeos v%s\nmodule: %s\n", lifeos.Version, modulePath)
			return nil
		},
	}
}
