package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/M4rkoza7/AceCombatExpansionSystem/pkg/acepatch"
)

const modulePath = "github.com/M4rkoza7/AceCombatExpansionSystem"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the acepatch version",
		Args:  cobra.NoArgs,
		// Needs neither configuration nor a logger.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "acepatch v%s\nmodule: %s\n", acepatch.Version, modulePath)
			return nil
		},
	}
}
