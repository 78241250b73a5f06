package system

import "github.com/spf13/cobra"

// NewSystemCommand groups maintenance commands.
func NewSystemCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "system",
		Short: "Store maintenance commands",
	}
	cmd.AddCommand(NewSeedCommand())
	return cmd
}
