package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *CLI) newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print every setting with its effective value",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.printer(cmd).Settings(c.app.Settings())
		},
	}
}

func (c *CLI) newCleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Remove the persisted package graphs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.app.ClearCache(); err != nil {
				return err
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "cache cleared")
			return err
		},
	}
}
