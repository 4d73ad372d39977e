package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/bump/internal/core/domain"
	"gopkg.in/yaml.v3"
)

// loadPackage loads the graphs and returns the node named by the single argument.
func (c *CLI) loadPackage(cmd *cobra.Command, args []string) (*domain.PackageNode, error) {
	id, err := domain.ParseRecipeID(args[0])
	if err != nil {
		return nil, err
	}
	if err := c.app.Load(cmd.Context()); err != nil {
		return nil, err
	}
	return c.app.Package(id)
}

func (c *CLI) newVersionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "versions <package>",
		Short: "List the known candidate versions of a package",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := c.loadPackage(cmd, args)
			if err != nil {
				return err
			}
			return c.printer(cmd).Versions(n)
		},
	}
}

func (c *CLI) newDepsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "deps <package>",
		Short: "Print the dependency tree of a package",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := c.loadPackage(cmd, args)
			if err != nil {
				return err
			}
			return c.printer(cmd).DependencyTree(c.app.Graphs(), n.ID)
		},
	}
}

func (c *CLI) newParentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parents <package>",
		Short: "Print every package depending on a package",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := c.loadPackage(cmd, args)
			if err != nil {
				return err
			}
			return c.printer(cmd).ParentTree(c.app.Graphs(), n.ID)
		},
	}
}

func (c *CLI) newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <package>",
		Short: "Print the recorded metadata of a package as YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := c.loadPackage(cmd, args)
			if err != nil {
				return err
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(n); err != nil {
				return err
			}
			return enc.Close()
		},
	}
}
