// Package commands implements the CLI commands for bump.
package commands

import (
	"context"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/bump/internal/adapters/config"
	"go.trai.ch/bump/internal/adapters/report"
	"go.trai.ch/bump/internal/app"
	"go.trai.ch/bump/internal/build"
	"go.trai.ch/bump/internal/core/domain"
)

// CLI represents the command line interface for bump.
type CLI struct {
	app     *app.App
	rootCmd *cobra.Command
}

// New creates a new CLI instance with the given app.
func New(a *app.App) *CLI {
	rootCmd := &cobra.Command{
		Use:           "bump",
		Short:         "Track upgrade candidates of a package recipe tree",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	flags := rootCmd.PersistentFlags()
	flags.StringP("config", "c", domain.DefaultConfigFile, "Settings file")
	flags.StringArray("set", nil, "Override a setting (name=value), repeatable")
	flags.Bool("major", false, "Allow major version upgrades")
	flags.Bool("prerelease", false, "Allow prerelease versions")
	flags.IntP("jobs", "j", 0, "Number of parallel version discovery jobs")
	flags.Bool("no-cache", false, "Ignore and do not write the graph cache")

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}
	rootCmd.PersistentPreRunE = c.configure

	rootCmd.AddCommand(c.newNextCmd())
	rootCmd.AddCommand(c.newVersionsCmd())
	rootCmd.AddCommand(c.newDepsCmd())
	rootCmd.AddCommand(c.newParentsCmd())
	rootCmd.AddCommand(c.newShowCmd())
	rootCmd.AddCommand(c.newConfigCmd())
	rootCmd.AddCommand(c.newCleanCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOut sets the destination of command output. Used for testing.
func (c *CLI) SetOut(w io.Writer) {
	c.rootCmd.SetOut(w)
}

// configure applies the settings file, then --set assignments, then the dedicated flags.
func (c *CLI) configure(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()

	path, err := flags.GetString("config")
	if err != nil {
		return err
	}

	var overrides []app.Override
	sets, err := flags.GetStringArray("set")
	if err != nil {
		return err
	}
	for _, s := range sets {
		name, value, err := config.ParseAssignment(s)
		if err != nil {
			return err
		}
		overrides = append(overrides, app.Override{Name: name, Value: value})
	}

	if flags.Changed("major") {
		v, _ := flags.GetBool("major")
		overrides = append(overrides, app.Override{Name: "build_major_release_allowed", Value: v})
	}
	if flags.Changed("prerelease") {
		v, _ := flags.GetBool("prerelease")
		overrides = append(overrides, app.Override{Name: "build_prerelease_allowed", Value: v})
	}
	if flags.Changed("jobs") {
		v, _ := flags.GetInt("jobs")
		overrides = append(overrides, app.Override{Name: "nb_jobs", Value: v})
	}
	if flags.Changed("no-cache") {
		v, _ := flags.GetBool("no-cache")
		overrides = append(overrides, app.Override{Name: "cache_enabled", Value: !v})
	}

	return c.app.Configure(path, flags.Changed("config"), overrides...)
}

func (c *CLI) printer(cmd *cobra.Command) *report.Printer {
	return report.New(cmd.OutOrStdout())
}

func parseIDs(args []string) ([]domain.RecipeID, error) {
	ids := make([]domain.RecipeID, 0, len(args))
	for _, arg := range args {
		id, err := domain.ParseRecipeID(arg)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
