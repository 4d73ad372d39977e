package commands

import (
	"errors"

	"github.com/spf13/cobra"
	"go.trai.ch/bump/internal/adapters/report"
	"go.trai.ch/bump/internal/core/domain"
)

func (c *CLI) newNextCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "next [package...]",
		Short: "Discover candidate versions and print the next version of each package",
		Long: "Discover candidate versions and print the next version of each package.\n" +
			"Without arguments every cross and native recipe is checked.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			if len(ids) > 0 {
				c.app.SetRequested(ids)
			}
			if err := c.app.Load(cmd.Context()); err != nil {
				return err
			}

			var refreshErr error
			if refresh, _ := cmd.Flags().GetBool("refresh"); refresh {
				_, refreshErr = c.app.Refresh(cmd.Context())
			}

			rows, err := c.nextRows()
			if err != nil {
				return errors.Join(refreshErr, err)
			}
			if err := c.printer(cmd).NextVersions(rows); err != nil {
				return err
			}
			return refreshErr
		},
	}
	cmd.Flags().Bool("refresh", true, "Discover candidate versions before deciding")
	return cmd
}

func (c *CLI) nextRows() ([]report.NextRow, error) {
	var rows []report.NextRow
	for _, id := range c.app.Requested() {
		row := report.NextRow{ID: id, Current: "-"}
		if n, err := c.app.Package(id); err == nil {
			row.Current = n.Info.Version
		} else if !errors.Is(err, domain.ErrPackageNotFound) {
			return nil, err
		}

		next, found, err := c.app.NextVersion(id)
		if err != nil {
			return nil, err
		}
		row.Next, row.Found = next, found
		rows = append(rows, row)
	}
	return rows, nil
}
