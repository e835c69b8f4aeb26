package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/forPelevin/threadreel/internal/pipeline"
)

func newBackgroundsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backgrounds",
		Short: "Inspect and download background media",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List the background pools",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				settings, err := setup(cmd)
				if err != nil {
					return err
				}
				entries, err := pipeline.Backgrounds(settings)
				if err != nil {
					return err
				}
				rows := make([][]string, 0, len(entries))
				for _, e := range entries {
					rows = append(rows, []string{
						string(e.Kind),
						e.Name,
						e.Record.LocalName(),
						e.Record.Attribution,
						e.Record.Placement,
						yesNo(e.Present),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"Kind", "Name", "File", "Credit", "Placement", "Downloaded"},
					rows,
					nil,
				))
				return nil
			},
		},
		&cobra.Command{
			Use:   "fetch",
			Short: "Download every pool entry that is not on disk yet",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				settings, err := setup(cmd)
				if err != nil {
					return err
				}
				n, err := pipeline.FetchBackgrounds(context.Background(), settings, nil, cliLogger())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "downloaded %d background(s)\n", n)
				return nil
			},
		},
	)
	return cmd
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
