package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/forPelevin/threadreel/internal/history"
)

const titleWidth = 48

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List rendered videos",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := setup(cmd)
			if err != nil {
				return err
			}
			limit, _ := cmd.Flags().GetInt("limit")

			store, err := history.Open(settings.Settings.HistoryDB)
			if err != nil {
				return err
			}
			defer store.Close()

			videos, err := store.List(context.Background(), limit)
			if err != nil {
				return err
			}
			if len(videos) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no videos rendered yet")
				return nil
			}
			rows := make([][]string, 0, len(videos))
			for _, v := range videos {
				rows = append(rows, []string{
					v.CreatedAt.Local().Format("2006-01-02 15:04"),
					v.ThreadID,
					v.Subreddit,
					shorten(v.Title, titleWidth),
					strconv.FormatFloat(v.NarrationSec, 'f', 1, 64),
					v.OutputPath,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Created", "Thread", "Subreddit", "Title", "Narration (s)", "Output"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
			))
			return nil
		},
	}
	cmd.Flags().Int("limit", 20, "Maximum rows to show (0 = all)")
	return cmd
}

func shorten(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
