package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func Main() {
	_ = godotenv.Load() // best-effort: load .env if present

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "threadreel",
		Short:        "Turn Reddit threads into short narrated videos",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE:         run,
	}

	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)
	root.SilenceErrors = true

	root.PersistentFlags().String("config", "", "Config file (default threadreel.toml or $THREADREEL_CONFIG)")
	root.PersistentFlags().BoolP("verbose", "v", false, "Debug logging")

	root.Flags().StringArray("id", nil, "Thread id to render, repeatable (overrides reddit.post_id)")
	root.Flags().Int("times", 0, "Number of hot threads to render (overrides settings.times_to_run)")
	root.Flags().Bool("force", false, "Render threads that are already in the history")
	root.Flags().Bool("keep-temp", false, "Keep intermediate files")

	// Hidden tuning flag (tests, reproducible renders)
	root.Flags().Uint64("seed", 0, "Seed for background choices")
	_ = root.Flags().MarkHidden("seed")

	root.AddCommand(
		newBackgroundsCmd(),
		newHistoryCmd(),
		newConfigCmd(),
	)
	return root
}
