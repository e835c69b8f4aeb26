package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/forPelevin/threadreel/internal/config"
	"github.com/forPelevin/threadreel/internal/logging"
	"github.com/forPelevin/threadreel/internal/pipeline"
)

func run(cmd *cobra.Command, _ []string) error {
	settings, err := setup(cmd)
	if err != nil {
		return err
	}
	ids, _ := cmd.Flags().GetStringArray("id")
	times, _ := cmd.Flags().GetInt("times")
	force, _ := cmd.Flags().GetBool("force")
	keepTemp, _ := cmd.Flags().GetBool("keep-temp")
	seed, _ := cmd.Flags().GetUint64("seed")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, 3*time.Hour)
	defer cancel()

	cfg := pipeline.Config{
		Settings:  settings,
		ThreadIDs: ids,
		Times:     times,
		Force:     force,
		KeepTemp:  keepTemp,
		Seed:      seed,
		Log:       logging.WithComponent("pipeline"),
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	results, err := pipeline.Run(ctx, cfg)
	out := cmd.OutOrStdout()
	for _, r := range results {
		if r.Skipped {
			fmt.Fprintf(out, "skipped %s: %s\n", r.ThreadID, r.Reason)
			continue
		}
		fmt.Fprintf(out, "%s -> %s\n", r.ThreadID, r.Video)
	}
	return err
}

// setup initializes logging and loads the config named by --config.
func setup(cmd *cobra.Command) (*config.Config, error) {
	verbose, _ := cmd.Flags().GetBool("verbose")
	logging.Init(verbose, cmd.ErrOrStderr())

	path, _ := cmd.Flags().GetString("config")
	settings, resolved, exists, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	log := logging.WithComponent("cli")
	ev := log.Debug().Str("path", resolved)
	if exists {
		ev.Msg("config loaded")
	} else {
		ev.Msg("no config file, using defaults")
	}
	return settings, nil
}

func cliLogger() zerolog.Logger { return logging.WithComponent("cli") }
