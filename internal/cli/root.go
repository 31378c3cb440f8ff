// Package cli implements the weatherctl command line.
package cli

import (
	"context"
	"math/rand/v2"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/weatherwise/weatherwise/internal/config"
	"github.com/weatherwise/weatherwise/internal/pipeline"
)

// Runner produces a weather report. *pipeline.Pipeline implements it.
type Runner interface {
	Run(ctx context.Context, place string) (*pipeline.Report, error)
}

// Options wires the command tree.
type Options struct {
	Settings *config.Config
	Logger   zerolog.Logger

	// NewRunner overrides how the pipeline is built (optional).
	NewRunner func(cfg pipeline.Config) Runner
}

type rootFlags struct {
	seed uint64
}

// Command creates the weatherctl root command.
func Command(opts Options) *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:           "weatherctl",
		Short:         "Weather reports and advisories from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().Uint64Var(&flags.seed, "seed", 0, "Seed for synthesized weather when no API key is configured")

	build := func(cmd *cobra.Command) Runner {
		cfg := pipeline.Config{
			APIKey:      opts.Settings.OpenWeatherAPIKey,
			GeoURL:      opts.Settings.OpenWeatherGeoURL,
			OneCallURL:  opts.Settings.OpenWeatherOneCallURL,
			CallTimeout: opts.Settings.ProviderCallTimeout,
			Logger:      opts.Logger,
		}
		if cmd.Flags().Changed("seed") {
			cfg.Random = rand.New(rand.NewPCG(flags.seed, flags.seed))
		}
		if opts.NewRunner != nil {
			return opts.NewRunner(cfg)
		}
		return pipeline.New(cfg)
	}

	rootCmd.AddCommand(reportCommand(build), advisoriesCommand(build))

	return rootCmd
}

// placeArg joins the positional arguments so unquoted multi-word places work.
func placeArg(args []string) string {
	return strings.Join(args, " ")
}
