package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/neexbeast/itinerary/internal/config"
	"github.com/neexbeast/itinerary/internal/console"
	"github.com/neexbeast/itinerary/internal/itinerary"
)

type rootOptions struct {
	configFile string
	seed       bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "planner",
		Short: "AI travel planner",
		Long: `Plan trips as a list of destinations, save them to disk, and ask a
language model for day-by-day itineraries and budget tips.

Without a subcommand the interactive menu starts.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConsole(cmd, opts)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "YAML config file")
	cmd.PersistentFlags().String("file", itinerary.DefaultFile, "itinerary file")
	cmd.Flags().BoolVar(&opts.seed, "seed", false, "start with the Paris and Tokyo sample destinations")

	cmd.AddCommand(newServeCmd(opts), newExportCmd(opts), newHistoryCmd(opts))
	return cmd
}

func runConsole(cmd *cobra.Command, opts *rootOptions) error {
	cfg, err := config.Load(opts.configFile, cmd.Flags())
	if err != nil {
		return err
	}

	// Logs go to stderr so they do not interleave with the menu.
	log := newLogger(cmd.ErrOrStderr(), cfg, false)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	d, err := wire(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer d.Close()

	m := itinerary.NewManager(log)
	if opts.seed {
		itinerary.Seed(m)
	}

	var a console.Assistant
	if d.assistant != nil {
		a = d.assistant
	}

	c := console.New(cmd.InOrStdin(), cmd.OutOrStdout(), m, d.store, a, log)
	if err := c.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("console: %w", err)
	}
	return nil
}
