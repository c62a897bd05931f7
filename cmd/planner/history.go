package main

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/neexbeast/itinerary/internal/config"
)

func newHistoryCmd(root *rootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List saved itinerary snapshots (requires DATABASE_URL)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(root.configFile, cmd.Flags())
			if err != nil {
				return err
			}
			if cfg.Database.URL == "" {
				return errors.New("history needs a database, set DATABASE_URL")
			}

			d, err := wire(cmd.Context(), cfg, newLogger(cmd.ErrOrStderr(), cfg, false))
			if err != nil {
				return err
			}
			defer d.Close()

			snaps, err := d.snapshots.ListSnapshots(cmd.Context(), limit)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tDESTINATIONS\tSAVED")
			for _, s := range snaps {
				fmt.Fprintf(tw, "%s\t%d\t%s\n", s.ID, s.Destinations, s.CreatedAt.Format(time.RFC3339))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "number of snapshots to show")
	return cmd
}
