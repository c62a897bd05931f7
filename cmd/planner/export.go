package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/neexbeast/itinerary/internal/config"
	"github.com/neexbeast/itinerary/internal/destination"
	"github.com/neexbeast/itinerary/internal/itinerary"
)

func newExportCmd(root *rootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Print the saved itinerary as JSON or YAML",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(root.configFile, cmd.Flags())
			if err != nil {
				return err
			}
			log := newLogger(cmd.ErrOrStderr(), cfg, false)

			d, err := wire(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer d.Close()

			m := itinerary.NewManager(log)
			if err := m.Load(cmd.Context(), d.store); err != nil {
				return err
			}
			return writeExport(cmd.OutOrStdout(), format, m.All())
		},
	}
	cmd.Flags().StringVarP(&format, "format", "o", "json", "output format: json or yaml")
	return cmd
}

func writeExport(w io.Writer, format string, ds []*destination.Destination) error {
	records := make([]destination.Record, 0, len(ds))
	for _, d := range ds {
		records = append(records, d.Record())
	}

	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "    ")
		return enc.Encode(records)
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(records); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	}
	return fmt.Errorf("unknown format %q, use json or yaml", format)
}
