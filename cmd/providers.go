package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List geocoding providers and credential status",
	RunE: func(cmd *cobra.Command, _ []string) error {
		type entry struct {
			name  string
			key   string
			notes string
		}
		entries := []entry{
			{"opencage", cfg.Geocoder.OpenCageKey, "default; 1.1s between requests"},
			{"geoapify", cfg.Geocoder.GeoapifyKey, "1.1s between requests"},
			{"google", cfg.Geocoder.GoogleKey, "0.2s between requests"},
			{"qgis", "", "unsupported; use the QGIS MMQGIS plugin instead"},
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "PROVIDER\tKEY\tACTIVE\tNOTES")
		for _, e := range entries {
			keyStatus := "missing"
			if e.key != "" {
				keyStatus = "set"
			}
			if e.name == "qgis" {
				keyStatus = "-"
			}
			active := ""
			if e.name == cfg.Geocoder.Provider {
				active = "*"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.name, keyStatus, active, e.notes)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(providersCmd)
}
