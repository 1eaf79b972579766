package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/zoneplan/internal/store"
	"github.com/sells-group/zoneplan/pkg/geocode"
)

var geocodeCmd = &cobra.Command{
	Use:   "geocode <query>...",
	Short: "Geocode one or more free-form queries",
	Long: `Resolves queries through the configured provider and prints the
coordinates. Useful for checking keys and provider behavior before a
full partition run.

Examples:
  zoneplan geocode "600 Congress Ave, Austin, TX"
  zoneplan geocode --geocoder google "Alamo Plaza" "The Pearl, San Antonio"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runGeocode,
}

func init() {
	f := geocodeCmd.Flags()
	f.String("geocoder", "", "provider: opencage, geoapify, or google (overrides config)")
	f.Bool("no-cache", false, "bypass the geocode cache")
	f.String("out", "", "also write results to a CSV file")

	rootCmd.AddCommand(geocodeCmd)
}

func runGeocode(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if v, _ := cmd.Flags().GetString("geocoder"); v != "" {
		cfg.Geocoder.Provider = v
	}
	if changed := cmd.Flags().Changed("no-cache"); changed {
		v, _ := cmd.Flags().GetBool("no-cache")
		cfg.Geocoder.NoCache = v
	}

	st, err := store.NewSQLite(cfg.Store.Path)
	if err != nil {
		return err
	}
	defer st.Close() //nolint:errcheck
	if err := st.Migrate(ctx); err != nil {
		return err
	}

	provider, err := buildProvider(st)
	if err != nil {
		return err
	}
	client := geocode.NewClient(provider, retryConfig())

	results, err := client.ResolveAll(ctx, args)
	if err != nil {
		return err
	}

	for i, r := range results {
		if !r.Matched {
			fmt.Printf("%-40s  no match\n", truncate(args[i], 40))
			continue
		}
		fmt.Printf("%-40s  %.6f, %.6f  (%s)\n", truncate(args[i], 40), r.Latitude, r.Longitude, r.Source)
	}

	if out, _ := cmd.Flags().GetString("out"); out != "" {
		return writeGeocodeCSV(out, args, results)
	}
	return nil
}

func writeGeocodeCSV(path string, queries []string, results []geocode.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "geocode: create %s", path)
	}
	defer f.Close() //nolint:errcheck

	w := csv.NewWriter(f)
	if err := w.Write([]string{"query", "lat", "lon", "matched", "source"}); err != nil {
		return eris.Wrap(err, "geocode: write header")
	}
	for i, r := range results {
		row := []string{
			queries[i],
			strconv.FormatFloat(r.Latitude, 'f', -1, 64),
			strconv.FormatFloat(r.Longitude, 'f', -1, 64),
			strconv.FormatBool(r.Matched),
			r.Source,
		}
		if err := w.Write(row); err != nil {
			return eris.Wrapf(err, "geocode: write row %d", i)
		}
	}
	w.Flush()
	return eris.Wrap(w.Error(), "geocode: flush csv")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return strings.TrimSpace(s[:n-1]) + "…"
}
