package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/zoneplan/internal/db"
	"github.com/sells-group/zoneplan/internal/export"
	"github.com/sells-group/zoneplan/internal/resilience"
	"github.com/sells-group/zoneplan/internal/resolve"
	"github.com/sells-group/zoneplan/internal/roster"
	"github.com/sells-group/zoneplan/internal/store"
	"github.com/sells-group/zoneplan/internal/zoning"
	"github.com/sells-group/zoneplan/pkg/geocode"
)

var partitionCmd = &cobra.Command{
	Use:   "partition",
	Short: "Geocode a roster and partition it into zones",
	Long: `Reads a CSV or XLSX roster, geocodes rows missing coordinates, picks
the zone count with the best silhouette score, assigns zones, and
writes the export artifacts.

Examples:
  # Partition with defaults (6-8 zones, OpenCage)
  zoneplan partition --input roster.csv --city "Austin, TX"

  # Wider zone range, Geoapify, Google map page
  zoneplan partition --input roster.xlsx --kmin 4 --kmax 10 \
    --geocoder geoapify --make-google-map

  # Publish zone geometries to PostGIS as well
  zoneplan partition --input roster.csv --publish`,
	RunE: runPartition,
}

func init() {
	f := partitionCmd.Flags()
	f.String("input", "", "roster file (.csv or .xlsx)")
	f.String("city", "", "context hint appended to geocode queries")
	f.Int("kmin", 0, "minimum zone count (overrides config)")
	f.Int("kmax", 0, "maximum zone count (overrides config)")
	f.Int64("seed", 0, "clustering seed (overrides config)")
	f.String("geocoder", "", "provider: opencage, geoapify, or google (overrides config)")
	f.String("opencage-key", "", "OpenCage API key (overrides config)")
	f.String("geoapify-key", "", "Geoapify API key (overrides config)")
	f.String("google-key", "", "Google Maps API key (overrides config)")
	f.String("out-prefix", "", "output path prefix (overrides config)")
	f.Bool("make-google-map", false, "also write a Google Maps page")
	f.Bool("no-cache", false, "bypass the geocode cache")
	f.Bool("publish", false, "publish zone geometries to PostGIS (store.database_url)")
	_ = partitionCmd.MarkFlagRequired("input")

	rootCmd.AddCommand(partitionCmd)
}

func runPartition(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	applyPartitionFlags(cmd)
	if err := cfg.Validate(); err != nil {
		return err
	}
	log := zap.L().With(zap.String("command", "partition"))

	input, _ := cmd.Flags().GetString("input")
	city, _ := cmd.Flags().GetString("city")
	publish, _ := cmd.Flags().GetBool("publish")

	recs, header, err := roster.Load(input)
	if err != nil {
		return err
	}
	log.Info("loaded roster", zap.String("input", input), zap.Int("rows", len(recs)))

	st, err := store.NewSQLite(cfg.Store.Path)
	if err != nil {
		return err
	}
	defer st.Close() //nolint:errcheck
	if err := st.Migrate(ctx); err != nil {
		return err
	}

	run, err := st.CreateRun(ctx, store.RunParams{
		Input:    input,
		City:     city,
		Provider: cfg.Geocoder.Provider,
		KMin:     cfg.Cluster.KMin,
		KMax:     cfg.Cluster.KMax,
		Seed:     cfg.Cluster.Seed,
	})
	if err != nil {
		return err
	}
	log.Info("started run", zap.String("run_id", run.ID))

	summary, err := executePartition(ctx, recs, header, city, st, publish, run.ID)
	if err != nil {
		if failErr := st.FailRun(ctx, run.ID, err.Error()); failErr != nil {
			log.Warn("could not record run failure", zap.Error(failErr))
		}
		return err
	}

	if err := st.CompleteRun(ctx, run.ID, summary); err != nil {
		return err
	}

	fmt.Printf("Run %s complete: %d zones over %d points (silhouette %.4f)\n",
		run.ID, summary.K, summary.Points, summary.Silhouette)
	return nil
}

// executePartition runs the resolve-select-assign-export stages.
func executePartition(ctx context.Context, recs []roster.Record, header []string, city string, st *store.SQLiteStore, publish bool, runID string) (*store.RunSummary, error) {
	log := zap.L().With(zap.String("command", "partition"))

	// A roster that already carries lat/lon columns never touches the
	// provider, so a missing key (or the qgis stub) must not block the
	// re-run workflow. Construct the provider only when resolution
	// will issue queries.
	var client resolve.Batcher
	if !roster.HasCoordColumns(header) {
		provider, err := buildProvider(st)
		if err != nil {
			return nil, err
		}
		client = geocode.NewClient(provider, retryConfig())
	}

	points, err := resolve.Run(ctx, recs, header, client, city)
	if err != nil {
		return nil, err
	}
	log.Info("resolved coordinates", zap.Int("points", len(points)))

	coords := make([]roster.Coordinate, len(points))
	for i, p := range points {
		coords[i] = p.Coord
	}
	k, err := zoning.ChooseK(coords, zoning.SelectOpts{
		KMin:     cfg.Cluster.KMin,
		KMax:     cfg.Cluster.KMax,
		Seed:     cfg.Cluster.Seed,
		Restarts: cfg.Cluster.ScanRestarts,
	})
	if err != nil {
		return nil, err
	}

	part, err := zoning.Assign(points, k, zoning.AssignOpts{
		Seed:     cfg.Cluster.Seed,
		Restarts: cfg.Cluster.FinalRestarts,
	})
	if err != nil {
		return nil, err
	}
	bounds := zoning.Boundaries(part)

	req := export.Request{
		Prefix:        cfg.Output.Prefix,
		Title:         city,
		Header:        header,
		MakeGoogleMap: cfg.Output.MakeGoogleMap,
		GoogleMapsKey: cfg.Geocoder.GoogleKey,
	}
	if err := export.WriteAll(ctx, part, bounds, req); err != nil {
		return nil, err
	}
	log.Info("wrote artifacts", zap.Strings("files", req.Files()))

	if publish {
		if err := publishPartition(ctx, runID, part, bounds); err != nil {
			return nil, err
		}
	}

	summary := &store.RunSummary{
		K:          part.K,
		Points:     len(points),
		Silhouette: part.Silhouette(),
	}
	counts := part.Counts()
	for z := 1; z <= part.K; z++ {
		c := part.Centroids[z-1]
		summary.Zones = append(summary.Zones, store.ZoneSummary{
			Zone:        z,
			Members:     counts[z-1],
			CentroidLat: c.Lat,
			CentroidLng: c.Lng,
		})
	}
	return summary, nil
}

// buildProvider assembles the geocode provider chain, wrapping it with
// the SQLite cache unless caching is disabled.
func buildProvider(st *store.SQLiteStore) (geocode.Provider, error) {
	provider, err := geocode.New(geocode.Config{
		Provider:    cfg.Geocoder.Provider,
		OpenCageKey: cfg.Geocoder.OpenCageKey,
		GeoapifyKey: cfg.Geocoder.GeoapifyKey,
		GoogleKey:   cfg.Geocoder.GoogleKey,
		Options: geocode.Options{
			HTTPClient: geocodeHTTPClient(),
		},
	})
	if err != nil {
		return nil, err
	}
	if cfg.Geocoder.NoCache {
		return provider, nil
	}
	return geocode.NewCachingProvider(provider, st), nil
}

func geocodeHTTPClient() *http.Client {
	return &http.Client{Timeout: time.Duration(cfg.Geocoder.TimeoutSecs) * time.Second}
}

func retryConfig() resilience.RetryConfig {
	rc := resilience.DefaultRetryConfig()
	if cfg.Geocoder.MaxRetries > 0 {
		rc.MaxAttempts = cfg.Geocoder.MaxRetries
	}
	return rc
}

// publishPartition pushes zone geometries to the PostGIS sink.
func publishPartition(ctx context.Context, runID string, part *zoning.Partition, bounds []zoning.Boundary) error {
	if cfg.Store.DatabaseURL == "" {
		return eris.New("partition: --publish requires store.database_url (ZONEPLAN_STORE_DATABASE_URL)")
	}
	pool, err := db.Connect(ctx, cfg.Store.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	sink := store.NewSink(pool)
	if err := sink.Migrate(ctx); err != nil {
		return err
	}
	return sink.Publish(ctx, runID, part, bounds)
}

// applyPartitionFlags overlays explicit flags onto the loaded config.
func applyPartitionFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	if v, _ := f.GetInt("kmin"); v > 0 {
		cfg.Cluster.KMin = v
	}
	if v, _ := f.GetInt("kmax"); v > 0 {
		cfg.Cluster.KMax = v
	}
	if v, _ := f.GetInt64("seed"); f.Changed("seed") {
		cfg.Cluster.Seed = v
	}
	if v, _ := f.GetString("geocoder"); v != "" {
		cfg.Geocoder.Provider = v
	}
	if v, _ := f.GetString("opencage-key"); v != "" {
		cfg.Geocoder.OpenCageKey = v
	}
	if v, _ := f.GetString("geoapify-key"); v != "" {
		cfg.Geocoder.GeoapifyKey = v
	}
	if v, _ := f.GetString("google-key"); v != "" {
		cfg.Geocoder.GoogleKey = v
	}
	if v, _ := f.GetString("out-prefix"); v != "" {
		cfg.Output.Prefix = v
	}
	if f.Changed("make-google-map") {
		v, _ := f.GetBool("make-google-map")
		cfg.Output.MakeGoogleMap = v
	}
	if f.Changed("no-cache") {
		v, _ := f.GetBool("no-cache")
		cfg.Geocoder.NoCache = v
	}
}
