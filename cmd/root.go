package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/zoneplan/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "zoneplan",
	Short: "Geocoding and zone partitioning engine",
	Long:  "Geocodes address rosters, selects a zone count by silhouette score, assigns k-means zones, and exports tables, geometries, and maps.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Optional .env for local runs; real deployments set the
		// environment directly.
		_ = godotenv.Load()

		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
