package config

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Geocoder GeocoderConfig `yaml:"geocoder" mapstructure:"geocoder"`
	Cluster  ClusterConfig  `yaml:"cluster" mapstructure:"cluster"`
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	Output   OutputConfig   `yaml:"output" mapstructure:"output"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// GeocoderConfig configures the geocoding provider layer.
type GeocoderConfig struct {
	Provider    string `yaml:"provider" mapstructure:"provider"`
	OpenCageKey string `yaml:"opencage_key" mapstructure:"opencage_key"`
	GeoapifyKey string `yaml:"geoapify_key" mapstructure:"geoapify_key"`
	GoogleKey   string `yaml:"google_key" mapstructure:"google_key"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxRetries  int    `yaml:"max_retries" mapstructure:"max_retries"`
	CacheDSN    string `yaml:"cache_dsn" mapstructure:"cache_dsn"`
	NoCache     bool   `yaml:"no_cache" mapstructure:"no_cache"`
}

// ClusterConfig configures zone-count selection and assignment.
type ClusterConfig struct {
	KMin          int   `yaml:"kmin" mapstructure:"kmin"`
	KMax          int   `yaml:"kmax" mapstructure:"kmax"`
	Seed          int64 `yaml:"seed" mapstructure:"seed"`
	ScanRestarts  int   `yaml:"scan_restarts" mapstructure:"scan_restarts"`
	FinalRestarts int   `yaml:"final_restarts" mapstructure:"final_restarts"`
}

// StoreConfig configures run persistence.
type StoreConfig struct {
	Path        string `yaml:"path" mapstructure:"path"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// OutputConfig configures export artifacts.
type OutputConfig struct {
	Prefix        string `yaml:"prefix" mapstructure:"prefix"`
	MakeGoogleMap bool   `yaml:"make_google_map" mapstructure:"make_google_map"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("ZONEPLAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("geocoder.provider", "opencage")
	v.SetDefault("geocoder.timeout_secs", 30)
	v.SetDefault("geocoder.max_retries", 3)
	v.SetDefault("cluster.kmin", 6)
	v.SetDefault("cluster.kmax", 8)
	v.SetDefault("cluster.seed", 42)
	v.SetDefault("cluster.scan_restarts", 10)
	v.SetDefault("cluster.final_restarts", 25)
	v.SetDefault("store.path", "zoneplan.db")
	v.SetDefault("output.prefix", "zones")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Legacy key names from the pre-CLI tooling, honored when the
	// zoneplan-prefixed variables are unset.
	v.SetDefault("geocoder.opencage_key", os.Getenv("OPENCAGE_KEY"))
	v.SetDefault("geocoder.geoapify_key", os.Getenv("GEOAPIFY_KEY"))
	v.SetDefault("geocoder.google_key", os.Getenv("GOOGLE_MAPS_KEY"))

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the clustering bounds before a partition run starts.
func (c *Config) Validate() error {
	var problems []string
	if c.Cluster.KMin < 1 {
		problems = append(problems, "cluster.kmin must be at least 1")
	}
	if c.Cluster.KMax < c.Cluster.KMin {
		problems = append(problems, "cluster.kmax must be >= cluster.kmin")
	}
	if c.Cluster.ScanRestarts < 1 || c.Cluster.FinalRestarts < 1 {
		problems = append(problems, "cluster restarts must be at least 1")
	}
	if c.Geocoder.TimeoutSecs < 1 {
		problems = append(problems, "geocoder.timeout_secs must be at least 1")
	}
	if len(problems) > 0 {
		return eris.New("config: " + strings.Join(problems, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
