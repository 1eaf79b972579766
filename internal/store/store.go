// Package store persists partitioning runs and the provider geocode
// cache. SQLite is the default backend; PostGIS is an optional sink
// for finished zone geometries.
package store

import (
	"context"
	"time"
)

// RunStatus tracks a run through its lifecycle.
type RunStatus string

const (
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// RunParams captures the inputs that produced a run.
type RunParams struct {
	Input    string `json:"input"`
	City     string `json:"city,omitempty"`
	Provider string `json:"provider"`
	KMin     int    `json:"k_min"`
	KMax     int    `json:"k_max"`
	Seed     int64  `json:"seed"`
}

// ZoneSummary is one zone's archived outcome.
type ZoneSummary struct {
	Zone        int     `json:"zone"`
	Members     int     `json:"members"`
	CentroidLat float64 `json:"centroid_lat"`
	CentroidLng float64 `json:"centroid_lng"`
}

// RunSummary is the archived outcome of a completed run.
type RunSummary struct {
	K          int           `json:"k"`
	Points     int           `json:"points"`
	Silhouette float64       `json:"silhouette,omitempty"`
	Zones      []ZoneSummary `json:"zones"`
}

// Run is one archived partitioning run.
type Run struct {
	ID        string      `json:"id"`
	Params    RunParams   `json:"params"`
	Status    RunStatus   `json:"status"`
	Summary   *RunSummary `json:"summary,omitempty"`
	Error     string      `json:"error,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Status RunStatus `json:"status,omitempty"`
	City   string    `json:"city,omitempty"`
	Limit  int       `json:"limit,omitempty"`
	Offset int       `json:"offset,omitempty"`
}

// Store defines the persistence interface for the run archive.
type Store interface {
	CreateRun(ctx context.Context, params RunParams) (*Run, error)
	CompleteRun(ctx context.Context, runID string, summary *RunSummary) error
	FailRun(ctx context.Context, runID string, reason string) error
	GetRun(ctx context.Context, runID string) (*Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]Run, error)

	Migrate(ctx context.Context) error
	Close() error
}
