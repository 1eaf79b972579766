// Package roster models the address roster being partitioned: input
// records, their resolved coordinates, and header mapping for the
// recognized tabular columns.
package roster

import (
	"math"
	"strconv"
	"strings"
)

// Recognized input columns. Any other column survives load and export
// untouched.
const (
	ColName    = "name"
	ColAddress = "address"
	ColFull    = "Address"
	ColCity    = "city"
	ColState   = "state"
	ColZip     = "zip"
	ColLat     = "lat"
	ColLon     = "lon"
)

// Coordinate is a validated WGS84 point.
type Coordinate struct {
	Lat float64
	Lng float64
}

// Valid reports whether the coordinate is finite and within range.
func (c Coordinate) Valid() bool {
	if math.IsNaN(c.Lat) || math.IsInf(c.Lat, 0) || math.IsNaN(c.Lng) || math.IsInf(c.Lng, 0) {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

// Record is one input row. Fields holds every column verbatim; the
// record is never mutated after load.
type Record struct {
	Fields map[string]string
}

// Get returns a trimmed field value, or "" when absent.
func (r Record) Get(col string) string {
	return strings.TrimSpace(r.Fields[col])
}

// Name returns the record's display name, accepting either casing.
func (r Record) Name() string {
	if n := r.Get(ColName); n != "" {
		return n
	}
	return r.Get("Name")
}

// Address returns the record's display address, preferring the
// full-form column over the street component.
func (r Record) Address() string {
	if a := r.Get(ColFull); a != "" {
		return a
	}
	return r.Get(ColAddress)
}

// Coordinate parses the record's lat/lon columns. ok is false when
// either column is absent, empty, or unparseable.
func (r Record) Coordinate() (Coordinate, bool) {
	latStr, lonStr := r.Get(ColLat), r.Get(ColLon)
	if latStr == "" || lonStr == "" {
		return Coordinate{}, false
	}
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return Coordinate{}, false
	}
	lng, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return Coordinate{}, false
	}
	c := Coordinate{Lat: lat, Lng: lng}
	if !c.Valid() {
		return Coordinate{}, false
	}
	return c, true
}

// ResolvedPoint pairs a record with a valid coordinate.
type ResolvedPoint struct {
	Record Record
	Coord  Coordinate
}

// HasCoordColumns reports whether the loaded header carries both
// lat and lon columns. The resolver's skip rule keys off column
// presence alone: when the columns exist the whole dataset bypasses
// geocoding, and any blank or unparseable value in them is a fatal
// input error rather than a row to geocode.
func HasCoordColumns(header []string) bool {
	var lat, lon bool
	for _, col := range header {
		switch strings.TrimSpace(col) {
		case ColLat:
			lat = true
		case ColLon:
			lon = true
		}
	}
	return lat && lon
}
