package roster

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func rec(fields map[string]string) Record {
	return Record{Fields: fields}
}

func TestCoordinateValid(t *testing.T) {
	tests := []struct {
		name  string
		coord Coordinate
		want  bool
	}{
		{"austin", Coordinate{30.2672, -97.7431}, true},
		{"poles", Coordinate{90, 180}, true},
		{"south pole", Coordinate{-90, -180}, true},
		{"lat too big", Coordinate{90.0001, 0}, false},
		{"lng too big", Coordinate{0, 180.0001}, false},
		{"nan lat", Coordinate{math.NaN(), 0}, false},
		{"inf lng", Coordinate{0, math.Inf(1)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.coord.Valid())
		})
	}
}

func TestRecordCoordinate(t *testing.T) {
	c, ok := rec(map[string]string{"lat": "30.5", "lon": "-97.1"}).Coordinate()
	assert.True(t, ok)
	assert.Equal(t, Coordinate{30.5, -97.1}, c)

	_, ok = rec(map[string]string{"lat": "30.5"}).Coordinate()
	assert.False(t, ok, "missing lon")

	_, ok = rec(map[string]string{"lat": "abc", "lon": "-97.1"}).Coordinate()
	assert.False(t, ok, "unparseable lat")

	_, ok = rec(map[string]string{"lat": "91", "lon": "0"}).Coordinate()
	assert.False(t, ok, "out-of-range lat")

	_, ok = rec(map[string]string{"lat": "", "lon": ""}).Coordinate()
	assert.False(t, ok, "empty values")
}

func TestRecordNameAndAddress(t *testing.T) {
	r := rec(map[string]string{"Name": "Acme", "address": "600 Congress Ave"})
	assert.Equal(t, "Acme", r.Name(), "accepts capitalized Name")
	assert.Equal(t, "600 Congress Ave", r.Address())

	r = rec(map[string]string{"name": "Beta", "Address": "Full Address Wins", "address": "street only"})
	assert.Equal(t, "Beta", r.Name())
	assert.Equal(t, "Full Address Wins", r.Address())
}

func TestHasCoordColumns(t *testing.T) {
	assert.True(t, HasCoordColumns([]string{"name", "address", "lat", "lon"}))
	assert.True(t, HasCoordColumns([]string{" lat ", "lon"}), "header cells are trimmed")
	assert.False(t, HasCoordColumns([]string{"name", "lat"}), "lon column missing")
	assert.False(t, HasCoordColumns([]string{"name", "address"}))
	assert.False(t, HasCoordColumns(nil))
}
