package zoning

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/sells-group/zoneplan/internal/roster"
)

func TestChooseK_FindsThreeBlobs(t *testing.T) {
	coords := threeBlobs()

	k, err := ChooseK(coords, SelectOpts{KMin: 2, KMax: 5, Seed: 42, Restarts: 10})
	require.NoError(t, err)
	assert.Equal(t, 3, k)
}

func TestChooseK_EmptyInput(t *testing.T) {
	_, err := ChooseK(nil, SelectOpts{KMin: 2, KMax: 4})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no points")
}

func TestChooseK_InvalidRange(t *testing.T) {
	coords := threeBlobs()

	_, err := ChooseK(coords, SelectOpts{KMin: 5, KMax: 2})
	require.Error(t, err)

	_, err = ChooseK(coords, SelectOpts{KMin: 0, KMax: 3})
	require.Error(t, err)
}

func TestChooseK_NearCoincidentPointsStayInRange(t *testing.T) {
	// Twelve distinct rooftops inside a hundredth of a degree, the
	// whole roster essentially one dot on the map. Selection must
	// still land inside the requested range without erroring.
	coords := make([]roster.Coordinate, 12)
	for i := range coords {
		coords[i] = roster.Coordinate{
			Lat: 30.2672 + float64(i)*0.0008,
			Lng: -97.7431 - float64(i)*0.0007,
		}
	}

	k, err := ChooseK(coords, SelectOpts{KMin: 6, KMax: 8, Seed: 42, Restarts: 10})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, k, 6)
	assert.LessOrEqual(t, k, 8)
}

func TestChooseK_AllDegenerate_FallsBackToKMin(t *testing.T) {
	// Identical points collapse every candidate clustering.
	coords := make([]roster.Coordinate, 10)
	for i := range coords {
		coords[i] = roster.Coordinate{Lat: 30, Lng: -97}
	}

	k, err := ChooseK(coords, SelectOpts{KMin: 3, KMax: 5, Seed: 42, Restarts: 5})
	require.NoError(t, err)
	assert.Equal(t, 3, k)
}

func TestChooseK_CandidatesAbovePointCountSkipped(t *testing.T) {
	coords := []roster.Coordinate{
		{Lat: 30.0, Lng: -97.0},
		{Lat: 31.0, Lng: -98.0},
		{Lat: 29.0, Lng: -96.0},
	}

	// KMax far above n; only k in {2, 3} can be scored.
	k, err := ChooseK(coords, SelectOpts{KMin: 2, KMax: 8, Seed: 42, Restarts: 5})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, k, 2)
	assert.LessOrEqual(t, k, 3)
}

func TestChooseK_DegenerateWarningGatedOnScoring(t *testing.T) {
	const fallbackMsg = "all candidate zone counts degenerate, falling back to minimum"

	t.Run("nothing scored warns", func(t *testing.T) {
		core, logs := observer.New(zap.WarnLevel)
		restore := zap.ReplaceGlobals(zap.New(core))
		defer restore()

		coords := make([]roster.Coordinate, 8)
		for i := range coords {
			coords[i] = roster.Coordinate{Lat: 30, Lng: -97}
		}
		k, err := ChooseK(coords, SelectOpts{KMin: 3, KMax: 5, Seed: 42, Restarts: 3})
		require.NoError(t, err)
		assert.Equal(t, 3, k)
		assert.Equal(t, 1, logs.FilterMessage(fallbackMsg).Len())
	})

	t.Run("scored candidates stay quiet", func(t *testing.T) {
		core, logs := observer.New(zap.WarnLevel)
		restore := zap.ReplaceGlobals(zap.New(core))
		defer restore()

		_, err := ChooseK(threeBlobs(), SelectOpts{KMin: 2, KMax: 4, Seed: 42, Restarts: 5})
		require.NoError(t, err)
		assert.Zero(t, logs.FilterMessage(fallbackMsg).Len())
	})
}

func TestChooseK_MalformedCoordinate(t *testing.T) {
	coords := threeBlobs()
	coords[4] = roster.Coordinate{Lat: 999, Lng: 0}

	_, err := ChooseK(coords, SelectOpts{KMin: 2, KMax: 4, Seed: 42, Restarts: 5})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedCoordinate)
}

func TestSilhouette_WellSeparated(t *testing.T) {
	coords := threeBlobs()
	f := kmeans(coords, 3, 10, 42)

	score := silhouette(coords, f.labels, 3)
	assert.Greater(t, score, 0.9, "tight separated blobs should score near 1")
}

func TestSilhouette_SingletonClustersScoreZero(t *testing.T) {
	coords := []roster.Coordinate{{Lat: 1, Lng: 1}, {Lat: 2, Lng: 2}}
	score := silhouette(coords, []int{0, 1}, 2)
	assert.Zero(t, score)
}
