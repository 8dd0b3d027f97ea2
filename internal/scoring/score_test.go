package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"stravaboard/internal/models"
)

func activity(actType string, distKm, elevM float64, start string) *models.RawActivity {
	return &models.RawActivity{
		Type:               actType,
		Distance:           distKm * 1000,
		TotalElevationGain: elevM,
		StartDateLocal:     start,
	}
}

func defaultRs(doubleDates ...string) *Ruleset {
	return DefaultRuleset(doubleDates)
}

func TestScore_ReferenceTable(t *testing.T) {
	rs := defaultRs()
	cases := []struct {
		name     string
		actType  string
		distKm   float64
		elevM    float64
		expected float64
	}{
		{"run flat", "Run", 10, 0, 10},
		{"virtual run", "VirtualRun", 10, 0, 10},
		{"elliptical", "Elliptical", 5, 0, 5},
		{"run with climb", "Run", 10, 500, 11},
		{"walk", "Walk", 4, 0, 4},
		{"hike with climb", "Hike", 6, 1000, 8},
		{"virtual ride is flat scored", "VirtualRide", 100, 2000, 5},
		{"ride", "Ride", 30, 0, 10},
		{"mountain bike ride", "Mountain Bike Ride", 30, 0, 10},
		{"gravel ride", "Gravel Ride", 30, 0, 10},
		{"ride with climb", "Ride", 30, 1500, 11},
		{"ebike ride", "EBikeRide", 8, 0, 1},
		{"ebike climb ignored", "EBikeRide", 8, 900, 1},
		{"nordic ski", "NordicSki", 9, 0, 3},
		{"rowing", "Rowing", 10, 0, 8},
		{"swim", "Swim", 2, 0, 8},
		{"kayak falls back to flat", "Kayak", 42, 0, 5},
		{"unknown type falls back to flat", "UnicycleDescent", 1, 0, 5},
		{"alpine ski falls back to flat", "AlpineSki", 25, 3000, 5},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := activity(tc.actType, tc.distKm, tc.elevM, "2025-04-10T08:30:00Z")
			assert.InDelta(t, tc.expected, rs.Score(a), 1e-9)
		})
	}
}

func TestScore_DoubleScoreDate(t *testing.T) {
	rs := defaultRs("2025-04-12")

	assert.InDelta(t, 20, rs.Score(activity("Run", 10, 0, "2025-04-12T07:00:00Z")), 1e-9)
	assert.InDelta(t, 10, rs.Score(activity("Run", 10, 0, "2025-04-11T23:59:59Z")), 1e-9)
	assert.InDelta(t, 10, rs.Score(activity("Run", 10, 0, "2025-04-13T00:00:00Z")), 1e-9)
}

func TestScore_DoubleScoreDate_AppliesToFallback(t *testing.T) {
	rs := defaultRs("2025-05-01")
	assert.InDelta(t, 10, rs.Score(activity("Kayak", 3, 0, "2025-05-01T12:00:00Z")), 1e-9)
}

func TestScore_UnparsableStartDateSkipsBonus(t *testing.T) {
	rs := defaultRs("2025-04-12")
	assert.InDelta(t, 10, rs.Score(activity("Run", 10, 0, "not-a-date")), 1e-9)
}

func TestScore_Deterministic(t *testing.T) {
	rs := defaultRs("2025-04-12")
	a := activity("Ride", 21.7, 431, "2025-04-12T10:15:00Z")

	first := rs.Score(a)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, rs.Score(a))
	}
}

func TestRuleset_CustomTable(t *testing.T) {
	rs := NewRuleset(map[string]Rule{
		"Run": {Distance: 2},
	}, Rule{Flat: 1}, nil)

	assert.InDelta(t, 20, rs.Score(activity("Run", 10, 0, "2025-04-10T08:00:00Z")), 1e-9)
	assert.InDelta(t, 1, rs.Score(activity("Swim", 10, 0, "2025-04-10T08:00:00Z")), 1e-9)
}
