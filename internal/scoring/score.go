package scoring

import (
	"time"

	"stravaboard/internal/models"
)

const dayLayout = "2006-01-02"

// Score converts one raw activity into its competitive score. Pure: the
// result depends only on the activity and the ruleset.
func (rs *Ruleset) Score(a *models.RawActivity) float64 {
	r := rs.ruleFor(a.Type)
	dist := a.Distance / 1000
	height := a.TotalElevationGain / 1000

	score := r.Distance*dist + r.Elevation*height + r.Flat
	return score * rs.multiplier(a.StartDateLocal)
}

// multiplier returns 2 when the activity's local start falls on a
// double-score day, 1 otherwise. The provider reports start_date_local as
// athlete-local wall clock with a Z suffix, so the calendar day is taken
// verbatim from the timestamp.
func (rs *Ruleset) multiplier(startDateLocal string) float64 {
	t, err := time.Parse(time.RFC3339, startDateLocal)
	if err != nil {
		return 1
	}
	if rs.isDoubleDay(t.Format(dayLayout)) {
		return 2
	}
	return 1
}
