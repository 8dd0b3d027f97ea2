package providers

import (
	"stravaboard/internal/scoring"
	"stravaboard/internal/structures"
)

// NewRulesetProvider builds the competition ruleset: the reference scoring
// table plus the configured double-score days.
func NewRulesetProvider(conf *structures.Config) *scoring.Ruleset {
	return scoring.DefaultRuleset(conf.Competition.DoubleScoreDates)
}
