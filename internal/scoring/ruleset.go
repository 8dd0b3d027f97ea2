package scoring

// Rule maps one activity type to a score formula over dist (km) and height
// (km of climb): score = Distance*dist + Elevation*height + Flat.
type Rule struct {
	Distance  float64
	Elevation float64
	Flat      float64
}

// Ruleset is the full competition scoring configuration: per-type rules, a
// fallback rule for every other type, and the set of calendar days on which
// scores double.
type Ruleset struct {
	Rules       map[string]Rule
	Fallback    Rule
	doubleDates map[string]struct{}
}

func NewRuleset(rules map[string]Rule, fallback Rule, doubleScoreDates []string) *Ruleset {
	dd := make(map[string]struct{}, len(doubleScoreDates))
	for _, d := range doubleScoreDates {
		dd[d] = struct{}{}
	}
	return &Ruleset{Rules: rules, Fallback: fallback, doubleDates: dd}
}

// DefaultRules is the reference scoring table.
func DefaultRules() map[string]Rule {
	run := Rule{Distance: 1, Elevation: 2}
	ride := Rule{Distance: 1.0 / 3, Elevation: 2.0 / 3}
	return map[string]Rule{
		"Run":                run,
		"VirtualRun":         run,
		"Elliptical":         run,
		"Walk":               run,
		"Hike":               run,
		"VirtualRide":        {Flat: 5},
		"Ride":               ride,
		"Mountain Bike Ride": ride,
		"Gravel Ride":        ride,
		"EBikeRide":          {Distance: 1.0 / 8},
		"NordicSki":          {Distance: 1.0 / 3},
		"Rowing":             {Distance: 1 / 1.25},
		"Swim":               {Distance: 4},
	}
}

// DefaultFallback scores every unlisted activity type a flat 5.
func DefaultFallback() Rule {
	return Rule{Flat: 5}
}

// DefaultRuleset builds the reference ruleset with the given double-score
// days (YYYY-MM-DD).
func DefaultRuleset(doubleScoreDates []string) *Ruleset {
	return NewRuleset(DefaultRules(), DefaultFallback(), doubleScoreDates)
}

func (rs *Ruleset) ruleFor(activityType string) Rule {
	if r, ok := rs.Rules[activityType]; ok {
		return r
	}
	return rs.Fallback
}

func (rs *Ruleset) isDoubleDay(day string) bool {
	_, ok := rs.doubleDates[day]
	return ok
}
