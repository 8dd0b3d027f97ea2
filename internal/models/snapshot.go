package models

import "time"

// AthleteDisplay is one athlete's derived leaderboard row.
type AthleteDisplay struct {
	Firstname          string  `json:"firstname"`
	Lastname           string  `json:"lastname"`
	Username           string  `json:"username"`
	Img                string  `json:"img"`
	Score              float64 `json:"score"`
	NumberOfActivities int     `json:"number_of_activities"`
}

// CompetitionDetails are the sums across one snapshot's athletes.
type CompetitionDetails struct {
	TotalKm    float64 `json:"total_km"`
	TotalScore float64 `json:"total_score"`
}

// LeaderboardSnapshot is one complete computed leaderboard. Athlete order is
// unspecified; the presentation layer sorts for display.
type LeaderboardSnapshot struct {
	Athletes  []AthleteDisplay   `json:"athleteDisplays"`
	Details   CompetitionDetails `json:"details"`
	FetchedAt time.Time          `json:"-"`
}
