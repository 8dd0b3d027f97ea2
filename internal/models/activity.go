package models

// RawActivity is one activity record as returned by the provider's
// athlete/activities endpoint. Never persisted; lives only for the duration
// of one aggregation pass.
type RawActivity struct {
	Type               string  `json:"type"`
	Distance           float64 `json:"distance"`             // meters
	TotalElevationGain float64 `json:"total_elevation_gain"` // meters
	StartDateLocal     string  `json:"start_date_local"`     // RFC 3339, athlete-local wall clock
}
