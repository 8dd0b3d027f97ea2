package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Credential is one athlete's stored Strava token record. ExpiresAt is the
// sole authority for token staleness (epoch seconds, provider clock).
type Credential struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID             int64  `bun:"id,pk"`
	Username       string `bun:"username"`
	Firstname      string `bun:"firstname,notnull"`
	Lastname       string `bun:"lastname,notnull"`
	AccessToken    string `bun:"access_token,notnull"`
	RefreshToken   string `bun:"refresh_token,notnull"`
	ExpiresAt      int64  `bun:"expires_at,notnull"`
	ProfileImgLink string `bun:"profile_img_link"`
}

// Expired reports whether the access token is stale at the given instant.
func (c *Credential) Expired(now time.Time) bool {
	return c.ExpiresAt*1000 < now.UnixMilli()
}
