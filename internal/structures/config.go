package structures

import "time"

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

type StravaConfig struct {
	ClientID     string `yaml:"clientId" validate:"required"`
	ClientSecret string `yaml:"clientSecret" validate:"required"`
	RedirectURI  string `yaml:"redirectUri"`
	// AfterDate is the competition start instant; only activities starting
	// after it count. RFC 3339.
	AfterDate string `yaml:"afterDate" validate:"required"`
	// TokenURL and APIURL default to the public Strava endpoints and exist
	// so tests can point the client at local servers.
	TokenURL string `yaml:"tokenUrl"`
	APIURL   string `yaml:"apiUrl"`
	// Timeout bounds every single call to the provider.
	Timeout time.Duration `yaml:"timeout"`
}

type CompetitionConfig struct {
	// DoubleScoreDates lists calendar days (YYYY-MM-DD, athlete-local) on
	// which every activity scores double.
	DoubleScoreDates []string `yaml:"doubleScoreDates"`
}

type CacheConfig struct {
	// TTL is the snapshot freshness window in milliseconds.
	TTL int `yaml:"ttl" validate:"required|min:1"`
	// Per-athlete raw activity response cache (freecache). Size in MB,
	// activity TTL in seconds. Disabled when Enabled is false or Size <= 0.
	Enabled     bool `yaml:"enabled"`
	Size        int  `yaml:"size"`
	ActivityTTL int  `yaml:"activityTTL"`
}

type DatabaseConfig struct {
	URL string `yaml:"url" validate:"required"`
}

type PersistenceConfig struct {
	FilePath     string        `yaml:"filePath" validate:"required|unixPath"`
	SaveInterval time.Duration `yaml:"saveInterval" validate:"required|min:1"`
}

type RefreshConfig struct {
	// Interval between background snapshot refreshes. Zero disables the
	// background loop; the cache then refreshes only on demand.
	Interval time.Duration `yaml:"interval"`
}

type Config struct {
	AppName     string
	Debug       bool
	Path        string
	WebServer   Server            `yaml:"webServer"`
	Logger      LoggerConfig      `yaml:"logger"`
	Strava      StravaConfig      `yaml:"strava"`
	Competition CompetitionConfig `yaml:"competition"`
	Cache       CacheConfig       `yaml:"cache"`
	Database    DatabaseConfig    `yaml:"database"`
	Persistence PersistenceConfig `yaml:"persistence"`
	Refresh     RefreshConfig     `yaml:"refresh"`
}
