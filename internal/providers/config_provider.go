package providers

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"stravaboard/internal/structures"
)

const (
	defaultTokenURL    = "https://www.strava.com/oauth/token"
	defaultAPIURL      = "https://www.strava.com/api/v3"
	defaultCallTimeout = 15 * time.Second
)

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	filename := filepath.Base(flags.ConfigPath)
	viper.AddConfigPath(filepath.Dir(flags.ConfigPath))
	viper.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	viper.SetConfigType("yaml")

	viper.BindEnv("logger.level", "SB_LOG_LEVEL")
	viper.BindEnv("strava.clientId", "STRAVA_CLIENT_ID")
	viper.BindEnv("strava.clientSecret", "STRAVA_CLIENT_SECRET")
	viper.BindEnv("strava.redirectUri", "STRAVA_REDIRECT_URI")
	viper.BindEnv("strava.afterDate", "STRAVA_ACTIVITIES_AFTER")
	viper.BindEnv("cache.ttl", "STRAVA_FETCH_INTERVAL")
	viper.BindEnv("database.url", "DATABASE_URL")

	err := viper.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = viper.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	if conf.Strava.TokenURL == "" {
		conf.Strava.TokenURL = defaultTokenURL
	}
	if conf.Strava.APIURL == "" {
		conf.Strava.APIURL = defaultAPIURL
	}
	if conf.Strava.Timeout <= 0 {
		conf.Strava.Timeout = defaultCallTimeout
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "StravaBoard"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
