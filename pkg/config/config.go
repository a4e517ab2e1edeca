package config

import (
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type FeedConfig struct {
	URL             string `yaml:"url" validate:"required,url"`
	UserAgent       string `yaml:"user_agent"`
	TimeoutSeconds  int    `yaml:"timeout_seconds" validate:"gt=0"`
	UTCOffsetHours  int    `yaml:"utc_offset_hours" validate:"gte=-12,lte=14"`
	IntervalSeconds int    `yaml:"interval_seconds" validate:"gt=0"`
}

type IngestConfig struct {
	RetentionMinutes     int    `yaml:"retention_minutes" validate:"gt=0"`
	ReferenceRefreshHour int    `yaml:"reference_refresh_hours" validate:"gt=0"`
	LegacyMapPath        string `yaml:"legacy_map_path"`
	StatsListen          string `yaml:"stats_listen"`
}

type PredictionConfig struct {
	WindowMinutes   int `yaml:"window_minutes" validate:"gt=0"`
	CacheTTLSeconds int `yaml:"cache_ttl_seconds" validate:"gte=0"`
}

type RateLimitConfig struct {
	Enabled       bool `yaml:"enabled"`
	PermitLimit   int  `yaml:"permit_limit" validate:"gt=0"`
	WindowSeconds int  `yaml:"window_seconds" validate:"gt=0"`
}

type APIConfig struct {
	Listen    string          `yaml:"listen"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

type Config struct {
	Feed       FeedConfig       `yaml:"feed"`
	Ingest     IngestConfig     `yaml:"ingest"`
	Prediction PredictionConfig `yaml:"prediction"`
	API        APIConfig        `yaml:"api"`
}

func Defaults() Config {
	return Config{
		Feed: FeedConfig{
			URL:             "https://temporeal.pbh.gov.br/?param=C",
			UserAgent:       "BusTrackerApp/1.0",
			TimeoutSeconds:  30,
			UTCOffsetHours:  -3,
			IntervalSeconds: 30,
		},
		Ingest: IngestConfig{
			RetentionMinutes:     5,
			ReferenceRefreshHour: 1,
			LegacyMapPath:        "bhtrans_bdlinha.csv",
			StatsListen:          ":3333",
		},
		Prediction: PredictionConfig{
			WindowMinutes:   5,
			CacheTTLSeconds: 15,
		},
		API: APIConfig{
			Listen: ":8080",
			RateLimit: RateLimitConfig{
				Enabled:       true,
				PermitLimit:   20,
				WindowSeconds: 60,
			},
		},
	}
}

// Load reads the optional YAML config file, applies environment overrides
// and validates the result. A missing file just means defaults.
func Load() (Config, error) {
	cfg := Defaults()

	path := os.Getenv("BUSTRACKER_CONFIG")
	if path == "" {
		path = "config.yml"
	}

	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	}

	applyEnvironmentOverrides(&cfg)

	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func applyEnvironmentOverrides(cfg *Config) {
	overrideString("BUSTRACKER_FEED_URL", &cfg.Feed.URL)
	overrideString("BUSTRACKER_FEED_USER_AGENT", &cfg.Feed.UserAgent)
	overrideInt("BUSTRACKER_FEED_TIMEOUT_SECONDS", &cfg.Feed.TimeoutSeconds)
	overrideInt("BUSTRACKER_FEED_UTC_OFFSET_HOURS", &cfg.Feed.UTCOffsetHours)
	overrideInt("BUSTRACKER_FEED_INTERVAL_SECONDS", &cfg.Feed.IntervalSeconds)

	overrideInt("BUSTRACKER_RETENTION_MINUTES", &cfg.Ingest.RetentionMinutes)
	overrideInt("BUSTRACKER_REFERENCE_REFRESH_HOURS", &cfg.Ingest.ReferenceRefreshHour)
	overrideString("BUSTRACKER_LEGACY_MAP_PATH", &cfg.Ingest.LegacyMapPath)
	overrideString("BUSTRACKER_STATS_LISTEN", &cfg.Ingest.StatsListen)

	overrideInt("BUSTRACKER_PREDICTION_WINDOW_MINUTES", &cfg.Prediction.WindowMinutes)
	overrideInt("BUSTRACKER_PREDICTION_CACHE_TTL_SECONDS", &cfg.Prediction.CacheTTLSeconds)

	overrideString("BUSTRACKER_API_LISTEN", &cfg.API.Listen)
}

func overrideString(key string, target *string) {
	if value := os.Getenv(key); value != "" {
		*target = value
	}
}

func overrideInt(key string, target *int) {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			*target = parsed
		}
	}
}

func (c FeedConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func (c FeedConfig) Interval() time.Duration {
	return time.Duration(c.IntervalSeconds) * time.Second
}

func (c FeedConfig) Timezone() *time.Location {
	return time.FixedZone("FEED", c.UTCOffsetHours*3600)
}

func (c IngestConfig) Retention() time.Duration {
	return time.Duration(c.RetentionMinutes) * time.Minute
}

func (c IngestConfig) ReferenceRefresh() time.Duration {
	return time.Duration(c.ReferenceRefreshHour) * time.Hour
}

func (c PredictionConfig) Window() time.Duration {
	return time.Duration(c.WindowMinutes) * time.Minute
}

func (c PredictionConfig) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}
