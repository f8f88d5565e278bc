package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/moviereviews/internal/flagx"
	"github.com/dmitrijs2005/moviereviews/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Durations use
// timex.Duration so both "1h" and integer nanoseconds are accepted.
type JsonConfig struct {
	HTTPAddr                    string         `json:"http_addr"`
	APIBaseURL                  string         `json:"api_base_url"`
	DatabaseDSN                 string         `json:"database_dsn"`
	SecretKey                   string         `json:"secret_key"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
	BcryptCost                  int            `json:"bcrypt_cost"`
	CacheTTL                    timex.Duration `json:"cache_ttl"`
	CacheSweepInterval          timex.Duration `json:"cache_sweep_interval"`
	RateLimitRequests           int            `json:"rate_limit_requests"`
	RateLimitWindow             timex.Duration `json:"rate_limit_window"`
	WebhookTimeout              timex.Duration `json:"webhook_timeout"`
	LogLevel                    string         `json:"log_level"`
}

// parseJson overlays values from the JSON file named by -c/-config onto
// config. Fields absent from the file keep their current value. A missing
// flag means no file is read; an unreadable or invalid file panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.ConfigFileFlag()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.HTTPAddr, c.HTTPAddr)
	setString(&config.APIBaseURL, c.APIBaseURL)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setDuration(&config.AccessTokenValidityDuration, c.AccessTokenValidityDuration)
	setInt(&config.BcryptCost, c.BcryptCost)
	setDuration(&config.CacheTTL, c.CacheTTL)
	setDuration(&config.CacheSweepInterval, c.CacheSweepInterval)
	setInt(&config.RateLimitRequests, c.RateLimitRequests)
	setDuration(&config.RateLimitWindow, c.RateLimitWindow)
	setDuration(&config.WebhookTimeout, c.WebhookTimeout)
	setString(&config.LogLevel, c.LogLevel)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v timex.Duration) {
	if v.Duration != 0 {
		*dst = v.Duration
	}
}
