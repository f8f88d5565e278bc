package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/dmitrijs2005/moviereviews/internal/flagx"
	"github.com/joho/godotenv"
)

// Environment variable names understood by parseEnv.
const (
	envPort               = "PORT"
	envHTTPAddr           = "HTTP_ADDR"
	envAPIBaseURL         = "API_BASE_URL"
	envDatabaseURL        = "DATABASE_URL"
	envAccessTokenSecret  = "ACCESS_TOKEN_SECRET"
	envAccessTokenTTL     = "ACCESS_TOKEN_TTL"
	envBcryptCost         = "BCRYPT_COST"
	envCacheTTL           = "CACHE_TTL"
	envCacheSweepInterval = "CACHE_SWEEP_INTERVAL"
	envRateLimitRequests  = "RATE_LIMIT_REQUESTS"
	envRateLimitWindow    = "RATE_LIMIT_WINDOW"
	envWebhookTimeout     = "WEBHOOK_TIMEOUT"
	envLogLevel           = "LOG_LEVEL"
)

// parseEnv loads the dotenv file named by -env (default ".env") into the
// process environment, then overlays every variable that is set onto config.
// Variables already present in the environment win over the file. A missing
// file is not an error; a malformed value panics like the other loaders.
func parseEnv(config *Config) {
	if err := godotenv.Load(flagx.EnvFileFlag()); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}

	if port, ok := os.LookupEnv(envPort); ok && port != "" {
		config.HTTPAddr = ":" + port
	}
	lookupString(envHTTPAddr, &config.HTTPAddr)
	lookupString(envAPIBaseURL, &config.APIBaseURL)
	lookupString(envDatabaseURL, &config.DatabaseDSN)
	lookupString(envAccessTokenSecret, &config.SecretKey)
	lookupDuration(envAccessTokenTTL, &config.AccessTokenValidityDuration)
	lookupInt(envBcryptCost, &config.BcryptCost)
	lookupDuration(envCacheTTL, &config.CacheTTL)
	lookupDuration(envCacheSweepInterval, &config.CacheSweepInterval)
	lookupInt(envRateLimitRequests, &config.RateLimitRequests)
	lookupDuration(envRateLimitWindow, &config.RateLimitWindow)
	lookupDuration(envWebhookTimeout, &config.WebhookTimeout)
	lookupString(envLogLevel, &config.LogLevel)
}

func lookupString(name string, dst *string) {
	if v, ok := os.LookupEnv(name); ok && v != "" {
		*dst = v
	}
}

func lookupInt(name string, dst *int) {
	v, ok := os.LookupEnv(name)
	if !ok || v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		panic(err)
	}
	*dst = n
}

func lookupDuration(name string, dst *time.Duration) {
	v, ok := os.LookupEnv(name)
	if !ok || v == "" {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(err)
	}
	*dst = d
}
