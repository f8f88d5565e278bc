package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/moviereviews/internal/flagx"
)

// parseFlags populates server Config fields from command-line flags.
//
// Supported flags:
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-u string   public API base URL used in response links
//	-d string   PostgreSQL DSN
//	-s string   access token HMAC secret
//	-t int      access token validity, minutes
//	-bc int     bcrypt cost
//	-ct int     response cache TTL, minutes
//	-ci int     response cache sweep interval, minutes (0 disables the sweep)
//	-rl int     requests allowed per IP per rate limit window
//	-rw int     rate limit window, minutes
//	-wt int     webhook delivery timeout, seconds
//	-l string   log level
//
// os.Args is filtered with flagx.FilterArgs first so -c/-config and -env,
// owned by the other loaders, do not break parsing.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-u", "-d", "-s", "-t", "-bc", "-ct", "-ci", "-rl", "-rw", "-wt", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "address and port to run server")
	fs.StringVar(&config.APIBaseURL, "u", config.APIBaseURL, "public API base URL")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "access token secret key")
	accessTokenValidity := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access token validity (in minutes)")
	fs.IntVar(&config.BcryptCost, "bc", config.BcryptCost, "bcrypt cost")
	cacheTTL := fs.Int("ct", int(config.CacheTTL.Minutes()), "response cache TTL (in minutes)")
	cacheSweep := fs.Int("ci", int(config.CacheSweepInterval.Minutes()), "response cache sweep interval (in minutes)")
	fs.IntVar(&config.RateLimitRequests, "rl", config.RateLimitRequests, "requests per IP per window")
	rateWindow := fs.Int("rw", int(config.RateLimitWindow.Minutes()), "rate limit window (in minutes)")
	webhookTimeout := fs.Int("wt", int(config.WebhookTimeout.Seconds()), "webhook delivery timeout (in seconds)")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.AccessTokenValidityDuration = time.Duration(*accessTokenValidity) * time.Minute
	config.CacheTTL = time.Duration(*cacheTTL) * time.Minute
	config.CacheSweepInterval = time.Duration(*cacheSweep) * time.Minute
	config.RateLimitWindow = time.Duration(*rateWindow) * time.Minute
	config.WebhookTimeout = time.Duration(*webhookTimeout) * time.Second
}
