package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/linkproof/internal/flagx"
)

var serverFlags = []string{"-a", "-g", "-l", "-n", "-d", "-w", "-s", "-t", "-r", "-x", "-b", "-e", "-m", "-v"}

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-g string   gRPC bind address (e.g., ":50051")
//	-l string   public base URL for proof links
//	-n string   database driver (pgx or sqlite)
//	-d string   database DSN
//	-w int      store timeout, seconds
//	-s string   JWT HMAC secret key
//	-t int      access token validity, minutes
//	-r int      refresh token validity, minutes
//	-x string   Redis URL for the token revocation list
//	-b string   S3 bucket for proof certificates
//	-e string   S3 base endpoint
//	-m string   SMTP server address
//	-v string   log level
//
// Duration flags are accepted as integers and converted to time.Duration.
// Unknown flags are filtered out beforehand; a malformed value panics.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], serverFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "HTTP address and port to run server")
	fs.StringVar(&config.EndpointAddrGRPC, "g", config.EndpointAddrGRPC, "gRPC address and port to run server")
	fs.StringVar(&config.PublicBaseURL, "l", config.PublicBaseURL, "public base URL for proof links")
	fs.StringVar(&config.DatabaseDriver, "n", config.DatabaseDriver, "database driver (pgx|sqlite)")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	storeTimeout := fs.Int("w", int(config.StoreTimeout.Seconds()), "store timeout (in seconds)")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	accessTokenValidityDuration := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access_token_validity_duration (in minutes)")
	refreshTokenValidityDuration := fs.Int("r", int(config.RefreshTokenValidityDuration.Minutes()), "refresh_token_validity_duration (in minutes)")

	fs.StringVar(&config.RedisURL, "x", config.RedisURL, "Redis URL")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&config.SMTPAddr, "m", config.SMTPAddr, "SMTP server address")
	fs.StringVar(&config.LogLevel, "v", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// Only explicitly given duration flags win, so sub-unit values from the
	// config file are not truncated.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "w":
			config.StoreTimeout = time.Duration(*storeTimeout) * time.Second
		case "t":
			config.AccessTokenValidityDuration = time.Duration(*accessTokenValidityDuration) * time.Minute
		case "r":
			config.RefreshTokenValidityDuration = time.Duration(*refreshTokenValidityDuration) * time.Minute
		}
	})
}
