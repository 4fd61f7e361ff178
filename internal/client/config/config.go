package config

import "time"

// Config holds runtime settings for the LinkProof CLI.
//
// Fields:
//   - ServerEndpointAddr: host:port of the backend gRPC endpoint.
//   - RequestTimeout: upper bound for a single call to the server.
//   - LocalDBPath: SQLite file holding the session and the local receipt history.
//   - MaxFileSize: largest file, in bytes, the CLI will read and send.
type Config struct {
	ServerEndpointAddr string
	RequestTimeout     time.Duration
	LocalDBPath        string
	MaxFileSize        int64
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.RequestTimeout = 30 * time.Second
	c.LocalDBPath = "linkproof.db"
	c.MaxFileSize = 32 << 20
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// a config file (if present) and command-line flags (if present). Later
// sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseFile(cfg)
	parseFlags(cfg)
	return cfg
}
