package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/goccy/go-yaml"

	"github.com/dmitrijs2005/linkproof/internal/flagx"
	"github.com/dmitrijs2005/linkproof/internal/timex"
)

// FileConfig mirrors Config for decoding config files. Durations use
// timex.Duration so both "5s" and integer nanoseconds are accepted.
// Zero values are treated as "not set" and leave the defaults alone.
type FileConfig struct {
	EndpointAddrHTTP             string         `json:"endpoint_addr_http" yaml:"endpoint_addr_http"`
	EndpointAddrGRPC             string         `json:"endpoint_addr_grpc" yaml:"endpoint_addr_grpc"`
	PublicBaseURL                string         `json:"public_base_url" yaml:"public_base_url"`
	DatabaseDriver               string         `json:"database_driver" yaml:"database_driver"`
	DatabaseDSN                  string         `json:"database_dsn" yaml:"database_dsn"`
	StoreTimeout                 timex.Duration `json:"store_timeout" yaml:"store_timeout"`
	MaxUploadSize                int64          `json:"max_upload_size" yaml:"max_upload_size"`
	SecretKey                    string         `json:"secret_key" yaml:"secret_key"`
	AccessTokenValidityDuration  timex.Duration `json:"access_token_validity_duration" yaml:"access_token_validity_duration"`
	RefreshTokenValidityDuration timex.Duration `json:"refresh_token_validity_duration" yaml:"refresh_token_validity_duration"`
	RedisURL                     string         `json:"redis_url" yaml:"redis_url"`
	S3RootUser                   string         `json:"s3_root_user" yaml:"s3_root_user"`
	S3RootPassword               string         `json:"s3_root_password" yaml:"s3_root_password"`
	S3Bucket                     string         `json:"s3_bucket" yaml:"s3_bucket"`
	S3Region                     string         `json:"s3_region" yaml:"s3_region"`
	S3BaseEndpoint               string         `json:"s3_base_endpoint" yaml:"s3_base_endpoint"`
	SMTPAddr                     string         `json:"smtp_addr" yaml:"smtp_addr"`
	SMTPFrom                     string         `json:"smtp_from" yaml:"smtp_from"`
	SMTPUser                     string         `json:"smtp_user" yaml:"smtp_user"`
	SMTPPassword                 string         `json:"smtp_password" yaml:"smtp_password"`
	NotifyQueueSize              int            `json:"notify_queue_size" yaml:"notify_queue_size"`
	LogLevel                     string         `json:"log_level" yaml:"log_level"`
}

// parseFile overlays values from the file named by -c/-config (or
// $LINKPROOF_CONFIG). Files ending in .yaml or .yml are decoded as YAML,
// anything else as JSON. Unreadable or malformed files panic: the server
// must not start on a half-applied configuration.
func parseFile(config *Config) {
	path := flagx.ConfigFileFlag()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	fc, err := decodeFile(path, data)
	if err != nil {
		panic(err)
	}
	fc.apply(config)
}

func decodeFile(path string, data []byte) (*FileConfig, error) {
	fc := &FileConfig{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, fc); err != nil {
			return nil, err
		}
	default:
		if err := json.Unmarshal(data, fc); err != nil {
			return nil, err
		}
	}
	return fc, nil
}

func (fc *FileConfig) apply(c *Config) {
	setString(&c.EndpointAddrHTTP, fc.EndpointAddrHTTP)
	setString(&c.EndpointAddrGRPC, fc.EndpointAddrGRPC)
	setString(&c.PublicBaseURL, fc.PublicBaseURL)
	setString(&c.DatabaseDriver, fc.DatabaseDriver)
	setString(&c.DatabaseDSN, fc.DatabaseDSN)
	setString(&c.SecretKey, fc.SecretKey)
	setString(&c.RedisURL, fc.RedisURL)
	setString(&c.S3RootUser, fc.S3RootUser)
	setString(&c.S3RootPassword, fc.S3RootPassword)
	setString(&c.S3Bucket, fc.S3Bucket)
	setString(&c.S3Region, fc.S3Region)
	setString(&c.S3BaseEndpoint, fc.S3BaseEndpoint)
	setString(&c.SMTPAddr, fc.SMTPAddr)
	setString(&c.SMTPFrom, fc.SMTPFrom)
	setString(&c.SMTPUser, fc.SMTPUser)
	setString(&c.SMTPPassword, fc.SMTPPassword)
	setString(&c.LogLevel, fc.LogLevel)

	if fc.StoreTimeout.Duration > 0 {
		c.StoreTimeout = fc.StoreTimeout.Duration
	}
	if fc.AccessTokenValidityDuration.Duration > 0 {
		c.AccessTokenValidityDuration = fc.AccessTokenValidityDuration.Duration
	}
	if fc.RefreshTokenValidityDuration.Duration > 0 {
		c.RefreshTokenValidityDuration = fc.RefreshTokenValidityDuration.Duration
	}
	if fc.MaxUploadSize > 0 {
		c.MaxUploadSize = fc.MaxUploadSize
	}
	if fc.NotifyQueueSize > 0 {
		c.NotifyQueueSize = fc.NotifyQueueSize
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
