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

// FileConfig is a DTO used exclusively for config file decoding.
// It relies on timex.Duration so intervals can be written either as
// strings like "3s" or as integer nanoseconds.
type FileConfig struct {
	ServerEndpointAddr string         `json:"server_endpoint_addr" yaml:"server_endpoint_addr"`
	RequestTimeout     timex.Duration `json:"request_timeout" yaml:"request_timeout"`
	LocalDBPath        string         `json:"local_db_path" yaml:"local_db_path"`
	MaxFileSize        int64          `json:"max_file_size" yaml:"max_file_size"`
}

// parseFile overlays Config with values loaded from the file named by
// -c/-config. YAML is chosen by the .yaml/.yml extension, JSON otherwise.
// Panics on read or decode errors.
func parseFile(cfg *Config) {
	path := flagx.ConfigFileFlag()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var fc FileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		panic(err)
	}

	if fc.ServerEndpointAddr != "" {
		cfg.ServerEndpointAddr = fc.ServerEndpointAddr
	}
	if fc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = fc.RequestTimeout.Duration
	}
	if fc.LocalDBPath != "" {
		cfg.LocalDBPath = fc.LocalDBPath
	}
	if fc.MaxFileSize > 0 {
		cfg.MaxFileSize = fc.MaxFileSize
	}
}
