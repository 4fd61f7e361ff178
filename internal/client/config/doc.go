// Package config loads runtime configuration for the LinkProof CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file selected via -c or -config (or $LINKPROOF_CONFIG);
//     YAML for .yaml/.yml files, JSON otherwise.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   address:port of the backend gRPC endpoint
//	-t int      request timeout (seconds)
//	-db string  local SQLite file
//
// # File schema
//
// Durations accept strings like "30s" or integer nanoseconds:
//
//	server_endpoint_addr: 127.0.0.1:50051
//	request_timeout: 30s
//	local_db_path: linkproof.db
package config
