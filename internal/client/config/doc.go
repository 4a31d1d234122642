// Package config loads runtime configuration for the web and CLI clients.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file selected with -c or -config. The extension picks
//     the format: .yaml/.yml for YAML, anything else for JSON.
//  3. Environment variables prefixed UMS_ (a .env file in the working
//     directory is loaded first when present).
//  4. Command-line flags, which override everything else.
//
// Supported flags
//
//	-a string   backend base URL, e.g. http://localhost:8080/api/v1
//	-l string   listen address of the web client
//	-s string   session store: sqlite, postgres, redis or memory
//
// # File schema
//
// Durations use timex.Duration, so they can be strings like "30m" or integer
// nanoseconds:
//
//	backend_url: http://localhost:8080/api/v1
//	listen_addr: :3000
//	session_store: sqlite
//	sqlite_path: data/sessions.db
//	session_ttl: 24h
//	purge_interval: 10m
//	page_size: 10
//	log_level: info
//	log_format: json
package config
