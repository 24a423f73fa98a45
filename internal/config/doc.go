// Package config handles configuration loading for advisor-gateway.
//
// # Overview
//
// Configuration is loaded from YAML files with environment variable expansion.
// The package provides validation and sensible defaults.
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	auth:
//	  jwt_secret: "${ADVISOR_JWT_SECRET}"
//
// # Duration Parsing
//
// Duration values use Go's time.ParseDuration syntax:
//
//	auth:
//	  token_ttl: "720h"
//	sessions:
//	  ttl: "30m"
//
// # Configuration Sections
//
// Server settings:
//
//	server:
//	  http_addr: "0.0.0.0:8080"   # API and console
//
// Database:
//
//	database:
//	  path: "/var/lib/advisor/gateway.db"
//
// Authentication:
//
//	auth:
//	  jwt_secret: "${ADVISOR_JWT_SECRET}"  # empty means presence-only token checks
//	  token_ttl: "720h"
//
// Logging:
//
//	logging:
//	  level: "info"   # debug, info, warn, error
//	  format: "text"  # text, json
package config
