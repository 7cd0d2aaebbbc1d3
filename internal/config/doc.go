// Package config loads pipeline configuration from environment variables
// (prefix CRF) merged with an optional YAML file, and validates it with
// struct-level constraints. Explicitly set variables take precedence over
// the file; file values beat the struct defaults. Paths for the five input tables and the output
// directory are resolved relative to the configured data directory.
package config
