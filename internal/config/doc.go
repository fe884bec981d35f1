// Package config loads, normalizes, and validates lyricgraph configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// GENIUS_ACCESS_TOKEN. The Config type centralizes every knob the harvester,
// the context-graph build, and the CLI need, so output locations and provider
// credentials are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
