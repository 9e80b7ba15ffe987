// Package config loads, normalizes, and validates Postloom configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// OPENAI_API_KEY and FB_PAGE_TOKEN. The Config type centralizes every knob the
// CLI and web demo need, allowing workspace directories and external service
// credentials to be discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
