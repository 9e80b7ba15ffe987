// Package logging constructs the slog loggers used across Postloom.
//
// Output format (console or json) and level come from the logging section of
// the configuration. When a log directory is configured, records are written
// both to stderr and to postloom.log inside that directory.
package logging
