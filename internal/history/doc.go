// Package history records completed pipeline runs in a SQLite database so the
// CLI can show what was generated, with which provenance, and when. Recording
// is best effort: the orchestrator logs store failures but never fails a run
// because of them.
package history
