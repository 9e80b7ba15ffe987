package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"postloom/internal/pipeline"
)

const (
	ansiReset  = "\x1b[0m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
)

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// provenanceBadge renders "real" green and "simulated" yellow with the reason
// appended, so a glance at the run summary shows which stages degraded.
func provenanceBadge(result pipeline.StageResult, colorize bool) string {
	label := string(result.Provenance)
	if label == "" {
		label = "unknown"
	}
	if result.Reason != "" {
		label = fmt.Sprintf("%s (%s)", label, result.Reason)
	}
	if !colorize {
		return label
	}
	switch result.Provenance {
	case pipeline.ProvenanceReal:
		return ansiGreen + label + ansiReset
	case pipeline.ProvenanceSimulated:
		return ansiYellow + label + ansiReset
	default:
		return label
	}
}

func truncate(value string, max int) string {
	value = strings.TrimSpace(value)
	if max <= 3 || len(value) <= max {
		return value
	}
	return value[:max-3] + "..."
}
