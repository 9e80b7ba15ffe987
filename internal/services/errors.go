package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrExternalService marks network, credential, quota, and
	// malformed-response failures from remote APIs.
	ErrExternalService = errors.New("external service unavailable")
	// ErrToolMissing marks an external binary that is absent from PATH or
	// exited with failure.
	ErrToolMissing = errors.New("external tool missing")
	// ErrValidation marks malformed caller input. This is the only error class
	// that surfaces past a stage boundary.
	ErrValidation = errors.New("validation error")
)

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrExternalService
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Absorbable reports whether a stage should swallow the error into its
// simulated fallback path instead of propagating it.
func Absorbable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrValidation) {
		return false
	}
	// Unclassified errors from external collaborators are treated as service
	// failures so the pipeline always completes.
	return true
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
