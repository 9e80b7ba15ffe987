package services_test

import (
	"errors"
	"testing"

	"postloom/internal/services"
)

func TestWrapTagsMarkerAndDetail(t *testing.T) {
	base := errors.New("connection refused")
	err := services.Wrap(services.ErrExternalService, "prompt", "complete", "request failed", base)
	if !errors.Is(err, services.ErrExternalService) {
		t.Fatalf("expected external service marker, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped cause, got %v", err)
	}
	want := "external service unavailable: prompt: complete: request failed: connection refused"
	if err.Error() != want {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestWrapDefaultsMarker(t *testing.T) {
	err := services.Wrap(nil, "video", "", "", nil)
	if !errors.Is(err, services.ErrExternalService) {
		t.Fatalf("expected default marker, got %v", err)
	}
}

func TestAbsorbable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"validation", services.Wrap(services.ErrValidation, "post", "", "image missing", nil), false},
		{"external service", services.Wrap(services.ErrExternalService, "prompt", "", "", nil), true},
		{"tool missing", services.Wrap(services.ErrToolMissing, "video", "", "", nil), true},
		{"unclassified", errors.New("boom"), true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := services.Absorbable(tc.err); got != tc.want {
				t.Fatalf("Absorbable(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}
