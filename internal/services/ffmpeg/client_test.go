package ffmpeg_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"postloom/internal/services/ffmpeg"
)

type fakeExecutor struct {
	binary string
	args   []string
	stderr string
	err    error
}

func (f *fakeExecutor) Run(ctx context.Context, binary string, args []string) (string, error) {
	f.binary = binary
	f.args = args
	return f.stderr, f.err
}

func foundLookPath(name string) (string, error) { return "/usr/bin/" + name, nil }

func writeImage(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("png"), 0o644); err != nil {
		t.Fatalf("write image: %v", err)
	}
	return path
}

func TestStitchBuildsConcatCommand(t *testing.T) {
	dir := t.TempDir()
	first := writeImage(t, dir, "a.png")
	second := writeImage(t, dir, "b.png")
	output := filepath.Join(dir, "out.mp4")

	exec := &fakeExecutor{}
	client, err := ffmpeg.New(ffmpeg.Config{
		Binary:          "ffmpeg",
		SecondsPerImage: 3,
	}, ffmpeg.WithExecutor(exec), ffmpeg.WithLookPath(foundLookPath))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	if err := client.Stitch(context.Background(), []string{first, second}, output); err != nil {
		t.Fatalf("Stitch returned error: %v", err)
	}
	if exec.binary != "/usr/bin/ffmpeg" {
		t.Fatalf("unexpected binary: %q", exec.binary)
	}

	joined := strings.Join(exec.args, " ")
	for _, want := range []string{
		"-y",
		"-loop 1 -t 3 -i " + first,
		"-loop 1 -t 3 -i " + second,
		"[0:v][1:v]concat=n=2:v=1:a=0[v]",
		"-map [v]",
		"-c:v libx264",
		"-pix_fmt yuv420p",
		output,
	} {
		if !strings.Contains(joined, want) {
			t.Fatalf("command %q missing %q", joined, want)
		}
	}
}

func TestStitchReportsMissingBinary(t *testing.T) {
	dir := t.TempDir()
	image := writeImage(t, dir, "a.png")

	client, err := ffmpeg.New(ffmpeg.Config{Binary: "ffmpeg"},
		ffmpeg.WithExecutor(&fakeExecutor{}),
		ffmpeg.WithLookPath(func(string) (string, error) {
			return "", errors.New("not found")
		}))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if client.Available() {
		t.Fatal("expected binary to be unavailable")
	}

	err = client.Stitch(context.Background(), []string{image}, filepath.Join(dir, "out.mp4"))
	if !errors.Is(err, ffmpeg.ErrBinaryNotFound) {
		t.Fatalf("expected ErrBinaryNotFound, got %v", err)
	}
}

func TestStitchSurfacesStderrTail(t *testing.T) {
	dir := t.TempDir()
	image := writeImage(t, dir, "a.png")

	exec := &fakeExecutor{stderr: "Unknown encoder 'libx264'", err: errors.New("exit status 1")}
	client, err := ffmpeg.New(ffmpeg.Config{Binary: "ffmpeg"},
		ffmpeg.WithExecutor(exec), ffmpeg.WithLookPath(foundLookPath))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	err = client.Stitch(context.Background(), []string{image}, filepath.Join(dir, "out.mp4"))
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "Unknown encoder") {
		t.Fatalf("error %q missing stderr detail", err)
	}
}

func TestStitchValidatesInputs(t *testing.T) {
	client, err := ffmpeg.New(ffmpeg.Config{Binary: "ffmpeg"},
		ffmpeg.WithExecutor(&fakeExecutor{}), ffmpeg.WithLookPath(foundLookPath))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	if err := client.Stitch(context.Background(), nil, "out.mp4"); err == nil {
		t.Fatal("expected error for empty image list")
	}
	missing := filepath.Join(t.TempDir(), "absent.png")
	if err := client.Stitch(context.Background(), []string{missing}, "out.mp4"); err == nil {
		t.Fatal("expected error for missing image file")
	}
}

func TestNewRequiresBinary(t *testing.T) {
	if _, err := ffmpeg.New(ffmpeg.Config{}); err == nil {
		t.Fatal("expected error for empty binary")
	}
}
