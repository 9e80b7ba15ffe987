package history_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"postloom/internal/config"
	"postloom/internal/history"
)

func openStore(t *testing.T) *history.Store {
	t.Helper()
	cfg := config.Default()
	cfg.History.Path = filepath.Join(t.TempDir(), "history.db")
	store, err := history.Open(&cfg)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRecordAndRecentRoundTrip(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	rec := history.Record{
		RunID:         "run-1",
		Topic:         "future of remote work",
		Caption:       "Share an engaging social media post inspired by Future Of Remote Work.",
		CaptionSource: "simulated",
		CaptionReason: "api key missing",
		ImagePath:     "/tmp/out.png",
		ImageSource:   "simulated",
		ImageReason:   "api key missing",
		VideoPath:     "/tmp/out.mp4",
		VideoSource:   "simulated",
		VideoReason:   "ffmpeg not found",
		PostStatus:    "simulated",
		PostSource:    "simulated",
		PostReason:    "page token missing",
		Duration:      1500 * time.Millisecond,
	}
	id, err := store.Record(ctx, rec)
	if err != nil {
		t.Fatalf("Record returned error: %v", err)
	}
	if id <= 0 {
		t.Fatalf("unexpected id: %d", id)
	}

	records, err := store.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent returned error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	got := records[0]
	if got.Topic != rec.Topic {
		t.Fatalf("unexpected topic: %q", got.Topic)
	}
	if got.CaptionSource != "simulated" || got.VideoReason != "ffmpeg not found" {
		t.Fatalf("provenance not preserved: %+v", got)
	}
	if got.Duration != 1500*time.Millisecond {
		t.Fatalf("unexpected duration: %v", got.Duration)
	}
	if got.CreatedAt.IsZero() {
		t.Fatal("expected created_at to be set")
	}
}

func TestRecentOrdersNewestFirstAndLimits(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	for _, topic := range []string{"first", "second", "third"} {
		if _, err := store.Record(ctx, history.Record{
			RunID:         "run-" + topic,
			Topic:         topic,
			Caption:       "c",
			CaptionSource: "real",
			ImagePath:     "i",
			ImageSource:   "real",
			VideoPath:     "v",
			VideoSource:   "real",
			PostStatus:    "posted",
			PostSource:    "real",
		}); err != nil {
			t.Fatalf("Record(%s) returned error: %v", topic, err)
		}
	}

	records, err := store.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent returned error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Topic != "third" || records[1].Topic != "second" {
		t.Fatalf("unexpected ordering: %q, %q", records[0].Topic, records[1].Topic)
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	cfg := config.Default()
	cfg.History.Path = filepath.Join(t.TempDir(), "history.db")

	first, err := history.Open(&cfg)
	if err != nil {
		t.Fatalf("first Open returned error: %v", err)
	}
	if _, err := first.Record(context.Background(), history.Record{
		RunID: "r", Topic: "t", Caption: "c", CaptionSource: "real",
		ImagePath: "i", ImageSource: "real", VideoPath: "v", VideoSource: "real",
		PostStatus: "posted", PostSource: "real",
	}); err != nil {
		t.Fatalf("Record returned error: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	second, err := history.Open(&cfg)
	if err != nil {
		t.Fatalf("second Open returned error: %v", err)
	}
	defer second.Close()
	records, err := second.Recent(context.Background(), 10)
	if err != nil {
		t.Fatalf("Recent returned error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected persisted record, got %d", len(records))
	}
}
