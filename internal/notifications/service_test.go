package notifications_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"postloom/internal/config"
	"postloom/internal/notifications"
)

func TestNewServiceReturnsNoopWhenTopicMissing(t *testing.T) {
	cfg := config.Default()
	cfg.Notifications.NtfyTopic = ""
	svc := notifications.NewService(&cfg)
	if err := svc.NotifyRunStarted(context.Background(), "remote work"); err != nil {
		t.Fatalf("expected noop notifier to return nil, got %v", err)
	}
}

func TestNtfyServiceFormatsPayloads(t *testing.T) {
	type captured struct {
		title    string
		message  string
		tags     string
		priority string
	}

	var got captured
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		got = captured{
			title:    r.Header.Get("Title"),
			message:  string(body),
			tags:     r.Header.Get("Tags"),
			priority: r.Header.Get("Priority"),
		}
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL
	svc := notifications.NewService(&cfg)

	tests := []struct {
		name           string
		send           func() error
		expectTitle    string
		expectMessage  string
		expectTags     string
		expectPriority string
	}{
		{
			name: "run started",
			send: func() error {
				return svc.NotifyRunStarted(context.Background(), "future of remote work")
			},
			expectTitle:   "Postloom - Run Started",
			expectMessage: "Generating post package for: future of remote work",
			expectTags:    "postloom,run,started",
		},
		{
			name: "run completed",
			send: func() error {
				return svc.NotifyRunCompleted(context.Background(), "future of remote work", "simulated", 90*time.Second)
			},
			expectTitle:    "Postloom - Run Complete",
			expectMessage:  `Post package ready for "future of remote work" (post simulated) in 1m30s`,
			expectTags:     "postloom,run,completed",
			expectPriority: "high",
		},
		{
			name: "post published",
			send: func() error {
				return svc.NotifyPostPublished(context.Background(), "future of remote work", "678_910")
			},
			expectTitle:   "Postloom - Posted",
			expectMessage: "Published to Facebook: future of remote work\nPost ID: 678_910",
			expectTags:    "postloom,facebook,published",
		},
		{
			name: "error",
			send: func() error {
				return svc.NotifyError(context.Background(), errors.New("encoder exploded"), "video")
			},
			expectTitle:    "Postloom - Error",
			expectMessage:  "Error with video: encoder exploded",
			expectTags:     "postloom,error,alert",
			expectPriority: "high",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.send(); err != nil {
				t.Fatalf("send returned error: %v", err)
			}
			if got.title != tc.expectTitle {
				t.Fatalf("title = %q, want %q", got.title, tc.expectTitle)
			}
			if got.message != tc.expectMessage {
				t.Fatalf("message = %q, want %q", got.message, tc.expectMessage)
			}
			if got.tags != tc.expectTags {
				t.Fatalf("tags = %q, want %q", got.tags, tc.expectTags)
			}
			if got.priority != tc.expectPriority {
				t.Fatalf("priority = %q, want %q", got.priority, tc.expectPriority)
			}
		})
	}
}

func TestNtfyServiceSurfacesHTTPFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "topic rejected", http.StatusForbidden)
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL
	svc := notifications.NewService(&cfg)

	err := svc.TestNotification(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "403") {
		t.Fatalf("error %q missing status", err)
	}
}
