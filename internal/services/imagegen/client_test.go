package imagegen_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"postloom/internal/services/imagegen"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *imagegen.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return imagegen.NewClient(imagegen.Config{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Model:   "gpt-image-1",
		Size:    "512x512",
	}, imagegen.WithHTTPClient(server.Client()))
}

func TestGenerateDecodesImageBytes(t *testing.T) {
	want := []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a}
	var gotSize, gotFormat string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var req map[string]any
		if err := json.Unmarshal(body, &req); err != nil {
			t.Errorf("request body is not JSON: %v", err)
		}
		gotSize, _ = req["size"].(string)
		gotFormat, _ = req["response_format"].(string)
		fmt.Fprintf(w, `{"data":[{"b64_json":%q}]}`, base64.StdEncoding.EncodeToString(want))
	})

	got, err := client.Generate(context.Background(), "a sunrise over a desk")
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if string(got) != string(want) {
		t.Fatalf("unexpected bytes: %v", got)
	}
	if gotSize != "512x512" {
		t.Fatalf("unexpected size: %q", gotSize)
	}
	if gotFormat != "b64_json" {
		t.Fatalf("unexpected response_format: %q", gotFormat)
	}
}

func TestGenerateErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    string
	}{
		{
			name: "http status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "model overloaded", http.StatusServiceUnavailable)
			},
			want: "http 503",
		},
		{
			name: "empty data",
			handler: func(w http.ResponseWriter, r *http.Request) {
				io.WriteString(w, `{"data":[]}`)
			},
			want: "no image data",
		},
		{
			name: "bad base64",
			handler: func(w http.ResponseWriter, r *http.Request) {
				io.WriteString(w, `{"data":[{"b64_json":"!!!not-base64!!!"}]}`)
			},
			want: "decode image payload",
		},
		{
			name: "api error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				io.WriteString(w, `{"error":{"message":"billing hard limit"}}`)
			},
			want: "billing hard limit",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			client := newTestClient(t, tc.handler)
			_, err := client.Generate(context.Background(), "prompt")
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestGenerateRequiresKeyAndPrompt(t *testing.T) {
	noKey := imagegen.NewClient(imagegen.Config{})
	if noKey.Configured() {
		t.Fatal("client without key reports configured")
	}
	if _, err := noKey.Generate(context.Background(), "prompt"); err == nil {
		t.Fatal("expected error without api key")
	}
	withKey := imagegen.NewClient(imagegen.Config{APIKey: "k"})
	if _, err := withKey.Generate(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty prompt")
	}
}
