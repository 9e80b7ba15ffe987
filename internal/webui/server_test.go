package webui

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"postloom/internal/config"
	"postloom/internal/logging"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := config.Default()
	cfg.Paths.StaticDir = t.TempDir()
	// Unconfigured image key forces the placeholder path; the demo stays
	// fully offline under test.
	cfg.ImageGen.APIKey = ""
	srv, err := New(&cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return srv
}

func TestIndexRendersForm(t *testing.T) {
	srv := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `name="prompt"`) {
		t.Fatalf("form input missing from page: %s", body)
	}
	if strings.Contains(body, "/static/out.png") {
		t.Fatal("no image should be shown before the first generation")
	}
}

func TestGenerateWritesImageAndBustsCache(t *testing.T) {
	srv := newTestServer(t)
	form := url.Values{"prompt": {"a lighthouse at dusk"}}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "/static/out.png?v=") {
		t.Fatalf("expected cache-busted image url in page: %s", body)
	}
	if !strings.Contains(body, "simulated") {
		t.Fatalf("expected simulated provenance in page: %s", body)
	}

	imgReq := httptest.NewRequest(http.MethodGet, "/static/out.png", nil)
	imgRec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(imgRec, imgReq)
	if imgRec.Code != http.StatusOK {
		t.Fatalf("static image status = %d", imgRec.Code)
	}
	if _, err := os.Stat(filepath.Join(srv.staticDir, "out.png")); err != nil {
		t.Fatalf("generated image missing on disk: %v", err)
	}
}

func TestGenerateRejectsEmptyPrompt(t *testing.T) {
	srv := newTestServer(t)
	form := url.Values{"prompt": {"   "}}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Enter a prompt first.") {
		t.Fatal("expected validation message in page")
	}
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Fatalf("unexpected healthz body: %s", rec.Body.String())
	}
}

func TestUnknownPathReturns404(t *testing.T) {
	srv := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}
