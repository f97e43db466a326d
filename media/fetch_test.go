package media

import (
	"bytes"
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/HC-ProductTech/hwpers/config"
)

func newTestLoader(t *testing.T, basePath string, cfg *config.FetchConfig) *Loader {
	t.Helper()
	if cfg == nil {
		cfg = &config.FetchConfig{TimeoutSec: 5}
	}
	return NewLoader(basePath, cfg, zaptest.NewLogger(t))
}

func TestLoaderDownload(t *testing.T) {
	payload := createTestPNG(t, 4, 4)

	var gotUA, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotAuth = r.Header.Get("Authorization")
		w.Write(payload)
	}))
	defer srv.Close()

	l := newTestLoader(t, "", &config.FetchConfig{
		TimeoutSec: 5,
		UserAgent:  "hwpers-test",
		AuthToken:  "Bearer test-token",
	})

	data, err := l.Load(context.Background(), srv.URL+"/img.png")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !bytes.Equal(data, payload) {
		t.Error("downloaded payload does not match served bytes")
	}
	if gotUA != "hwpers-test" {
		t.Errorf("User-Agent = %q, want hwpers-test", gotUA)
	}
	if gotAuth != "Bearer test-token" {
		t.Errorf("Authorization = %q, want the configured token", gotAuth)
	}
}

func TestLoaderDownloadStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	l := newTestLoader(t, "", nil)

	_, err := l.Load(context.Background(), srv.URL+"/missing.png")
	if err == nil {
		t.Fatal("expected an error for a 404 response")
	}
	if !strings.Contains(err.Error(), "404") {
		t.Errorf("error %q does not mention the response status", err)
	}
}

func TestLoaderDownloadCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("never seen"))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	l := newTestLoader(t, "", nil)
	if _, err := l.Load(ctx, srv.URL+"/img.png"); err == nil {
		t.Error("expected an error for a canceled context")
	}
}

func TestLoaderReadFile(t *testing.T) {
	dir := t.TempDir()
	payload := createTestPNG(t, 4, 4)

	if err := os.MkdirAll(filepath.Join(dir, "assets"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "img.png"), payload, 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "assets", "logo.png"), payload, 0644); err != nil {
		t.Fatal(err)
	}

	l := newTestLoader(t, dir, nil)

	tests := []struct {
		name string
		ref  string
	}{
		{"plain name", "img.png"},
		{"leading dot slash", "./img.png"},
		{"subdirectory", "assets/logo.png"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			data, err := l.Load(context.Background(), tc.ref)
			if err != nil {
				t.Fatalf("Load(%q) failed: %v", tc.ref, err)
			}
			if !bytes.Equal(data, payload) {
				t.Error("loaded payload does not match file contents")
			}
		})
	}
}

func TestLoaderReadFileMissing(t *testing.T) {
	l := newTestLoader(t, t.TempDir(), nil)
	if _, err := l.Load(context.Background(), "nonexistent.png"); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestLoaderRefusesEscapingPaths(t *testing.T) {
	l := newTestLoader(t, t.TempDir(), nil)

	for _, ref := range []string{"../outside.png", "a/../../outside.png", "/etc/hosts"} {
		if _, err := l.Load(context.Background(), ref); err == nil {
			t.Errorf("Load(%q) succeeded, want refusal", ref)
		}
	}
}

func TestInline(t *testing.T) {
	payload := createTestPNG(t, 4, 4)
	encoded := base64.StdEncoding.EncodeToString(payload)

	data, err := Inline(encoded)
	if err != nil {
		t.Fatalf("Inline failed: %v", err)
	}
	if !bytes.Equal(data, payload) {
		t.Error("decoded payload does not match original bytes")
	}
}

func TestInlineInvalid(t *testing.T) {
	if _, err := Inline("!!!invalid!!!"); err == nil {
		t.Error("expected an error for invalid base64 data")
	}
}
