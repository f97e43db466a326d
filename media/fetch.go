// Package media resolves article image references (remote URLs, inline
// base64 payloads, paths relative to a base directory) and normalizes the
// loaded bytes into formats the document package can embed directly.
package media

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/HC-ProductTech/hwpers/config"
)

// Loader fetches image payloads for a single conversion. Remote references
// share one HTTP client with the configured timeout; everything else is read
// from the base directory.
type Loader struct {
	basePath  string
	client    *http.Client
	userAgent string
	authToken string
	log       *zap.Logger
}

// NewLoader creates a Loader rooted at basePath. When the configured auth
// token is not empty it is sent verbatim as the Authorization header of
// every remote request.
func NewLoader(basePath string, cfg *config.FetchConfig, log *zap.Logger) *Loader {
	timeout := time.Duration(cfg.TimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Loader{
		basePath:  basePath,
		client:    &http.Client{Timeout: timeout},
		userAgent: cfg.UserAgent,
		authToken: string(cfg.AuthToken),
		log:       log,
	}
}

// Load returns the raw bytes behind an image reference. References with an
// http or https scheme are downloaded, anything else is treated as a file
// path relative to the loader's base directory.
func (l *Loader) Load(ctx context.Context, ref string) ([]byte, error) {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return l.download(ctx, ref)
	}
	return l.readFile(ref)
}

func (l *Loader) download(ctx context.Context, url string) ([]byte, error) {
	l.log.Debug("Downloading image", zap.String("url", url))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("unable to prepare image request: %w", err)
	}
	if l.userAgent != "" {
		req.Header.Set("User-Agent", l.userAgent)
	}
	if l.authToken != "" {
		req.Header.Set("Authorization", l.authToken)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("unable to download image %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unable to download image %s: %s", url, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("unable to read image data from %s: %w", url, err)
	}
	return data, nil
}

// readFile loads an image from the base directory. The path is served
// through os.DirFS, so absolute paths and paths escaping the base directory
// are refused.
func (l *Loader) readFile(ref string) ([]byte, error) {
	base := l.basePath
	if base == "" {
		base = "."
	}

	name := path.Clean(filepath.ToSlash(ref))
	if !fs.ValidPath(name) {
		return nil, fmt.Errorf("image path %q escapes the base directory", ref)
	}

	l.log.Debug("Reading image file", zap.String("path", name), zap.String("base", base))

	data, err := fs.ReadFile(os.DirFS(base), name)
	if err != nil {
		return nil, fmt.Errorf("unable to read image file: %w", err)
	}
	return data, nil
}

// Inline decodes a base64 image payload carried in the article itself.
func Inline(data string) ([]byte, error) {
	decoded, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, fmt.Errorf("unable to decode base64 image: %w", err)
	}
	return decoded, nil
}
