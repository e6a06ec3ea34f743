package dataset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// DefaultURL is the public flight delay and cancellation dataset.
const DefaultURL = "https://www.dropbox.com/scl/fi/cdrfwk27h6sszbqg2k82b/Flight_Canselled_Delay_C.csv?rlkey=0nnticgct444wwqqjk50ctov4&st=aazxpeja&dl=1"

const fallbackName = "flights.csv"

// Download describes a dataset file in the local cache.
type Download struct {
	URL    string
	Path   string
	Bytes  int64
	Cached bool
}

// Fetch downloads rawURL into cacheDir unless a cached copy already exists.
// force replaces any cached copy.
func Fetch(ctx context.Context, rawURL, cacheDir string, force bool) (Download, error) {
	if cacheDir == "" {
		return Download{}, fmt.Errorf("cache directory is required")
	}
	if rawURL == "" {
		rawURL = DefaultURL
	}
	filename, err := cacheName(rawURL)
	if err != nil {
		return Download{}, err
	}
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return Download{}, fmt.Errorf("failed to create cache dir: %w", err)
	}

	destPath := filepath.Join(cacheDir, filename)
	if !force {
		info, err := os.Stat(destPath)
		if err == nil {
			return Download{URL: rawURL, Path: destPath, Bytes: info.Size(), Cached: true}, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return Download{}, fmt.Errorf("failed to stat cached dataset: %w", err)
		}
	}

	tmpFile, err := os.CreateTemp(cacheDir, "flights-*.csv")
	if err != nil {
		return Download{}, fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	started := time.Now()
	resp, err := httpRequest(ctx, rawURL)
	if err != nil {
		return Download{}, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return Download{}, fmt.Errorf("unexpected dataset status: %s", resp.Status)
	}

	n, err := io.Copy(tmpFile, resp.Body)
	if err != nil {
		return Download{}, fmt.Errorf("failed to download dataset: %w", err)
	}
	if n == 0 {
		return Download{}, fmt.Errorf("downloaded dataset is empty")
	}
	if err := tmpFile.Close(); err != nil {
		return Download{}, fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		return Download{}, fmt.Errorf("failed to move dataset into cache: %w", err)
	}
	slog.Debug("downloaded dataset", "url", rawURL, "path", destPath, "bytes", n, "elapsed", time.Since(started))

	return Download{URL: rawURL, Path: destPath, Bytes: n}, nil
}

func cacheName(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid dataset url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("unsupported url scheme %q", u.Scheme)
	}
	name := path.Base(u.Path)
	if name == "" || name == "." || name == "/" {
		return fallbackName, nil
	}
	if !strings.HasSuffix(strings.ToLower(name), ".csv") && !strings.HasSuffix(strings.ToLower(name), ".csv.gz") {
		name += ".csv"
	}
	return name, nil
}

func httpRequest(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "flightdash")
	client := &http.Client{Timeout: 5 * time.Minute}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	return resp, nil
}
