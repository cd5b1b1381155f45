// Package fetch reads calendar feeds from disk or over HTTP, with an
// ETag/Last-Modified cache so repeated syncs are cheap and survive outages.
package fetch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/julianstephens/freeweek/internal/constants"
	"github.com/julianstephens/freeweek/internal/logger"
)

// MaxBodyBytes caps a downloaded calendar.
const MaxBodyBytes = 10 << 20

// ErrTooLarge is returned when a feed exceeds MaxBodyBytes.
var ErrTooLarge = errors.New("calendar feed is too large")

// Result is the outcome of reading one location.
type Result struct {
	Location  string
	Body      []byte
	FromCache bool
	// NotModified is set when the server answered 304.
	NotModified bool
}

type cacheMeta struct {
	URL          string    `json:"url"`
	ETag         string    `json:"etag,omitempty"`
	LastModified string    `json:"last_modified,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Fetcher reads local files directly and URLs through a disk cache.
type Fetcher struct {
	client   *http.Client
	cacheDir string
}

// NewFetcher returns a fetcher caching under cacheDir. An empty cacheDir disables caching.
func NewFetcher(cacheDir string, client *http.Client) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: constants.FetchTimeoutSec * time.Second}
	}
	return &Fetcher{client: client, cacheDir: cacheDir}
}

// IsURL reports whether location should be fetched over HTTP.
func IsURL(location string) bool {
	lower := strings.ToLower(location)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") || strings.HasPrefix(lower, "webcal://")
}

// normalizeURL rewrites webcal:// subscriptions to https://.
func normalizeURL(location string) string {
	if strings.HasPrefix(strings.ToLower(location), "webcal://") {
		return "https://" + location[len("webcal://"):]
	}
	return location
}

// Fetch returns the calendar text at location, a file path or URL.
func (f *Fetcher) Fetch(ctx context.Context, location string) (Result, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return Result{}, errors.New("calendar location is empty")
	}
	if !IsURL(location) {
		body, err := readFile(location)
		if err != nil {
			return Result{}, err
		}
		return Result{Location: location, Body: body}, nil
	}
	return f.fetchURL(ctx, normalizeURL(location))
}

func readFile(path string) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open calendar: %w", err)
	}
	defer file.Close()
	return readLimited(file)
}

func readLimited(r io.Reader) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r, MaxBodyBytes+1))
	if err != nil {
		return nil, err
	}
	if len(body) > MaxBodyBytes {
		return nil, ErrTooLarge
	}
	return body, nil
}

func (f *Fetcher) fetchURL(ctx context.Context, rawURL string) (Result, error) {
	log := logger.Component("fetch").With("url", Redact(rawURL))

	var (
		cacheDir string
		meta     cacheMeta
		cached   []byte
	)
	if f.cacheDir != "" {
		cacheDir = f.cachePath(rawURL)
		if err := os.MkdirAll(cacheDir, 0o700); err != nil {
			return Result{}, err
		}
		meta, _ = loadMeta(cacheDir)
		cached, _ = os.ReadFile(filepath.Join(cacheDir, "body.ics"))
	}
	fallback := func(cause error) (Result, error) {
		if len(cached) == 0 {
			return Result{}, cause
		}
		log.Warn("fetch failed, using cached calendar", "error", cause)
		return Result{Location: rawURL, Body: cached, FromCache: true}, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return Result{}, err
	}
	req.Header.Set("Accept", "text/calendar, */*;q=0.5")
	req.Header.Set("User-Agent", constants.AppName+"/"+constants.Version)
	if len(cached) > 0 {
		if meta.ETag != "" {
			req.Header.Set("If-None-Match", meta.ETag)
		}
		if meta.LastModified != "" {
			req.Header.Set("If-Modified-Since", meta.LastModified)
		}
	}

	log.Debug("fetch start")
	resp, err := f.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return Result{}, ctx.Err()
		}
		return fallback(err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		body, err := readLimited(resp.Body)
		if err != nil {
			return fallback(err)
		}
		if cacheDir != "" {
			next := cacheMeta{
				URL:          rawURL,
				ETag:         resp.Header.Get("ETag"),
				LastModified: resp.Header.Get("Last-Modified"),
			}
			if err := saveCache(cacheDir, next, body); err != nil {
				log.Warn("failed to save calendar cache", "error", err)
			}
		}
		log.Info("fetched calendar", "bytes", len(body))
		return Result{Location: rawURL, Body: body}, nil

	case http.StatusNotModified:
		if len(cached) == 0 {
			return Result{}, errors.New("received 304 Not Modified but no cached calendar is available")
		}
		log.Info("calendar not modified")
		return Result{Location: rawURL, Body: cached, FromCache: true, NotModified: true}, nil

	default:
		return fallback(fmt.Errorf("fetch %s: %s", Redact(rawURL), resp.Status))
	}
}

func (f *Fetcher) cachePath(rawURL string) string {
	sum := sha256.Sum256([]byte(rawURL))
	return filepath.Join(f.cacheDir, hex.EncodeToString(sum[:8]))
}

func loadMeta(dir string) (cacheMeta, error) {
	var meta cacheMeta
	data, err := os.ReadFile(filepath.Join(dir, "meta.json"))
	if err != nil {
		return meta, err
	}
	err = json.Unmarshal(data, &meta)
	return meta, err
}

// saveCache writes the body before the metadata so metadata never points at a missing body.
func saveCache(dir string, meta cacheMeta, body []byte) error {
	if err := os.WriteFile(filepath.Join(dir, "body.ics"), body, 0o600); err != nil {
		return err
	}
	meta.UpdatedAt = time.Now().UTC()
	data, err := json.MarshalIndent(&meta, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "meta.json"), data, 0o600)
}

// Redact keeps the scheme and host of a feed URL. Calendar export links
// usually embed a private token in the path or query.
func Redact(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return "ics://...(redacted)"
	}
	return u.Scheme + "://" + u.Host + "/...(redacted)"
}
