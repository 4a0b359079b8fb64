package assets

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"cellquest/archive"
	"cellquest/config"
)

// Loader fetches raw content of a candidate. Version is a cache-busting token
// unique for every attempt, loaders talking to caching transports must make
// it part of the request.
type Loader interface {
	Fetch(ctx context.Context, path, version string) ([]byte, error)
}

// Lister is implemented by loaders which can enumerate files, it is used to
// enrich diagnostics only.
type Lister interface {
	List(ctx context.Context, dir string) ([]string, error)
}

// NewLoader creates loader requested by configuration.
func NewLoader(cfg *config.AssetsConfig, log *zap.Logger) (Loader, error) {
	switch cfg.Loader {
	case "file":
		log.Debug("Loading images from directory", zap.String("root", cfg.Root))
		return NewFileLoader(cfg.Root, cfg.MaxSize), nil
	case "http":
		log.Debug("Loading images from server", zap.String("url", cfg.BaseURL), zap.Stringer("token", cfg.Token))
		return NewHTTPLoader(cfg.BaseURL, cfg.Token.Value(), cfg.MaxSize, nil)
	case "zip":
		log.Debug("Loading images from bundle", zap.String("bundle", cfg.Bundle))
		b, err := archive.Open(cfg.Bundle)
		if err != nil {
			return nil, fmt.Errorf("unable to open image bundle: %w", err)
		}
		return NewBundleLoader(b, cfg.MaxSize), nil
	default:
		return nil, fmt.Errorf("unsupported image loader %q", cfg.Loader)
	}
}

// FileLoader reads candidates from local directory. Files are never cached,
// so version is ignored.
type FileLoader struct {
	root    string
	maxSize int64
}

func NewFileLoader(root string, maxSize int64) *FileLoader {
	return &FileLoader{root: root, maxSize: maxSize}
}

func (l *FileLoader) resolve(p string) string {
	p = filepath.FromSlash(p)
	if filepath.IsAbs(p) || len(l.root) == 0 {
		return p
	}
	return filepath.Join(l.root, p)
}

// Fetch reads file in the background so stuck filesystem (network mounts)
// does not outlive ctx.
func (l *FileLoader) Fetch(ctx context.Context, p, _ string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	type result struct {
		data []byte
		err  error
	}
	done := make(chan result, 1)
	go func() {
		data, err := l.read(l.resolve(p))
		done <- result{data, err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-done:
		return res.data, res.err
	}
}

func (l *FileLoader) read(name string) ([]byte, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if !fi.Mode().IsRegular() {
		return nil, fmt.Errorf("%s is not a regular file", name)
	}
	return readLimited(f, l.maxSize)
}

// List returns names of regular files in directory.
func (l *FileLoader) List(ctx context.Context, dir string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(l.resolve(dir))
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// BundleLoader reads candidates from zip archive. Call Close when done.
type BundleLoader struct {
	bundle  *archive.Bundle
	maxSize int64
}

func NewBundleLoader(b *archive.Bundle, maxSize int64) *BundleLoader {
	return &BundleLoader{bundle: b, maxSize: maxSize}
}

func (l *BundleLoader) Fetch(ctx context.Context, p, _ string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rc, err := l.bundle.Open(p)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	data, err := readLimited(rc, l.maxSize)
	if err != nil {
		return nil, fmt.Errorf("%s in %s: %w", p, l.bundle.Name(), err)
	}
	return data, nil
}

func (l *BundleLoader) List(ctx context.Context, dir string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var names []string
	err := l.bundle.Walk(dir, func(f *zip.File) error {
		names = append(names, path.Base(f.Name))
		return nil
	})
	return names, err
}

func (l *BundleLoader) Close() error {
	if err := l.bundle.Close(); err != nil {
		return fmt.Errorf("unable to close image bundle %s: %w", l.bundle.Name(), err)
	}
	return nil
}

// HTTPLoader downloads candidates from web server.
type HTTPLoader struct {
	base    *url.URL
	token   string
	maxSize int64
	client  *http.Client
}

// NewHTTPLoader creates loader for candidates relative to baseURL. When client
// is nil a client without overall timeout is used, limits come from context.
func NewHTTPLoader(baseURL, token string, maxSize int64, client *http.Client) (*HTTPLoader, error) {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("bad image server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("bad image server url %q: unsupported scheme", baseURL)
	}
	if client == nil {
		client = &http.Client{
			Transport: &http.Transport{
				Proxy:                 http.ProxyFromEnvironment,
				ResponseHeaderTimeout: 30 * time.Second,
				IdleConnTimeout:       90 * time.Second,
			},
		}
	}
	return &HTTPLoader{base: u, token: token, maxSize: maxSize, client: client}, nil
}

// URL returns full address of candidate with cache-busting parameter.
func (l *HTTPLoader) URL(p, version string) string {
	u := l.base.ResolveReference(&url.URL{Path: strings.TrimPrefix(p, "/")})
	if len(version) > 0 {
		q := u.Query()
		q.Set("v", version)
		u.RawQuery = q.Encode()
	}
	return u.String()
}

func (l *HTTPLoader) Fetch(ctx context.Context, p, version string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.URL(p, version), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Cache-Control", "no-cache")
	if len(l.token) > 0 {
		req.Header.Set("Authorization", "Bearer "+l.token)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// drain a little so connection could be reused
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("unexpected response status: %s", resp.Status)
	}
	return readLimited(resp.Body, l.maxSize)
}

func readLimited(r io.Reader, limit int64) ([]byte, error) {
	if limit <= 0 {
		return io.ReadAll(r)
	}
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("more than %d bytes: %w", limit, ErrTooLarge)
	}
	return data, nil
}
