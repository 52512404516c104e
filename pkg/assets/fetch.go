package assets

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/matzehuels/dressup/pkg/buildinfo"
	"github.com/matzehuels/dressup/pkg/cache"
	"github.com/matzehuels/dressup/pkg/errors"
	"github.com/matzehuels/dressup/pkg/observability"
)

// MaxAssetBytes bounds the size of a single fetched asset.
const MaxAssetBytes = 32 << 20

// Fetcher loads the raw bytes of an asset.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// FileFetcher reads assets relative to a root directory.
type FileFetcher struct {
	Root string
}

// Fetch reads Root/url. The url must be a relative slash-separated path.
func (f FileFetcher) Fetch(ctx context.Context, u string) ([]byte, error) {
	if err := errors.ValidateAssetPath(u); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	file, err := os.Open(filepath.Join(f.Root, filepath.FromSlash(u)))
	if stderrors.Is(err, fs.ErrNotExist) {
		return nil, errors.Wrap(errors.ErrCodeAssetNotFound, err, "asset %s", u)
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return readLimited(file, u)
}

// readLimited reads r, failing once it exceeds MaxAssetBytes.
func readLimited(r io.Reader, name string) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxAssetBytes+1))
	if err != nil {
		return nil, err
	}
	if len(data) > MaxAssetBytes {
		return nil, errors.New(errors.ErrCodeInvalidInput, "asset %s exceeds %d bytes", name, MaxAssetBytes)
	}
	return data, nil
}

// HTTPFetcher downloads assets. Relative urls are resolved against Base.
type HTTPFetcher struct {
	Client   *http.Client
	Base     string
	Attempts int
	Delay    time.Duration
}

// NewHTTPFetcher returns a fetcher with a 30 second client timeout and
// 3 attempts starting at a 1 second backoff.
func NewHTTPFetcher(base string) *HTTPFetcher {
	return &HTTPFetcher{
		Client:   &http.Client{Timeout: 30 * time.Second},
		Base:     base,
		Attempts: 3,
		Delay:    time.Second,
	}
}

// Fetch downloads u. 5xx responses and transport errors are retried.
func (f *HTTPFetcher) Fetch(ctx context.Context, u string) ([]byte, error) {
	target, err := f.resolve(u)
	if err != nil {
		return nil, err
	}
	var data []byte
	err = cache.Retry(ctx, f.Attempts, f.Delay, func() error {
		var err error
		data, err = f.get(ctx, target)
		return err
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (f *HTTPFetcher) resolve(u string) (*url.URL, error) {
	if strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://") {
		return url.Parse(u)
	}
	if f.Base == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "relative asset url %q without base", u)
	}
	if err := errors.ValidateAssetPath(u); err != nil {
		return nil, err
	}
	base, err := url.Parse(strings.TrimSuffix(f.Base, "/") + "/")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "asset base %q", f.Base)
	}
	return base.JoinPath(u), nil
}

func (f *HTTPFetcher) get(ctx context.Context, target *url.URL) ([]byte, error) {
	hooks := observability.HTTP()
	hooks.OnRequest(ctx, http.MethodGet, target.Host, target.Path)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", buildinfo.UserAgent())

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		hooks.OnError(ctx, http.MethodGet, target.Host, target.Path, err)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, cache.Retryable(fmt.Errorf("%w: %v", cache.ErrNetwork, err))
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, http.MethodGet, target.Host, target.Path, resp.StatusCode, time.Since(start))

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, errors.New(errors.ErrCodeAssetNotFound, "asset %s: not found", target)
	case resp.StatusCode >= 500:
		return nil, cache.Retryable(fmt.Errorf("%w: %s: %s", cache.ErrNetwork, target, resp.Status))
	case resp.StatusCode != http.StatusOK:
		return nil, errors.New(errors.ErrCodeNetwork, "asset %s: %s", target, resp.Status)
	}

	data, err := readLimited(resp.Body, target.String())
	if err != nil && !errors.Is(err, errors.ErrCodeInvalidInput) {
		return nil, cache.Retryable(fmt.Errorf("%w: read %s: %v", cache.ErrNetwork, target, err))
	}
	return data, err
}

// Router sends absolute http(s) urls to Remote and everything else to Local.
type Router struct {
	Local  Fetcher
	Remote Fetcher
}

// Fetch dispatches u.
func (r Router) Fetch(ctx context.Context, u string) ([]byte, error) {
	if strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://") {
		if r.Remote == nil {
			return nil, errors.New(errors.ErrCodeUnsupported, "remote asset %s: no http fetcher", u)
		}
		return r.Remote.Fetch(ctx, u)
	}
	if r.Local == nil {
		return nil, errors.New(errors.ErrCodeUnsupported, "local asset %s: no asset root", u)
	}
	return r.Local.Fetch(ctx, u)
}

// NewFetcher returns a fetcher for an asset root: an http(s) root fetches
// everything remotely, a directory root reads locally and still follows
// absolute http(s) urls.
func NewFetcher(root string) Fetcher {
	if strings.HasPrefix(root, "http://") || strings.HasPrefix(root, "https://") {
		return NewHTTPFetcher(root)
	}
	return Router{Local: FileFetcher{Root: root}, Remote: NewHTTPFetcher("")}
}

var (
	_ Fetcher = FileFetcher{}
	_ Fetcher = (*HTTPFetcher)(nil)
	_ Fetcher = Router{}
)
