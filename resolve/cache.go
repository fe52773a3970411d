// Package resolve memoizes jar version lookups by download URL.
package resolve

import (
	"context"
	"sync"

	"curse-update-proxy/metrics"
	"curse-update-proxy/version"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Downloader fetches a file's raw bytes.
type Downloader interface {
	DownloadFile(ctx context.Context, url string) ([]byte, error)
}

type outcome struct {
	version string
	found   bool
	err     error
}

// Cache resolves a download URL to the mod version packaged in the jar.
// Each URL is downloaded and inspected at most once for the lifetime of the
// Cache; the outcome, including a failure, is replayed to every later caller.
// Entries never expire.
type Cache struct {
	downloader Downloader
	inspect    func([]byte) (string, bool, error)
	log        *zap.SugaredLogger

	group singleflight.Group

	mu      sync.RWMutex
	results map[string]outcome
}

// NewCache creates an empty cache backed by downloader.
func NewCache(downloader Downloader, log *zap.SugaredLogger) *Cache {
	return &Cache{
		downloader: downloader,
		inspect:    version.InspectArchive,
		log:        log,
		results:    make(map[string]outcome),
	}
}

// Resolve returns the version found in the jar at url.
// Callers racing on the same url share a single download.
func (c *Cache) Resolve(ctx context.Context, url string) (string, bool, error) {
	if o, ok := c.lookup(url); ok {
		metrics.CacheLookups.WithLabelValues("hit").Inc()
		return o.version, o.found, o.err
	}
	metrics.CacheLookups.WithLabelValues("miss").Inc()

	v, _, _ := c.group.Do(url, func() (any, error) {
		// a flight that finished between lookup and Do already stored its outcome
		if o, ok := c.lookup(url); ok {
			return o, nil
		}
		o := c.fetch(context.WithoutCancel(ctx), url)
		c.store(url, o)
		return o, nil
	})

	o := v.(outcome)
	return o.version, o.found, o.err
}

// Len reports how many URLs have a stored outcome.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.results)
}

func (c *Cache) lookup(url string) (outcome, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	o, ok := c.results[url]
	return o, ok
}

func (c *Cache) store(url string, o outcome) {
	c.mu.Lock()
	c.results[url] = o
	n := len(c.results)
	c.mu.Unlock()
	metrics.CachedEntries.Set(float64(n))
}

func (c *Cache) fetch(ctx context.Context, url string) outcome {
	log := c.log.With(zap.String("url", url))
	log.Debugw("Downloading jar to inspect its metadata")

	data, err := c.downloader.DownloadFile(ctx, url)
	if err != nil {
		metrics.Resolutions.WithLabelValues("error").Inc()
		log.Warnw("Failed to download jar", zap.Error(err))
		return outcome{err: err}
	}

	v, found, err := c.inspect(data)
	switch {
	case err != nil:
		metrics.Resolutions.WithLabelValues("error").Inc()
		log.Warnw("Failed to inspect jar", zap.Error(err))
	case found:
		metrics.Resolutions.WithLabelValues("found").Inc()
		log.Infow("Resolved version from jar metadata", zap.String("version", v))
	default:
		metrics.Resolutions.WithLabelValues("absent").Inc()
		log.Infow("No version found in jar metadata")
	}
	return outcome{version: v, found: found, err: err}
}
