// Package client implements the network-bound stages of the resolution
// pipeline against the video platform's public API: short-link expansion,
// metadata lookup, play-source resolution, and filename discovery. Every
// stage degrades to ErrUnresolved on failure; none of them retries.
package client

import (
	"context"
	"net/http"
	"time"

	"github.com/failsafe-go/failsafe-go/failsafehttp"
	"github.com/failsafe-go/failsafe-go/timeout"

	"github.com/mlen/biliclip/internal/cache"
	"github.com/mlen/biliclip/internal/config"
	"github.com/mlen/biliclip/internal/credentials"
	"github.com/mlen/biliclip/internal/models"
)

// Client defines the interface for resolving video references into playable
// media sources.
type Client interface {
	// ResolveRedirect expands a short link to its final effective URL.
	ResolveRedirect(ctx context.Context, rawURL string) (string, error)

	// GetVideoInfo resolves a reference to canonical video metadata.
	GetVideoInfo(ctx context.Context, ref models.VideoRef) (*models.Video, error)

	// GetPlaySource resolves a concrete stream for the selected part under
	// the given credential context.
	GetPlaySource(ctx context.Context, ref models.VideoRef, part int, creds credentials.Credentials) (*models.PlaySource, error)

	// ResolveFilename discovers the true filename behind a direct media URL.
	ResolveFilename(ctx context.Context, mediaURL string, headers map[string]string) (string, error)

	// Close releases any resources held by the client (e.g., cache connections).
	Close() error
}

// client implements the Client interface
type client struct {
	httpClient *http.Client
	apiBase    string
	userAgent  string
	redirects  cache.Cache
	metadata   *cache.AliasedStore[models.Video]
	playURLs   *cache.Partitioned
}

// NewClient creates a new client with the three pipeline caches. The
// redirect cache uses the configured provider (memory or redis); metadata
// lives in an in-process aliased store because its entries must be shared by
// pointer across aliases; play sources live in a session-partitioned
// in-memory cache because entitlement is bound to the running session.
func NewClient(cfg *config.Config) (Client, error) {
	logger := config.GetLogger()

	clientTimeout := 10 * time.Second // default
	if cfg.ClientTimeout != "" {
		if parsedTimeout, err := time.ParseDuration(cfg.ClientTimeout); err != nil {
			logger.Warn().Err(err).Str("timeout", cfg.ClientTimeout).Msg("Invalid timeout duration, using default 10s")
		} else {
			clientTimeout = parsedTimeout
		}
	}

	// Clone DefaultTransport to preserve its settings (connection pooling, HTTP/2, etc.),
	// then bound every hop with a failsafe timeout policy and wrap with
	// compression support (gzip, brotli, zstd). There is deliberately no
	// retry policy: a failed stage yields "unresolved" and the run ends.
	baseTransport := http.DefaultTransport.(*http.Transport).Clone()
	guarded := failsafehttp.NewRoundTripper(baseTransport, timeout.New[*http.Response](clientTimeout))

	httpClient := &http.Client{
		Timeout:   clientTimeout,
		Transport: newCompressionTransport(guarded),
	}

	cacheTTL := 168 * time.Hour
	if cfg.Cache.TTL != "" {
		if parsed, err := time.ParseDuration(cfg.Cache.TTL); err != nil {
			logger.Warn().Err(err).Str("ttl", cfg.Cache.TTL).Msg("Invalid cache TTL, using default 168h")
		} else {
			cacheTTL = parsed
		}
	}

	providerCfg := cache.ProviderConfig{
		Size:          cfg.Cache.Size,
		TTL:           cacheTTL,
		Logger:        &cacheLogger{},
		RedisAddress:  cfg.Cache.RedisAddress,
		RedisPassword: cfg.Cache.RedisPassword,
		RedisDB:       cfg.Cache.RedisDB,
	}

	redirectCfg := providerCfg
	redirectCfg.Group = "redirect"
	redirects, err := cache.New(cfg.Cache.Provider, redirectCfg)
	if err != nil {
		return nil, err
	}

	return &client{
		httpClient: httpClient,
		apiBase:    cfg.APIDomain,
		userAgent:  cfg.UserAgent,
		redirects:  redirects,
		metadata:   cache.NewAliasedStore[models.Video]("metadata"),
		playURLs:   cache.NewPartitioned("memory", providerCfg, "playurl"),
	}, nil
}

// Close releases any resources held by the client, such as cache connections.
func (c *client) Close() error {
	err := c.redirects.Close()
	if cerr := c.metadata.Close(); err == nil {
		err = cerr
	}
	if cerr := c.playURLs.Close(); err == nil {
		err = cerr
	}
	return err
}

// cacheLogger adapts the package logger to the cache layer's Logger.
type cacheLogger struct{}

func (cacheLogger) Error(msg string, err error) {
	logger := config.GetLogger()
	logger.Error().Err(err).Msg(msg)
}
