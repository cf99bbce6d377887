package api

import (
	"net/http"
	"time"

	"github.com/gregjones/httpcache"
	"github.com/gregjones/httpcache/diskcache"
)

// NewCachingHTTPClient creates an HTTP client whose transport honours
// Cache-Control headers on GET responses. List endpoints (tenants, stores,
// roles, permissions) are served with short max-age values, so repeated
// CLI invocations avoid refetching them.
func NewCachingHTTPClient(cacheDir string, timeout time.Duration) *http.Client {
	var transport *httpcache.Transport
	if cacheDir == "" {
		transport = httpcache.NewTransport(httpcache.NewMemoryCache())
	} else {
		transport = httpcache.NewTransport(diskcache.New(cacheDir))
	}

	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}
}
