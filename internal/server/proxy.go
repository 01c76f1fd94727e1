package server

import (
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"
	"time"

	"drawbridge/internal/config"
	"drawbridge/pkg/logging"

	"github.com/go-chi/chi/v5/middleware"
)

// newUpstreamTransport builds the transport shared by every route proxy.
// Connection pooling is shared too, so a burst on one route can reuse
// connections warmed by another route to the same upstream.
func newUpstreamTransport(keepalive bool) *http.Transport {
	return &http.Transport{
		// Connection pool settings for better performance
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		DisableKeepAlives:   !keepalive,
	}
}

// newRouteProxy builds the reverse proxy handler for one route.
func newRouteProxy(route config.RouteConfig, transport http.RoundTripper, m *Metrics) (http.Handler, error) {
	target, err := url.Parse(route.Upstream)
	if err != nil {
		return nil, fmt.Errorf("route %s: invalid upstream %s: %w", route.Name, route.Upstream, err)
	}

	proxy := &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(target)
			pr.SetXForwarded()
		},
		Transport: transport,
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			m.ObserveUpstreamError(route.Name)
			logging.Error("Proxy", err, "Route %s: upstream %s did not respond", route.Name, target.Host)
			http.Error(w, http.StatusText(http.StatusBadGateway), http.StatusBadGateway)
		},
	}

	var handler http.Handler = proxy
	if route.StripPrefix {
		handler = http.StripPrefix(strings.TrimSuffix(route.PathPrefix, "/"), proxy)
	}
	return handler, nil
}

// routeHandler wraps a route proxy with its rate limit and metrics.
func routeHandler(route config.RouteConfig, proxy http.Handler, m *Metrics) http.Handler {
	limited := RouteRateLimit(route.Name, newRouteLimiter(route), m)(proxy)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		limited.ServeHTTP(ww, r)

		m.ObserveRequest(route.Name, ww.Status(), time.Since(start).Seconds())
	})
}
