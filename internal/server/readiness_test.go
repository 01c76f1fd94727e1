package server

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"drawbridge/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProberReportsPerRouteStatus(t *testing.T) {
	live := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	defer live.Close()

	dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	deadURL := dead.URL
	dead.Close()

	prober := NewProber([]config.RouteConfig{
		{Name: "live", Upstream: live.URL},
		{Name: "dead", Upstream: deadURL},
	}, http.DefaultTransport)

	statuses := prober.Check()
	require.Len(t, statuses, 2)

	assert.True(t, statuses[0].Ready, "any HTTP response counts as reachable")
	assert.Empty(t, statuses[0].Error)
	assert.False(t, statuses[1].Ready)
	assert.NotEmpty(t, statuses[1].Error)
	assert.False(t, AllReady(statuses))
}

func TestProberCachesVerdicts(t *testing.T) {
	var hits atomic.Int64
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer backend.Close()

	prober := NewProber([]config.RouteConfig{
		{Name: "api", Upstream: backend.URL},
	}, http.DefaultTransport)

	first := prober.Check()
	second := prober.Check()

	assert.True(t, AllReady(first))
	assert.True(t, AllReady(second))
	assert.Equal(t, int64(1), hits.Load(), "the second check inside the TTL must reuse the cached verdict")
}

func TestProberWithNoRoutes(t *testing.T) {
	prober := NewProber(nil, http.DefaultTransport)
	statuses := prober.Check()
	assert.Empty(t, statuses)
	assert.True(t, AllReady(statuses), "an empty routing table is trivially ready")
}
