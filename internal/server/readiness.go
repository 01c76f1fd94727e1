package server

import (
	"net/http"
	"sync"
	"time"

	"drawbridge/internal/config"
	"drawbridge/pkg/pool"

	"golang.org/x/sync/singleflight"
)

// probeCacheTTL is how long a readiness verdict is reused. Load
// balancers poll /ready aggressively; upstreams should not see every
// poll.
const probeCacheTTL = 5 * time.Second

// probeTimeout bounds one upstream probe.
const probeTimeout = 2 * time.Second

// RouteStatus is the readiness verdict for one route.
type RouteStatus struct {
	Route    string `json:"route"`
	Upstream string `json:"upstream"`
	Ready    bool   `json:"ready"`
	Error    string `json:"error,omitempty"`
}

// Prober checks that every route upstream is reachable. Results are
// cached and concurrent checks are collapsed into one probe round.
type Prober struct {
	routes []config.RouteConfig
	client *http.Client

	// Probe cache with mutex for thread safety
	mu        sync.RWMutex
	cached    []RouteStatus
	checkedAt time.Time

	// singleflight group to deduplicate concurrent probe rounds
	group singleflight.Group
}

// NewProber creates a prober over the given routing table. The probes
// share the gateway's upstream transport.
func NewProber(routes []config.RouteConfig, transport http.RoundTripper) *Prober {
	return &Prober{
		routes: routes,
		client: &http.Client{Transport: transport, Timeout: probeTimeout},
	}
}

// Check returns the readiness of every route, probing the upstreams when
// the cached verdict has expired.
func (p *Prober) Check() []RouteStatus {
	p.mu.RLock()
	if p.cached != nil && time.Since(p.checkedAt) < probeCacheTTL {
		cached := p.cached
		p.mu.RUnlock()
		return cached
	}
	p.mu.RUnlock()

	result, _, _ := p.group.Do("probe", func() (interface{}, error) {
		// Double-check cache after acquiring the singleflight lock
		p.mu.RLock()
		if p.cached != nil && time.Since(p.checkedAt) < probeCacheTTL {
			cached := p.cached
			p.mu.RUnlock()
			return cached, nil
		}
		p.mu.RUnlock()

		statuses := p.probeAll()

		p.mu.Lock()
		p.cached = statuses
		p.checkedAt = time.Now()
		p.mu.Unlock()

		return statuses, nil
	})

	return result.([]RouteStatus)
}

// AllReady reports whether every route in the verdict is ready.
func AllReady(statuses []RouteStatus) bool {
	for _, status := range statuses {
		if !status.Ready {
			return false
		}
	}
	return true
}

// probeAll probes every upstream, fanning out over the common pool.
func (p *Prober) probeAll() []RouteStatus {
	statuses := make([]RouteStatus, len(p.routes))
	var wg sync.WaitGroup

	for i, route := range p.routes {
		wg.Add(1)
		task := func() {
			defer wg.Done()
			statuses[i] = p.probe(route)
		}
		if err := pool.Common().Submit(task); err != nil {
			// Pool pressure must not fail readiness; probe inline.
			task()
		}
	}

	wg.Wait()
	return statuses
}

func (p *Prober) probe(route config.RouteConfig) RouteStatus {
	status := RouteStatus{Route: route.Name, Upstream: route.Upstream}

	resp, err := p.client.Get(route.Upstream)
	if err != nil {
		status.Error = err.Error()
		return status
	}
	resp.Body.Close()

	// Any HTTP status counts: readiness is about the path to the
	// upstream, not what it thinks of the probe request.
	status.Ready = true
	return status
}
