// Package server implements the drawbridge edge gateway: a public
// listener that reverse-proxies configured routes to their upstreams,
// and a private management listener for operational endpoints.
//
// # Architecture
//
// The public listener serves the routing table built from the active
// configuration. Each route forwards a path prefix to one upstream:
//
//	┌─────────────────────────────────────────────────────────┐
//	│                     Public listener                     │
//	│                                                         │
//	│  [ request ID ] → [ access log ] → [ recoverer ]        │
//	│                        │                                │
//	│                        ▼                                │
//	│  [ per-route rate limit ] → [ reverse proxy ]           │
//	│                        │                                │
//	│                        ▼                                │
//	│                    upstream                             │
//	└─────────────────────────────────────────────────────────┘
//
// The management listener binds on a separate, normally private address
// and is never proxied.
//
// # Endpoints
//
// The management listener exposes:
//
//   - /health  - liveness, version and run identity
//   - /ready   - readiness, probes every route upstream
//   - /version - build metadata and capabilities
//   - /phase   - current lifecycle phase
//   - /routes  - the active routing table
//   - /metrics - Prometheus metrics
//
// Upstream reachability is re-probed in the background on a fixed
// period; /ready serves the cached verdict so aggressive load-balancer
// polling never amplifies into upstream traffic.
//
// # TLS
//
// When TLS is enabled the public listener serves the configured keypair
// and, unless watching is disabled, reloads it when the files change on
// disk. Certificate rotation does not require a restart.
package server
