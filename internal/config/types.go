package config

import "time"

// Profile names select the defaults the gateway runs with.
const (
	// ProfileProd is the default profile for deployed instances.
	ProfileProd = "prod"
	// ProfileDev relaxes defaults for local development: text logs and a
	// plaintext listener on a high port.
	ProfileDev = "dev"
)

// Config is the top-level configuration structure for drawbridge.
type Config struct {
	Profile    string            `json:"profile,omitempty" yaml:"profile,omitempty" envconfig:"PROFILE"` // prod or dev (default: prod)
	Log        LogConfig         `json:"log,omitempty" yaml:"log,omitempty" envconfig:"LOG"`
	Gateway    GatewayConfig     `json:"gateway,omitempty" yaml:"gateway,omitempty" envconfig:"GATEWAY"`
	Management ManagementConfig  `json:"management,omitempty" yaml:"management,omitempty" envconfig:"MANAGEMENT"`
	Routes     []RouteConfig     `json:"routes,omitempty" yaml:"routes,omitempty" ignored:"true"`
	Plugins    map[string]string `json:"plugins,omitempty" yaml:"plugins,omitempty" ignored:"true"` // pass-through options for route plugins
}

// LogConfig controls record severity and encoding.
type LogConfig struct {
	Level  string `json:"level,omitempty" yaml:"level,omitempty" envconfig:"LEVEL"`    // debug, info, warn, error (default: info)
	Format string `json:"format,omitempty" yaml:"format,omitempty" envconfig:"FORMAT"` // text or json (default: json in prod, text in dev)
}

// GatewayConfig defines the public listener.
type GatewayConfig struct {
	Host              string        `json:"host,omitempty" yaml:"host,omitempty" envconfig:"HOST"`                             // Host to bind to (default: 0.0.0.0)
	Port              int           `json:"port,omitempty" yaml:"port,omitempty" envconfig:"PORT"`                             // Port for the public listener (default: 8443, dev: 8080)
	ReadTimeout       time.Duration `json:"readTimeout,omitempty" yaml:"readTimeout,omitempty" envconfig:"READ_TIMEOUT"`       // Per-request read deadline (default: 15s)
	WriteTimeout      time.Duration `json:"writeTimeout,omitempty" yaml:"writeTimeout,omitempty" envconfig:"WRITE_TIMEOUT"`    // Per-request write deadline (default: 30s)
	IdleTimeout       time.Duration `json:"idleTimeout,omitempty" yaml:"idleTimeout,omitempty" envconfig:"IDLE_TIMEOUT"`       // Keep-alive idle deadline (default: 60s)
	ShutdownGrace     time.Duration `json:"shutdownGrace,omitempty" yaml:"shutdownGrace,omitempty" envconfig:"SHUTDOWN_GRACE"` // Drain window for in-flight requests on stop (default: 30s)
	UpstreamKeepalive bool          `json:"upstreamKeepalive" yaml:"upstreamKeepalive" envconfig:"UPSTREAM_KEEPALIVE"`         // Reuse upstream connections (default: true)
	TLS               TLSConfig     `json:"tls,omitempty" yaml:"tls,omitempty" envconfig:"TLS"`
}

// TLSConfig enables HTTPS on the public listener.
type TLSConfig struct {
	Enabled  bool   `json:"enabled,omitempty" yaml:"enabled,omitempty" envconfig:"ENABLED"`
	CertFile string `json:"certFile,omitempty" yaml:"certFile,omitempty" envconfig:"CERT_FILE"`
	KeyFile  string `json:"keyFile,omitempty" yaml:"keyFile,omitempty" envconfig:"KEY_FILE"`
	Watch    bool   `json:"watch" yaml:"watch" envconfig:"WATCH"` // Reload the keypair when the files change (default: true)
}

// ManagementConfig defines the private listener serving health, readiness,
// metrics, and runtime inspection.
type ManagementConfig struct {
	Host string `json:"host,omitempty" yaml:"host,omitempty" envconfig:"HOST"` // Host to bind to (default: localhost)
	Port int    `json:"port,omitempty" yaml:"port,omitempty" envconfig:"PORT"` // Port for the management endpoint (default: 9090)
}

// RouteConfig maps a path prefix to an upstream.
type RouteConfig struct {
	Name        string  `json:"name" yaml:"name"`                                   // Unique route name
	PathPrefix  string  `json:"pathPrefix" yaml:"pathPrefix"`                       // Request path prefix to match
	Upstream    string  `json:"upstream" yaml:"upstream"`                           // Upstream base URL
	StripPrefix bool    `json:"stripPrefix,omitempty" yaml:"stripPrefix,omitempty"` // Drop the prefix before forwarding
	RateLimit   float64 `json:"rateLimit,omitempty" yaml:"rateLimit,omitempty"`     // Requests per second, 0 disables limiting
	RateBurst   int     `json:"rateBurst,omitempty" yaml:"rateBurst,omitempty"`     // Burst size when rate limiting
}
