// Package config provides configuration management for drawbridge.
//
// Configuration is resolved from three layers, later layers winning:
// built-in defaults, the drawbridge.yaml file in the drawbridge home, and
// DRAWBRIDGE_* environment variables. The home directory defaults to
// ~/.config/drawbridge and is overridden by DRAWBRIDGE_HOME, which
// packaged distributions point at their installation directory.
//
// # Configuration Structure
//
// The configuration file uses YAML format with the following main sections:
//
//	profile: prod                  # prod or dev (default: prod)
//	log:
//	  level: info                  # debug, info, warn, error
//	  format: json                 # text or json
//	gateway:
//	  host: "0.0.0.0"              # Host to bind to
//	  port: 8443                   # Public listener port
//	  tls:
//	    enabled: true
//	    certFile: /etc/drawbridge/server.pem
//	    keyFile: /etc/drawbridge/server-key.pem
//	    watch: true                # Hot-reload the keypair on change
//	management:
//	  host: localhost              # Management listener host
//	  port: 9090                   # Health, readiness, metrics, inspection
//	routes:
//	  - name: app
//	    pathPrefix: /app
//	    upstream: http://app.internal:8080
//	    stripPrefix: true
//	    rateLimit: 100             # Requests per second, 0 disables
//
// # Environment Overrides
//
// Every scalar field can be overridden through the environment using the
// DRAWBRIDGE_ prefix and the field path, e.g. DRAWBRIDGE_GATEWAY_PORT=9443
// or DRAWBRIDGE_LOG_LEVEL=debug. Routes and plugin options cannot be set
// through the environment.
//
// # Persisted Snapshot
//
// The build command resolves the three layers into a flat key-value
// snapshot at <home>/data/persisted.properties. An optimized start loads
// that snapshot instead of re-resolving configuration, refusing snapshots
// written by a different binary version. A dry-run build writes the
// alternate persisted-dryrun.properties so it never clobbers the snapshot
// a running instance was started from.
//
// # Usage Examples
//
//	// Load the effective configuration
//	home, err := config.HomeDir()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	cfg, err := config.LoadConfig(home)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Persist a snapshot the way the build command does
//	source := config.NewPersistedSource(home)
//	err = source.Write(cfg)
package config
