package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"drawbridge/internal/buildinfo"
	"drawbridge/internal/cli"

	"github.com/joho/godotenv"
)

const (
	// PersistedFileName is the snapshot written by build and trusted by
	// an optimized start.
	PersistedFileName = "persisted.properties"
	// DryRunFileName is the alternate snapshot written by a dry-run
	// build. It never clobbers the real snapshot.
	DryRunFileName = "persisted-dryrun.properties"

	// SnapshotVersionKey records the binary version that wrote the
	// snapshot. An optimized start refuses a snapshot from another
	// version.
	SnapshotVersionKey = "drawbridge.version"
	// SnapshotProfileKey records the profile the snapshot was built for.
	SnapshotProfileKey = "drawbridge.profile"
	// SnapshotBuiltKey records when the snapshot was written.
	SnapshotBuiltKey = "drawbridge.built"
)

// PersistedSource reads and writes the flattened configuration snapshot
// under the home's data directory. An optimized start loads the snapshot
// instead of re-resolving configuration; a dry-run launch switches the
// source to the dry-run snapshot first.
type PersistedSource struct {
	dir      string
	fileName string
}

// NewPersistedSource returns the source rooted at home's data directory.
func NewPersistedSource(home string) *PersistedSource {
	return &PersistedSource{
		dir:      DataDir(home),
		fileName: PersistedFileName,
	}
}

// UseDryRunProperties switches the source to the dry-run snapshot.
// It must be called before Load.
func (s *PersistedSource) UseDryRunProperties() {
	s.fileName = DryRunFileName
}

// DryRunActive reports whether the source reads the dry-run snapshot.
func (s *PersistedSource) DryRunActive() bool {
	return s.fileName == DryRunFileName
}

// Path returns the snapshot file path currently in effect.
func (s *PersistedSource) Path() string {
	return filepath.Join(s.dir, s.fileName)
}

// Exists reports whether the snapshot file is present.
func (s *PersistedSource) Exists() bool {
	_, err := os.Stat(s.Path())
	return err == nil
}

// Load reads the snapshot values. A missing file or a snapshot written by
// a different binary version yields a SnapshotError telling the user to
// rebuild.
func (s *PersistedSource) Load() (map[string]string, error) {
	values, err := godotenv.Read(s.Path())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &cli.SnapshotError{Path: s.Path(), Reason: errors.New("no configuration snapshot found")}
		}
		return nil, &cli.SnapshotError{Path: s.Path(), Reason: err}
	}

	if v := values[SnapshotVersionKey]; v != buildinfo.EffectiveVersion() {
		return nil, &cli.SnapshotError{
			Path:   s.Path(),
			Reason: fmt.Errorf("snapshot was built by version %s, this binary is %s", v, buildinfo.EffectiveVersion()),
		}
	}
	return values, nil
}

// LoadConfig reads the snapshot and reconstructs the configuration.
func (s *PersistedSource) LoadConfig() (Config, error) {
	values, err := s.Load()
	if err != nil {
		return Config{}, err
	}
	cfg, err := Unflatten(values)
	if err != nil {
		return Config{}, &cli.SnapshotError{Path: s.Path(), Reason: err}
	}
	return cfg, nil
}

// Write flattens cfg and persists it, creating the data directory if
// needed.
func (s *PersistedSource) Write(cfg Config) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("creating data directory %s: %w", s.dir, err)
	}
	if err := godotenv.Write(Flatten(cfg), s.Path()); err != nil {
		return fmt.Errorf("writing snapshot %s: %w", s.Path(), err)
	}
	return nil
}

// Flatten renders cfg as the flat key set recorded in a snapshot,
// including the version, profile, and build-time metadata keys.
func Flatten(cfg Config) map[string]string {
	m := map[string]string{
		SnapshotVersionKey: buildinfo.EffectiveVersion(),
		SnapshotProfileKey: cfg.Profile,
		SnapshotBuiltKey:   time.Now().UTC().Format(time.RFC3339),

		"log.level":  cfg.Log.Level,
		"log.format": cfg.Log.Format,

		"gateway.host":              cfg.Gateway.Host,
		"gateway.port":              strconv.Itoa(cfg.Gateway.Port),
		"gateway.readTimeout":       cfg.Gateway.ReadTimeout.String(),
		"gateway.writeTimeout":      cfg.Gateway.WriteTimeout.String(),
		"gateway.idleTimeout":       cfg.Gateway.IdleTimeout.String(),
		"gateway.shutdownGrace":     cfg.Gateway.ShutdownGrace.String(),
		"gateway.upstreamKeepalive": strconv.FormatBool(cfg.Gateway.UpstreamKeepalive),

		"gateway.tls.enabled": strconv.FormatBool(cfg.Gateway.TLS.Enabled),
		"gateway.tls.watch":   strconv.FormatBool(cfg.Gateway.TLS.Watch),

		"management.host": cfg.Management.Host,
		"management.port": strconv.Itoa(cfg.Management.Port),
	}

	if cfg.Gateway.TLS.CertFile != "" {
		m["gateway.tls.certFile"] = cfg.Gateway.TLS.CertFile
	}
	if cfg.Gateway.TLS.KeyFile != "" {
		m["gateway.tls.keyFile"] = cfg.Gateway.TLS.KeyFile
	}

	for _, route := range cfg.Routes {
		prefix := "route." + route.Name + "."
		m[prefix+"pathPrefix"] = route.PathPrefix
		m[prefix+"upstream"] = route.Upstream
		m[prefix+"stripPrefix"] = strconv.FormatBool(route.StripPrefix)
		if route.RateLimit > 0 {
			m[prefix+"rateLimit"] = strconv.FormatFloat(route.RateLimit, 'f', -1, 64)
			m[prefix+"rateBurst"] = strconv.Itoa(route.RateBurst)
		}
	}

	for key, value := range cfg.Plugins {
		m["plugin."+key] = value
	}

	return m
}

// Unflatten reconstructs a Config from snapshot values.
func Unflatten(values map[string]string) (Config, error) {
	cfg := GetDefaultConfig()
	cfg.Profile = values[SnapshotProfileKey]

	var err error
	parse := func(key string, assign func(string) error) {
		if err != nil {
			return
		}
		v, ok := values[key]
		if !ok {
			return
		}
		if assignErr := assign(v); assignErr != nil {
			err = fmt.Errorf("snapshot key %s: %w", key, assignErr)
		}
	}

	setString := func(dst *string) func(string) error {
		return func(v string) error { *dst = v; return nil }
	}
	setInt := func(dst *int) func(string) error {
		return func(v string) error {
			n, convErr := strconv.Atoi(v)
			if convErr != nil {
				return convErr
			}
			*dst = n
			return nil
		}
	}
	setBool := func(dst *bool) func(string) error {
		return func(v string) error {
			b, convErr := strconv.ParseBool(v)
			if convErr != nil {
				return convErr
			}
			*dst = b
			return nil
		}
	}
	setDuration := func(dst *time.Duration) func(string) error {
		return func(v string) error {
			d, convErr := time.ParseDuration(v)
			if convErr != nil {
				return convErr
			}
			*dst = d
			return nil
		}
	}

	parse("log.level", setString(&cfg.Log.Level))
	parse("log.format", setString(&cfg.Log.Format))
	parse("gateway.host", setString(&cfg.Gateway.Host))
	parse("gateway.port", setInt(&cfg.Gateway.Port))
	parse("gateway.readTimeout", setDuration(&cfg.Gateway.ReadTimeout))
	parse("gateway.writeTimeout", setDuration(&cfg.Gateway.WriteTimeout))
	parse("gateway.idleTimeout", setDuration(&cfg.Gateway.IdleTimeout))
	parse("gateway.shutdownGrace", setDuration(&cfg.Gateway.ShutdownGrace))
	parse("gateway.upstreamKeepalive", setBool(&cfg.Gateway.UpstreamKeepalive))
	parse("gateway.tls.enabled", setBool(&cfg.Gateway.TLS.Enabled))
	parse("gateway.tls.watch", setBool(&cfg.Gateway.TLS.Watch))
	parse("gateway.tls.certFile", setString(&cfg.Gateway.TLS.CertFile))
	parse("gateway.tls.keyFile", setString(&cfg.Gateway.TLS.KeyFile))
	parse("management.host", setString(&cfg.Management.Host))
	parse("management.port", setInt(&cfg.Management.Port))
	if err != nil {
		return Config{}, err
	}

	cfg.Routes, err = unflattenRoutes(values)
	if err != nil {
		return Config{}, err
	}

	for key, value := range values {
		if name, ok := strings.CutPrefix(key, "plugin."); ok {
			if cfg.Plugins == nil {
				cfg.Plugins = make(map[string]string)
			}
			cfg.Plugins[name] = value
		}
	}

	return cfg, nil
}

func unflattenRoutes(values map[string]string) ([]RouteConfig, error) {
	byName := make(map[string]*RouteConfig)
	for key, value := range values {
		rest, ok := strings.CutPrefix(key, "route.")
		if !ok {
			continue
		}
		name, field, ok := strings.Cut(rest, ".")
		if !ok {
			return nil, fmt.Errorf("snapshot key %s: malformed route key", key)
		}

		route := byName[name]
		if route == nil {
			route = &RouteConfig{Name: name}
			byName[name] = route
		}

		var err error
		switch field {
		case "pathPrefix":
			route.PathPrefix = value
		case "upstream":
			route.Upstream = value
		case "stripPrefix":
			route.StripPrefix, err = strconv.ParseBool(value)
		case "rateLimit":
			route.RateLimit, err = strconv.ParseFloat(value, 64)
		case "rateBurst":
			route.RateBurst, err = strconv.Atoi(value)
		default:
			err = errors.New("unknown route field")
		}
		if err != nil {
			return nil, fmt.Errorf("snapshot key %s: %w", key, err)
		}
	}

	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)

	routes := make([]RouteConfig, 0, len(names))
	for _, name := range names {
		routes = append(routes, *byName[name])
	}
	return routes, nil
}
