package formatting

import (
	"strings"

	"drawbridge/internal/config"
)

// maskedValue replaces sensitive values in rendered output.
const maskedValue = "*******"

// sensitiveMarkers are the substrings that mark a plugin option key as
// carrying a credential.
var sensitiveMarkers = []string{"secret", "password", "token", "key", "credential"}

// IsSensitiveKey reports whether a plugin option key looks like it
// carries a credential.
func IsSensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	for _, marker := range sensitiveMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// Sanitize returns a copy of cfg with sensitive plugin values masked.
// Every renderer works on the sanitized copy; the caller's configuration
// is never modified.
func Sanitize(cfg config.Config) config.Config {
	if len(cfg.Plugins) == 0 {
		return cfg
	}
	plugins := make(map[string]string, len(cfg.Plugins))
	for key, value := range cfg.Plugins {
		if IsSensitiveKey(key) {
			plugins[key] = maskedValue
		} else {
			plugins[key] = value
		}
	}
	cfg.Plugins = plugins
	return cfg
}
