package config

import "time"

const (
	// DefaultGatewayHost binds the public listener on all interfaces.
	DefaultGatewayHost = "0.0.0.0"

	// DefaultGatewayPort is the public listener port in the prod profile.
	DefaultGatewayPort = 8443

	// DefaultDevGatewayPort is the public listener port in the dev profile.
	DefaultDevGatewayPort = 8080

	// DefaultManagementHost keeps the management listener private.
	DefaultManagementHost = "localhost"

	// DefaultManagementPort is the management listener port.
	DefaultManagementPort = 9090
)

// GetDefaultConfig returns the default configuration for drawbridge.
func GetDefaultConfig() Config {
	return Config{
		Profile: ProfileProd,
		Log: LogConfig{
			Level: "info",
		},
		Gateway: GatewayConfig{
			Host:              DefaultGatewayHost,
			Port:              DefaultGatewayPort,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
			ShutdownGrace:     30 * time.Second,
			UpstreamKeepalive: true,
			TLS: TLSConfig{
				Watch: true,
			},
		},
		Management: ManagementConfig{
			Host: DefaultManagementHost,
			Port: DefaultManagementPort,
		},
	}
}

// ApplyProfile fills profile-dependent defaults that cannot be expressed as
// plain zero-value defaults: the dev profile moves the listener to a high
// plaintext port and switches log records to text.
func ApplyProfile(cfg *Config) {
	if cfg.Profile == "" {
		cfg.Profile = ProfileProd
	}
	if cfg.Log.Format == "" {
		if cfg.Profile == ProfileDev {
			cfg.Log.Format = "text"
		} else {
			cfg.Log.Format = "json"
		}
	}
	if cfg.Profile == ProfileDev && cfg.Gateway.Port == DefaultGatewayPort && !cfg.Gateway.TLS.Enabled {
		cfg.Gateway.Port = DefaultDevGatewayPort
	}
}

// ModeLabel renders a profile as the human-readable mode used in launch
// and failure messages.
func ModeLabel(profile string) string {
	if profile == ProfileDev {
		return "development"
	}
	return "production"
}
