package config

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidationError represents a validation error with context
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (ve ValidationError) Error() string {
	if ve.Field == "" {
		return ve.Message
	}
	return fmt.Sprintf("field '%s': %s", ve.Field, ve.Message)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for multiple validation errors
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "no validation errors"
	}
	if len(ve) == 1 {
		return ve[0].Error()
	}

	var messages []string
	for _, err := range ve {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(messages, "; "))
}

// HasErrors returns true if there are any validation errors
func (ve ValidationErrors) HasErrors() bool {
	return len(ve) > 0
}

// Add adds a new validation error
func (ve *ValidationErrors) Add(field, message string, value ...interface{}) {
	var val interface{}
	if len(value) > 0 {
		val = value[0]
	}
	*ve = append(*ve, ValidationError{
		Field:   field,
		Value:   val,
		Message: message,
	})
}

// ValidateRequired checks if a required string field is not empty
func ValidateRequired(field, value, entityType string) error {
	if strings.TrimSpace(value) == "" {
		return ValidationError{
			Field:   field,
			Value:   value,
			Message: fmt.Sprintf("is required for %s", entityType),
		}
	}
	return nil
}

// ValidateOneOf checks if a value is in a list of allowed values
func ValidateOneOf(field, value string, allowed []string) error {
	for _, allowedValue := range allowed {
		if value == allowedValue {
			return nil
		}
	}
	return ValidationError{
		Field:   field,
		Value:   value,
		Message: fmt.Sprintf("must be one of: %s", strings.Join(allowed, ", ")),
	}
}

// ValidatePort checks that a port number is usable for a listener.
// Port 0 is allowed and asks the OS for an ephemeral port.
func ValidatePort(field string, port int) error {
	if port < 0 || port > 65535 {
		return ValidationError{
			Field:   field,
			Value:   port,
			Message: "must be between 0 and 65535",
		}
	}
	return nil
}

// Validate checks the effective configuration before it is built into a
// snapshot or used to start the gateway. All problems are collected so a
// single run reports everything that needs fixing.
func Validate(cfg Config) error {
	var errs ValidationErrors

	appendErr := func(err error) {
		if err == nil {
			return
		}
		if ve, ok := err.(ValidationError); ok {
			errs = append(errs, ve)
		} else {
			errs = append(errs, ValidationError{Message: err.Error()})
		}
	}

	appendErr(ValidateOneOf("profile", cfg.Profile, []string{ProfileProd, ProfileDev}))
	appendErr(ValidateOneOf("log.level", cfg.Log.Level, []string{"debug", "info", "warn", "error"}))
	appendErr(ValidateOneOf("log.format", cfg.Log.Format, []string{"text", "json"}))
	appendErr(ValidatePort("gateway.port", cfg.Gateway.Port))
	appendErr(ValidatePort("management.port", cfg.Management.Port))

	if cfg.Gateway.Port != 0 && cfg.Gateway.Port == cfg.Management.Port {
		errs.Add("management.port", "must differ from gateway.port", cfg.Management.Port)
	}

	if cfg.Gateway.TLS.Enabled {
		appendErr(ValidateRequired("gateway.tls.certFile", cfg.Gateway.TLS.CertFile, "TLS"))
		appendErr(ValidateRequired("gateway.tls.keyFile", cfg.Gateway.TLS.KeyFile, "TLS"))
	}

	seen := make(map[string]bool)
	seenPrefix := make(map[string]bool)
	for i, route := range cfg.Routes {
		prefix := fmt.Sprintf("routes[%d]", i)

		if err := ValidateRequired(prefix+".name", route.Name, "route"); err != nil {
			appendErr(err)
		} else if strings.ContainsAny(route.Name, ". ") {
			// Dots would break the flattened snapshot key schema.
			errs.Add(prefix+".name", "cannot contain spaces or dots", route.Name)
		} else if seen[route.Name] {
			errs.Add(prefix+".name", "duplicates another route name", route.Name)
		} else {
			seen[route.Name] = true
		}

		if !strings.HasPrefix(route.PathPrefix, "/") {
			errs.Add(prefix+".pathPrefix", "must start with '/'", route.PathPrefix)
		} else if seenPrefix[route.PathPrefix] {
			errs.Add(prefix+".pathPrefix", "duplicates another route's path prefix", route.PathPrefix)
		} else {
			seenPrefix[route.PathPrefix] = true
		}

		appendErr(validateUpstream(prefix+".upstream", route.Upstream))

		if route.RateLimit < 0 {
			errs.Add(prefix+".rateLimit", "must not be negative", route.RateLimit)
		}
		if route.RateBurst < 0 {
			errs.Add(prefix+".rateBurst", "must not be negative", route.RateBurst)
		}
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}

func validateUpstream(field, upstream string) error {
	if strings.TrimSpace(upstream) == "" {
		return ValidationError{Field: field, Message: "is required for route"}
	}
	u, err := url.Parse(upstream)
	if err != nil {
		return ValidationError{Field: field, Value: upstream, Message: fmt.Sprintf("is not a valid URL: %v", err)}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ValidationError{Field: field, Value: upstream, Message: "must use http or https"}
	}
	if u.Host == "" {
		return ValidationError{Field: field, Value: upstream, Message: "must include a host"}
	}
	return nil
}
