// Package formatting renders the effective gateway configuration for
// the terminal. The table renderer is the human-facing default; JSON
// and YAML are for piping into other tooling. All renderers mask
// sensitive plugin values first, so no format leaks credentials.
package formatting

import (
	"fmt"
	"io"

	"drawbridge/internal/config"
)

// OutputFormat represents the desired output format
type OutputFormat string

const (
	FormatTable OutputFormat = "table" // Rich table output
	FormatJSON  OutputFormat = "json"  // JSON output
	FormatYAML  OutputFormat = "yaml"  // YAML output
)

// ValidateOutputFormat checks a format string from the command line and
// returns the typed format.
func ValidateOutputFormat(format string) (OutputFormat, error) {
	switch OutputFormat(format) {
	case FormatTable, FormatJSON, FormatYAML:
		return OutputFormat(format), nil
	default:
		return "", fmt.Errorf("invalid output format '%s'. Valid formats: table, json, yaml", format)
	}
}

// Renderer writes a configuration in one output format.
type Renderer interface {
	Render(w io.Writer, cfg config.Config) error
}

// NewRenderer creates the renderer for the given format.
func NewRenderer(format OutputFormat) Renderer {
	switch format {
	case FormatJSON:
		return &jsonRenderer{}
	case FormatYAML:
		return &yamlRenderer{}
	default:
		return &tableRenderer{}
	}
}
