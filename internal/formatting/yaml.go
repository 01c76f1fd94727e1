package formatting

import (
	"io"

	"drawbridge/internal/config"

	"gopkg.in/yaml.v3"
)

// yamlRenderer renders the configuration as YAML, matching the
// drawbridge.yaml file format so the output can be fed back in.
type yamlRenderer struct{}

func (r *yamlRenderer) Render(w io.Writer, cfg config.Config) error {
	data, err := yaml.Marshal(Sanitize(cfg))
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
