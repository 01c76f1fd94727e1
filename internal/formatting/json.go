package formatting

import (
	"encoding/json"
	"io"

	"drawbridge/internal/config"
)

// jsonRenderer renders the configuration as indented JSON.
type jsonRenderer struct{}

func (r *jsonRenderer) Render(w io.Writer, cfg config.Config) error {
	data, err := json.MarshalIndent(Sanitize(cfg), "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}
