package formatting

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"drawbridge/internal/config"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// tableRenderer renders the configuration as rounded tables: the scalar
// settings first, then the route table, then plugin options.
type tableRenderer struct{}

func (r *tableRenderer) Render(w io.Writer, cfg config.Config) error {
	cfg = Sanitize(cfg)

	t := r.createTable(w)
	t.AppendHeader([]interface{}{
		text.FgHiCyan.Sprint("SETTING"),
		text.FgHiCyan.Sprint("VALUE"),
	})
	for _, row := range settingRows(cfg) {
		t.AppendRow([]interface{}{row[0], row[1]})
	}
	t.Render()

	if len(cfg.Routes) > 0 {
		rt := r.createTable(w)
		rt.AppendHeader([]interface{}{
			text.FgHiCyan.Sprint("ROUTE"),
			text.FgHiCyan.Sprint("PATH PREFIX"),
			text.FgHiCyan.Sprint("UPSTREAM"),
			text.FgHiCyan.Sprint("STRIP"),
			text.FgHiCyan.Sprint("RATE LIMIT"),
		})
		for _, route := range cfg.Routes {
			rt.AppendRow([]interface{}{
				route.Name,
				route.PathPrefix,
				route.Upstream,
				strconv.FormatBool(route.StripPrefix),
				rateLimitLabel(route),
			})
		}
		rt.Render()
	}

	if len(cfg.Plugins) > 0 {
		pt := r.createTable(w)
		pt.AppendHeader([]interface{}{
			text.FgHiCyan.Sprint("PLUGIN OPTION"),
			text.FgHiCyan.Sprint("VALUE"),
		})
		keys := make([]string, 0, len(cfg.Plugins))
		for key := range cfg.Plugins {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			pt.AppendRow([]interface{}{key, cfg.Plugins[key]})
		}
		pt.Render()
	}

	return nil
}

// createTable creates a new table with standard styling.
func (r *tableRenderer) createTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	return t
}

func settingRows(cfg config.Config) [][2]string {
	return [][2]string{
		{"profile", cfg.Profile},
		{"log.level", cfg.Log.Level},
		{"log.format", cfg.Log.Format},
		{"gateway.host", cfg.Gateway.Host},
		{"gateway.port", strconv.Itoa(cfg.Gateway.Port)},
		{"gateway.readTimeout", cfg.Gateway.ReadTimeout.String()},
		{"gateway.writeTimeout", cfg.Gateway.WriteTimeout.String()},
		{"gateway.idleTimeout", cfg.Gateway.IdleTimeout.String()},
		{"gateway.shutdownGrace", cfg.Gateway.ShutdownGrace.String()},
		{"gateway.upstreamKeepalive", strconv.FormatBool(cfg.Gateway.UpstreamKeepalive)},
		{"gateway.tls.enabled", strconv.FormatBool(cfg.Gateway.TLS.Enabled)},
		{"gateway.tls.certFile", cfg.Gateway.TLS.CertFile},
		{"gateway.tls.keyFile", cfg.Gateway.TLS.KeyFile},
		{"gateway.tls.watch", strconv.FormatBool(cfg.Gateway.TLS.Watch)},
		{"management.host", cfg.Management.Host},
		{"management.port", strconv.Itoa(cfg.Management.Port)},
	}
}

func rateLimitLabel(route config.RouteConfig) string {
	if route.RateLimit <= 0 {
		return "off"
	}
	return fmt.Sprintf("%g r/s, burst %d", route.RateLimit, route.RateBurst)
}
