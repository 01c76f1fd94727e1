package server

import (
	"net/http"
	"time"

	"drawbridge/internal/buildinfo"
	"drawbridge/internal/config"
	"drawbridge/internal/runtime"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type healthResponse struct {
	Status        string  `json:"status"`
	Version       string  `json:"version"`
	Commit        string  `json:"commit"`
	Profile       string  `json:"profile"`
	RunID         string  `json:"run_id"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

type readyResponse struct {
	Status string        `json:"status"`
	Routes []RouteStatus `json:"routes"`
}

type phaseResponse struct {
	Phase     string `json:"phase"`
	LastError string `json:"last_error,omitempty"`
}

type versionResponse struct {
	Version       string `json:"version"`
	Commit        string `json:"commit"`
	Date          string `json:"date"`
	DryRunCapable bool   `json:"dry_run_capable"`
}

type routeInfo struct {
	Name        string  `json:"name"`
	PathPrefix  string  `json:"path_prefix"`
	Upstream    string  `json:"upstream"`
	StripPrefix bool    `json:"strip_prefix"`
	RateLimit   float64 `json:"rate_limit,omitempty"`
	RateBurst   int     `json:"rate_burst,omitempty"`
}

// management serves the operational endpoints on the private listener.
type management struct {
	cfg       config.Config
	runID     string
	startedAt time.Time
	tracker   *runtime.Tracker
	prober    *Prober
	metrics   *Metrics
}

// Routes builds the management router.
func (h *management) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Recoverer)
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/health", h.health)
	r.Get("/ready", h.ready)
	r.Get("/version", h.version)
	r.Get("/phase", h.phase)
	r.Get("/routes", h.routes)
	r.Handle("/metrics", promhttp.HandlerFor(h.metrics.Registry(), promhttp.HandlerOpts{}))

	return r
}

func (h *management) health(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, healthResponse{
		Status:        "ok",
		Version:       buildinfo.EffectiveVersion(),
		Commit:        buildinfo.Commit,
		Profile:       h.cfg.Profile,
		RunID:         h.runID,
		UptimeSeconds: time.Since(h.startedAt).Seconds(),
	})
}

func (h *management) ready(w http.ResponseWriter, r *http.Request) {
	statuses := h.prober.Check()

	response := readyResponse{Status: "ready", Routes: statuses}
	if !AllReady(statuses) {
		response.Status = "degraded"
		render.Status(r, http.StatusServiceUnavailable)
	}
	render.JSON(w, r, response)
}

func (h *management) version(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, versionResponse{
		Version:       buildinfo.EffectiveVersion(),
		Commit:        buildinfo.Commit,
		Date:          buildinfo.Date,
		DryRunCapable: buildinfo.DryRunCapable(),
	})
}

func (h *management) phase(w http.ResponseWriter, r *http.Request) {
	response := phaseResponse{Phase: string(h.tracker.Phase())}
	if err := h.tracker.LastError(); err != nil {
		response.LastError = err.Error()
	}
	render.JSON(w, r, response)
}

func (h *management) routes(w http.ResponseWriter, r *http.Request) {
	infos := make([]routeInfo, 0, len(h.cfg.Routes))
	for _, route := range h.cfg.Routes {
		infos = append(infos, routeInfo{
			Name:        route.Name,
			PathPrefix:  route.PathPrefix,
			Upstream:    route.Upstream,
			StripPrefix: route.StripPrefix,
			RateLimit:   route.RateLimit,
			RateBurst:   route.RateBurst,
		})
	}
	render.JSON(w, r, infos)
}
