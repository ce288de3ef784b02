// Package metrics owns the Prometheus registry exposed on /metrics.
package metrics

import (
	"log/slog"
	"net/http"

	"userhub/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
)

const defaultNamespace = "userhub"

type Params struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

// Registry is a dedicated Prometheus registry so tests and the process
// collectors never collide with prometheus.DefaultRegisterer.
type Registry struct {
	*prometheus.Registry

	enabled   bool
	namespace string
}

// New builds the registry with the Go runtime and process collectors.
// When metrics are disabled the registry is still returned so callers need
// no nil checks, but Enabled reports false and no route is mounted.
func New(params Params) *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	r := &Registry{
		Registry:  reg,
		namespace: defaultNamespace,
	}

	if cfg := params.Config.Metrics; cfg != nil {
		r.enabled = cfg.Enabled
		if cfg.Namespace != "" {
			r.namespace = cfg.Namespace
		}
	}

	params.Logger.Info("Metrics registry ready",
		slog.Bool("enabled", r.enabled),
		slog.String("namespace", r.namespace),
	)

	return r
}

// Enabled reports whether /metrics should be exposed.
func (r *Registry) Enabled() bool {
	return r.enabled
}

// Namespace is the prefix for every collector the service registers.
func (r *Registry) Namespace() string {
	return r.namespace
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.Registry, promhttp.HandlerOpts{Registry: r.Registry})
}
