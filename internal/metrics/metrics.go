// Package metrics owns the Prometheus registry served on the metrics path.
package metrics

import (
	"net/http"
	"os"
	"runtime"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type BuildInfo struct {
	Version   string
	Revision  string
	Branch    string
	BuildDate string
}

// BuildInfoFromEnv reads BUILD_REVISION, BUILD_BRANCH and BUILD_DATE, which
// the image build stamps in.
func BuildInfoFromEnv(version string) BuildInfo {
	return BuildInfo{
		Version:   version,
		Revision:  os.Getenv("BUILD_REVISION"),
		Branch:    os.Getenv("BUILD_BRANCH"),
		BuildDate: os.Getenv("BUILD_DATE"),
	}
}

type Config struct {
	Service string
	Build   BuildInfo
	// NoRuntime skips the go_* and process_* collectors
	NoRuntime bool
}

// Provider is the service registry. Nothing is registered on the global
// default registry.
type Provider struct {
	reg *prometheus.Registry
}

func Init(cfg Config) *Provider {
	reg := prometheus.NewRegistry()

	if !cfg.NoRuntime {
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	build := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_build_info",
			Help: "Build info for this binary (value is always 1).",
		},
		[]string{"service", "version", "revision", "branch", "build_date", "go_version"},
	)
	reg.MustRegister(build)
	v := cfg.Build
	if v.Version == "" {
		v.Version = "dev"
	}
	build.WithLabelValues(cfg.Service, v.Version, v.Revision, v.Branch, v.BuildDate, runtime.Version()).Set(1)

	return &Provider{reg: reg}
}

// Handler serves the registry and counts its own scrapes.
func (p *Provider) Handler() http.Handler {
	h := promhttp.HandlerFor(p.reg, promhttp.HandlerOpts{Registry: p.reg})
	return promhttp.InstrumentMetricHandler(p.reg, h)
}

func (p *Provider) Register(cs ...prometheus.Collector) {
	for _, c := range cs {
		p.reg.MustRegister(c)
	}
}

func (p *Provider) Registerer() prometheus.Registerer { return p.reg }
