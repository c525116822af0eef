package monitoring

import (
	"context"
	"fmt"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tickerlive/newscast/pkg/config"
	"github.com/tickerlive/newscast/pkg/logger"
)

type Monitoring struct {
	conf   config.Monitoring
	log    *logger.Logger
	server *http.Server
}

// New creates new monitoring service with optional Prometheus metrics
// and pprof endpoints.
func New(conf config.Monitoring, log *logger.Logger) *Monitoring {
	h := http.NewServeMux()

	if conf.ProfilingEnabled {
		prefix := conf.URLPrefix + "/debug/pprof"
		h.HandleFunc(prefix+"/", pprof.Index)
		h.HandleFunc(prefix+"/cmdline", pprof.Cmdline)
		h.HandleFunc(prefix+"/profile", pprof.Profile)
		h.HandleFunc(prefix+"/symbol", pprof.Symbol)
		h.HandleFunc(prefix+"/trace", pprof.Trace)
		h.Handle(prefix+"/allocs", pprof.Handler("allocs"))
		h.Handle(prefix+"/block", pprof.Handler("block"))
		h.Handle(prefix+"/goroutine", pprof.Handler("goroutine"))
		h.Handle(prefix+"/heap", pprof.Handler("heap"))
		h.Handle(prefix+"/mutex", pprof.Handler("mutex"))
		h.Handle(prefix+"/threadcreate", pprof.Handler("threadcreate"))
	}

	if conf.MetricEnabled {
		h.Handle(conf.URLPrefix+"/metrics", promhttp.Handler())
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", conf.Port),
		Handler:      h,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	return &Monitoring{conf: conf, log: log, server: server}
}

func (m *Monitoring) Run() {
	m.log.Info().Msgf("Starting monitoring server at %v", m.server.Addr)
	if err := m.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		m.log.Error().Err(err).Msg("monitoring server failed")
	}
}

func (m *Monitoring) Shutdown(ctx context.Context) error {
	m.log.Info().Msg("Shutting down monitoring server")
	return m.server.Shutdown(ctx)
}

func (m *Monitoring) String() string {
	return fmt.Sprintf("monitoring::%s:%d", m.conf.URLPrefix, m.conf.Port)
}
