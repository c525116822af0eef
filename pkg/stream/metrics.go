package stream

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricFrames = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "newscast",
		Name:      "frames_emitted_total",
		Help:      "Raw video frames written to the encoder.",
	})
	metricCycles = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "newscast",
		Name:      "cycles_total",
		Help:      "Streaming cycles run, including ones ended early.",
	})
	metricEncoderFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "newscast",
		Name:      "encoder_failures_total",
		Help:      "Cycles ended early by an encoder channel failure.",
	})
	metricFrameLag = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "newscast",
		Name:      "frame_lag_seconds",
		Help:      "How far frame emission is behind its target time.",
	})
)
