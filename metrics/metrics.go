// Package metrics exposes session counters and report figures as
// Prometheus gauges, labelled by channel.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cwbudde/algo-vibration/analysis"
	"github.com/cwbudde/algo-vibration/session"
)

const namespace = "imuvib"

// Metrics holds every collector on its own registry. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	received   *prometheus.GaugeVec
	buffered   *prometheus.GaugeVec
	evicted    *prometheus.GaugeVec
	dropped    *prometheus.GaugeVec
	liveStdDev *prometheus.GaugeVec

	stdDev         *prometheus.GaugeVec
	outliers       *prometheus.GaugeVec
	outlierPercent *prometheus.GaugeVec
	peakFrequency  *prometheus.GaugeVec
	noiseRMS       *prometheus.GaugeVec
	analyses       *prometheus.CounterVec

	mu sync.Mutex
}

// New creates and registers all collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	labels := []string{"channel"}

	gauge := func(name, help string) *prometheus.GaugeVec {
		return f.NewGaugeVec(prometheus.GaugeOpts{Namespace: namespace, Name: name, Help: help}, labels)
	}

	return &Metrics{
		registry:       reg,
		received:       gauge("samples_received", "Samples pushed into the current window"),
		buffered:       gauge("samples_buffered", "Samples currently held in the ring buffer"),
		evicted:        gauge("samples_evicted", "Samples overwritten because the ring buffer was full"),
		dropped:        gauge("samples_dropped", "Samples that arrived after the window closed"),
		liveStdDev:     gauge("live_std_dev", "Running population standard deviation of all received samples"),
		stdDev:         gauge("std_dev", "Population standard deviation of the analyzed window"),
		outliers:       gauge("outliers", "IQR outlier count of the analyzed window"),
		outlierPercent: gauge("outlier_percent", "IQR outliers as a percentage of the analyzed window"),
		peakFrequency:  gauge("peak_frequency_hz", "Frequency of the largest non-DC ASD bin"),
		noiseRMS:       gauge("noise_rms", "RMS noise integrated from the one-sided ASD"),
		analyses: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_total",
			Help:      "Completed window analyses",
		}, labels),
	}
}

// Registry returns the registry the collectors live on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveSession records the session counters.
func (m *Metrics) ObserveSession(channel string, st session.Stats) {
	if m == nil {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	l := prometheus.Labels{"channel": channel}
	m.received.With(l).Set(float64(st.Received))
	m.buffered.With(l).Set(float64(st.Buffered))
	m.evicted.With(l).Set(float64(st.Evicted))
	m.dropped.With(l).Set(float64(st.Dropped))
	m.liveStdDev.With(l).Set(st.Live.StdDev)
}

// ObserveReport records the figures of a completed analysis.
func (m *Metrics) ObserveReport(channel string, r *analysis.Report) {
	if m == nil || r == nil {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	l := prometheus.Labels{"channel": channel}
	m.stdDev.With(l).Set(r.StdDev)
	m.outliers.With(l).Set(float64(r.Outliers.Count))
	m.outlierPercent.With(l).Set(r.Outliers.Percentage)
	m.peakFrequency.With(l).Set(r.Frequency.PeakFrequency)
	m.noiseRMS.With(l).Set(r.Frequency.NoiseRMS)
	m.analyses.With(l).Inc()
}
