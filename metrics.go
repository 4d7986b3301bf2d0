package slidedom

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts autofit and media activity. A nil *Metrics records nothing.
type Metrics struct {
	autofitPasses    *prometheus.CounterVec
	shrinkIterations prometheus.Counter
	fontScale        prometheus.Histogram
	mediaReusedTotal prometheus.Counter
	mediaAddedTotal  prometheus.Counter
}

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		autofitPasses: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "slidedom",
				Subsystem: "autofit",
				Name:      "passes_total",
				Help:      "Autofit passes by policy.",
			},
			[]string{"policy"},
		),
		shrinkIterations: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: "slidedom",
				Subsystem: "autofit",
				Name:      "shrink_iterations_total",
				Help:      "Measurements taken while searching for a shrink scale.",
			},
		),
		fontScale: f.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "slidedom",
				Subsystem: "autofit",
				Name:      "font_scale",
				Help:      "Font scale chosen by shrink passes.",
				Buckets:   prometheus.LinearBuckets(0.25, 0.075, 11),
			},
		),
		mediaReusedTotal: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: "slidedom",
				Subsystem: "media",
				Name:      "reused_total",
				Help:      "Attachments resolved to an existing media entry.",
			},
		),
		mediaAddedTotal: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: "slidedom",
				Subsystem: "media",
				Name:      "added_total",
				Help:      "Media entries registered.",
			},
		),
	}
}

func (m *Metrics) autofitPass(a AutofitType) {
	if m == nil {
		return
	}
	m.autofitPasses.WithLabelValues(a.String()).Inc()
}

func (m *Metrics) shrinkResult(iterations int, scale float64) {
	if m == nil {
		return
	}
	m.shrinkIterations.Add(float64(iterations))
	m.fontScale.Observe(scale)
}

func (m *Metrics) mediaReused() {
	if m == nil {
		return
	}
	m.mediaReusedTotal.Inc()
}

func (m *Metrics) mediaAdded() {
	if m == nil {
		return
	}
	m.mediaAddedTotal.Inc()
}
