package provisioning

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Result label values.
const (
	resultSuccess = "success"
	resultError   = "error"
)

// Metrics records provisioning metrics. A nil *Metrics records nothing.
type Metrics struct {
	phaseDuration *prometheus.HistogramVec
	pipelines     *prometheus.CounterVec
	addOns        *prometheus.CounterVec
	registrySize  *prometheus.GaugeVec
}

// NewMetrics creates the provisioning metrics and registers them on reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		phaseDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "blueprints",
				Subsystem: "provisioning",
				Name:      "phase_duration_seconds",
				Help:      "Duration of provisioning phases in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.01, 2, 16), // 10ms to ~5min
			},
			[]string{"blueprint", "phase", "result"},
		),
		pipelines: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "blueprints",
				Subsystem: "provisioning",
				Name:      "deployments_total",
				Help:      "Total number of blueprint deployments by result",
			},
			[]string{"blueprint", "result"},
		),
		addOns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "blueprints",
				Subsystem: "addons",
				Name:      "materialized_total",
				Help:      "Total number of add-on materializations by result",
			},
			[]string{"blueprint", "addon", "result"},
		),
		registrySize: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "blueprints",
				Subsystem: "addons",
				Name:      "provisioned",
				Help:      "Number of add-ons registered in the cluster info",
			},
			[]string{"blueprint"},
		),
	}

	if reg != nil {
		reg.MustRegister(m.phaseDuration, m.pipelines, m.addOns, m.registrySize)
	}
	return m
}

// ObservePhase records the duration and result of a phase.
func (m *Metrics) ObservePhase(blueprintID, phase string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.phaseDuration.WithLabelValues(blueprintID, phase, result(err)).Observe(duration.Seconds())
}

// ObserveDeployment records the result of a whole deployment.
func (m *Metrics) ObserveDeployment(blueprintID string, err error) {
	if m == nil {
		return
	}
	m.pipelines.WithLabelValues(blueprintID, result(err)).Inc()
}

// ObserveAddOn records the result of one add-on.
func (m *Metrics) ObserveAddOn(blueprintID, addOnID string, err error) {
	if m == nil {
		return
	}
	m.addOns.WithLabelValues(blueprintID, addOnID, result(err)).Inc()
}

// SetRegistrySize records how many add-ons are registered.
func (m *Metrics) SetRegistrySize(blueprintID string, n int) {
	if m == nil {
		return
	}
	m.registrySize.WithLabelValues(blueprintID).Set(float64(n))
}

func result(err error) string {
	if err != nil {
		return resultError
	}
	return resultSuccess
}
