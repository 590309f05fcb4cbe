// Optional Prometheus exporter (SPEC_FULL.md "Optional Prometheus
// exporter"): not named in spec.md, added because client_golang appears
// across three other pack repos as the shared way to expose live metrics,
// and MetricsTracker's series are a natural fit for a gauge-per-(link,metric)
// snapshot. Purely additive and gated behind --metrics-addr; the JSON result
// written to stdout is identical whether or not this is enabled.
package cmd

import (
	"github.com/prometheus/client_golang/prometheus"

	sim "github.com/networksim/fabric-sim/sim"
)

// exporter holds one GaugeVec per collector metric, labeled by link id,
// plus a single MSE gauge, all registered on a private registry so the
// handler serves exactly this simulation's state and nothing else.
type exporter struct {
	registry   *prometheus.Registry
	linkGauges map[string]*prometheus.GaugeVec
	errorGauge *prometheus.GaugeVec
	mseGauge   prometheus.Gauge
}

func newExporter() *exporter {
	reg := prometheus.NewRegistry()
	e := &exporter{
		registry:   reg,
		linkGauges: make(map[string]*prometheus.GaugeVec, 3),
		errorGauge: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "fabricsim",
			Name:      "link_error",
			Help:      "Latest squared error of link_utilization against target_utilization.",
		}, []string{"link"}),
		mseGauge: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "fabricsim",
			Name:      "mse",
			Help:      "Latest mean squared error across links.",
		}),
	}
	for _, name := range sim.ValidCollectorNames() {
		e.linkGauges[name] = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "fabricsim",
			Name:      name,
			Help:      "Latest sampled value of the " + name + " collector.",
		}, []string{"link"})
		reg.MustRegister(e.linkGauges[name])
	}
	reg.MustRegister(e.errorGauge, e.mseGauge)
	return e
}

// snapshot populates every gauge from the completed simulation's final
// sample values. Called once, after Run returns, since the kernel is a
// synchronous batch loop rather than a live process (§5).
func (e *exporter) snapshot(s *sim.Simulator) {
	for _, l := range s.Links {
		for name, gv := range e.linkGauges {
			if v, ok := s.Tracker.Latest(l, name); ok {
				gv.WithLabelValues(l.ID).Set(v)
			}
		}
		if errs := s.PerLinkErrorSeries[l.ID]; len(errs) > 0 {
			e.errorGauge.WithLabelValues(l.ID).Set(errs[len(errs)-1].Value)
		}
	}
	if n := len(s.MSESeries); n > 0 {
		e.mseGauge.Set(s.MSESeries[n-1].Value)
	}
}
