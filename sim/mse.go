// MSE and per-link error reduce the current link_utilization samples
// against configured per-link target utilizations (C8). Grounded on the
// aggregation style of the teacher's sim/metrics.go, but backed by
// gonum.org/v1/gonum/stat for the mean reduction — the one hand-rolled
// mean in the teacher's pack (Metrics.Print's avgLatency etc.) that a
// real statistics library can usefully replace here.
package sim

import "gonum.org/v1/gonum/stat"

// LinkError computes the squared error of a single link's latest sampled
// utilization against its target. Returns 0 if no utilization sample
// exists yet (§4.8: absence of samples is never an error).
func LinkError(tracker *MetricsTracker, link *Link, target float64) float64 {
	u, ok := tracker.Latest(link, MetricLinkUtilization)
	if !ok {
		return 0
	}
	e := u - target
	return e * e
}

// MSE computes the mean squared error across every (link, target) pair
// with a utilization sample, and the per-link error map. Links without a
// sample yet are excluded from the mean but still appear in the map with
// value 0 (§4.8).
func MSE(tracker *MetricsTracker, links []*Link, targets map[string]float64) (mse float64, perLinkErrors map[string]float64) {
	perLinkErrors = make(map[string]float64, len(links))
	var sampled []float64
	for _, link := range links {
		target := targets[link.ID]
		e := LinkError(tracker, link, target)
		perLinkErrors[link.ID] = e
		if _, ok := tracker.Latest(link, MetricLinkUtilization); ok {
			sampled = append(sampled, e)
		}
	}
	if len(sampled) == 0 {
		return 0, perLinkErrors
	}
	return stat.Mean(sampled, nil), perLinkErrors
}
