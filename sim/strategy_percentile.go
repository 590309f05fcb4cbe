package sim

import (
	"math/rand"
	"sort"

	"github.com/networksim/fabric-sim/sim/distribution"
)

// percentileStrategy (e): routes large flows to the least-utilized link
// and small flows by weighted random choice, using weights derived once
// from the flow-size distribution's CDF at construction.
//
// The heuristic constants (100 percentile samples, 0.05 small-tail
// cutoff) are preserved as documented in spec.md §4.6.e; their optimal
// values were not derived in the source material.
type percentileStrategy struct {
	links     []*Link
	threshold float64 // large-flow size cutoff
	weights   []float64 // per-link target utilization, parallel to links
	tracker   *MetricsTracker
	rng       *rand.Rand
}

func newPercentileStrategy(links []*Link, _ map[string]float64, tracker *MetricsTracker, dist distribution.Distribution, rng *rand.Rand) (*percentileStrategy, error) {
	if dist == nil {
		return nil, NewSimError(ErrInvalidParameters, "percentile_based strategy requires a flow-size distribution")
	}
	const n = 100
	sizes, err := distribution.PercentileTable(dist, n)
	if err != nil {
		return nil, err
	}

	cum := make([]float64, n)
	var running float64
	for i, s := range sizes {
		running += float64(s)
		cum[i] = running
	}
	total := cum[n-1]

	// k = max(searchsorted(C/S, 0.05) - 1, 0): the size below which only
	// ~5% of total bytes accumulate.
	idx := sort.Search(n, func(i int) bool { return cum[i]/total >= 0.05 })
	k := idx - 1
	if k < 0 {
		k = 0
	}
	threshold := float64(sizes[k])

	// Target utilization per link: walk the cumulative curve in equal
	// S/N-byte slabs; each slab is assigned to the next link in order,
	// target = 1 - p at the slab's upper percentile.
	numLinks := len(links)
	targets := make([]float64, numLinks)
	for j := 0; j < numLinks; j++ {
		boundary := float64(j+1) * total / float64(numLinks)
		i := sort.Search(n, func(i int) bool { return cum[i] >= boundary })
		if i >= n {
			i = n - 1
		}
		p := float64(i) / float64(n-1)
		targets[j] = 1 - p
	}
	normalizeTargets(targets)

	return &percentileStrategy{
		links:     links,
		threshold: threshold,
		weights:   targets,
		tracker:   tracker,
		rng:       rng,
	}, nil
}

// normalizeTargets scales targets to sum to 1; if they are all zero, sets
// every entry to 1.0 instead (spec.md §4.6.e).
func normalizeTargets(targets []float64) {
	var sum float64
	for _, t := range targets {
		sum += t
	}
	if sum == 0 {
		for i := range targets {
			targets[i] = 1.0
		}
		return
	}
	for i := range targets {
		targets[i] /= sum
	}
}

func (s *percentileStrategy) SelectLink(flow *Flow) (*Link, error) {
	if flow.FlowSize >= s.threshold {
		return argminLatestUtilization(s.links, s.tracker), nil
	}
	return weightedChoice(s.links, s.weights, s.rng), nil
}

// argminLatestUtilization returns the link with the lowest current
// link_utilization sample, treating a missing sample as 0 (an untouched
// link is the least-congested possible candidate).
func argminLatestUtilization(links []*Link, tracker *MetricsTracker) *Link {
	best := links[0]
	bestU, _ := tracker.Latest(best, MetricLinkUtilization)
	for _, l := range links[1:] {
		u, _ := tracker.Latest(l, MetricLinkUtilization)
		if u < bestU {
			best = l
			bestU = u
		}
	}
	return best
}
