package sim

import (
	"math/rand"

	"github.com/networksim/fabric-sim/sim/distribution"
)

// unevenStrategy (f): a small subset of links are declared "buffer
// links" (default floor(N/5), and never fewer than one). Large flows — those whose size exceeds
// large_flow_percentile, queried from the flow-size distribution — route
// to the least-congested buffer link; everything else uses weighted
// random over all links with weights equal to their configured target
// utilizations.
type unevenStrategy struct {
	links       []*Link
	bufferLinks []*Link
	threshold   float64
	weights     []float64
	rng         *rand.Rand
}

const defaultLargeFlowPercentile = 99

func newUnevenStrategy(links []*Link, targets map[string]float64, _ *MetricsTracker, dist distribution.Distribution, rng *rand.Rand, bufferLinks int, largeFlowPercentile float64) (*unevenStrategy, error) {
	if dist == nil {
		return nil, NewSimError(ErrInvalidParameters, "uneven strategy requires a flow-size distribution")
	}
	n := len(links)

	numBuffer := bufferLinks
	if numBuffer <= 0 {
		numBuffer = n / 5
	}
	if numBuffer > n {
		numBuffer = n
	}
	if numBuffer == 0 {
		numBuffer = 1 // at least one link must absorb large flows
	}

	p := largeFlowPercentile
	if p <= 0 {
		p = defaultLargeFlowPercentile
	}
	if p > 100 {
		return nil, NewSimError(ErrOutOfRange, "large_flow_percentile must be in (0,100], got %v", p)
	}

	threshold, err := dist.Quantile(p / 100.0)
	if err != nil {
		return nil, err
	}

	weights := make([]float64, n)
	for i, l := range links {
		w := targets[l.ID]
		if w <= 0 {
			return nil, NewSimError(ErrInvalidParameters, "uneven requires positive target_utilization weights, link %q has %v", l.ID, w)
		}
		weights[i] = w
	}

	return &unevenStrategy{
		links:       links,
		bufferLinks: links[:numBuffer],
		threshold:   float64(threshold),
		weights:     weights,
		rng:         rng,
	}, nil
}

func (s *unevenStrategy) SelectLink(flow *Flow) (*Link, error) {
	if flow.FlowSize > s.threshold {
		return argminBusyUntil(s.bufferLinks), nil
	}
	return weightedChoice(s.links, s.weights, s.rng), nil
}
