// Load-balance strategies (C6): given an arriving Flow, a Strategy
// returns the chosen Link from a fixed ordered list. Grounded on the
// registry/panic-on-unknown-name pattern of the teacher's sim/routing.go
// NewRoutingPolicy, but unified on the single select_link(flow) -> Link
// contract called out in spec.md §9 (rejecting the teacher's two
// incompatible select_link signatures).
package sim

import (
	"math/rand"
	"sort"

	"github.com/networksim/fabric-sim/sim/distribution"
)

// Strategy decides which Link an arriving Flow is routed to.
// Implementations hold non-owning references to the Links they select
// among and, when needed, to the MetricsTracker or flow-size Distribution
// (§3 Ownership).
type Strategy interface {
	SelectLink(flow *Flow) (*Link, error)
}

const (
	StrategyECMP            = "ecmp"
	StrategyWCMP            = "wcmp"
	StrategyLeastCongested  = "least_congested"
	StrategyMostUnderTarget = "most_under_target"
	StrategyPercentileBased = "percentile_based"
	StrategyUneven          = "uneven"
)

var validStrategyNames = map[string]bool{
	StrategyECMP:            true,
	StrategyWCMP:            true,
	StrategyLeastCongested:  true,
	StrategyMostUnderTarget: true,
	StrategyPercentileBased: true,
	StrategyUneven:          true,
}

// IsValidStrategy returns true if name is a recognized strategy.
func IsValidStrategy(name string) bool { return validStrategyNames[name] }

// ValidStrategyNames returns sorted valid strategy names.
func ValidStrategyNames() []string {
	names := make([]string, 0, len(validStrategyNames))
	for n := range validStrategyNames {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// StrategyConfig bundles everything a Strategy constructor might need. Not
// every strategy consults every field; unused fields are simply ignored
// (e.g. ecmp ignores Tracker and Dist entirely).
type StrategyConfig struct {
	Links               []*Link
	Targets             map[string]float64 // link ID -> target_utilization
	Tracker             *MetricsTracker
	Dist                distribution.Distribution
	RNG                 *rand.Rand
	BufferLinks         int     // for uneven strategy; 0 means use the default floor(N/5), at least 1
	LargeFlowPercentile float64 // for uneven strategy; 0 means default 99
}

// NewStrategy creates a Strategy by name from cfg. Unrecognized names
// return an error identifying the unknown name (UnknownStrategy, §7).
func NewStrategy(name string, cfg StrategyConfig) (Strategy, error) {
	if len(cfg.Links) == 0 {
		return nil, NewSimError(ErrInvalidParameters, "strategy %q requires at least one link", name)
	}
	switch name {
	case StrategyECMP:
		return &ecmpStrategy{links: cfg.Links, rng: cfg.RNG}, nil
	case StrategyWCMP:
		return newWeightedStrategy(cfg.Links, cfg.Targets, cfg.RNG)
	case StrategyLeastCongested:
		return &leastCongestedStrategy{links: cfg.Links}, nil
	case StrategyMostUnderTarget:
		return &mostUnderTargetStrategy{links: cfg.Links, targets: cfg.Targets, tracker: cfg.Tracker}, nil
	case StrategyPercentileBased:
		return newPercentileStrategy(cfg.Links, cfg.Targets, cfg.Tracker, cfg.Dist, cfg.RNG)
	case StrategyUneven:
		return newUnevenStrategy(cfg.Links, cfg.Targets, cfg.Tracker, cfg.Dist, cfg.RNG, cfg.BufferLinks, cfg.LargeFlowPercentile)
	default:
		return nil, NewSimError(ErrUnknownStrategy, "unknown load-balance strategy %q", name)
	}
}

// ecmpStrategy (a): uniform random choice over the link list.
type ecmpStrategy struct {
	links []*Link
	rng   *rand.Rand
}

func (s *ecmpStrategy) SelectLink(_ *Flow) (*Link, error) {
	return s.links[s.rng.Intn(len(s.links))], nil
}

// weightedStrategy (b): weighted random choice; weights are the configured
// per-link target utilizations.
type weightedStrategy struct {
	links   []*Link
	weights []float64
	rng     *rand.Rand
}

func newWeightedStrategy(links []*Link, targets map[string]float64, rng *rand.Rand) (*weightedStrategy, error) {
	weights := make([]float64, len(links))
	for i, l := range links {
		w := targets[l.ID]
		if w <= 0 {
			return nil, NewSimError(ErrInvalidParameters, "wcmp requires positive target_utilization weights, link %q has %v", l.ID, w)
		}
		weights[i] = w
	}
	return &weightedStrategy{links: links, weights: weights, rng: rng}, nil
}

func (s *weightedStrategy) SelectLink(_ *Flow) (*Link, error) {
	return weightedChoice(s.links, s.weights, s.rng), nil
}

// weightedChoice picks one of links with probability proportional to the
// parallel weights slice, using a single rng draw against the cumulative
// distribution. weights must be non-negative and sum to > 0; the last
// link is returned as a fallback against floating-point rounding.
func weightedChoice(links []*Link, weights []float64, rng *rand.Rand) *Link {
	var total float64
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		return links[0]
	}
	r := rng.Float64() * total
	var cum float64
	for i, w := range weights {
		cum += w
		if r < cum {
			return links[i]
		}
	}
	return links[len(links)-1]
}

// argminBusyUntil returns the link with the smallest BusyUntil(), ties
// broken by first-index (c, and the least-congested fallback used by d
// and f).
func argminBusyUntil(links []*Link) *Link {
	best := links[0]
	for _, l := range links[1:] {
		if l.BusyUntil() < best.BusyUntil() {
			best = l
		}
	}
	return best
}
