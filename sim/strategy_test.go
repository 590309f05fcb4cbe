package sim

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/networksim/fabric-sim/sim/distribution"
)

func twoLinks() []*Link {
	return []*Link{NewLink("A", 1e9), NewLink("B", 1e9)}
}

func TestNewStrategy_UnknownNameIsAnError(t *testing.T) {
	_, err := NewStrategy("not_a_strategy", StrategyConfig{Links: twoLinks()})
	assert.Error(t, err)
	var simErr *SimError
	assert.ErrorAs(t, err, &simErr)
	assert.Equal(t, ErrUnknownStrategy, simErr.Kind)
}

func TestNewStrategy_RequiresAtLeastOneLink(t *testing.T) {
	_, err := NewStrategy(StrategyECMP, StrategyConfig{})
	assert.Error(t, err)
}

func TestECMP_ChoosesOnlyFromGivenLinks(t *testing.T) {
	links := twoLinks()
	s, err := NewStrategy(StrategyECMP, StrategyConfig{Links: links, RNG: rand.New(rand.NewSource(1))})
	assert.NoError(t, err)

	for i := 0; i < 20; i++ {
		chosen, err := s.SelectLink(&Flow{ID: int64(i), FlowSize: 1})
		assert.NoError(t, err)
		assert.Contains(t, links, chosen)
	}
}

func TestWCMP_RejectsNonPositiveWeights(t *testing.T) {
	links := twoLinks()
	_, err := NewStrategy(StrategyWCMP, StrategyConfig{
		Links:   links,
		Targets: map[string]float64{"A": 0.5, "B": 0},
		RNG:     rand.New(rand.NewSource(1)),
	})
	assert.Error(t, err)
}

func TestWCMP_FavorsHeavierWeightOverManyDraws(t *testing.T) {
	links := twoLinks()
	s, err := NewStrategy(StrategyWCMP, StrategyConfig{
		Links:   links,
		Targets: map[string]float64{"A": 0.9, "B": 0.1},
		RNG:     rand.New(rand.NewSource(5)),
	})
	assert.NoError(t, err)

	counts := map[string]int{}
	for i := 0; i < 2000; i++ {
		chosen, _ := s.SelectLink(&Flow{ID: int64(i), FlowSize: 1})
		counts[chosen.ID]++
	}
	assert.Greater(t, counts["A"], counts["B"])
}

func TestLeastCongested_PicksSmallestBusyUntil(t *testing.T) {
	links := twoLinks()
	links[0].Enqueue(&Flow{ID: 0, ArrivalTime: 0, FlowSize: 1e9}, 0) // busy until 1s
	s := &leastCongestedStrategy{links: links}

	chosen, err := s.SelectLink(&Flow{ID: 1, FlowSize: 1})
	assert.NoError(t, err)
	assert.Equal(t, "B", chosen.ID)
}

func TestMostUnderTarget_FallsBackToLeastCongestedWithoutSamples(t *testing.T) {
	links := twoLinks()
	tracker, _ := NewMetricsTracker(1.0)
	s := &mostUnderTargetStrategy{links: links, targets: map[string]float64{"A": 0.8, "B": 0.8}, tracker: tracker}

	chosen, err := s.SelectLink(&Flow{ID: 0, FlowSize: 1})
	assert.NoError(t, err)
	assert.Equal(t, "A", chosen.ID) // tie-break: first index
}

func TestMostUnderTarget_PrefersLargestPositiveGap(t *testing.T) {
	links := twoLinks()
	tracker, _ := NewMetricsTracker(1.0)
	tracker.Register(links[0], linkUtilizationCollector{})
	tracker.Register(links[1], linkUtilizationCollector{})

	// A is busy (utilization 1 at the t=1 grid sample), B is idle
	// (utilization 0): B has the bigger gap.
	links[0].Enqueue(&Flow{ID: 0, ArrivalTime: 0, FlowSize: 1e9}, 0)
	tracker.Sample(2.0) // grid samples at t=0 and t=1

	s := &mostUnderTargetStrategy{links: links, targets: map[string]float64{"A": 0.8, "B": 0.8}, tracker: tracker}
	chosen, err := s.SelectLink(&Flow{ID: 1, FlowSize: 1})
	assert.NoError(t, err)
	assert.Equal(t, "B", chosen.ID)
}

func TestPercentileBased_LargeFlowRoutesToLeastUtilized(t *testing.T) {
	// spec.md §8 scenario 5: a flow of size U+eps always routes to the
	// lowest-utilization link.
	dist, err := distribution.NewBoundedPareto(100, 1e6, 0.5)
	assert.NoError(t, err)
	links := twoLinks()
	tracker, _ := NewMetricsTracker(1.0)
	tracker.Register(links[0], linkUtilizationCollector{})
	tracker.Register(links[1], linkUtilizationCollector{})

	s, err := NewStrategy(StrategyPercentileBased, StrategyConfig{
		Links:   links,
		Targets: map[string]float64{"A": 0.5, "B": 0.5},
		Tracker: tracker,
		Dist:    dist,
		RNG:     rand.New(rand.NewSource(9)),
	})
	assert.NoError(t, err)

	links[0].Enqueue(&Flow{ID: 0, ArrivalTime: 0, FlowSize: 1e6}, 0)
	tracker.Sample(2.0) // latest sample at t=1: A has been busy, B idle

	chosen, err := s.SelectLink(&Flow{ID: 1, FlowSize: 1e6 + 1})
	assert.NoError(t, err)
	assert.Equal(t, "B", chosen.ID)
}

func TestPercentileBased_RequiresDistribution(t *testing.T) {
	_, err := NewStrategy(StrategyPercentileBased, StrategyConfig{Links: twoLinks()})
	assert.Error(t, err)
}

func TestUneven_LargeFlowRoutesToBufferLink(t *testing.T) {
	dist, err := distribution.NewBoundedPareto(100, 1e6, 0.5)
	assert.NoError(t, err)
	links := []*Link{NewLink("A", 1e9), NewLink("B", 1e9), NewLink("C", 1e9), NewLink("D", 1e9), NewLink("E", 1e9)}
	targets := map[string]float64{"A": 0.2, "B": 0.2, "C": 0.2, "D": 0.2, "E": 0.2}

	s, err := NewStrategy(StrategyUneven, StrategyConfig{
		Links:   links,
		Targets: targets,
		Dist:    dist,
		RNG:     rand.New(rand.NewSource(3)),
	})
	assert.NoError(t, err)

	// A large flow (above the 99th percentile threshold) must route to a buffer link.
	chosen, err := s.SelectLink(&Flow{ID: 0, FlowSize: 1e6})
	assert.NoError(t, err)
	assert.Equal(t, "A", chosen.ID) // sole buffer link: floor(5/5) = 1 -> links[:1]
}

func TestUneven_RequiresPositiveTargets(t *testing.T) {
	dist, _ := distribution.NewBoundedPareto(100, 1e6, 0.5)
	_, err := NewStrategy(StrategyUneven, StrategyConfig{
		Links:   twoLinks(),
		Targets: map[string]float64{"A": 0.5, "B": 0},
		Dist:    dist,
		RNG:     rand.New(rand.NewSource(1)),
	})
	assert.Error(t, err)
}

func TestValidStrategyNames_SortedAndComplete(t *testing.T) {
	names := ValidStrategyNames()
	assert.Equal(t, []string{
		"ecmp", "least_congested", "most_under_target", "percentile_based", "uneven", "wcmp",
	}, names)
}
