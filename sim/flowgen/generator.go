// Package flowgen implements the Poisson flow generator (C2): a finite,
// time-ordered sequence of Flows over [0, duration) produced by
// accumulating independent exponential inter-arrivals. Generate builds and
// returns the whole sequence at once; flows are not produced lazily.
//
// Grounded on the teacher's sim/workload/generator.go (GenerateRequests:
// per-arrival loop, sequential ID assignment, fmt.Errorf-wrapped
// validation) and sim/workload/arrival.go's PoissonSampler
// (rng.ExpFloat64()/rate inter-arrival draw).
package flowgen

import (
	"fmt"
	"math/rand"

	"github.com/networksim/fabric-sim/sim"
	"github.com/networksim/fabric-sim/sim/distribution"
)

// Spec parameterizes Poisson flow arrivals (§4.2, §6 traffic.flow_arrival).
type Spec struct {
	Rate float64 // flows/sec, > 0
}

// Generator produces a finite ordered sequence of Flows. Calling Generate
// twice with the same rng state is not supported — callers own a single
// *rand.Rand drawn from the subsystem-partitioned RNG (SubsystemFlowGen).
type Generator struct {
	spec     Spec
	sizeDist distribution.Distribution
}

// New validates spec.Rate > 0 before returning a usable Generator
// (construction-time fail-fast, §7).
func New(spec Spec, sizeDist distribution.Distribution) (*Generator, error) {
	if spec.Rate <= 0 {
		return nil, fmt.Errorf("flow generator requires rate > 0, got %v", spec.Rate)
	}
	return &Generator{spec: spec, sizeDist: sizeDist}, nil
}

// Generate produces every Flow with ArrivalTime in [0, duration), each
// carrying a fresh sequential ID starting at 0 and a flow size drawn from
// sizeDist. The returned slice is ordered by (and only by) arrival time,
// since inter-arrivals are strictly positive.
func (g *Generator) Generate(duration float64, rng *rand.Rand) ([]*sim.Flow, error) {
	var flows []*sim.Flow
	currentTime := 0.0
	var id int64
	for {
		iat := rng.ExpFloat64() / g.spec.Rate
		currentTime += iat
		if currentTime >= duration {
			break
		}
		size, err := g.sizeDist.Sample(rng)
		if err != nil {
			return nil, fmt.Errorf("sampling flow size: %w", err)
		}
		flows = append(flows, &sim.Flow{
			ID:          id,
			ArrivalTime: currentTime,
			FlowSize:    float64(size),
		})
		id++
	}
	return flows, nil
}
