// Config is the validated, in-memory form of the YAML input described in
// spec.md §6. Grounded on the teacher's sim/config.go SimulatorConfig and
// sim/workload_config.go: nested yaml-tagged structs plus a single
// Validate() that runs every construction-time check named in §7 before
// anything is built.
package sim

import (
	"fmt"

	"github.com/networksim/fabric-sim/sim/distribution"
)

// LinkConfig is one entry of network.links (§3 "LinkConfig").
type LinkConfig struct {
	ID                 string  `yaml:"id"`
	Capacity           float64 `yaml:"capacity"`
	TimeWindowDuration float64 `yaml:"time_window_duration"`
	TargetUtilization  float64 `yaml:"target_utilization"`
}

// MetricsConfig is simulation.metrics.
type MetricsConfig struct {
	SampleInterval float64 `yaml:"sample_interval"`
}

// SimulationConfig is the simulation.* block.
type SimulationConfig struct {
	Duration float64       `yaml:"duration"`
	Seed     *int64        `yaml:"seed"`
	Metrics  MetricsConfig `yaml:"metrics"`
}

// NetworkConfig is the network.* block.
type NetworkConfig struct {
	Strategy            string       `yaml:"strategy"`
	Links               []LinkConfig `yaml:"links"`
	BufferLinks         int          `yaml:"buffer_links"`
	LargeFlowPercentile float64      `yaml:"large_flow_percentile"`
}

// FlowArrivalConfig is traffic.flow_arrival.
type FlowArrivalConfig struct {
	Type string  `yaml:"type"`
	Rate float64 `yaml:"rate"`
}

// FlowSizeConfig is traffic.flow_size; Params is interpreted per Type as in
// §4.1 (bounded_pareto: l, u, alpha; uniform: min, max; constant: value).
type FlowSizeConfig struct {
	Type   string             `yaml:"type"`
	Params map[string]float64 `yaml:"params"`
}

// TrafficConfig is the traffic.* block.
type TrafficConfig struct {
	FlowArrival FlowArrivalConfig `yaml:"flow_arrival"`
	FlowSize    FlowSizeConfig    `yaml:"flow_size"`
}

// Config is the root of the YAML document (§6).
type Config struct {
	Simulation SimulationConfig `yaml:"simulation"`
	Network    NetworkConfig    `yaml:"network"`
	Traffic    TrafficConfig    `yaml:"traffic"`
}

// Validate runs every §7 construction-time check: unknown strategy name,
// unknown distribution type, non-positive durations/rates, and malformed
// link entries. It does not construct anything — only checks that
// construction could succeed.
func (c *Config) Validate() error {
	if c.Simulation.Duration <= 0 {
		return fmt.Errorf("simulation.duration must be > 0, got %v", c.Simulation.Duration)
	}
	if c.Simulation.Metrics.SampleInterval <= 0 {
		return fmt.Errorf("simulation.metrics.sample_interval must be > 0, got %v", c.Simulation.Metrics.SampleInterval)
	}

	if !IsValidStrategy(c.Network.Strategy) {
		return fmt.Errorf("network.strategy: %w", NewSimError(ErrUnknownStrategy, "unknown strategy %q, valid: %v", c.Network.Strategy, ValidStrategyNames()))
	}
	if len(c.Network.Links) == 0 {
		return fmt.Errorf("network.links: %w", NewSimError(ErrInvalidParameters, "at least one link is required"))
	}
	seen := make(map[string]bool, len(c.Network.Links))
	for _, l := range c.Network.Links {
		if l.ID == "" {
			return fmt.Errorf("network.links: %w", NewSimError(ErrInvalidParameters, "link id must not be empty"))
		}
		if seen[l.ID] {
			return fmt.Errorf("network.links: %w", NewSimError(ErrInvalidParameters, "duplicate link id %q", l.ID))
		}
		seen[l.ID] = true
		if l.Capacity <= 0 {
			return fmt.Errorf("network.links[%s]: %w", l.ID, NewSimError(ErrInvalidParameters, "capacity must be > 0, got %v", l.Capacity))
		}
		if l.TimeWindowDuration <= 0 {
			return fmt.Errorf("network.links[%s]: %w", l.ID, NewSimError(ErrInvalidParameters, "time_window_duration must be > 0, got %v", l.TimeWindowDuration))
		}
		if l.TargetUtilization < 0 || l.TargetUtilization > 1 {
			return fmt.Errorf("network.links[%s]: %w", l.ID, NewSimError(ErrInvalidParameters, "target_utilization must be in [0,1], got %v", l.TargetUtilization))
		}
	}
	if c.Network.BufferLinks < 0 || c.Network.BufferLinks > len(c.Network.Links) {
		return fmt.Errorf("network.buffer_links: %w", NewSimError(ErrInvalidParameters, "buffer_links must be in [0,%d], got %d", len(c.Network.Links), c.Network.BufferLinks))
	}
	if c.Network.LargeFlowPercentile < 0 || c.Network.LargeFlowPercentile > 100 {
		return fmt.Errorf("network.large_flow_percentile: %w", NewSimError(ErrOutOfRange, "must be in (0,100], got %v", c.Network.LargeFlowPercentile))
	}

	if c.Traffic.FlowArrival.Type != "poisson" {
		return fmt.Errorf("traffic.flow_arrival.type: %w", NewSimError(ErrInvalidParameters, "only %q is supported, got %q", "poisson", c.Traffic.FlowArrival.Type))
	}
	if c.Traffic.FlowArrival.Rate <= 0 {
		return fmt.Errorf("traffic.flow_arrival.rate: %w", NewSimError(ErrInvalidParameters, "must be > 0, got %v", c.Traffic.FlowArrival.Rate))
	}

	if !distribution.IsValidType(c.Traffic.FlowSize.Type) {
		return fmt.Errorf("traffic.flow_size.type: %w", NewSimError(ErrUnknownDistribution, "unknown distribution type %q, valid: %v", c.Traffic.FlowSize.Type, distribution.ValidTypeNames()))
	}
	if _, err := distribution.New(toDistSpec(c.Traffic.FlowSize)); err != nil {
		return fmt.Errorf("traffic.flow_size: %w", err)
	}

	return nil
}

func toDistSpec(c FlowSizeConfig) distribution.Spec {
	return distribution.Spec{Type: c.Type, Params: c.Params}
}

// Seed returns the configured seed, or a fixed default (spec.md §5: the RNG
// is explicitly seed-configurable, never a process-global).
func (c *Config) Seed() int64 {
	if c.Simulation.Seed != nil {
		return *c.Simulation.Seed
	}
	return 0
}
