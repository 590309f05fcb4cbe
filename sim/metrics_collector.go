// Metrics collectors are pure reductions over (Link, time) -> scalar
// (C4). Grounded on the registry style of the teacher's
// sim/routing_scorers.go (validScorerNames / IsValidScorer /
// ValidScorerNames trio), adapted from per-instance routing scores to
// per-link metric collectors.
package sim

import "sort"

// Collector is a side-effect-free reduction over a Link's state at a
// point in simulated time.
type Collector interface {
	Name() string
	Collect(link *Link, now float64) float64
}

const (
	MetricLinkUtilization    = "link_utilization"
	MetricBufferOccupancy    = "buffer_occupancy"
	MetricFlowCompletionTime = "flow_completion_time"
)

var validCollectorNames = map[string]bool{
	MetricLinkUtilization:    true,
	MetricBufferOccupancy:    true,
	MetricFlowCompletionTime: true,
}

// IsValidCollector returns true if name is a recognized collector.
func IsValidCollector(name string) bool { return validCollectorNames[name] }

// ValidCollectorNames returns sorted valid collector names.
func ValidCollectorNames() []string {
	names := make([]string, 0, len(validCollectorNames))
	for n := range validCollectorNames {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// linkUtilizationCollector computes the fraction of [0,now] during which
// the link was transmitting (§4.4).
type linkUtilizationCollector struct{}

func (linkUtilizationCollector) Name() string { return MetricLinkUtilization }

func (linkUtilizationCollector) Collect(link *Link, now float64) float64 {
	if now <= 0 {
		return 0
	}
	var busy float64
	for _, f := range link.Flows() {
		if f.EndTime <= 0 || f.StartTime >= now {
			continue
		}
		end := f.EndTime
		if end > now {
			end = now
		}
		start := f.StartTime
		if start < 0 {
			start = 0
		}
		if d := end - start; d > 0 {
			busy += d
		}
	}
	return busy / now
}

// bufferOccupancyCollector sums the remaining bits of every flow still
// queued or in transit on the link at time now (§4.4). Units: bits.
type bufferOccupancyCollector struct{}

func (bufferOccupancyCollector) Name() string { return MetricBufferOccupancy }

func (bufferOccupancyCollector) Collect(link *Link, now float64) float64 {
	var total float64
	for _, f := range link.queue {
		if f.EndTime > now {
			total += link.RemainingSize(f, now)
		}
	}
	return total
}

// flowCompletionTimeCollector returns the mean (end_time - arrival_time)
// over every scheduled flow (EndTime > 0) ever admitted to the link,
// including flows whose end_time is still after now (§4.4).
type flowCompletionTimeCollector struct{}

func (flowCompletionTimeCollector) Name() string { return MetricFlowCompletionTime }

func (flowCompletionTimeCollector) Collect(link *Link, now float64) float64 {
	var sum float64
	var n int
	for _, f := range link.Flows() {
		if f.EndTime > 0 {
			sum += f.EndTime - f.ArrivalTime
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// NewCollector creates a Collector by name. Unrecognized names return an
// error identifying the unknown name (UnknownMetric, §7).
func NewCollector(name string) (Collector, error) {
	switch name {
	case MetricLinkUtilization:
		return linkUtilizationCollector{}, nil
	case MetricBufferOccupancy:
		return bufferOccupancyCollector{}, nil
	case MetricFlowCompletionTime:
		return flowCompletionTimeCollector{}, nil
	default:
		return nil, NewSimError(ErrUnknownMetric, "unknown collector %q", name)
	}
}
