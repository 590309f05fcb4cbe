package cmd

import (
	"encoding/json"
	"io"

	sim "github.com/networksim/fabric-sim/sim"
)

// linkOutput is the per-link section of the printed result: its three
// collector series plus its MSE-contribution series.
type linkOutput struct {
	LinkID             string       `json:"link_id"`
	LinkUtilization    []sim.Sample `json:"link_utilization"`
	BufferOccupancy    []sim.Sample `json:"buffer_occupancy"`
	FlowCompletionTime []sim.Sample `json:"flow_completion_time"`
	Error              []sim.Sample `json:"error"`
}

// result is the single externally observable contract of this program
// (SPEC_FULL.md "Metrics outputs"): the metrics series plus the MSE series,
// as JSON.
type result struct {
	Links []linkOutput `json:"links"`
	MSE   []sim.Sample `json:"mse"`
}

// writeResults mirrors the teacher's Metrics.Print(): a single structured
// dump of everything the simulation tracked, written to w as JSON.
func writeResults(w io.Writer, s *sim.Simulator) error {
	res := result{MSE: s.MSESeries}
	for _, l := range s.Links {
		res.Links = append(res.Links, linkOutput{
			LinkID:             l.ID,
			LinkUtilization:    s.Tracker.Samples(l, sim.MetricLinkUtilization),
			BufferOccupancy:    s.Tracker.Samples(l, sim.MetricBufferOccupancy),
			FlowCompletionTime: s.Tracker.Samples(l, sim.MetricFlowCompletionTime),
			Error:              s.PerLinkErrorSeries[l.ID],
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}
