// Simulator is the event-driven kernel (C7): a priority-queued event loop
// coordinating flow-arrival and flow-completion events plus the per-link
// transmission scheduler. Grounded on the teacher's sim/simulator.go Run()
// loop shape (pop, advance clock, log, execute) and the clock-regression
// panic in sim/cluster/simulator.go's Run(), here surfaced as a
// PreconditionFailure error instead of a panic (§7: "the core does not
// swallow errors; it surfaces them to the embedding collaborator").
package sim

import "github.com/sirupsen/logrus"

// Simulator owns the event queue, the set of Links, the MetricsTracker and
// the Strategy for one simulation run (§3 Ownership).
type Simulator struct {
	Clock    float64
	Duration float64

	queue    *EventQueue
	Links    []*Link
	Tracker  *MetricsTracker
	Strategy Strategy
	Targets  map[string]float64 // link ID -> target_utilization, for MSE (C8)

	AllFlows []*Flow

	MSESeries          []Sample
	PerLinkErrorSeries map[string][]Sample

	// Errors accumulates every PreconditionFailure observed during Run,
	// without aborting the loop — the offending event is still processed
	// (§4.7, §7).
	Errors []error
}

// NewSimulator constructs a Simulator over an already-validated set of
// links, strategy and tracker.
func NewSimulator(links []*Link, strategy Strategy, tracker *MetricsTracker, targets map[string]float64, duration float64) *Simulator {
	return &Simulator{
		Duration:           duration,
		queue:              NewEventQueue(),
		Links:              links,
		Tracker:            tracker,
		Strategy:           strategy,
		Targets:            targets,
		PerLinkErrorSeries: make(map[string][]Sample, len(links)),
	}
}

// Run drains a pre-generated, time-ordered flow list through the event
// loop to completion (§4.7):
//
//  1. Every flow is pushed as a FlowArrival event up front — arrivals do
//     not depend on simulator state, so pre-generating them is safe.
//  2. While the heap is non-empty: pop the earliest event, advance the
//     clock, sample the tracker, then dispatch.
//  3. Once the heap drains, sample one final time so metrics reflect the
//     final state.
func (s *Simulator) Run(flows []*Flow) []error {
	s.AllFlows = flows
	for _, f := range flows {
		s.queue.Schedule(newFlowArrivalEvent(f, s.queue.nextID()))
	}

	for s.queue.Len() > 0 {
		ev := s.queue.Pop()
		ts := ev.Timestamp()
		if ts < s.Clock {
			s.Errors = append(s.Errors, NewSimError(ErrPreconditionFailure,
				"event timestamp %v precedes clock %v", ts, s.Clock))
		} else {
			s.Clock = ts
		}
		logrus.Debugf("[t=%v] executing %T", s.Clock, ev)

		s.Tracker.Sample(s.Clock)
		s.recordMSE(s.Clock)

		ev.Execute(s)
	}

	s.Tracker.Sample(s.Clock)
	s.recordMSE(s.Clock)

	return s.Errors
}

func (s *Simulator) recordMSE(now float64) {
	mse, perLink := MSE(s.Tracker, s.Links, s.Targets)
	s.MSESeries = append(s.MSESeries, Sample{Timestamp: now, Value: mse})
	for id, e := range perLink {
		s.PerLinkErrorSeries[id] = append(s.PerLinkErrorSeries[id], Sample{Timestamp: now, Value: e})
	}
}

func (s *Simulator) handleFlowArrival(e *FlowArrivalEvent) {
	link, err := s.Strategy.SelectLink(e.Flow)
	if err != nil {
		s.Errors = append(s.Errors, err)
		return
	}
	link.Enqueue(e.Flow, s.Clock)
	s.queue.Schedule(newFlowCompletionEvent(e.Flow, link, s.queue.nextID()))
}

func (s *Simulator) handleFlowCompletion(e *FlowCompletionEvent) {
	e.Link.Dequeue(s.Clock)
}
