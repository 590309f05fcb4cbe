package sim

// EventType orders events that share a timestamp. FlowArrival is processed
// before FlowCompletion at equal timestamps, matching the fact that
// arrivals cause completions (§5).
type EventType int

const (
	EventTypeFlowArrival EventType = iota
	EventTypeFlowCompletion
)

// Event is a tagged variant over a common time field (§3).
type Event interface {
	Timestamp() float64
	Type() EventType
	// seq is the insertion order, used as the final deterministic tie-break.
	seq() uint64
	Execute(s *Simulator)
}

type baseEvent struct {
	time      float64
	eventType EventType
	id        uint64
}

func (e *baseEvent) Timestamp() float64 { return e.time }
func (e *baseEvent) Type() EventType    { return e.eventType }
func (e *baseEvent) seq() uint64        { return e.id }

// FlowArrivalEvent fires at flow.ArrivalTime, for a flow not yet scheduled.
type FlowArrivalEvent struct {
	baseEvent
	Flow *Flow
}

func newFlowArrivalEvent(flow *Flow, id uint64) *FlowArrivalEvent {
	return &FlowArrivalEvent{
		baseEvent: baseEvent{time: flow.ArrivalTime, eventType: EventTypeFlowArrival, id: id},
		Flow:      flow,
	}
}

// Execute asks the Strategy for a Link, enqueues the flow there, and
// schedules the resulting FlowCompletion event (§4.7).
func (e *FlowArrivalEvent) Execute(s *Simulator) {
	s.handleFlowArrival(e)
}

// FlowCompletionEvent fires at flow.EndTime, referencing both the Flow and
// the Link it was scheduled on.
type FlowCompletionEvent struct {
	baseEvent
	Flow *Flow
	Link *Link
}

func newFlowCompletionEvent(flow *Flow, link *Link, id uint64) *FlowCompletionEvent {
	return &FlowCompletionEvent{
		baseEvent: baseEvent{time: flow.EndTime, eventType: EventTypeFlowCompletion, id: id},
		Flow:      flow,
		Link:      link,
	}
}

// Execute dequeues the flow from its link. No new events are generated.
func (e *FlowCompletionEvent) Execute(s *Simulator) {
	s.handleFlowCompletion(e)
}
