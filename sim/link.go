// Implements Link, the per-link FIFO transmission scheduler (C3). A Link
// holds a capacity and schedules each admitted Flow a contiguous
// start/end interval honoring FIFO order and the link's busy-time horizon.
//
// Grounded on the FIFO-queue-plus-append-only-history shape of the
// teacher's WaitQueue (sim/queue.go): queue front is the next candidate to
// leave transit, flows is the append-only history metrics collectors look
// back over.

package sim

// Link is a single output channel with fixed capacity, serving admitted
// flows FIFO without preemption.
type Link struct {
	ID          string
	CapacityBps float64 // bits/sec, positive

	queue      []*Flow // FIFO of flows currently in transit or waiting
	busyUntil  float64 // scheduled end-time of the last enqueued flow
	flows      []*Flow // append-only history of every flow ever admitted
}

// NewLink constructs a Link with the given id and capacity.
func NewLink(id string, capacityBps float64) *Link {
	return &Link{ID: id, CapacityBps: capacityBps}
}

// BusyUntil returns the link's future-busy horizon: the scheduled
// completion time of the most-recently-enqueued flow.
func (l *Link) BusyUntil() float64 { return l.busyUntil }

// Flows returns the append-only history of every flow ever admitted to
// this link, in enqueue order. Callers must not mutate the returned slice.
func (l *Link) Flows() []*Flow { return l.flows }

// QueueLen returns the number of flows currently queued or in transit.
func (l *Link) QueueLen() int { return len(l.queue) }

// Enqueue schedules flow for transmission on this link and returns its
// end time.
//
// Policy: if the queue is empty and now >= busyUntil, the flow starts
// immediately at now; otherwise it starts at busyUntil (pure FIFO, no
// preemption, no reordering). end_time = start_time + flow_size/capacity.
// busyUntil is updated to the new end_time, which by construction is
// non-decreasing across calls.
func (l *Link) Enqueue(flow *Flow, now float64) float64 {
	if len(l.queue) == 0 && now >= l.busyUntil {
		flow.StartTime = now
	} else {
		flow.StartTime = l.busyUntil
	}
	flow.EndTime = flow.StartTime + flow.FlowSize/l.CapacityBps
	l.busyUntil = flow.EndTime

	l.queue = append(l.queue, flow)
	l.flows = append(l.flows, flow)
	return flow.EndTime
}

// Dequeue removes and returns the head of the queue if it has completed
// transmission by now. Returns nil if the queue is empty or the head has
// not yet completed; this is not an error (§7).
func (l *Link) Dequeue(now float64) *Flow {
	if len(l.queue) == 0 {
		return nil
	}
	head := l.queue[0]
	if head.EndTime > now {
		return nil
	}
	l.queue = l.queue[1:]
	return head
}

// RemainingSize returns the number of bits of flow still left to transmit
// at time now. A flow that has not yet started still has its full size
// remaining; a flow in flight has transmitted (now - start_time)*capacity
// bits so far.
func (l *Link) RemainingSize(flow *Flow, now float64) float64 {
	if flow.StartTime >= now {
		return flow.FlowSize
	}
	return flow.FlowSize - (now-flow.StartTime)*l.CapacityBps
}
