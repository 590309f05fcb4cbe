package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLink_Enqueue_FIFOPreservation(t *testing.T) {
	// GIVEN a single link, capacity 1000 bps, three constant-size-1000 flows
	// arriving at t=0, 0.2, 0.4 (spec.md §8 scenario 3)
	link := NewLink("L0", 1000)
	f1 := &Flow{ID: 0, ArrivalTime: 0, FlowSize: 1000}
	f2 := &Flow{ID: 1, ArrivalTime: 0.2, FlowSize: 1000}
	f3 := &Flow{ID: 2, ArrivalTime: 0.4, FlowSize: 1000}

	// WHEN each arrives and is enqueued at its own arrival time
	link.Enqueue(f1, 0)
	link.Enqueue(f2, 0.2)
	link.Enqueue(f3, 0.4)

	// THEN start/end times are exactly (0,1), (1,2), (2,3)
	assert.Equal(t, 0.0, f1.StartTime)
	assert.Equal(t, 1.0, f1.EndTime)
	assert.Equal(t, 1.0, f2.StartTime)
	assert.Equal(t, 2.0, f2.EndTime)
	assert.Equal(t, 2.0, f3.StartTime)
	assert.Equal(t, 3.0, f3.EndTime)
	assert.Equal(t, 3.0, link.BusyUntil())
}

func TestLink_Enqueue_StartsImmediatelyWhenIdle(t *testing.T) {
	// GIVEN an idle link
	link := NewLink("L0", 100)
	f := &Flow{ID: 0, ArrivalTime: 5, FlowSize: 100}

	// WHEN a flow arrives after the link has been idle
	end := link.Enqueue(f, 5)

	// THEN it starts immediately, not at the link's stale busy_until
	assert.Equal(t, 5.0, f.StartTime)
	assert.Equal(t, 6.0, end)
}

func TestLink_Dequeue_NilWhenHeadNotYetComplete(t *testing.T) {
	// GIVEN a link with one in-flight flow
	link := NewLink("L0", 100)
	f := &Flow{ID: 0, ArrivalTime: 0, FlowSize: 100}
	link.Enqueue(f, 0)

	// WHEN dequeue is called before completion
	// THEN it returns nil, not an error (§7)
	assert.Nil(t, link.Dequeue(0.5))

	// WHEN dequeue is called at or after completion
	// THEN the flow is returned and removed
	got := link.Dequeue(1.0)
	assert.Same(t, f, got)
	assert.Equal(t, 0, link.QueueLen())
}

func TestLink_Dequeue_NilWhenEmpty(t *testing.T) {
	// GIVEN an empty link
	link := NewLink("L0", 100)

	// THEN dequeue returns nil, not an error
	assert.Nil(t, link.Dequeue(10))
}

func TestLink_RemainingSize(t *testing.T) {
	// GIVEN a flow in transit: starts at t=0, size 100, capacity 50 bps
	link := NewLink("L0", 50)
	f := &Flow{ID: 0, ArrivalTime: 0, FlowSize: 100}
	link.Enqueue(f, 0)

	// WHEN queried before start
	assert.Equal(t, 100.0, link.RemainingSize(f, 0))

	// WHEN queried partway through (1 second in, at 50 bps -> 50 bits sent)
	assert.Equal(t, 50.0, link.RemainingSize(f, 1))
}

func TestLink_BusyUntil_NonDecreasing(t *testing.T) {
	// GIVEN a link fed with successive flows
	link := NewLink("L0", 10)
	prev := 0.0
	for i, arrival := range []float64{0, 0.1, 5, 5.1} {
		f := &Flow{ID: int64(i), ArrivalTime: arrival, FlowSize: 10}
		link.Enqueue(f, arrival)
		// THEN busy_until never decreases
		assert.GreaterOrEqual(t, link.BusyUntil(), prev)
		prev = link.BusyUntil()
	}
}
