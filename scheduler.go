package coexist

//
// Virtual-time cooperative scheduler
//
// The simulator has no wall-clock coupling: every station is a goroutine
// that only ever makes progress when the scheduler hands it the turn, so
// that the whole run stays single-threaded in effect and therefore fully
// deterministic given a seed. A station parks by calling one of the
// [*proc] suspension methods (timeout, or a wait on a [Mutex])
// and does not resume until the scheduler's event loop decides to wake
// it, in event-time order with FIFO tie-breaking on insertion order.
//
// [Scheduler.Interrupt] is the other half of the handshake: it lets one
// station cancel another station's pending wait from inside its own
// turn. The interrupted station resumes with a non-nil *Interrupt and is
// expected to recompute whatever budget it was waiting on.
//

import (
	"container/heap"
)

// Interrupt is delivered to a parked task when another task cancels its
// pending wait. A nil *Interrupt means the wait completed normally.
type Interrupt struct{}

// event is a single entry in the scheduler's time-ordered heap.
type event struct {
	time        int64
	seq         uint64
	proc        *proc
	interrupted bool
	index       int // maintained by container/heap
}

type eventHeap []*event

func (h eventHeap) Len() int { return len(h) }
func (h eventHeap) Less(i, j int) bool {
	if h[i].time != h[j].time {
		return h[i].time < h[j].time
	}
	return h[i].seq < h[j].seq
}
func (h eventHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index, h[j].index = i, j
}
func (h *eventHeap) Push(x any) {
	ev := x.(*event)
	ev.index = len(*h)
	*h = append(*h, ev)
}
func (h *eventHeap) Pop() any {
	old := *h
	n := len(old)
	ev := old[n-1]
	old[n-1] = nil
	ev.index = -1
	*h = old[:n-1]
	return ev
}

// waitRemover removes a parked proc from wherever it is waiting (a
// resource queue) when that wait is cancelled by an interrupt rather
// than completed normally.
type waitRemover func()

// proc is one cooperative task: a goroutine gated by a strict two-channel
// handshake with the scheduler so that only one proc ever runs at a time.
type proc struct {
	name   string
	sched  *Scheduler
	resume chan *Interrupt
	yield  chan struct{}

	pending *event      // live heap entry, if parked via timeout
	remover waitRemover // live resource-queue entry, if parked on a resource
}

// newProc registers a new cooperative task and starts running fn in its
// own goroutine. fn need not return (every station loops forever); the
// scheduler does not force procs to terminate at the simulation horizon,
// it simply stops driving them (see Run).
func (s *Scheduler) newProc(name string, fn func(p *proc)) {
	p := &proc{
		name:   name,
		sched:  s,
		resume: make(chan *Interrupt),
		yield:  make(chan struct{}),
	}
	s.procs = append(s.procs, p)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() { p.yield <- struct{}{} }()
		fn(p)
	}()
	// Give the proc its first turn immediately: it runs until its first
	// suspension point, then hands control back via yield.
	<-p.yield
}

// timeout suspends the calling proc until d microseconds of virtual time
// have elapsed, unless interrupted first.
func (p *proc) timeout(d int64) *Interrupt {
	ev := &event{time: p.sched.now + d, seq: p.sched.nextSeq(), proc: p}
	p.pending = ev
	heap.Push(&p.sched.heap, ev)
	p.yield <- struct{}{}
	return <-p.resume
}

// park suspends the calling proc indefinitely; it only resumes when some
// other proc grants it (normal wake) or interrupts it. remove is called
// if the wait is cancelled by an interrupt before it is granted.
func (p *proc) park(remove waitRemover) *Interrupt {
	p.remover = remove
	p.yield <- struct{}{}
	iv := <-p.resume
	p.remover = nil
	return iv
}

// Scheduler drives a single virtual-time simulation run to completion.
type Scheduler struct {
	now   int64
	seq   uint64
	heap  eventHeap
	procs []*proc
	wg    waitGroupStub
}

// waitGroupStub avoids pulling in sync.WaitGroup just to join goroutines
// that the scheduler never actually waits on (see Run's doc comment).
type waitGroupStub struct{}

func (waitGroupStub) Add(int) {}
func (waitGroupStub) Done()   {}

// NewScheduler creates a scheduler whose virtual clock starts at zero.
func NewScheduler() *Scheduler {
	s := &Scheduler{}
	heap.Init(&s.heap)
	return s
}

// Now returns the current virtual time in microseconds.
func (s *Scheduler) Now() int64 { return s.now }

func (s *Scheduler) nextSeq() uint64 {
	s.seq++
	return s.seq
}

// Go starts a new cooperative task under this scheduler.
func (s *Scheduler) Go(name string, fn func(p *proc)) {
	s.newProc(name, fn)
}

// Run drives the event loop until virtual time would exceed horizonUS.
// Tasks still parked at that point (e.g. a gNB mid-backoff) are simply
// never resumed again: per the simulator's timeout model there are no
// wall-clock deadlines, a run either reaches the horizon or it doesn't
// start at all, so abandoning in-flight operations at the boundary is
// the documented behaviour rather than a leak to clean up.
func (s *Scheduler) Run(horizonUS int64) {
	for s.heap.Len() > 0 {
		next := s.heap[0]
		if next.time > horizonUS {
			break
		}
		ev := heap.Pop(&s.heap).(*event)
		s.now = ev.time
		p := ev.proc
		p.pending = nil
		var iv *Interrupt
		if ev.interrupted {
			iv = &Interrupt{}
		}
		p.resume <- iv
		<-p.yield
	}
	s.now = horizonUS
}

// Interrupt cancels proc p's current wait, if it has one live, and
// schedules it to resume at the current virtual instant with a non-nil
// *Interrupt. Interrupting a proc with no live wait (already resumed,
// or never parked) is a silent no-op, matching the cooperative-cancel
// semantics of the reference scheduler.
func (s *Scheduler) Interrupt(p *proc) {
	switch {
	case p.pending != nil:
		heap.Remove(&s.heap, p.pending.index)
		p.pending = nil
	case p.remover != nil:
		p.remover()
		p.remover = nil
	default:
		return
	}
	ev := &event{time: s.now, seq: s.nextSeq(), proc: p, interrupted: true}
	heap.Push(&s.heap, ev)
}

// grant wakes proc p normally (not as an interrupt) at the current
// virtual instant. Used by resources to hand a waiter its turn.
func (s *Scheduler) grant(p *proc) {
	ev := &event{time: s.now, seq: s.nextSeq(), proc: p}
	p.pending = ev
	heap.Push(&s.heap, ev)
}
