package coexist

import "testing"

func TestMutexFIFOQueueing(t *testing.T) {
	sched := NewScheduler()
	m := NewMutex()
	var order []string

	sched.Go("first", func(p *proc) {
		m.Request(sched, p)
		p.timeout(100)
		order = append(order, "first")
		m.Release(sched)
	})
	sched.Go("second", func(p *proc) {
		m.Request(sched, p) // blocks until first releases
		order = append(order, "second")
		m.Release(sched)
	})
	sched.Go("third", func(p *proc) {
		m.Request(sched, p) // blocks until second releases
		order = append(order, "third")
		m.Release(sched)
	})

	sched.Run(1000)

	if len(order) != 3 || order[0] != "first" || order[1] != "second" || order[2] != "third" {
		t.Fatalf("order = %v, want [first second third]", order)
	}
}

func TestMutexInterruptWhileQueued(t *testing.T) {
	sched := NewScheduler()
	m := NewMutex()
	var waiterProc *proc
	var waiterResult *Interrupt

	sched.Go("holder", func(p *proc) {
		m.Request(sched, p)
		p.timeout(1000)
		m.Release(sched)
	})
	sched.Go("waiter", func(p *proc) {
		waiterProc = p
		waiterResult = m.Request(sched, p)
	})
	sched.Go("interrupter", func(p *proc) {
		p.timeout(10)
		sched.Interrupt(waiterProc)
	})

	sched.Run(100)

	if waiterResult == nil {
		t.Fatalf("waiterResult = nil, want non-nil *Interrupt for a cancelled queue wait")
	}
}

func TestPriorityResourcePreemptsLowerPriorityHolder(t *testing.T) {
	sched := NewScheduler()
	r := NewPriorityResource()
	var holderInterrupted bool

	sched.Go("longframe", func(p *proc) {
		if !r.Request(sched, p, 10) {
			t.Errorf("longframe: expected immediate acquisition of a free resource")
		}
		if iv := p.timeout(1000); iv != nil {
			holderInterrupted = true
		}
	})
	sched.Go("shortframe", func(p *proc) {
		p.timeout(5)
		if !r.Request(sched, p, 20) {
			t.Errorf("shortframe: expected to preempt the lower-priority holder")
		}
	})

	sched.Run(2000)

	if !holderInterrupted {
		t.Fatalf("longframe was not interrupted by the higher-priority request")
	}
}

func TestPriorityResourceRejectsLowerPriorityRequest(t *testing.T) {
	sched := NewScheduler()
	r := NewPriorityResource()

	sched.Go("holder", func(p *proc) {
		r.Request(sched, p, 20)
		p.timeout(1000)
	})
	sched.Go("challenger", func(p *proc) {
		p.timeout(5)
		if r.Request(sched, p, 10) {
			t.Errorf("challenger: expected rejection against a higher-priority holder")
		}
	})

	sched.Run(2000)
}
