package coexist

//
// Shared access resources
//
// Mutex models access_lock: a single-holder lock with an interruptible,
// strictly FIFO wait queue. PriorityResource models priority_queue: a
// single-capacity resource that resolves a same-instant contest between
// two stations by shortest-intended-air-time, preempting a lower
// priority holder outright rather than making the winner wait.
//

// Mutex is a single-holder, FIFO, interruptible lock.
type Mutex struct {
	holder *proc
	queue  []*proc
}

// NewMutex returns a free Mutex.
func NewMutex() *Mutex { return &Mutex{} }

// Request acquires the lock, parking the caller if it is already held.
// Returns a non-nil *Interrupt if the wait was interrupted. An interrupt
// that arrives while the caller is still queued means the lock was NOT
// acquired; one that arrives after Release has granted the lock but
// before the caller resumes leaves the caller holding it.
func (m *Mutex) Request(s *Scheduler, p *proc) *Interrupt {
	if m.holder == nil {
		m.holder = p
		return nil
	}
	m.queue = append(m.queue, p)
	remove := func() {
		for i, q := range m.queue {
			if q == p {
				m.queue = append(m.queue[:i], m.queue[i+1:]...)
				return
			}
		}
	}
	return p.park(remove)
}

// Release frees the lock, granting it to the next FIFO waiter if any.
func (m *Mutex) Release(s *Scheduler) {
	if len(m.queue) == 0 {
		m.holder = nil
		return
	}
	next := m.queue[0]
	m.queue = m.queue[1:]
	m.holder = next
	s.grant(next)
}

// PriorityResource is the single-capacity, preemptive priority_queue.
// Unlike Mutex, a request never waits: it either succeeds immediately
// (resource free, or caller outranks the current holder, who is then
// interrupted) or fails immediately, leaving the caller to treat the
// loss as a preemption of its own attempt (see wifistation.go, nrustation.go).
type PriorityResource struct {
	holder   *proc
	priority int
}

// NewPriorityResource returns a free PriorityResource.
func NewPriorityResource() *PriorityResource { return &PriorityResource{} }

// Request attempts to acquire the resource at the given priority
// (higher wins). Returns true iff acquired.
func (r *PriorityResource) Request(s *Scheduler, p *proc, priority int) bool {
	if r.holder == nil {
		r.holder, r.priority = p, priority
		return true
	}
	if priority > r.priority {
		s.Interrupt(r.holder)
		r.holder, r.priority = p, priority
		return true
	}
	return false
}

// Release frees the resource if p is its current holder.
func (r *PriorityResource) Release(p *proc) {
	if r.holder == p {
		r.holder = nil
	}
}
