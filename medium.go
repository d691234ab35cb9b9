package coexist

//
// Shared wireless medium
//
// WirelessMedium is the only rendezvous point between stations: they
// never reference each other directly, only the medium's active-
// transmitter sets, deferring-station sets, resources, and counters.
// Because the scheduler is single-threaded by construction, none of
// this needs a mutex: correctness depends only on the mutation order
// the state machines already enforce (join before transmit, clear after
// the collision check, and so on).
//

// nodeSet is an insertion-ordered set of station names. Interrupts are
// delivered by iterating these sets, and the iteration order must be
// reproducible given the seed, so a plain ordered slice is used instead
// of a hashed map.
type nodeSet struct {
	order []string
	procs map[string]*proc
}

func newNodeSet() *nodeSet {
	return &nodeSet{procs: make(map[string]*proc)}
}

func (s *nodeSet) add(name string, p *proc) {
	if _, ok := s.procs[name]; ok {
		return
	}
	s.order = append(s.order, name)
	s.procs[name] = p
}

func (s *nodeSet) remove(name string) {
	if _, ok := s.procs[name]; !ok {
		return
	}
	delete(s.procs, name)
	for i, n := range s.order {
		if n == name {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *nodeSet) clear() {
	s.order = s.order[:0]
	s.procs = make(map[string]*proc)
}

func (s *nodeSet) len() int { return len(s.order) }

// interruptAll interrupts every proc currently enrolled, in insertion
// order, via the scheduler.
func (s *nodeSet) interruptAll(sched *Scheduler) {
	for _, name := range s.order {
		sched.Interrupt(s.procs[name])
	}
}

// WirelessMedium is the shared channel state for the lifetime of one
// simulation run.
type WirelessMedium struct {
	sched *Scheduler

	activeWiFi *nodeSet
	activeNRU  *nodeSet

	deferringWiFi *nodeSet
	deferringNRU  *nodeSet

	priorityQueue *PriorityResource
	accessLock    *Mutex

	// Per-node cumulative counters, kept separate per technology under
	// the "_WiFi"/"_NR" naming scheme (see DESIGN.md for why this schema
	// was chosen over a pair of technology-agnostic maps).
	dataAirtimeWiFi    map[string]int64
	controlAirtimeWiFi map[string]int64
	dataAirtimeNRU     map[string]int64
	controlAirtimeNRU  map[string]int64

	succeeded map[Technology]int64
	failed    map[Technology]int64

	bytesSent int64

	backoffCounts map[int]map[int]int64
}

// NewWirelessMedium creates an empty medium driven by sched.
func NewWirelessMedium(sched *Scheduler) *WirelessMedium {
	return &WirelessMedium{
		sched:              sched,
		activeWiFi:         newNodeSet(),
		activeNRU:          newNodeSet(),
		deferringWiFi:      newNodeSet(),
		deferringNRU:       newNodeSet(),
		priorityQueue:      NewPriorityResource(),
		accessLock:         NewMutex(),
		dataAirtimeWiFi:    make(map[string]int64),
		controlAirtimeWiFi: make(map[string]int64),
		dataAirtimeNRU:     make(map[string]int64),
		controlAirtimeNRU:  make(map[string]int64),
		succeeded:          map[Technology]int64{TechWiFi: 0, TechNRU: 0},
		failed:             map[Technology]int64{TechWiFi: 0, TechNRU: 0},
		backoffCounts:      make(map[int]map[int]int64),
	}
}

// registerWiFiNode zero-initialises a Wi-Fi station's airtime counters,
// matching the reference's eager dict population at construction time.
func (m *WirelessMedium) registerWiFiNode(name string) {
	m.dataAirtimeWiFi[name] = 0
	m.controlAirtimeWiFi[name] = 0
}

// registerNRUNode zero-initialises a gNB's airtime counters.
func (m *WirelessMedium) registerNRUNode(name string) {
	m.dataAirtimeNRU[name] = 0
	m.controlAirtimeNRU[name] = 0
}

// activeCount returns the number of stations currently on-air across
// both technologies.
func (m *WirelessMedium) activeCount() int {
	return m.activeWiFi.len() + m.activeNRU.len()
}

// clearActive wipes both active-transmitter sets wholesale. The station
// that acquired the priority queue calls it after its collision check,
// win or lose; a preempted contender's check leaves the sets alone. All
// contenders for that slot finish their air-time window together.
func (m *WirelessMedium) clearActive() {
	m.activeWiFi.clear()
	m.activeNRU.clear()
}

// recordBackoff tallies a backoff-slot draw for later reporting, keyed
// by slot count and the Wi-Fi population size at draw time.
func (m *WirelessMedium) recordBackoff(slots, wifiNodeCount int) {
	row, ok := m.backoffCounts[slots]
	if !ok {
		row = make(map[int]int64)
		m.backoffCounts[slots] = row
	}
	row[wifiNodeCount]++
}

// interruptDeferring interrupts every station currently deferring
// (backing off) on either technology, in insertion order, because the
// channel is about to become busy under them.
func (m *WirelessMedium) interruptDeferring() {
	m.deferringWiFi.interruptAll(m.sched)
	m.deferringNRU.interruptAll(m.sched)
}
