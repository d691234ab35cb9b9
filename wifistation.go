package coexist

//
// Wi-Fi DCF station state machine
//
// IDLE -> BACKOFF -> ON_AIR -> (POST_ACK | POST_COLLISION) -> IDLE, run
// as a saturated-backlog loop: there is always a frame queued to send.
//

import "math/rand"

// WiFiStation is one 802.11 DCF contender.
type WiFiStation struct {
	name   string
	medium *WirelessMedium
	sched  *Scheduler
	cfg    WiFiConfig
	times  RadioTimings
	rng    *rand.Rand

	retriesInRow int
}

// NewWiFiStation registers a Wi-Fi station with medium and starts its
// cooperative task under sched. wifiNodeCount is the population size
// recorded alongside every backoff draw for later reporting.
func NewWiFiStation(sched *Scheduler, medium *WirelessMedium, name string, cfg WiFiConfig, rng *rand.Rand, wifiNodeCount int) *WiFiStation {
	times, err := NewRadioTimings(cfg.DataSizeBytes, cfg.MCS)
	if err != nil {
		// cfg.MCS is validated by Simulate before any station is
		// constructed; reaching here means a caller bypassed that.
		panic(err)
	}
	st := &WiFiStation{
		name:   name,
		medium: medium,
		sched:  sched,
		cfg:    cfg,
		times:  times,
		rng:    rng,
	}
	medium.registerWiFiNode(name)
	sched.Go(name, func(p *proc) {
		st.run(p, wifiNodeCount)
	})
	return st
}

func (st *WiFiStation) run(p *proc, wifiNodeCount int) {
	frame := newWiFiFrame(st.sched.Now())
	for {
		st.deferAndBackoff(p, wifiNodeCount)
		sent := st.attemptTransmission(p, frame)
		if sent || frame.retransmissions > st.cfg.RetryLimit {
			frame = newWiFiFrame(st.sched.Now())
		}
	}
}

// deferAndBackoff draws a backoff, then drains it (prefixed by DIFS)
// while remaining interruptible by any station that wins the channel in
// the meantime.
func (st *WiFiStation) deferAndBackoff(p *proc, wifiNodeCount int) {
	slots := drawBackoffSlots(st.rng, st.retriesInRow, st.cfg.MinCW, st.cfg.MaxCW)
	st.medium.recordBackoff(slots, wifiNodeCount)
	backoffUS := int64(slots) * SlotUS

	for backoffUS > -1 {
		// Rendezvous with any in-progress transmission. After an
		// interrupted backoff the station is still enrolled in
		// deferringWiFi, so this wait can itself be interrupted; the
		// lock is only released if it was actually granted.
		if iv := st.medium.accessLock.Request(st.sched, p); iv == nil {
			st.medium.accessLock.Release(st.sched)
		}

		backoffUS += DIFSUS
		st.medium.deferringWiFi.add(st.name, p)
		deferStart := st.sched.Now()

		iv := p.timeout(backoffUS)
		if iv == nil {
			backoffUS = -1
			st.medium.deferringWiFi.remove(st.name)
			continue
		}

		waited := st.sched.Now() - deferStart
		if waited <= DIFSUS {
			backoffUS -= DIFSUS
		} else {
			slotsWaited := (waited - DIFSUS) / SlotUS
			backoffUS -= slotsWaited*SlotUS + DIFSUS
		}
	}
}

// attemptTransmission contends for the channel, transmits, and resolves
// the outcome. Returns true iff the frame was acknowledged.
func (st *WiFiStation) attemptTransmission(p *proc, frame *wifiFrame) bool {
	m := st.medium
	m.activeWiFi.add(st.name, p)

	priority := maxTransmissionPriority - int(frame.airTimeUS)
	if !m.priorityQueue.Request(st.sched, p, priority) {
		// Preempted: a shorter-frame contender grabbed the slot first.
		// The radio is on air regardless, so the collision outcome
		// still has to play out over the full frame duration.
		p.timeout(frame.airTimeUS)
		return st.checkCollision(frame)
	}

	m.accessLock.Request(st.sched, p)
	m.interruptDeferring()

	p.timeout(frame.airTimeUS)
	m.deferringWiFi.clear() // completed waiters remove themselves; interrupted ones stay enrolled until here

	sent := st.checkCollision(frame)
	if sent {
		m.controlAirtimeWiFi[st.name] += st.times.AckTimeUS()
		p.timeout(st.times.AckTimeUS())
		m.clearActive()
		m.priorityQueue.Release(p)
	} else {
		m.clearActive()
		m.priorityQueue.Release(p)
		p.timeout(AckTimeoutUS)
	}
	m.accessLock.Release(st.sched)
	return sent
}

// checkCollision resolves the attempt: exactly one active transmitter at
// the air-time boundary means success.
func (st *WiFiStation) checkCollision(frame *wifiFrame) bool {
	m := st.medium
	if m.activeCount() != 1 {
		frame.retransmissions++
		m.failed[TechWiFi]++
		st.retriesInRow++
		if frame.retransmissions > st.cfg.RetryLimit {
			st.retriesInRow = 0
		}
		return false
	}
	frame.endTimeUS = st.sched.Now()
	m.succeeded[TechWiFi]++
	st.retriesInRow = 0
	m.bytesSent += int64(st.cfg.DataSizeBytes)
	m.dataAirtimeWiFi[st.name] += frame.airTimeUS
	return true
}
