package coexist

//
// NR-U gNB state machine
//
// Release 16 Category-4 LBT: a prioritisation period (PP) followed by a
// random number of observation slots, run in one of two sub-modes that
// reconcile the resulting backoff with the fixed-duration sync slots a
// real gNB transmits on:
//
//   - "rs": win contention whenever the backoff drains, then pad the gap
//     to the next sync-slot boundary with a reservation signal.
//   - "gap": delay entry into the final backoff wait so that data
//     transmission begins exactly on a sync-slot boundary, re-checking
//     the channel immediately before that wait.
//
// A gNB also runs a second, independent task that free-runs the sync-slot
// boundary clock; nothing about it depends on the contention state
// machine, so it is never a target of Scheduler.Interrupt.
//

import "math/rand"

// nruRetransmissionCap is the fixed retry ceiling for a gNB transmission:
// unlike a Wi-Fi frame, it is never dropped on exceeding this count, only
// the consecutive-failure counter resets.
const nruRetransmissionCap = 7

// NRUStation is one NR-U gNB contender.
type NRUStation struct {
	name   string
	medium *WirelessMedium
	sched  *Scheduler
	cfg    NRUConfig
	mode   NRUMode
	rng    *rand.Rand

	retriesInRow   int
	nextBoundaryUS int64
}

// NewNRUStation registers a gNB with medium and starts both of its
// cooperative tasks (contention loop and sync-slot counter) under sched.
// wifiNodeCount is recorded alongside this gNB's backoff draws, the same
// population figure every Wi-Fi station in the run also reports against.
func NewNRUStation(sched *Scheduler, medium *WirelessMedium, name string, cfg NRUConfig, mode NRUMode, rng *rand.Rand, wifiNodeCount int) *NRUStation {
	st := &NRUStation{name: name, medium: medium, sched: sched, cfg: cfg, mode: mode, rng: rng}
	medium.registerNRUNode(name)
	sched.Go(name, func(p *proc) {
		st.run(p, wifiNodeCount)
	})
	sched.Go(name+"-sync", func(p *proc) {
		st.syncSlotCounter(p)
	})
	return st
}

// syncSlotCounter free-runs the sync-slot boundary clock: a random
// per-gNB desync offset, then one tick every SyncSlotDurationUS forever.
// It is never enrolled in a deferring set or the priority queue, so no
// station ever interrupts it and it keeps advancing regardless of
// contention outcomes elsewhere.
func (st *NRUStation) syncSlotCounter(p *proc) {
	desync := uniformInt64(st.rng, st.cfg.MinSyncDesyncUS, st.cfg.MaxSyncDesyncUS)
	st.nextBoundaryUS = desync
	p.timeout(desync)
	for {
		st.nextBoundaryUS += st.cfg.SyncSlotDurationUS
		p.timeout(st.cfg.SyncSlotDurationUS)
	}
}

func (st *NRUStation) run(p *proc, wifiNodeCount int) {
	for {
		if st.mode == NRUModeGap {
			st.deferGap(p, wifiNodeCount)
		} else {
			st.deferRS(p, wifiNodeCount)
		}
		st.attemptTransmission(p)
	}
}

// deferRS is the "rs" sub-mode's defer loop: structurally identical to
// the Wi-Fi defer loop, with PP standing in for DIFS and
// ObservationSlotUS standing in for SlotUS.
func (st *NRUStation) deferRS(p *proc, wifiNodeCount int) {
	slots := drawBackoffSlots(st.rng, st.retriesInRow, st.cfg.MinCW, st.cfg.MaxCW)
	st.medium.recordBackoff(slots, wifiNodeCount)
	backoffUS := int64(slots) * st.cfg.ObservationSlotUS
	pp := st.cfg.PrioritizationPeriodTotalUS()

	for backoffUS > -1 {
		if iv := st.medium.accessLock.Request(st.sched, p); iv == nil {
			st.medium.accessLock.Release(st.sched)
		}

		backoffUS += pp
		st.medium.deferringNRU.add(st.name, p)
		deferStart := st.sched.Now()

		iv := p.timeout(backoffUS)
		if iv == nil {
			backoffUS = -1
			st.medium.deferringNRU.remove(st.name)
			continue
		}

		waited := st.sched.Now() - deferStart
		if waited <= pp {
			backoffUS -= pp
		} else {
			slotsWaited := (waited - pp) / st.cfg.ObservationSlotUS
			backoffUS -= slotsWaited*st.cfg.ObservationSlotUS + pp
		}
	}
}

// deferGap is the "gap" sub-mode's defer loop: the backoff budget carries
// its PP addition across the whole loop (added once up front, restored
// after every interruption) because the loop body does more work than
// the rs/Wi-Fi shape — it first waits out the gap to the next sync-slot
// boundary minus the current drain, re-checks the channel immediately
// before the real backoff wait, and only then enrolls in deferringNRU.
func (st *NRUStation) deferGap(p *proc, wifiNodeCount int) {
	slots := drawBackoffSlots(st.rng, st.retriesInRow, st.cfg.MinCW, st.cfg.MaxCW)
	st.medium.recordBackoff(slots, wifiNodeCount)
	pp := st.cfg.PrioritizationPeriodTotalUS()
	backoffUS := int64(slots)*st.cfg.ObservationSlotUS + pp

	for backoffUS > -1 {
		if iv := st.medium.accessLock.Request(st.sched, p); iv == nil {
			st.medium.accessLock.Release(st.sched)
		}

		timeToBoundary := st.nextBoundaryUS - st.sched.Now()
		for backoffUS >= timeToBoundary {
			timeToBoundary += st.cfg.SyncSlotDurationUS
		}
		p.timeout(timeToBoundary - backoffUS)

		if st.medium.activeCount() > 0 {
			// The channel went busy while waiting out the gap: rejoin
			// the access_lock queue and recompute the gap from scratch
			// once it is our turn again. backoffUS is left untouched.
			if iv := st.medium.accessLock.Request(st.sched, p); iv == nil {
				st.medium.accessLock.Release(st.sched)
			}
			continue
		}

		st.medium.deferringNRU.add(st.name, p)
		deferStart := st.sched.Now()

		iv := p.timeout(backoffUS)
		if iv == nil {
			backoffUS = -1
			st.medium.deferringNRU.remove(st.name)
			continue
		}

		waited := st.sched.Now() - deferStart
		if waited <= pp {
			backoffUS -= pp
		} else {
			slotsWaited := (waited - pp) / st.cfg.ObservationSlotUS
			backoffUS -= slotsWaited*st.cfg.ObservationSlotUS + pp
		}
		backoffUS += pp
	}
}

// attemptTransmission contends for the channel and resolves the outcome.
// There is no ACK or ack-timeout wait in either branch: a collision
// sends the gNB straight back to its defer loop.
func (st *NRUStation) attemptTransmission(p *proc) {
	m := st.medium
	m.activeNRU.add(st.name, p)
	tx := newNRUTransmission(st.cfg, st.mode, st.sched.Now(), st.nextBoundaryUS)

	priority := maxTransmissionPriority - int(tx.totalTimeUS)
	if !m.priorityQueue.Request(st.sched, p, priority) {
		// Preempted before transmitting: the channel is on air under us
		// regardless, so the collision outcome still plays out over the
		// full transmission duration.
		p.timeout(tx.totalTimeUS)
		st.checkCollision(tx)
		return
	}

	m.accessLock.Request(st.sched, p)
	m.interruptDeferring()

	p.timeout(tx.totalTimeUS)
	m.deferringNRU.clear() // completed waiters remove themselves; interrupted ones stay enrolled until here

	sent := st.checkCollision(tx)
	if sent {
		m.controlAirtimeNRU[st.name] += tx.rsTimeUS
		m.dataAirtimeNRU[st.name] += tx.dataTimeUS
	}
	m.clearActive()
	m.priorityQueue.Release(p)
	m.accessLock.Release(st.sched)
}

// checkCollision resolves a transmission attempt. Exceeding the
// retransmission cap only resets retriesInRow: the transmission is never
// dropped the way an over-retried Wi-Fi frame is.
func (st *NRUStation) checkCollision(tx *nruTransmission) bool {
	m := st.medium
	if m.activeCount() != 1 {
		tx.retransmissions++
		m.failed[TechNRU]++
		st.retriesInRow++
		if tx.retransmissions > nruRetransmissionCap {
			st.retriesInRow = 0
		}
		return false
	}
	m.succeeded[TechNRU]++
	st.retriesInRow = 0
	return true
}
