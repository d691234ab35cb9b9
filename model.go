package coexist

//
// Data model
//
// Virtual time is always an integer count of microseconds; there is no
// wall-clock coupling anywhere in this package (see [Scheduler]).
//

import "fmt"

// Technology distinguishes the two contention state machines that share
// the medium.
type Technology int

const (
	TechWiFi Technology = iota
	TechNRU
)

func (t Technology) String() string {
	switch t {
	case TechWiFi:
		return "wifi"
	case TechNRU:
		return "nru"
	default:
		return fmt.Sprintf("Technology(%d)", int(t))
	}
}

// NRUMode selects which of the two 3GPP Release 16 LBT sub-modes a gNB
// runs: "rs" pads the gap to the next sync-slot boundary with a
// reservation signal transmitted immediately after winning contention;
// "gap" instead delays the backoff so that data begins exactly on a
// sync-slot boundary.
type NRUMode string

const (
	NRUModeReservationSignal NRUMode = "rs"
	NRUModeGap               NRUMode = "gap"
)

// Fixed timing constants shared by every Wi-Fi DCF station, expressed in
// microseconds of virtual time.
const (
	SlotUS       int64 = 9
	SIFSUS       int64 = 16
	DIFSUS       int64 = 3*SlotUS + SIFSUS // 43
	AckTimeoutUS int64 = 45

	// wifiAirTimeUS is the baseline frame duration used by every Wi-Fi
	// DCF station in this simulator. A variant that derives air time
	// from RadioTimings.PPDUTimeUS instead is a legitimate future
	// extension, but it must be opt-in: every occupancy baseline this
	// engine's consumers rely on is calibrated to this literal.
	wifiAirTimeUS int64 = 5400
)

// mcsDataRateBitsPerUS maps an MCS index to its 802.11a OFDM data rate,
// in bits per microsecond.
var mcsDataRateBitsPerUS = map[int]int64{
	0: 6, 1: 9, 2: 12, 3: 18, 4: 24, 5: 36, 6: 48, 7: 54,
}

// RadioTimings computes PPDU and ACK frame durations for a given payload
// size and MCS index, per IEEE 802.11a OFDM symbol timing.
type RadioTimings struct {
	PayloadBytes int
	MCS          int
}

// NewRadioTimings validates mcs against the supported {0..7} range and
// returns a RadioTimings value.
func NewRadioTimings(payloadBytes, mcs int) (RadioTimings, error) {
	if _, ok := mcsDataRateBitsPerUS[mcs]; !ok {
		return RadioTimings{}, fmt.Errorf("coexist: mcs %d out of range {0..7}", mcs)
	}
	return RadioTimings{PayloadBytes: payloadBytes, MCS: mcs}, nil
}

// PPDUTimeUS returns the PLCP+MAC frame duration: 16us preamble + 4us
// SIGNAL field + the MAC frame (22 bits overhead, 40-byte MAC header,
// payload), rounded up to a whole OFDM symbol before dividing by the
// data rate. Forgetting the symbol padding understates this value and
// measurably shifts collision probability, so the ceil happens on the
// bit budget, not on the final microsecond count.
func (r RadioTimings) PPDUTimeUS() int64 {
	rate := mcsDataRateBitsPerUS[r.MCS]
	bits := int64(22 + 8*(40+r.PayloadBytes))
	symbolBits := 4 * rate
	symbols := (bits + symbolBits - 1) / symbolBits
	return 16 + 4 + symbols*4
}

// AckTimeUS returns the fixed SIFS+ACK duration.
func (r RadioTimings) AckTimeUS() int64 { return 44 }

// WiFiConfig parameterises a Wi-Fi DCF station.
type WiFiConfig struct {
	DataSizeBytes int
	MinCW         int
	MaxCW         int
	RetryLimit    int
	MCS           int
}

// NRUConfig parameterises an NR-U gNB.
type NRUConfig struct {
	PrioritizationPeriodUS int64
	ObservationSlotUS      int64
	SyncSlotDurationUS     int64
	MinSyncDesyncUS        int64
	MaxSyncDesyncUS        int64
	M                      int
	MinCW                  int
	MaxCW                  int
	MCOTMs                 int64
}

// DefaultNRUConfig returns the fixed Release 16 Category-4 LBT timing
// constants, leaving the contention-window and desync range fields at
// their zero value for the caller to fill in.
func DefaultNRUConfig() NRUConfig {
	return NRUConfig{
		PrioritizationPeriodUS: 16,
		ObservationSlotUS:      9,
		SyncSlotDurationUS:     1000,
		M:                      3,
		MCOTMs:                 6,
	}
}

// PrioritizationPeriodTotalUS is PP = prioritization_period_us +
// M*observation_slot_us, the fixed additive deferral every gNB backoff
// carries on top of its random draw.
func (c NRUConfig) PrioritizationPeriodTotalUS() int64 {
	return c.PrioritizationPeriodUS + int64(c.M)*c.ObservationSlotUS
}

// maxTransmissionPriority is the baseline priority_queue uses: each
// contender's actual priority is this constant minus its intended
// air-time, so the contender with the shortest frame wins same-instant
// ties in the WirelessMedium's priority_queue.
const maxTransmissionPriority = 1 << 30

// wifiFrame is a Wi-Fi transmission attempt; it lives from the moment a
// station generates a new frame to send until that frame either
// succeeds or is dropped after exceeding the retry limit.
type wifiFrame struct {
	airTimeUS       int64
	retransmissions int
	startTimeUS     int64
	endTimeUS       int64
}

func newWiFiFrame(now int64) *wifiFrame {
	return &wifiFrame{airTimeUS: wifiAirTimeUS, startTimeUS: now}
}

// nruTransmission is one gNB transmission attempt; a fresh one is
// created immediately before every attempt, win or lose.
type nruTransmission struct {
	totalTimeUS     int64
	rsTimeUS        int64
	dataTimeUS      int64
	retransmissions int
}

func newNRUTransmission(cfg NRUConfig, mode NRUMode, now, nextBoundaryUS int64) *nruTransmission {
	total := cfg.MCOTMs * 1000
	var rs int64
	if mode != NRUModeGap {
		rs = nextBoundaryUS - now
	}
	return &nruTransmission{
		totalTimeUS: total,
		rsTimeUS:    rs,
		dataTimeUS:  total - rs,
	}
}
