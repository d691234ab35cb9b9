// Package coexist is a discrete-event simulator of the shared unlicensed
// spectrum contended by IEEE 802.11 DCF Wi-Fi stations and 3GPP Release 16
// NR-U (5G New Radio Unlicensed) gNBs.
//
// The simulator advances an integer microsecond clock (see [Scheduler])
// through the two technologies' channel-access state machines
// ([WiFiStation], [NRUStation]) contending over a single [WirelessMedium].
// Stations never reference each other: the medium's active-transmitter
// sets, deferring-station sets, and cumulative airtime counters are the
// only rendezvous point, and every mutation happens on the scheduler's
// single logical thread of control, so a run is fully deterministic given
// its seed.
//
// [Simulate] is the package's entry point: given a population of Wi-Fi
// and NR-U nodes, it runs one simulation to completion and returns
// aggregate statistics (see [RunStats]) to the caller, optionally
// appending a CSV row if Config.OutputCSVPath is set. Parameter sweeps,
// CSV visualisation, and contention-window search are intentionally left
// to callers: this package only exposes the per-point simulation (see
// [Simulate] and [RunStats]).
package coexist
