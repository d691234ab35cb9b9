package coexist

import "errors"

// ErrInvalidNRUMode is returned by [Simulate] when nru_mode is neither
// [NRUModeReservationSignal] nor [NRUModeGap]. This is a configuration
// error, caught before the scheduler starts: it never surfaces once a
// run is underway.
var ErrInvalidNRUMode = errors.New("coexist: nru_mode must be \"rs\" or \"gap\"")
