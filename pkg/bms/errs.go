package bms

import "errors"

var (
	// ErrBadCapacity means New was given a nonpositive or non-finite nominal capacity.
	ErrBadCapacity = errors.New("bms: nominal capacity must be positive and finite")

	// ErrBadSOC means New was given an initial SOC outside [0,100].
	ErrBadSOC = errors.New("bms: initial soc must be within [0,100]")

	// ErrBadDt means Update was given dt <= 0 (or non-finite).
	ErrBadDt = errors.New("bms: dt must be > 0")

	// ErrNotFinite means Update was given a NaN or infinite measurement.
	ErrNotFinite = errors.New("bms: measurements must be finite")

	// ErrBadConfig means a Config field is outside its valid range.
	ErrBadConfig = errors.New("bms: invalid config")
)
