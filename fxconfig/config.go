// Package fxconfig holds the process-wide tunables of the fx pricing core:
// values that belong as a configured process-wide default rather than
// magic numbers scattered through the code.
package fxconfig

// Config holds the default base currency and other pricing tunables.
// DefaultBase is read at FXRates construction; PositionDiscountThreshold
// and SolverPivotEpsilon are read on every Forwards.ConvertPositions and
// dual.Solve call respectively.
type Config struct {
	// DefaultBase is used as FXRates.base when no base is supplied and the
	// currency is present in the pair set; otherwise the first currency by
	// appearance order is used.
	DefaultBase string

	// PositionDiscountThreshold is the absolute per-date subtotal below
	// which Forwards.ConvertPositions skips re-discounting to immediate
	// settlement and accumulates the raw dual instead, to preserve
	// gradients on positions that net to (near) zero cash.
	PositionDiscountThreshold float64

	// SolverPivotEpsilon is the minimum |value| a pivot candidate must
	// have in dual.Solve before the matrix is declared singular.
	SolverPivotEpsilon float64
}

// DefaultConfig provides production-ready default values.
var DefaultConfig = Config{
	DefaultBase:               "usd",
	PositionDiscountThreshold: 1e-2,
	SolverPivotEpsilon:        1e-300,
}

// cfg is the active configuration. Defaults to DefaultConfig.
var cfg = DefaultConfig

// SetConfig replaces the active configuration.
func SetConfig(c Config) {
	cfg = c
}

// GetConfig returns the active configuration.
func GetConfig() Config {
	return cfg
}
