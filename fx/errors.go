package fx

import "fmt"

// ErrorKind classifies a fatal error raised by the fx pricing core. Unlike
// plain fmt.Errorf strings, this package has one
// caller-visible recoverable mode (on_error) layered on top of several
// uniformly fatal ones, so callers need a typed way to tell them apart.
type ErrorKind int

const (
	// ErrSpecification covers over/underspecified FX pair sets and
	// over/underspecified fx_curves transformation matrices.
	ErrSpecification ErrorKind = iota
	// ErrLinearDependence covers rank-deficient rate or transform systems.
	ErrLinearDependence
	// ErrUnknownCurrency covers a currency code not present in the
	// relevant currency set; on_error-governed call sites return it only
	// under OnErrorRaise.
	ErrUnknownCurrency
	// ErrTemporal covers a settlement date before the immediate date.
	ErrTemporal
	// ErrHeterogeneousImmediate covers curves with differing initial
	// node dates.
	ErrHeterogeneousImmediate
	// ErrWrongCurveKind covers a non-discount-factor curve supplied where
	// a DF curve is required.
	ErrWrongCurveKind
	// ErrPairMismatch covers Update being given a pair outside the
	// instance's existing pair set.
	ErrPairMismatch
	// ErrSolverFailure names numerical singularity in dual.Solve. No
	// function in this package returns it: NewRates reports a singular
	// rate system as ErrLinearDependence.
	ErrSolverFailure
)

func (k ErrorKind) String() string {
	switch k {
	case ErrSpecification:
		return "specification"
	case ErrLinearDependence:
		return "linear_dependence"
	case ErrUnknownCurrency:
		return "unknown_currency"
	case ErrTemporal:
		return "temporal"
	case ErrHeterogeneousImmediate:
		return "heterogeneous_immediate"
	case ErrWrongCurveKind:
		return "wrong_curve_kind"
	case ErrPairMismatch:
		return "pair_mismatch"
	case ErrSolverFailure:
		return "solver_failure"
	default:
		return "unknown"
	}
}

// Error is the error type returned by every fatal failure mode in this
// package. Op identifies the failing call, e.g. "fx.NewRates",
// matching a fmt.Errorf("<Func>: <reason>") convention.
type Error struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(op string, kind ErrorKind, format string, args ...any) *Error {
	return &Error{Op: op, Kind: kind, Err: fmt.Errorf(format, args...)}
}

// OnError selects the behavior of Convert/ConvertPositions-style lookups
// when a currency is not known to the framework.
type OnError string

const (
	OnErrorIgnore OnError = "ignore"
	OnErrorWarn   OnError = "warn"
	OnErrorRaise  OnError = "raise"
)
