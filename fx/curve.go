package fx

import (
	"time"

	"github.com/meenmo/fxcore/dual"
)

// CurveKind distinguishes a discount-factor curve from a rate ("line")
// curve. Forwards only accepts DF curves; a companion library
// draws the same distinction between its Curve and LineCurve classes.
type CurveKind int

const (
	KindDF CurveKind = iota
	KindLine
)

// Curve is the discount-factor curve interface this package consumes.
// Interpolation/bootstrap/calibration are out of scope; the
// fx package only ever calls these methods. See package dfcurve for
// a reference implementation.
type Curve interface {
	// At returns the discount factor on date, as a dual so a curve's own
	// sensitivities (e.g. to zero-rate inputs) flow through Forwards
	// exactly.
	At(date time.Time) (dual.Number, error)
	// NodeDates returns the curve's node dates in ascending order; the
	// first is its initial ("immediate") date, the last its terminal
	// date.
	NodeDates() []time.Time
	Kind() CurveKind
	Convention() string
	Modifier() string
	Calendar() string
	ToJSON() ([]byte, error)
	SetADOrder(order int) error
}

// ErrUnsupported is returned by operations this package explicitly leaves
// unimplemented rather than guessed at, e.g. ProxyCurve.ToJSON.
var ErrUnsupported = unsupportedError{}

type unsupportedError struct{}

func (unsupportedError) Error() string { return "operation not supported" }
