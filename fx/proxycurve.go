package fx

import (
	"time"

	"github.com/meenmo/fxcore/dual"
)

// ProxyCurve is a lazily evaluated discount curve synthesized from a
// Forwards, used wherever a cash/collateral pair has no curve of its own
// in fx_curves but one can be derived by chaining through the
// transformation graph. Its path is discovered once, at
// construction, by Forwards.Curve; evaluation at each date is then a
// single Forwards.Rate lookup plus a discount factor lookup on the
// collateral currency's own curve.
type ProxyCurve struct {
	parent  *Forwards
	cash    string
	coll    string
	cashIdx int
	collIdx int
	path    []Hop
}

func newProxyCurve(parent *Forwards, cash, coll string, cashIdx, collIdx int, path []Hop) *ProxyCurve {
	return &ProxyCurve{parent: parent, cash: cash, coll: coll, cashIdx: cashIdx, collIdx: collIdx, path: path}
}

// At returns the discount factor that converts a unit of cash currency
// paid on date into collateral currency terms: the forward FX rate from
// cash to collateral on date, divided by the immediate-date rate (to
// strip the spot level out), times the collateral currency's own local
// discount factor on date.
func (p *ProxyCurve) At(date time.Time) (dual.Number, error) {
	pair := p.cash + p.coll
	fwd, _, err := p.parent.RateWithPath(pair, &date, p.path)
	if err != nil {
		return dual.Number{}, err
	}
	imm, err := p.parent.fxRatesImmediate.Rate(pair)
	if err != nil {
		return dual.Number{}, err
	}
	collDF, err := p.parent.fxCurves[p.coll+p.coll].At(date)
	if err != nil {
		return dual.Number{}, err
	}
	return fwd.Div(imm).Mul(collDF), nil
}

// NodeDates spans the parent Forwards' immediate-to-terminal range: a
// ProxyCurve has no nodes of its own, only the range over which its
// parent can answer Rate queries.
func (p *ProxyCurve) NodeDates() []time.Time {
	return []time.Time{p.parent.immediate, p.parent.terminal}
}

func (p *ProxyCurve) Kind() CurveKind { return KindDF }

// Convention, Modifier, and Calendar pass through the collateral
// currency's own local curve, when present, since a ProxyCurve has no
// day count or calendar conventions of its own.
func (p *ProxyCurve) Convention() string { return p.localCurve().Convention() }
func (p *ProxyCurve) Modifier() string   { return p.localCurve().Modifier() }
func (p *ProxyCurve) Calendar() string   { return p.localCurve().Calendar() }

func (p *ProxyCurve) localCurve() Curve {
	if c, ok := p.parent.fxCurves[p.coll+p.coll]; ok {
		return c
	}
	return emptyCurve{}
}

// ToJSON is unsupported: a ProxyCurve is a derived view, not a
// standalone object with its own serializable state.
func (p *ProxyCurve) ToJSON() ([]byte, error) { return nil, ErrUnsupported }

// SetADOrder is a no-op: a ProxyCurve holds no dual state of its own,
// only a path through its parent, which manages AD order for the
// underlying curves and rates it walks.
func (p *ProxyCurve) SetADOrder(order int) error { return nil }

type emptyCurve struct{}

func (emptyCurve) At(time.Time) (dual.Number, error) { return dual.Number{}, ErrUnsupported }
func (emptyCurve) NodeDates() []time.Time             { return nil }
func (emptyCurve) Kind() CurveKind                    { return KindDF }
func (emptyCurve) Convention() string                 { return "" }
func (emptyCurve) Modifier() string                   { return "" }
func (emptyCurve) Calendar() string                   { return "" }
func (emptyCurve) ToJSON() ([]byte, error)            { return nil, ErrUnsupported }
func (emptyCurve) SetADOrder(int) error               { return nil }
