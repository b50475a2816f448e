package fx

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/meenmo/fxcore/dual"
	"github.com/meenmo/fxcore/fxconfig"
)

// Forwards prices arbitrage-free forward FX rates by chaining discount
// factor curves along the path a currency's cash takes to its collateral
// currency (the forward FX pricing engine).
//
// fxRatesRaw keeps the shape Update was last called with (a single *Rates
// or an ordered []*Rates) so a later Update with nil fxRatesIn can rebuild
// from it; isList records that shape for Copy and ToJSON, and every other
// method works off fxRatesList, which is always populated.
type Forwards struct {
	fxCurves    map[string]Curve
	fxRatesRaw  any
	fxRatesList []*Rates
	isList      bool

	immediate time.Time
	terminal  time.Time

	ci              *currencyIndex
	transform       [][]int
	base            string
	pairs           []string
	fxRatesImmediate *Rates
	adOrder         int
}

// NewForwards builds a Forwards from either a single *Rates or an ordered
// []*Rates plus a set of discount curves keyed "<cash><collateral>".
func NewForwards(fxRatesIn any, fxCurves map[string]Curve, base string) (*Forwards, error) {
	f := &Forwards{adOrder: 1}
	if err := f.Update(fxRatesIn, fxCurves, base); err != nil {
		return nil, err
	}
	return f, nil
}

// Update installs new curves and/or spot rate inputs in place, preserving
// object identity. Either argument may be nil to leave
// the corresponding state as-is. Update takes no lock: it is not safe to
// call concurrently with any other method on the same instance.
func (f *Forwards) Update(fxRatesIn any, fxCurves map[string]Curve, base string) error {
	const op = "Forwards.Update"

	if fxCurves != nil {
		lowered := lowerCurveKeys(fxCurves)
		var immediate *time.Time
		terminal := time.Date(2200, 1, 1, 0, 0, 0, 0, time.UTC)
		for key, curve := range lowered {
			if curve.Kind() == KindLine {
				return newError(op, ErrWrongCurveKind, "fx_curves must be discount-factor based, %q is a line curve", key)
			}
			nodes := curve.NodeDates()
			if len(nodes) == 0 {
				return newError(op, ErrSpecification, "curve %q has no node dates", key)
			}
			if immediate == nil {
				t := nodes[0]
				immediate = &t
			} else if !immediate.Equal(nodes[0]) {
				return newError(op, ErrHeterogeneousImmediate, "fx_curves do not share an initial date")
			}
			last := nodes[len(nodes)-1]
			if last.Before(terminal) {
				terminal = last
			}
		}
		f.fxCurves = lowered
		if immediate != nil {
			f.immediate = *immediate
			f.terminal = terminal
		}
	}

	if fxRatesIn != nil {
		f.fxRatesRaw = fxRatesIn
	}

	switch fr := f.fxRatesRaw.(type) {
	case []*Rates:
		f.isList = true
		if len(fr) == 0 {
			return newError(op, ErrSpecification, "fx_rates list must contain at least one entry")
		}
		acyclic, err := f.foldSettlements(fr)
		if err != nil {
			return err
		}
		f.ci = acyclic.ci
		f.transform = acyclic.transform
		f.pairs = acyclic.pairs
		f.fxRatesImmediate = acyclic.fxRatesImmediate
		f.fxRatesList = fr
		if base != "" {
			f.base = canonicalCurrency(base)
		} else {
			f.base = acyclic.base
		}
	case *Rates:
		f.isList = false
		if err := f.installSingle(fr, base); err != nil {
			return err
		}
	case nil:
		return newError(op, ErrSpecification, "fx_rates has not been supplied")
	default:
		return newError(op, ErrSpecification, "fx_rates must be *fx.Rates or []*fx.Rates, got %T", fr)
	}
	return nil
}

// installSingle wires a plain (non-folded) *Rates onto the receiver: its
// currency order becomes the framework's currency order, the curve set is
// validated into a transformation matrix, and the immediate-settlement
// rate system is derived.
func (f *Forwards) installSingle(fr *Rates, base string) error {
	const op = "Forwards.Update"
	transform, err := buildTransform(op, fr.ci, f.fxCurves)
	if err != nil {
		return err
	}
	immediate, err := f.computeFxRatesImmediate(fr, transform)
	if err != nil {
		return err
	}
	f.ci = fr.ci
	f.transform = transform
	f.pairs = append([]string(nil), fr.pairs...)
	f.fxRatesList = []*Rates{fr}
	f.fxRatesImmediate = immediate
	if base != "" {
		f.base = canonicalCurrency(base)
	} else {
		f.base = fr.base
	}
	return nil
}

// foldSettlements reduces an ordered list of FXRates, each potentially
// quoted for a different settlement date, into a single internally
// consistent Forwards by folding left to right: every item after the
// first has its currency set topped up with cross rates implied by the
// accumulator built so far, so the combined system stays fully
// specified at every step.
func (f *Forwards) foldSettlements(list []*Rates) (*Forwards, error) {
	var acyclic *Forwards
	for _, fxr := range list {
		if acyclic == nil {
			subCurves := curvesForCurrencies(f.fxCurves, fxr.Currencies())
			sub := &Forwards{fxCurves: subCurves, immediate: f.immediate, terminal: f.terminal, adOrder: f.adOrder}
			if err := sub.installSingle(fxr, ""); err != nil {
				return nil, err
			}
			acyclic = sub
			continue
		}

		have := make(map[string]bool, len(fxr.Currencies()))
		for _, c := range fxr.Currencies() {
			have[c] = true
		}
		var preCurrencies []string
		for _, c := range acyclic.ci.order {
			if !have[c] {
				preCurrencies = append(preCurrencies, c)
			}
		}

		entries := make([]RateInput, 0, len(fxr.pairs)+len(preCurrencies))
		for _, p := range fxr.pairs {
			entries = append(entries, RateInput{Pair: p, Rate: fxr.fxRates[p]})
		}
		for _, ccy := range preCurrencies {
			pair := fxr.base + ccy
			rate, _, err := acyclic.RateWithPath(pair, fxr.settlement, nil)
			if err != nil {
				return nil, err
			}
			entries = append(entries, RateInput{Pair: pair, Rate: rate})
		}
		combined, err := NewRates(entries, withSettlementPtr(fxr.settlement))
		if err != nil {
			return nil, err
		}

		allCurrencies := append(append([]string(nil), fxr.Currencies()...), preCurrencies...)
		subCurves := curvesForCurrencies(f.fxCurves, allCurrencies)
		sub := &Forwards{fxCurves: subCurves, immediate: f.immediate, terminal: f.terminal, adOrder: f.adOrder}
		if err := sub.installSingle(combined, ""); err != nil {
			return nil, err
		}
		acyclic = sub
	}
	return acyclic, nil
}

// lowerCurveKeys canonicalizes an fx_curves map's keys without mutating
// the caller's map.
func lowerCurveKeys(curves map[string]Curve) map[string]Curve {
	out := make(map[string]Curve, len(curves))
	for k, v := range curves {
		out[canonicalPair(k)] = v
	}
	return out
}

// curvesForCurrencies restricts an fx_curves map to keys whose both legs
// are in currencies, i.e. the cartesian product of currencies with
// itself.
func curvesForCurrencies(curves map[string]Curve, currencies []string) map[string]Curve {
	out := map[string]Curve{}
	for _, a := range currencies {
		for _, b := range currencies {
			key := a + b
			if c, ok := curves[key]; ok {
				out[key] = c
			}
		}
	}
	return out
}

// computeFxRatesImmediate derives the spot-date (f.immediate) rate system
// implied by fr (quoted as of fr's own settlement) and the discount
// curves, per the immediate spot correction formula:
// for every off-diagonal transform entry T[cash,coll]=1, the immediate
// cross rate is fr's rate scaled by v_coll(settlement)/w_cash,coll(settlement),
// where v is the collateral currency's own DF curve and w is the
// cash/collateral cross-DF curve. The result is then restated onto fr's
// own pair basis so Forwards.Rate's fast paths can compare fr's pairs
// directly against it.
func (f *Forwards) computeFxRatesImmediate(fr *Rates, transform [][]int) (*Rates, error) {
	const op = "Forwards.Update"
	if fr.settlement == nil {
		return nil, newError(op, ErrSpecification, "fx_rates must carry a settlement date when fx_curves are supplied")
	}
	settle := *fr.settlement
	q := fr.ci.len()
	entries := make([]RateInput, 0, 2*q-1)
	for row := 0; row < q; row++ {
		for col := 0; col < q; col++ {
			if row == col || transform[row][col] == 0 {
				continue
			}
			cash := fr.ci.order[row]
			coll := fr.ci.order[col]
			v, err := f.fxCurves[coll+coll].At(settle)
			if err != nil {
				return nil, newError(op, ErrSpecification, "curve %q: %w", coll+coll, err)
			}
			w, err := f.fxCurves[cash+coll].At(settle)
			if err != nil {
				return nil, newError(op, ErrSpecification, "curve %q: %w", cash+coll, err)
			}
			rate := fr.cellAt(row, col).Mul(v).Div(w)
			entries = append(entries, RateInput{Pair: cash + coll, Rate: rate})
		}
	}
	immediate, err := NewRates(entries, WithSettlement(f.immediate))
	if err != nil {
		return nil, err
	}
	return immediate.Restate(fr.pairs, true)
}

func (f *Forwards) Immediate() time.Time    { return f.immediate }
func (f *Forwards) Terminal() time.Time     { return f.terminal }
func (f *Forwards) Base() string            { return f.base }
func (f *Forwards) Currencies() []string    { return append([]string(nil), f.ci.order...) }
func (f *Forwards) Pairs() []string         { return append([]string(nil), f.pairs...) }
func (f *Forwards) ADOrder() int            { return f.adOrder }
func (f *Forwards) FXRatesImmediate() *Rates { return f.fxRatesImmediate }

// Rate returns the forward rate for pair settling on settlement (the
// framework's immediate date if nil).
func (f *Forwards) Rate(pair string, settlement *time.Time) (dual.Number, error) {
	rate, _, err := f.RateWithPath(pair, settlement, nil)
	return rate, err
}

// RateWithPath is Rate plus the curve-chain path used, which a caller may
// pass back in on a subsequent call (e.g. Swap's two legs) to skip the
// recursiveChain search.
func (f *Forwards) RateWithPath(pair string, settlement *time.Time, path []Hop) (dual.Number, []Hop, error) {
	const op = "Forwards.Rate"
	pair = canonicalPair(pair)
	dom, for_, ok := splitPair(pair)
	if !ok {
		return dual.Number{}, nil, newError(op, ErrSpecification, "pair %q must be 6 characters", pair)
	}
	domIdx, ok1 := f.ci.idx(dom)
	forIdx, ok2 := f.ci.idx(for_)
	if !ok1 || !ok2 {
		return dual.Number{}, nil, newError(op, ErrUnknownCurrency, "pair %q references an unknown currency", pair)
	}

	settle := f.immediate
	if settlement != nil {
		settle = *settlement
		if settle.Before(f.immediate) {
			return dual.Number{}, nil, newError(op, ErrTemporal, "settlement %s is before the immediate date %s", settle, f.immediate)
		}
	}

	resolvePath := func() ([]Hop, bool) {
		if path != nil {
			return path, true
		}
		return recursiveChain(f.transform, forIdx, domIdx)
	}

	if settle.Equal(f.immediate) {
		rate, err := f.fxRatesImmediate.Rate(pair)
		p, _ := resolvePath()
		return rate, p, err
	}
	if len(f.fxRatesList) == 1 {
		only := f.fxRatesList[0]
		if only.settlement != nil && settle.Equal(*only.settlement) {
			rate, err := only.Rate(pair)
			p, _ := resolvePath()
			return rate, p, err
		}
	}

	p, found := resolvePath()
	if !found {
		return dual.Number{}, nil, newError(op, ErrSpecification, "no curve chain from %q to %q", for_, dom)
	}

	acc := dual.NewConstant(1)
	current := forIdx
	for _, hop := range p {
		if hop.Axis == AxisCol {
			coll := f.ci.order[current]
			cash := f.ci.order[hop.Index]
			w, err := f.fxCurves[cash+coll].At(settle)
			if err != nil {
				return dual.Number{}, nil, newError(op, ErrSpecification, "curve %q: %w", cash+coll, err)
			}
			v, err := f.fxCurves[coll+coll].At(settle)
			if err != nil {
				return dual.Number{}, nil, newError(op, ErrSpecification, "curve %q: %w", coll+coll, err)
			}
			acc = acc.Mul(f.fxRatesImmediate.cellAt(hop.Index, current)).Mul(w).Div(v)
		} else {
			coll := f.ci.order[hop.Index]
			cash := f.ci.order[current]
			w, err := f.fxCurves[cash+coll].At(settle)
			if err != nil {
				return dual.Number{}, nil, newError(op, ErrSpecification, "curve %q: %w", cash+coll, err)
			}
			v, err := f.fxCurves[coll+coll].At(settle)
			if err != nil {
				return dual.Number{}, nil, newError(op, ErrSpecification, "curve %q: %w", coll+coll, err)
			}
			acc = acc.Mul(f.fxRatesImmediate.cellAt(hop.Index, current)).Mul(v).Div(w)
		}
		current = hop.Index
	}
	return acc, p, nil
}

// Swap returns the forward swap points (in pips, x10000) between two
// settlement dates on the same pair, reusing one curve-chain search for
// both legs.
func (f *Forwards) Swap(pair string, near, far time.Time) (dual.Number, error) {
	_, path, err := f.RateWithPath(pair, &near, nil)
	if err != nil {
		return dual.Number{}, err
	}
	rNear, _, err := f.RateWithPath(pair, &near, path)
	if err != nil {
		return dual.Number{}, err
	}
	rFar, _, err := f.RateWithPath(pair, &far, path)
	if err != nil {
		return dual.Number{}, err
	}
	return rFar.Sub(rNear).MulFloat(10000), nil
}

// Curve returns the discount curve that converts cashflow currency into
// collateral currency terms. If fx_curves holds it directly it is
// returned as-is; otherwise a ProxyCurve is synthesized by chaining the
// curves along the path cashflow takes to collateral.
func (f *Forwards) Curve(cashflow, collateral string) (Curve, error) {
	const op = "Forwards.Curve"
	cashflow = canonicalCurrency(cashflow)
	collateral = canonicalCurrency(collateral)
	if c, ok := f.fxCurves[cashflow+collateral]; ok {
		return c, nil
	}
	cashIdx, ok1 := f.ci.idx(cashflow)
	collIdx, ok2 := f.ci.idx(collateral)
	if !ok1 || !ok2 {
		return nil, newError(op, ErrUnknownCurrency, "%s/%s references an unknown currency", cashflow, collateral)
	}
	path, found := recursiveChain(f.transform, collIdx, cashIdx)
	if !found {
		return nil, newError(op, ErrSpecification, "no curve chain from %q to %q", collateral, cashflow)
	}
	return newProxyCurve(f, cashflow, collateral, cashIdx, collIdx, path), nil
}

// Convert converts value, held in domestic currency as of valueDate, into
// foreign currency (defaulting to Base()) collateralized in collateral
// (defaulting to domestic), as of settlement (defaulting to Immediate()).
func (f *Forwards) Convert(value dual.Number, domestic, foreign string, settlement, valueDate *time.Time, collateral string, onError OnError) (*dual.Number, error) {
	const op = "Forwards.Convert"
	domestic = canonicalCurrency(domestic)
	if foreign == "" {
		foreign = f.base
	} else {
		foreign = canonicalCurrency(foreign)
	}
	if collateral == "" {
		collateral = domestic
	} else {
		collateral = canonicalCurrency(collateral)
	}
	for _, ccy := range [2]string{domestic, foreign} {
		if _, ok := f.ci.idx(ccy); !ok {
			switch onError {
			case OnErrorRaise:
				return nil, newError(op, ErrUnknownCurrency, "%q not in Forwards.Currencies()", ccy)
			case OnErrorWarn:
				log.Printf("warning: %q not in Forwards.Currencies(): returning nil", ccy)
				return nil, nil
			default:
				return nil, nil
			}
		}
	}

	settle := f.immediate
	if settlement != nil {
		settle = *settlement
	}
	valueAt := settle
	if valueDate != nil {
		valueAt = *valueDate
	}

	rate, err := f.Rate(domestic+foreign, &settle)
	if err != nil {
		return nil, err
	}
	if valueAt.Equal(settle) {
		out := rate.Mul(value)
		return &out, nil
	}
	crv, err := f.Curve(foreign, collateral)
	if err != nil {
		return nil, err
	}
	atSettle, err := crv.At(settle)
	if err != nil {
		return nil, newError(op, ErrSpecification, "%w", err)
	}
	atValue, err := crv.At(valueAt)
	if err != nil {
		return nil, newError(op, ErrSpecification, "%w", err)
	}
	out := rate.Mul(value).Mul(atSettle).Div(atValue)
	return &out, nil
}

// PositionsTable maps a settlement date to per-currency cash positions due
// on that date.
type PositionsTable map[time.Time]map[string]dual.Number

// ConvertPositions collapses a date/currency table of cash positions into
// a single base-currency value as of Immediate(), discounting any
// settlement date whose base-currency subtotal, valued on that date, is at
// least the configured materiality threshold in absolute value
// (fxconfig.Config.PositionDiscountThreshold).
func (f *Forwards) ConvertPositions(table PositionsTable, base string) (dual.Number, error) {
	if base == "" {
		base = f.base
	} else {
		base = canonicalCurrency(base)
	}
	threshold := fxconfig.GetConfig().PositionDiscountThreshold
	sum := dual.NewConstant(0)
	for settle, byCcy := range table {
		dateSum := dual.NewConstant(0)
		for ccy, amt := range byCcy {
			converted, err := f.Convert(amt, ccy, base, &settle, &settle, "", OnErrorRaise)
			if err != nil {
				return dual.Number{}, err
			}
			dateSum = dateSum.Add(*converted)
		}
		if math.Abs(dateSum.Value()) < threshold || settle.Equal(f.immediate) {
			sum = sum.Add(dateSum)
			continue
		}
		discounted, err := f.Convert(dateSum, base, base, &settle, &f.immediate, base, OnErrorRaise)
		if err != nil {
			return dual.Number{}, err
		}
		sum = sum.Add(*discounted)
	}
	return sum, nil
}

// Positions decomposes a base-currency value into the per-settlement,
// per-currency cash position table that revalues to it under
// ConvertPositions, by walking value's fx_<pair> gradients back through
// each underlying Rates' own decomposition.
func (f *Forwards) Positions(value dual.Number, base string) (PositionsTable, error) {
	if base == "" {
		base = f.base
	} else {
		base = canonicalCurrency(base)
	}
	table := PositionsTable{f.immediate: {base: dual.NewConstant(value.Value())}}

	for _, id := range value.Vars() {
		name := dual.Name(id)
		if len(name) < 3 || name[:3] != "fx_" {
			continue
		}
		pair := name[3:]
		dom, for_, ok := splitPair(pair)
		if !ok {
			continue
		}
		delta := value.Grad(id)
		if delta == 0 {
			continue
		}
		for _, fr := range f.fxRatesList {
			if !fr.HasCurrency(dom) || !fr.HasCurrency(for_) {
				continue
			}
			contrib := fr.deltaToPositions(delta, dom, for_, base)
			settle := f.immediate
			if fr.settlement != nil {
				settle = *fr.settlement
			}
			bucket := table[settle]
			if bucket == nil {
				bucket = map[string]dual.Number{}
				table[settle] = bucket
			}
			for i, amt := range contrib {
				if amt.Value() == 0 {
					continue
				}
				ccy := fr.ci.order[i]
				bucket[ccy] = bucket[ccy].Add(amt)
			}
			break
		}
	}
	return table, nil
}

// PositionsAggregate is Positions with the per-settlement buckets summed
// into a single per-currency total, discarding timing.
func (f *Forwards) PositionsAggregate(value dual.Number, base string) (map[string]dual.Number, error) {
	table, err := f.Positions(value, base)
	if err != nil {
		return nil, err
	}
	out := map[string]dual.Number{}
	for _, bucket := range table {
		for ccy, amt := range bucket {
			out[ccy] = out[ccy].Add(amt)
		}
	}
	return out, nil
}

// SetADOrder cascades a new AD order to every underlying Rates and curve.
func (f *Forwards) SetADOrder(order int) error {
	seen := map[Curve]bool{}
	for _, c := range f.fxCurves {
		if !seen[c] {
			if err := c.SetADOrder(order); err != nil {
				return err
			}
			seen[c] = true
		}
	}
	for _, fr := range f.fxRatesList {
		if err := fr.SetADOrder(order); err != nil {
			return err
		}
	}
	if f.fxRatesImmediate != nil {
		if err := f.fxRatesImmediate.SetADOrder(order); err != nil {
			return err
		}
	}
	f.adOrder = order
	return nil
}

// Equal reports whether two Forwards instances describe the same
// currency order, base, date range, and immediate-date rate system.
// Curves are deliberately excluded: the Curve interface carries no
// general equality contract, so two Forwards built from equivalent but
// distinct curve objects are still considered equal here.
func (f *Forwards) Equal(other *Forwards) bool {
	if other == nil {
		return false
	}
	if !stringSlicesEqual(f.ci.order, other.ci.order) {
		return false
	}
	if f.base != other.base {
		return false
	}
	if !f.immediate.Equal(other.immediate) || !f.terminal.Equal(other.terminal) {
		return false
	}
	return f.fxRatesImmediate.Equal(other.fxRatesImmediate)
}

// Copy returns a new, independent Forwards. The Curve objects in fx_curves
// are shared by reference (Curve has no Copy contract), but every Rates
// input is deep copied.
func (f *Forwards) Copy() *Forwards {
	var rawCopy any
	if f.isList {
		list := make([]*Rates, len(f.fxRatesList))
		for i, fr := range f.fxRatesList {
			list[i] = fr.Copy()
		}
		rawCopy = list
	} else {
		rawCopy = f.fxRatesList[0].Copy()
	}
	out, err := NewForwards(rawCopy, f.fxCurves, f.base)
	if err != nil {
		// Rebuilding from already-validated state cannot fail.
		panic(fmt.Sprintf("fx: Forwards.Copy: %v", err))
	}
	return out
}

type forwardsJSON struct {
	Base     string                     `json:"base"`
	FxRates  json.RawMessage            `json:"fx_rates"`
	FxCurves map[string]json.RawMessage `json:"fx_curves"`
}

// ToJSON persists {base, fx_rates, fx_curves}. Each curve
// is serialized via its own ToJSON; fx_curves key order is not part of
// the contract (currency ordering is carried by fx_rates), so a plain
// map marshal (which encoding/json sorts alphabetically) is sufficient
// here, unlike Rates.ToJSON.
func (f *Forwards) ToJSON() ([]byte, error) {
	curvesJSON := make(map[string]json.RawMessage, len(f.fxCurves))
	for key, c := range f.fxCurves {
		raw, err := c.ToJSON()
		if err != nil {
			return nil, err
		}
		curvesJSON[key] = raw
	}

	var fxRatesRaw json.RawMessage
	if f.isList {
		parts := make([]json.RawMessage, len(f.fxRatesList))
		for i, fr := range f.fxRatesList {
			raw, err := fr.ToJSON()
			if err != nil {
				return nil, err
			}
			parts[i] = raw
		}
		arr, err := json.Marshal(parts)
		if err != nil {
			return nil, err
		}
		fxRatesRaw = arr
	} else {
		raw, err := f.fxRatesList[0].ToJSON()
		if err != nil {
			return nil, err
		}
		fxRatesRaw = raw
	}

	return json.Marshal(forwardsJSON{Base: f.base, FxRates: fxRatesRaw, FxCurves: curvesJSON})
}

// ForwardsFromJSON reconstructs a Forwards from the format written by
// ToJSON. Concrete curve deserialization is a caller concern (the Curve
// interface intentionally carries no FromJSON, since interpolation
// schemes are an implementation-defined collaborator, not part of this
// package's contract); curves must already be reconstructed, e.g. via
// dfcurve.FromJSON per key, and are taken as given here.
func ForwardsFromJSON(data []byte, curves map[string]Curve) (*Forwards, error) {
	const op = "fx.ForwardsFromJSON"
	var raw forwardsJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, newError(op, ErrSpecification, "invalid json: %w", err)
	}

	trimmed := bytes.TrimSpace(raw.FxRates)
	var fxRatesIn any
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(raw.FxRates, &items); err != nil {
			return nil, newError(op, ErrSpecification, "invalid fx_rates list: %w", err)
		}
		list := make([]*Rates, len(items))
		for i, item := range items {
			fr, err := RatesFromJSON(item)
			if err != nil {
				return nil, err
			}
			list[i] = fr
		}
		fxRatesIn = list
	} else {
		fr, err := RatesFromJSON(raw.FxRates)
		if err != nil {
			return nil, err
		}
		fxRatesIn = fr
	}

	return NewForwards(fxRatesIn, curves, raw.Base)
}
