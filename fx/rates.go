package fx

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/meenmo/fxcore/calendar"
	"github.com/meenmo/fxcore/dual"
	"github.com/meenmo/fxcore/fxconfig"
	"gonum.org/v1/gonum/mat"
)

// RateInput is one entry of the ordered pair->rate list a Rates is built
// from. Rate is either a float64 (wrapped as a fresh AD variable
// "fx_<pair>" with gradient 1 on itself) or an already-built dual.Number
// (kept as-is, so a caller can chain an existing sensitivity through a new
// Rates instance, e.g. Restate with keep_ad).
//
// A slice, not a map, is used deliberately: currency indices are assigned
// in first-appearance order across the pair list, and that
// ordering is part of the public contract. Go map iteration order is
// randomized, so a map input could not make that guarantee.
type RateInput struct {
	Pair string
	Rate any
}

// Rates stores and solves a consistent spot FX rate system for a set of
// currencies (component C of the fx pricing core).
type Rates struct {
	pairs      []string
	ci         *currencyIndex
	fxRates    map[string]dual.Number
	fxVector   []dual.Number
	fxArray    [][]dual.Number
	base       string
	settlement *time.Time
	adOrder    int
}

type ratesOptions struct {
	settlement *time.Time
	base       string
	adOrder    int
}

// Option configures a Rates construction.
type Option func(*ratesOptions)

// WithSettlement sets the settlement date for the rate system.
func WithSettlement(t time.Time) Option {
	return func(o *ratesOptions) { o.settlement = &t }
}

func withSettlementPtr(t *time.Time) Option {
	return func(o *ratesOptions) { o.settlement = t }
}

// WithSpotSettlement sets the settlement date to the standard FX spot lag:
// lagDays good business days after trade, under cal. For most currency
// pairs lagDays is 2 ("T+2 spot").
func WithSpotSettlement(trade time.Time, cal calendar.CalendarID, lagDays int) Option {
	t := calendar.AddBusinessDays(cal, trade, lagDays)
	return func(o *ratesOptions) { o.settlement = &t }
}

// WithBase overrides the default base currency selection.
func WithBase(ccy string) Option {
	return func(o *ratesOptions) { o.base = canonicalCurrency(ccy) }
}

// WithADOrder requests an AD order (0, 1, or 2) other than the default, 1.
func WithADOrder(order int) Option {
	return func(o *ratesOptions) { o.adOrder = order }
}

func toDual(pair string, v any, order int) (dual.Number, error) {
	switch val := v.(type) {
	case dual.Number:
		return val, nil
	case float64:
		return dual.NewVariable(val, pairVarName(pair), order), nil
	case int:
		return dual.NewVariable(float64(val), pairVarName(pair), order), nil
	default:
		return dual.Number{}, fmt.Errorf("unsupported rate type %T for pair %q", v, pair)
	}
}

// NewRates builds a Rates from an ordered list of domestic-foreign pairs and
// rates, solving the spot FX system as a sparse linear system.
func NewRates(rates []RateInput, opts ...Option) (*Rates, error) {
	const op = "fx.NewRates"
	options := ratesOptions{adOrder: 1}
	for _, o := range opts {
		o(&options)
	}

	pairs := make([]string, len(rates))
	fxRates := make(map[string]dual.Number, len(rates))
	for i, e := range rates {
		p := canonicalPair(e.Pair)
		if _, _, ok := splitPair(p); !ok {
			return nil, newError(op, ErrSpecification, "pair %q must be exactly 6 characters", e.Pair)
		}
		d, err := toDual(p, e.Rate, options.adOrder)
		if err != nil {
			return nil, newError(op, ErrSpecification, "%w", err)
		}
		pairs[i] = p
		fxRates[p] = d
	}

	ci := buildCurrencyIndex(pairs)
	q := ci.len()
	if len(pairs) == 0 {
		return nil, newError(op, ErrSpecification, "fx_rates is underspecified: at least one pair is required")
	}
	if len(pairs) > q-1 {
		return nil, newError(op, ErrSpecification,
			"fx_rates is overspecified: %d currencies need %d pairs, not %d", q, q-1, len(pairs))
	}
	if len(pairs) < q-1 {
		return nil, newError(op, ErrSpecification,
			"fx_rates is underspecified: %d currencies need %d pairs, not %d", q, q-1, len(pairs))
	}

	base := options.base
	if base == "" {
		if _, ok := ci.idx(fxconfig.GetConfig().DefaultBase); ok {
			base = fxconfig.GetConfig().DefaultBase
		} else {
			base = ci.order[0]
		}
	} else if _, ok := ci.idx(base); !ok {
		return nil, newError(op, ErrUnknownCurrency, "base currency %q not present in pair set", base)
	}

	a := dual.NewMatrix(q)
	b := make([]dual.Number, q)
	a.Set(0, 0, dual.NewConstant(1))
	b[0] = dual.NewConstant(1)
	for i, p := range pairs {
		dom, for_, _ := splitPair(p)
		domIdx, _ := ci.idx(dom)
		forIdx, _ := ci.idx(for_)
		a.Set(i+1, domIdx, dual.NewConstant(-1))
		a.Set(i+1, forIdx, dual.NewConstant(1).Div(fxRates[p]))
		b[i+1] = dual.NewConstant(0)
	}
	x, err := dual.Solve(a, b)
	if err != nil {
		return nil, newError(op, ErrLinearDependence, "pairs are linearly dependent: %w", err)
	}

	r := &Rates{
		pairs:      pairs,
		ci:         ci,
		fxRates:    fxRates,
		fxVector:   x,
		base:       base,
		settlement: options.settlement,
		adOrder:    options.adOrder,
	}
	r.rebuildArray()
	return r, nil
}

func (r *Rates) rebuildArray() {
	q := r.ci.len()
	r.fxArray = make([][]dual.Number, q)
	for i := range r.fxArray {
		r.fxArray[i] = make([]dual.Number, q)
		r.fxArray[i][i] = dual.NewConstant(1)
	}
	for i := 0; i < q; i++ {
		for j := i + 1; j < q; j++ {
			r.fxArray[i][j] = r.fxVector[j].Div(r.fxVector[i])
			r.fxArray[j][i] = r.fxVector[i].Div(r.fxVector[j])
		}
	}
}

func (r *Rates) Pairs() []string      { return append([]string(nil), r.pairs...) }
func (r *Rates) Currencies() []string { return append([]string(nil), r.ci.order...) }
func (r *Rates) Base() string         { return r.base }
func (r *Rates) Settlement() *time.Time {
	if r.settlement == nil {
		return nil
	}
	t := *r.settlement
	return &t
}
func (r *Rates) ADOrder() int { return r.adOrder }
func (r *Rates) Q() int       { return r.ci.len() }

// HasCurrency reports whether ccy is part of this rate system.
func (r *Rates) HasCurrency(ccy string) bool {
	_, ok := r.ci.idx(canonicalCurrency(ccy))
	return ok
}

// Rate returns the cross rate for a domestic-foreign pair, O(1).
func (r *Rates) Rate(pair string) (dual.Number, error) {
	const op = "Rates.Rate"
	pair = canonicalPair(pair)
	dom, for_, ok := splitPair(pair)
	if !ok {
		return dual.Number{}, newError(op, ErrSpecification, "pair %q must be 6 characters", pair)
	}
	i, ok1 := r.ci.idx(dom)
	j, ok2 := r.ci.idx(for_)
	if !ok1 || !ok2 {
		return dual.Number{}, newError(op, ErrUnknownCurrency, "pair %q references an unknown currency", pair)
	}
	return r.fxArray[i][j], nil
}

// cellAt returns the raw fxArray[i][j] dual, addressed by currency index
// rather than pair name. Forwards uses this while walking a curve chain,
// where the indices come from the transformation matrix rather than a
// parsed pair string.
func (r *Rates) cellAt(i, j int) dual.Number { return r.fxArray[i][j] }

// RatesTable returns a dense q x q float view of cross rates, indexed in
// Currencies() order.
func (r *Rates) RatesTable() [][]float64 {
	q := r.ci.len()
	out := make([][]float64, q)
	for i := range out {
		out[i] = make([]float64, q)
		for j := range out[i] {
			out[i][j] = r.fxArray[i][j].Value()
		}
	}
	return out
}

// RatesMatrix materializes RatesTable as a gonum matrix, for callers that
// want to compose the cross-rate grid with other gonum linear algebra.
func (r *Rates) RatesMatrix() *mat.Dense {
	q := r.ci.len()
	flat := make([]float64, 0, q*q)
	for _, row := range r.RatesTable() {
		flat = append(flat, row...)
	}
	return mat.NewDense(q, q, flat)
}

// Convert converts an amount of domestic currency into foreign currency
// (defaulting foreign to Base()). Returns nil with no error under
// OnErrorIgnore/OnErrorWarn when a currency is unknown.
func (r *Rates) Convert(value dual.Number, domestic, foreign string, onError OnError) (*dual.Number, error) {
	const op = "Rates.Convert"
	domestic = canonicalCurrency(domestic)
	if foreign == "" {
		foreign = r.base
	} else {
		foreign = canonicalCurrency(foreign)
	}
	for _, ccy := range [2]string{domestic, foreign} {
		if _, ok := r.ci.idx(ccy); !ok {
			switch onError {
			case OnErrorRaise:
				return nil, newError(op, ErrUnknownCurrency, "%q not in Rates.Currencies()", ccy)
			case OnErrorWarn:
				log.Printf("warning: %q not in Rates.Currencies(): returning nil", ccy)
				return nil, nil
			default:
				return nil, nil
			}
		}
	}
	i, _ := r.ci.idx(domestic)
	j, _ := r.ci.idx(foreign)
	out := value.Mul(r.fxArray[i][j])
	return &out, nil
}

// ConvertPositions converts a vector of per-currency cash positions
// (ordered per Currencies()) into a single base-currency value.
func (r *Rates) ConvertPositions(positions []dual.Number, base string) (dual.Number, error) {
	const op = "Rates.ConvertPositions"
	if base == "" {
		base = r.base
	} else {
		base = canonicalCurrency(base)
	}
	j, ok := r.ci.idx(base)
	if !ok {
		return dual.Number{}, newError(op, ErrUnknownCurrency, "base %q not in Rates.Currencies()", base)
	}
	sum := dual.NewConstant(0)
	for i, pos := range positions {
		sum = sum.Add(pos.Mul(r.fxArray[i][j]))
	}
	return sum, nil
}

// deltaToPositions decomposes a single fx_<dom><for> gradient delta into a
// per-currency cash position vector.
func (r *Rates) deltaToPositions(delta float64, dom, for_, base string) []dual.Number {
	q := r.ci.len()
	out := make([]dual.Number, q)
	for i := range out {
		out[i] = dual.NewConstant(0)
	}
	domIdx, _ := r.ci.idx(dom)
	forIdx, _ := r.ci.idx(for_)
	baseIdx, _ := r.ci.idx(base)
	fVal := delta * r.fxArray[baseIdx][forIdx].Value()
	out[domIdx] = dual.NewConstant(fVal)
	out[forIdx] = dual.NewConstant(-fVal / r.fxArray[forIdx][domIdx].Value())
	return out
}

// Positions decomposes a dual-valued base amount into a per-currency cash
// vector that revalues to exactly that dual, including gradients:
// ConvertPositions(Positions(v, base), base) == v.
func (r *Rates) Positions(value dual.Number, base string) ([]dual.Number, error) {
	const op = "Rates.Positions"
	if base == "" {
		base = r.base
	} else {
		base = canonicalCurrency(base)
	}
	baseIdx, ok := r.ci.idx(base)
	if !ok {
		return nil, newError(op, ErrUnknownCurrency, "base %q not in Rates.Currencies()", base)
	}
	q := r.ci.len()
	out := make([]dual.Number, q)
	for i := range out {
		out[i] = dual.NewConstant(0)
	}
	out[baseIdx] = dual.NewConstant(value.Value())

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
		if _, ok := r.ci.idx(dom); !ok {
			continue
		}
		if _, ok := r.ci.idx(for_); !ok {
			continue
		}
		delta := value.Grad(id)
		if delta == 0 {
			continue
		}
		contrib := r.deltaToPositions(delta, dom, for_, base)
		for i := range out {
			out[i] = out[i].Add(contrib[i])
		}
	}
	return out, nil
}

// Update overwrites some or all of the instance's rates in place,
// preserving object identity. New pairs must already be
// part of the instance's pair set, or Update returns ErrPairMismatch.
// Update takes no lock: it is not safe to call concurrently with any other
// method on the same instance.
func (r *Rates) Update(newRates []RateInput) error {
	const op = "Rates.Update"
	known := make(map[string]bool, len(r.pairs))
	for _, p := range r.pairs {
		known[p] = true
	}
	updates := make(map[string]any, len(newRates))
	for _, e := range newRates {
		p := canonicalPair(e.Pair)
		if !known[p] {
			return newError(op, ErrPairMismatch, "pair %q is not part of the instance's pair set", p)
		}
		updates[p] = e.Rate
	}

	merged := make([]RateInput, len(r.pairs))
	for i, p := range r.pairs {
		if v, ok := updates[p]; ok {
			merged[i] = RateInput{Pair: p, Rate: v}
		} else {
			merged[i] = RateInput{Pair: p, Rate: r.fxRates[p].Value()}
		}
	}

	rebuilt, err := NewRates(merged, withSettlementPtr(r.settlement), WithBase(r.base), WithADOrder(r.adOrder))
	if err != nil {
		return err
	}
	r.fxRates = rebuilt.fxRates
	r.fxVector = rebuilt.fxVector
	r.fxArray = rebuilt.fxArray
	return nil
}

// Restate rebuilds the solver onto a different independent basis of pairs
// spanning the same currency set. If keepAD is true, retained pairs keep
// their dual gradient identities; otherwise values are dropped to reals
// before rewrapping. When keepAD is true and newPairs is the same set as
// the current pairs, Restate returns Copy(), base included; otherwise it
// does not carry the base currency across the rebuild, letting it
// re-default.
func (r *Rates) Restate(newPairs []string, keepAD bool) (*Rates, error) {
	if keepAD && sameSet(newPairs, r.pairs) {
		return r.Copy(), nil
	}
	entries := make([]RateInput, len(newPairs))
	for i, p := range newPairs {
		p = canonicalPair(p)
		rate, err := r.Rate(p)
		if err != nil {
			return nil, err
		}
		if keepAD {
			entries[i] = RateInput{Pair: p, Rate: rate}
		} else {
			entries[i] = RateInput{Pair: p, Rate: rate.Value()}
		}
	}
	return NewRates(entries, withSettlementPtr(r.settlement), WithADOrder(r.adOrder))
}

// SetADOrder cascades a new AD order to every dual held by the instance.
func (r *Rates) SetADOrder(order int) error {
	if order == r.adOrder {
		return nil
	}
	if order < 0 || order > 2 {
		return newError("Rates.SetADOrder", ErrSpecification, "order must be 0, 1, or 2, got %d", order)
	}
	r.adOrder = order
	for i := range r.fxVector {
		r.fxVector[i] = dual.SetOrder(r.fxVector[i], order)
	}
	r.rebuildArray()
	for k, v := range r.fxRates {
		r.fxRates[k] = dual.SetOrder(v, order)
	}
	return nil
}

// Equal reports whether two Rates instances describe the same pair set,
// settlement, currency ordering, base, and (numerically close) rates
// table.
func (r *Rates) Equal(other *Rates) bool {
	if other == nil {
		return false
	}
	if !stringSlicesEqual(r.pairs, other.pairs) {
		return false
	}
	if !timePtrEqual(r.settlement, other.settlement) {
		return false
	}
	if !stringSlicesEqual(r.ci.order, other.ci.order) {
		return false
	}
	if r.base != other.base {
		return false
	}
	a, b := r.RatesTable(), other.RatesTable()
	for i := range a {
		for j := range a[i] {
			if math.Abs(a[i][j]-b[i][j]) > 1e-9 {
				return false
			}
		}
	}
	return true
}

// Copy returns a new, independent Rates instance with the same pairs,
// dual values (gradient identities preserved), settlement, base, and AD
// order.
func (r *Rates) Copy() *Rates {
	entries := make([]RateInput, len(r.pairs))
	for i, p := range r.pairs {
		entries[i] = RateInput{Pair: p, Rate: r.fxRates[p]}
	}
	out, err := NewRates(entries, withSettlementPtr(r.settlement), WithBase(r.base), WithADOrder(r.adOrder))
	if err != nil {
		// Rebuilding from already-validated state cannot fail.
		panic(fmt.Sprintf("fx: Rates.Copy: %v", err))
	}
	return out
}

type ratesJSON struct {
	FxRates    json.RawMessage `json:"fx_rates"`
	Settlement *string         `json:"settlement"`
	Base       string          `json:"base"`
}

// ToJSON persists {fx_rates, settlement, base}, preserving
// pair insertion order explicitly (encoding/json sorts map keys
// alphabetically on marshal, which would otherwise silently reorder the
// currency index on a round trip).
func (r *Rates) ToJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"fx_rates":{`)
	for i, p := range r.pairs {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, _ := json.Marshal(p)
		buf.Write(key)
		buf.WriteByte(':')
		val, _ := json.Marshal(r.fxRates[p].Value())
		buf.Write(val)
	}
	buf.WriteString(`},"settlement":`)
	if r.settlement != nil {
		s, _ := json.Marshal(r.settlement.Format("2006-01-02"))
		buf.Write(s)
	} else {
		buf.WriteString("null")
	}
	buf.WriteString(`,"base":`)
	b, _ := json.Marshal(r.base)
	buf.Write(b)
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// RatesFromJSON reconstructs a Rates from the format written by ToJSON.
func RatesFromJSON(data []byte) (*Rates, error) {
	const op = "fx.RatesFromJSON"
	var raw ratesJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, newError(op, ErrSpecification, "invalid json: %w", err)
	}
	entries, err := parseOrderedFloatPairs(raw.FxRates)
	if err != nil {
		return nil, newError(op, ErrSpecification, "invalid fx_rates: %w", err)
	}
	opts := []Option{}
	if raw.Base != "" {
		opts = append(opts, WithBase(raw.Base))
	}
	if raw.Settlement != nil {
		t, err := time.Parse("2006-01-02", *raw.Settlement)
		if err != nil {
			return nil, newError(op, ErrSpecification, "invalid settlement: %w", err)
		}
		opts = append(opts, WithSettlement(t))
	}
	return NewRates(entries, opts...)
}

// parseOrderedFloatPairs walks a JSON object of string->number using a
// token stream rather than unmarshaling to a map, because Go's map
// decoding (like its map encoding) does not preserve key order and the
// currency index depends on it.
func parseOrderedFloatPairs(raw json.RawMessage) ([]RateInput, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("expected json object")
	}
	var out []RateInput
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("expected string key")
		}
		valTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		val, ok := valTok.(float64)
		if !ok {
			return nil, fmt.Errorf("expected numeric value for %q", key)
		}
		out = append(out, RateInput{Pair: key, Rate: val})
	}
	return out, nil
}

func stringSlicesEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func sameSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[string]int, len(b))
	for _, v := range b {
		set[v]++
	}
	for _, v := range a {
		set[v]--
		if set[v] < 0 {
			return false
		}
	}
	return true
}

func timePtrEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
