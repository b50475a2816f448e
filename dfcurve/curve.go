// Package dfcurve is a minimal discount-factor curve, log-linear between
// explicitly supplied dual-valued nodes. It satisfies the fx.Curve
// interface consumed by Forwards and ProxyCurve: interpolation is its
// only job, bootstrap and calibration are out of scope. The same
// forward-rate formula and flat extrapolation past the last pillar as a
// float64 par-curve bootstrapper, generalized to dual.Number so a curve's
// own sensitivities to its input nodes survive FX conversion.
package dfcurve

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/meenmo/fxcore/calendar"
	"github.com/meenmo/fxcore/dual"
	"github.com/meenmo/fxcore/fx"
	"github.com/meenmo/fxcore/utils"
)

// Curve is a log-linear discount-factor curve over a fixed set of dual
// valued nodes.
type Curve struct {
	dates      []time.Time
	dfs        map[time.Time]dual.Number
	kind       fx.CurveKind
	convention string
	modifier   string
	calendarID calendar.CalendarID
	adOrder    int
}

// FromDFs builds a Curve from an explicit set of discount factor nodes.
// dates must be non-empty; dfs[dates[0]] is conventionally 1.0. cal governs
// IsGoodBusinessDay, the same holiday/weekend calendar a swap pricer would
// use to adjust payment dates for this currency.
func FromDFs(dates []time.Time, dfs map[time.Time]dual.Number, convention, modifier string, cal calendar.CalendarID) (*Curve, error) {
	if len(dates) == 0 {
		return nil, fmt.Errorf("dfcurve.FromDFs: at least one node date is required")
	}
	sorted := append([]time.Time(nil), dates...)
	utils.SortDates(sorted)
	nodes := make(map[time.Time]dual.Number, len(dfs))
	order := 1
	for _, d := range sorted {
		v, ok := dfs[d]
		if !ok {
			return nil, fmt.Errorf("dfcurve.FromDFs: missing discount factor for node %s", d.Format("2006-01-02"))
		}
		nodes[d] = v
		order = v.Order()
	}
	return &Curve{
		dates:      sorted,
		dfs:        nodes,
		kind:       fx.KindDF,
		convention: convention,
		modifier:   modifier,
		calendarID: cal,
		adOrder:    order,
	}, nil
}

// At returns the discount factor on date, log-linearly interpolated
// between bracketing nodes, or flat-extrapolated past the first/last
// node, matching a standard log-linear DF interpolation.
func (c *Curve) At(date time.Time) (dual.Number, error) {
	if df, ok := c.dfs[date]; ok {
		return df, nil
	}
	if len(c.dates) == 1 {
		return c.dfs[c.dates[0]], nil
	}
	if !date.After(c.dates[0]) {
		return c.dfs[c.dates[0]], nil
	}
	if !date.Before(c.dates[len(c.dates)-1]) {
		return c.dfs[c.dates[len(c.dates)-1]], nil
	}

	d1, d2 := utils.AdjacentDates(date, c.dates)
	df1, df2 := c.dfs[d1], c.dfs[d2]
	t1 := utils.YearFraction(c.dates[0], d1, c.convention)
	t2 := utils.YearFraction(c.dates[0], d2, c.convention)
	tTarget := utils.YearFraction(c.dates[0], date, c.convention)
	if t2 == t1 {
		return df1, nil
	}
	// forwardRate = ln(df1/df2) / (t2-t1); result = df1 * exp(-forwardRate*(tTarget-t1))
	fwd := dualLog(df1.Div(df2)).DivFloat(t2 - t1)
	exponent := fwd.MulFloat(-(tTarget - t1))
	return df1.Mul(dualExp(exponent)), nil
}

// NodeDates returns the curve's node dates in ascending order.
func (c *Curve) NodeDates() []time.Time { return append([]time.Time(nil), c.dates...) }

func (c *Curve) Kind() fx.CurveKind { return c.kind }
func (c *Curve) Convention() string { return c.convention }
func (c *Curve) Modifier() string   { return c.modifier }
func (c *Curve) Calendar() string   { return string(c.calendarID) }

// IsGoodBusinessDay reports whether date is a settleable business day under
// this curve's calendar (weekends plus any currency-specific holidays).
// Forwards does not call it; it is exposed so a caller can validate a
// proposed settlement date against the specific curve it will be
// discounted with.
func (c *Curve) IsGoodBusinessDay(date time.Time) bool {
	return calendar.IsBusinessDay(c.calendarID, date)
}

// SetADOrder cascades a new AD order to every node.
func (c *Curve) SetADOrder(order int) error {
	if order == c.adOrder {
		return nil
	}
	for d, v := range c.dfs {
		c.dfs[d] = dual.SetOrder(v, order)
	}
	c.adOrder = order
	return nil
}

type curveJSON struct {
	Dates      []string `json:"dates"`
	Dfs        []float64 `json:"dfs"`
	Convention string   `json:"convention"`
	Modifier   string   `json:"modifier"`
	Calendar   string   `json:"calendar"`
}

// ToJSON persists the curve's node dates, discount factors (as plain
// float64, like Rates.ToJSON; a curve JSON document is a snapshot, not a
// sensitivity carrier), and conventions. Dates are written in sorted
// node order via a plain slice rather than a date-keyed map, sidestepping
// the same map-ordering pitfall Rates.ToJSON works around.
func (c *Curve) ToJSON() ([]byte, error) {
	out := curveJSON{
		Dates:      make([]string, len(c.dates)),
		Dfs:        make([]float64, len(c.dates)),
		Convention: c.convention,
		Modifier:   c.modifier,
		Calendar:   string(c.calendarID),
	}
	for i, d := range c.dates {
		out.Dates[i] = d.Format("2006-01-02")
		out.Dfs[i] = c.dfs[d].Value()
	}
	return json.Marshal(out)
}

// FromJSON reconstructs a Curve from the format written by ToJSON, at AD
// order 1 (each node becomes a fresh AD variable named "df_<date>").
func FromJSON(data []byte) (*Curve, error) {
	var raw curveJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("dfcurve.FromJSON: %w", err)
	}
	if len(raw.Dates) != len(raw.Dfs) {
		return nil, fmt.Errorf("dfcurve.FromJSON: dates/dfs length mismatch")
	}
	dates := make([]time.Time, len(raw.Dates))
	dfs := make(map[time.Time]dual.Number, len(raw.Dates))
	for i, s := range raw.Dates {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return nil, fmt.Errorf("dfcurve.FromJSON: invalid date %q: %w", s, err)
		}
		dates[i] = t
		dfs[t] = dual.NewVariable(raw.Dfs[i], "df_"+s, 1)
	}
	return FromDFs(dates, dfs, raw.Convention, raw.Modifier, calendar.CalendarID(raw.Calendar))
}

// dualLog and dualExp are small dual-number wrappers for the two
// transcendental functions log-linear interpolation needs; neither
// dual.Number's method set nor any corpus library exposes them directly
// (see DESIGN.md), so they're built here on dual.UnaryOp, the same
// general single-argument chain rule dual.Number.Pow is built on.
func dualLog(x dual.Number) dual.Number {
	return dual.UnaryOp(x, math.Log, func(v float64) float64 { return 1 / v }, func(v float64) float64 { return -1 / (v * v) })
}

func dualExp(x dual.Number) dual.Number {
	return dual.UnaryOp(x, math.Exp, math.Exp, math.Exp)
}
