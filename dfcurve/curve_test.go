package dfcurve_test

import (
	"math"
	"testing"
	"time"

	"github.com/meenmo/fxcore/calendar"
	"github.com/meenmo/fxcore/dfcurve"
	"github.com/meenmo/fxcore/dual"
)

func TestAtInterpolatesLogLinearlyBetweenNodes(t *testing.T) {
	t.Parallel()

	d0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	d1 := d0.AddDate(1, 0, 0)
	d2 := d0.AddDate(2, 0, 0)

	c, err := dfcurve.FromDFs(
		[]time.Time{d0, d1, d2},
		map[time.Time]dual.Number{
			d0: dual.NewConstant(1.0),
			d1: dual.NewConstant(0.95),
			d2: dual.NewConstant(0.90),
		},
		"ACT/365F", "MF", "",
	)
	if err != nil {
		t.Fatalf("FromDFs: %v", err)
	}

	mid := d0.AddDate(0, 6, 0)
	df, err := c.At(mid)
	if err != nil {
		t.Fatalf("At: %v", err)
	}
	if df.Value() >= 1.0 || df.Value() <= 0.95 {
		t.Fatalf("expected a DF strictly between the bracketing nodes, got %v", df.Value())
	}

	exact, err := c.At(d1)
	if err != nil {
		t.Fatalf("At(d1): %v", err)
	}
	if math.Abs(exact.Value()-0.95) > 1e-12 {
		t.Fatalf("At an exact node should return it unmodified, got %v", exact.Value())
	}
}

func TestAtFlatExtrapolatesPastNodeRange(t *testing.T) {
	t.Parallel()

	d0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	d1 := d0.AddDate(1, 0, 0)
	c, err := dfcurve.FromDFs(
		[]time.Time{d0, d1},
		map[time.Time]dual.Number{d0: dual.NewConstant(1.0), d1: dual.NewConstant(0.95)},
		"ACT/365F", "MF", "",
	)
	if err != nil {
		t.Fatalf("FromDFs: %v", err)
	}

	before, err := c.At(d0.AddDate(0, 0, -10))
	if err != nil {
		t.Fatalf("At before range: %v", err)
	}
	if before.Value() != 1.0 {
		t.Fatalf("expected flat extrapolation to the first node, got %v", before.Value())
	}

	after, err := c.At(d1.AddDate(0, 0, 10))
	if err != nil {
		t.Fatalf("At after range: %v", err)
	}
	if after.Value() != 0.95 {
		t.Fatalf("expected flat extrapolation to the last node, got %v", after.Value())
	}
}

func TestToJSONFromJSONRoundTrip(t *testing.T) {
	t.Parallel()

	d0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	d1 := d0.AddDate(1, 0, 0)
	c, err := dfcurve.FromDFs(
		[]time.Time{d0, d1},
		map[time.Time]dual.Number{d0: dual.NewConstant(1.0), d1: dual.NewConstant(0.95)},
		"ACT/365F", "MF", "usd",
	)
	if err != nil {
		t.Fatalf("FromDFs: %v", err)
	}

	data, err := c.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	restored, err := dfcurve.FromJSON(data)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	if restored.Calendar() != "usd" || restored.Convention() != "ACT/365F" {
		t.Fatalf("round trip lost conventions: %+v", restored)
	}
	got, _ := restored.At(d1)
	if math.Abs(got.Value()-0.95) > 1e-12 {
		t.Fatalf("round tripped DF at d1 = %v, want 0.95", got.Value())
	}
}

func TestIsGoodBusinessDayRejectsWeekends(t *testing.T) {
	t.Parallel()

	d0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) // Monday
	d1 := d0.AddDate(0, 0, 6)                         // the following Sunday
	c, err := dfcurve.FromDFs(
		[]time.Time{d0, d1},
		map[time.Time]dual.Number{d0: dual.NewConstant(1.0), d1: dual.NewConstant(0.99)},
		"ACT/365F", "MF", calendar.TARGET,
	)
	if err != nil {
		t.Fatalf("FromDFs: %v", err)
	}
	if !c.IsGoodBusinessDay(d0) {
		t.Fatalf("expected %s to be a good business day", d0)
	}
	if c.IsGoodBusinessDay(d1) {
		t.Fatalf("expected %s (a Sunday) to not be a good business day", d1)
	}
}
