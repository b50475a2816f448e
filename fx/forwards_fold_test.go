package fx_test

import (
	"testing"
	"time"

	"github.com/meenmo/fxcore/fx"
)

// TestForwardsFoldsMultipleSettlementDates exercises the left-fold over an
// ordered []*fx.Rates quoted at different settlement dates: a eur/usd spot
// and a jpy/usd forward, sharing only usd, must combine into one
// internally consistent three-currency system.
func TestForwardsFoldsMultipleSettlementDates(t *testing.T) {
	t.Parallel()

	s1 := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	far := s1.AddDate(0, 6, 0)

	eurusd, err := fx.NewRates([]fx.RateInput{{Pair: "eurusd", Rate: 1.10}}, fx.WithSettlement(s1))
	if err != nil {
		t.Fatalf("NewRates(eurusd): %v", err)
	}
	jpyusd, err := fx.NewRates([]fx.RateInput{{Pair: "jpyusd", Rate: 0.0070}}, fx.WithSettlement(far))
	if err != nil {
		t.Fatalf("NewRates(jpyusd): %v", err)
	}

	curves := map[string]fx.Curve{
		"usdusd": buildTestCurve(t, s1, far, 0.97),
		"eureur": buildTestCurve(t, s1, far, 0.96),
		"jpyjpy": buildTestCurve(t, s1, far, 0.995),
		"eurusd": buildTestCurve(t, s1, far, 0.98),
		"jpyusd": buildTestCurve(t, s1, far, 0.99),
	}

	fwd, err := fx.NewForwards([]*fx.Rates{eurusd, jpyusd}, curves, "")
	if err != nil {
		t.Fatalf("NewForwards (folded): %v", err)
	}

	gotCcys := map[string]bool{}
	for _, c := range fwd.Currencies() {
		gotCcys[c] = true
	}
	for _, want := range []string{"eur", "usd", "jpy"} {
		if !gotCcys[want] {
			t.Fatalf("folded Forwards is missing currency %q, got %v", want, fwd.Currencies())
		}
	}

	immediateRate, err := fwd.Rate("jpyeur", &s1)
	if err != nil {
		t.Fatalf("Rate(jpyeur) at immediate date: %v", err)
	}
	if immediateRate.Value() <= 0 {
		t.Fatalf("expected a positive jpyeur immediate rate, got %v", immediateRate.Value())
	}

	forwardRate, err := fwd.Rate("jpyeur", &far)
	if err != nil {
		t.Fatalf("Rate(jpyeur) at far date: %v", err)
	}
	if forwardRate.Value() <= 0 {
		t.Fatalf("expected a positive jpyeur forward rate, got %v", forwardRate.Value())
	}
}
