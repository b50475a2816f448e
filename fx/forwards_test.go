package fx_test

import (
	"math"
	"testing"
	"time"

	"github.com/meenmo/fxcore/dfcurve"
	"github.com/meenmo/fxcore/dual"
	"github.com/meenmo/fxcore/fx"
)

// buildTestCurve is a flat discount curve over [settle, far] with DF(settle)=1
// and DF(far)=atFar.
func buildTestCurve(t *testing.T, settle, far time.Time, atFar float64) fx.Curve {
	t.Helper()
	c, err := dfcurve.FromDFs(
		[]time.Time{settle, far},
		map[time.Time]dual.Number{settle: dual.NewConstant(1.0), far: dual.NewConstant(atFar)},
		"ACT/365F", "MF", "",
	)
	if err != nil {
		t.Fatalf("dfcurve.FromDFs: %v", err)
	}
	return c
}

func newThreeCurrencyForwards(t *testing.T, settle, far time.Time, wEurUsdFar, wGbpUsdFar float64) *fx.Forwards {
	t.Helper()
	rates, err := fx.NewRates([]fx.RateInput{
		{Pair: "eurusd", Rate: 1.10},
		{Pair: "gbpusd", Rate: 1.25},
	}, fx.WithSettlement(settle))
	if err != nil {
		t.Fatalf("NewRates: %v", err)
	}

	curves := map[string]fx.Curve{
		"usdusd": buildTestCurve(t, settle, far, 0.90),
		"eureur": buildTestCurve(t, settle, far, 0.93),
		"gbpgbp": buildTestCurve(t, settle, far, 0.91),
		"eurusd": buildTestCurve(t, settle, far, wEurUsdFar),
		"gbpusd": buildTestCurve(t, settle, far, wGbpUsdFar),
	}

	fwd, err := fx.NewForwards(rates, curves, "")
	if err != nil {
		t.Fatalf("NewForwards: %v", err)
	}
	return fwd
}

func TestForwardsImmediateRateMatchesSpot(t *testing.T) {
	t.Parallel()

	settle := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	far := settle.AddDate(1, 0, 0)
	fwd := newThreeCurrencyForwards(t, settle, far, 0.97, 0.95)

	rate, err := fwd.Rate("eurgbp", nil)
	if err != nil {
		t.Fatalf("Rate: %v", err)
	}
	want := 1.10 / 1.25
	if math.Abs(rate.Value()-want) > 1e-9 {
		t.Fatalf("immediate eurgbp = %v, want %v", rate.Value(), want)
	}
}

func TestForwardsRateReflectsCrossCurrencyBasisNotLocalHub(t *testing.T) {
	t.Parallel()

	settle := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	far := settle.AddDate(1, 0, 0)
	wEurUsd, wGbpUsd := 0.97, 0.95

	fwd := newThreeCurrencyForwards(t, settle, far, wEurUsd, wGbpUsd)
	rate, err := fwd.Rate("eurgbp", &far)
	if err != nil {
		t.Fatalf("Rate: %v", err)
	}

	// eur and gbp both route through usd as the collateral hub; usd's own
	// local curve cancels out of the chain, leaving only the relative
	// cross-currency basis between eurusd and gbpusd.
	want := (1.10 / 1.25) * (wEurUsd / wGbpUsd)
	if math.Abs(rate.Value()-want) > 1e-9 {
		t.Fatalf("forward eurgbp = %v, want %v", rate.Value(), want)
	}
}

func TestForwardsRateRejectsSettlementBeforeImmediate(t *testing.T) {
	t.Parallel()

	settle := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	far := settle.AddDate(1, 0, 0)
	fwd := newThreeCurrencyForwards(t, settle, far, 0.97, 0.95)

	early := settle.AddDate(0, 0, -1)
	if _, err := fwd.Rate("eurgbp", &early); err == nil {
		t.Fatalf("expected an error for a settlement before the immediate date")
	}
}

func TestForwardsSwapPointsAreInPips(t *testing.T) {
	t.Parallel()

	settle := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	far := settle.AddDate(1, 0, 0)
	fwd := newThreeCurrencyForwards(t, settle, far, 0.97, 0.95)

	swap, err := fwd.Swap("eurusd", settle, far)
	if err != nil {
		t.Fatalf("Swap: %v", err)
	}
	spot, _ := fwd.Rate("eurusd", &settle)
	forward, _ := fwd.Rate("eurusd", &far)
	want := (forward.Value() - spot.Value()) * 10000
	if math.Abs(swap.Value()-want) > 1e-9 {
		t.Fatalf("Swap = %v, want %v", swap.Value(), want)
	}
}

func TestForwardsConvertAtSettlementIsSpotConversion(t *testing.T) {
	t.Parallel()

	settle := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	far := settle.AddDate(1, 0, 0)
	fwd := newThreeCurrencyForwards(t, settle, far, 0.97, 0.95)

	amount := dual.NewConstant(1000.0)
	converted, err := fwd.Convert(amount, "eur", "usd", nil, nil, "", fx.OnErrorRaise)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	want := 1000.0 * 1.10
	if math.Abs(converted.Value()-want) > 1e-9 {
		t.Fatalf("Convert(1000 eur->usd) = %v, want %v", converted.Value(), want)
	}
}

func TestForwardsCurveReturnsProxyForUnlistedPair(t *testing.T) {
	t.Parallel()

	settle := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	far := settle.AddDate(1, 0, 0)
	fwd := newThreeCurrencyForwards(t, settle, far, 0.97, 0.95)

	crv, err := fwd.Curve("eur", "gbp")
	if err != nil {
		t.Fatalf("Curve(eur, gbp): %v", err)
	}
	if _, err := crv.ToJSON(); err == nil {
		t.Fatalf("expected ProxyCurve.ToJSON to be unsupported")
	}
	df, err := crv.At(far)
	if err != nil {
		t.Fatalf("ProxyCurve.At: %v", err)
	}
	if df.Value() <= 0 {
		t.Fatalf("expected a positive discount factor, got %v", df.Value())
	}
}
