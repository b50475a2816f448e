package fx_test

import (
	"math"
	"testing"
	"time"

	"github.com/meenmo/fxcore/calendar"
	"github.com/meenmo/fxcore/dual"
	"github.com/meenmo/fxcore/fx"
)

func almostEqual(t *testing.T, got, want, tol float64, msg string) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Fatalf("%s: got %v, want %v", msg, got, want)
	}
}

func TestNewRatesTriangulatesCrossRate(t *testing.T) {
	t.Parallel()

	rates, err := fx.NewRates([]fx.RateInput{
		{Pair: "eurusd", Rate: 1.10},
		{Pair: "gbpusd", Rate: 1.25},
	})
	if err != nil {
		t.Fatalf("NewRates: %v", err)
	}

	eurgbp, err := rates.Rate("eurgbp")
	if err != nil {
		t.Fatalf("Rate(eurgbp): %v", err)
	}
	almostEqual(t, eurgbp.Value(), 1.10/1.25, 1e-12, "eurgbp cross rate")

	gradEUR := eurgbp.GradByName("fx_eurusd")
	if gradEUR == 0 {
		t.Fatalf("expected eurgbp to carry a nonzero sensitivity to fx_eurusd")
	}
}

func TestNewRatesRejectsOverAndUnderSpecification(t *testing.T) {
	t.Parallel()

	_, err := fx.NewRates([]fx.RateInput{{Pair: "eurusd", Rate: 1.1}, {Pair: "gbpusd", Rate: 1.25}, {Pair: "eurgbp", Rate: 0.88}})
	if err == nil {
		t.Fatalf("expected an overspecification error")
	}

	_, err = fx.NewRates([]fx.RateInput{{Pair: "eurusd", Rate: 1.1}, {Pair: "gbpusd", Rate: 1.25}, {Pair: "usdjpy", Rate: 100}, {Pair: "gbpjpy", Rate: 125}})
	if err == nil {
		t.Fatalf("expected an overspecification error for four pairs over four currencies")
	}

	_, err = fx.NewRates([]fx.RateInput{})
	if err == nil {
		t.Fatalf("expected an underspecification error for an empty pair list")
	}
}

func TestNewRatesDefaultBasePrefersConfiguredDefault(t *testing.T) {
	t.Parallel()

	rates, err := fx.NewRates([]fx.RateInput{{Pair: "eurusd", Rate: 1.1}})
	if err != nil {
		t.Fatalf("NewRates: %v", err)
	}
	if rates.Base() != "usd" {
		t.Fatalf("Base() = %q, want usd", rates.Base())
	}
}

func TestWithSpotSettlementAdvancesByGoodBusinessDays(t *testing.T) {
	t.Parallel()

	// Thursday; T+2 business days lands on the following Monday, skipping
	// the intervening weekend.
	trade := time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC)
	want := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)

	rates, err := fx.NewRates(
		[]fx.RateInput{{Pair: "eurusd", Rate: 1.1}},
		fx.WithSpotSettlement(trade, calendar.TARGET, 2),
	)
	if err != nil {
		t.Fatalf("NewRates: %v", err)
	}
	got := rates.Settlement()
	if got == nil || !got.Equal(want) {
		t.Fatalf("Settlement() = %v, want %v", got, want)
	}
}

func TestPositionsRoundTripsThroughConvertPositions(t *testing.T) {
	t.Parallel()

	rates, err := fx.NewRates([]fx.RateInput{{Pair: "eurusd", Rate: 1.10}})
	if err != nil {
		t.Fatalf("NewRates: %v", err)
	}

	rate, err := rates.Rate("eurusd")
	if err != nil {
		t.Fatalf("Rate: %v", err)
	}
	value := dual.NewConstant(100).Mul(rate) // 100 EUR converted to USD, carries sensitivity to fx_eurusd

	positions, err := rates.Positions(value, "usd")
	if err != nil {
		t.Fatalf("Positions: %v", err)
	}
	roundTrip, err := rates.ConvertPositions(positions, "usd")
	if err != nil {
		t.Fatalf("ConvertPositions: %v", err)
	}
	almostEqual(t, roundTrip.Value(), value.Value(), 1e-9, "Positions/ConvertPositions round trip")
}

func TestUpdateAllowsPartialPairSubset(t *testing.T) {
	t.Parallel()

	rates, err := fx.NewRates([]fx.RateInput{{Pair: "eurusd", Rate: 1.10}, {Pair: "gbpusd", Rate: 1.25}})
	if err != nil {
		t.Fatalf("NewRates: %v", err)
	}
	if err := rates.Update([]fx.RateInput{{Pair: "eurusd", Rate: 1.12}}); err != nil {
		t.Fatalf("Update with a strict pair subset should be allowed, got: %v", err)
	}
	rate, err := rates.Rate("eurusd")
	if err != nil {
		t.Fatalf("Rate: %v", err)
	}
	almostEqual(t, rate.Value(), 1.12, 1e-12, "updated eurusd rate")
}

func TestUpdateRejectsUnknownPair(t *testing.T) {
	t.Parallel()

	rates, err := fx.NewRates([]fx.RateInput{{Pair: "eurusd", Rate: 1.10}})
	if err != nil {
		t.Fatalf("NewRates: %v", err)
	}
	if err := rates.Update([]fx.RateInput{{Pair: "gbpusd", Rate: 1.25}}); err == nil {
		t.Fatalf("expected Update to reject a pair outside the instance's pair set")
	}
}

func TestToJSONFromJSONRoundTrip(t *testing.T) {
	t.Parallel()

	settle := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	rates, err := fx.NewRates([]fx.RateInput{
		{Pair: "eurusd", Rate: 1.10},
		{Pair: "gbpusd", Rate: 1.25},
	}, fx.WithSettlement(settle), fx.WithBase("usd"))
	if err != nil {
		t.Fatalf("NewRates: %v", err)
	}

	data, err := rates.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	restored, err := fx.RatesFromJSON(data)
	if err != nil {
		t.Fatalf("RatesFromJSON: %v", err)
	}
	if !rates.Equal(restored) {
		t.Fatalf("round tripped Rates is not Equal to the original")
	}
}

func TestCopyPreservesGradientIdentity(t *testing.T) {
	t.Parallel()

	rates, err := fx.NewRates([]fx.RateInput{{Pair: "eurusd", Rate: 1.10}})
	if err != nil {
		t.Fatalf("NewRates: %v", err)
	}
	dup := rates.Copy()
	if !rates.Equal(dup) {
		t.Fatalf("Copy() is not Equal to the original")
	}
	rate, _ := dup.Rate("eurusd")
	if rate.GradByName("fx_eurusd") != 1 {
		t.Fatalf("Copy lost the fx_eurusd gradient identity")
	}
}
