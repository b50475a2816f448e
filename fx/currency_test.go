package fx

import "testing"

func TestCurrencyIndexFirstAppearanceOrder(t *testing.T) {
	t.Parallel()

	ci := buildCurrencyIndex([]string{"eurusd", "gbpusd", "usdjpy"})
	want := []string{"eur", "usd", "gbp", "jpy"}
	if len(ci.order) != len(want) {
		t.Fatalf("got %v currencies, want %v", ci.order, want)
	}
	for i, ccy := range want {
		if ci.order[i] != ccy {
			t.Fatalf("order[%d] = %q, want %q", i, ci.order[i], ccy)
		}
	}
}

func TestCurrencyIndexDeduplicates(t *testing.T) {
	t.Parallel()

	ci := buildCurrencyIndex([]string{"eurusd", "eurgbp"})
	if ci.len() != 3 {
		t.Fatalf("got %d currencies, want 3", ci.len())
	}
	if idx, ok := ci.idx("eur"); !ok || idx != 0 {
		t.Fatalf("eur index = %d, %v, want 0, true", idx, ok)
	}
}

func TestSplitPairRejectsWrongLength(t *testing.T) {
	t.Parallel()

	if _, _, ok := splitPair("eurusdx"); ok {
		t.Fatalf("expected splitPair to reject a 7-character pair")
	}
	dom, for_, ok := splitPair("eurusd")
	if !ok || dom != "eur" || for_ != "usd" {
		t.Fatalf("splitPair(eurusd) = %q, %q, %v", dom, for_, ok)
	}
}
